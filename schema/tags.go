package schema

import (
	"reflect"
	"strings"
)

// StructTag holds the options parsed from a `patch` struct tag.
type StructTag struct {
	Ignore   bool
	ReadOnly bool
}

// ParseTag parses the `patch` tag of field. Recognized options are "-" (the
// field is not a property) and "readonly" (the field can be read through a
// path but never mutated).
func ParseTag(field reflect.StructField) StructTag {
	tag := field.Tag.Get("patch")
	if tag == "" {
		return StructTag{}
	}

	st := StructTag{}
	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "-":
			st.Ignore = true
		case "readonly":
			st.ReadOnly = true
		}
	}

	return st
}

func jsonName(field reflect.StructField) string {
	name := field.Tag.Get("json")
	if name == "" {
		return ""
	}
	name = strings.Split(name, ",")[0]
	if name == "-" {
		return ""
	}
	return name
}
