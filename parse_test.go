package typedpatch

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/brunoga/typedpatch/schema"
)

type SimpleEntity struct {
	Foo string
	Bar int
	Baz string
}

type ListEntity struct {
	Foo []string
}

type ArrayEntity struct {
	Foo [2]string
}

type ComplexEntity struct {
	Foo    *ArrayEntity
	Bar    *SimpleEntity
	Baz    []*SimpleEntity
	Qux    []SimpleEntity
	Matrix [][]int
	Labels map[string]string
	Owner  string `json:"owner" patch:"readonly"`
	Notes  string `patch:"-"`
}

func TestParsePath_SimpleProperty(t *testing.T) {
	p, err := ParsePath("Bar", reflect.TypeOf(SimpleEntity{}))
	if err != nil {
		t.Fatalf("ParsePath failed: %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 component, got %d", p.Len())
	}
	c, ok := p.At(0).(PropertyComponent)
	if !ok {
		t.Fatalf("expected PropertyComponent, got %T", p.At(0))
	}
	if c.Name != "Bar" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.Descriptor().Type() != reflect.TypeOf(0) {
		t.Errorf("Type = %v", c.Descriptor().Type())
	}
	if c.Descriptor().IsCollection() {
		t.Errorf("int should not be a collection")
	}
	if c.Field().Name != "Bar" {
		t.Errorf("Field().Name = %q", c.Field().Name)
	}
}

func TestParsePath_Separators(t *testing.T) {
	for _, path := range []string{"Foo", "/Foo", "/Foo/", "Foo/", "//Foo//"} {
		p, err := Parse[SimpleEntity](path)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", path, err)
			continue
		}
		if p.Len() != 1 || p.At(0).Segment() != "Foo" {
			t.Errorf("Parse(%q) = %v", path, p)
		}
	}
}

func TestParsePath_CollectionIndex(t *testing.T) {
	p, err := Parse[ListEntity]("/Foo/5")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 components, got %d", p.Len())
	}
	if !p.At(0).Descriptor().IsCollection() {
		t.Errorf("Foo should be a collection")
	}
	idx, ok := p.Last().(IndexComponent)
	if !ok {
		t.Fatalf("expected IndexComponent, got %T", p.Last())
	}
	if idx.Index != 5 || idx.Segment() != "5" {
		t.Errorf("Index = %d, Segment = %q", idx.Index, idx.Segment())
	}
	if idx.Descriptor().Type() != reflect.TypeOf("") {
		t.Errorf("element type = %v", idx.Descriptor().Type())
	}
	if idx.Fixed {
		t.Errorf("slice index should not be fixed")
	}
}

func TestParsePath_Nested(t *testing.T) {
	tests := []struct {
		path     string
		segments []string
		last     reflect.Type
		fixed    bool
	}{
		{"/Baz/0/Foo", []string{"Baz", "0", "Foo"}, reflect.TypeOf(""), false},
		{"/Foo/Foo/1", []string{"Foo", "Foo", "1"}, reflect.TypeOf(""), true},
		{"/Matrix/0/1", []string{"Matrix", "0", "1"}, reflect.TypeOf(0), false},
		{"/Bar/Baz", []string{"Bar", "Baz"}, reflect.TypeOf(""), false},
		{"/owner", []string{"owner"}, reflect.TypeOf(""), false},
	}

	for _, tt := range tests {
		p, err := Parse[ComplexEntity](tt.path)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.path, err)
			continue
		}
		var segments []string
		for _, c := range p.Components() {
			segments = append(segments, c.Segment())
		}
		if !reflect.DeepEqual(segments, tt.segments) {
			t.Errorf("Parse(%q) segments = %v, want %v", tt.path, segments, tt.segments)
		}
		if p.Last().Descriptor().Type() != tt.last {
			t.Errorf("Parse(%q) last type = %v, want %v", tt.path, p.Last().Descriptor().Type(), tt.last)
		}
		if idx, ok := p.Last().(IndexComponent); ok && idx.Fixed != tt.fixed {
			t.Errorf("Parse(%q) fixed = %v, want %v", tt.path, idx.Fixed, tt.fixed)
		}
	}
}

func TestParsePath_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		segment  string
		position int
	}{
		{"empty", "", ErrEmptyPath, "", 0},
		{"blank", "   ", ErrEmptyPath, "", 0},
		{"only separator", "/", ErrEmptySegment, "", 0},
		{"unknown property", "Quux", ErrUnknownProperty, "Quux", 0},
		{"unknown nested", "/Bar/Quux", ErrUnknownProperty, "Quux", 4},
		{"consecutive separators", "Bar//Foo", ErrEmptySegment, "", 4},
		{"blank segment", "/Bar/ /Foo", ErrEmptySegment, " ", 4},
		{"leading index", "/5", ErrLeadingIndex, "5", 0},
		{"index after property", "/Bar/Foo/5", ErrIndexNotAllowed, "5", 8},
		{"index after map", "/Labels/0", ErrIndexNotAllowed, "0", 7},
		{"property after collection", "/Baz/Foo", ErrUnknownProperty, "Foo", 4},
		{"index too deep", "/Matrix/0/1/2", ErrIndexNotAllowed, "2", 11},
		{"overflowing index", "/Baz/99999999999999999999999", ErrInvalidIndex, "99999999999999999999999", 4},
		{"ignored field", "/Notes", ErrUnknownProperty, "Notes", 0},
		{"negative index", "/Baz/-1", ErrUnknownProperty, "-1", 4},
		{"escape sequence", "/Bar/Fo~1o", ErrUnknownProperty, "Fo~1o", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse[ComplexEntity](tt.path)
			if err == nil {
				t.Fatalf("expected error for %q", tt.path)
			}
			var parseErr *PathParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *PathParseError, got %T", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want %v", err, tt.err)
			}
			if parseErr.Segment != tt.segment {
				t.Errorf("Segment = %q, want %q", parseErr.Segment, tt.segment)
			}
			if parseErr.Position != tt.position {
				t.Errorf("Position = %d, want %d", parseErr.Position, tt.position)
			}
		})
	}
}

func TestPathParseError_Message(t *testing.T) {
	_, err := Parse[SimpleEntity]("/Bar/5/")
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	for _, want := range []string{`"Bar/5"`, "position 4", `"5"`, `"Bar"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %s", msg, want)
		}
	}
}

func TestIsPathValid(t *testing.T) {
	simple := reflect.TypeOf(SimpleEntity{})
	tests := []struct {
		typ  reflect.Type
		path string
		want bool
	}{
		{simple, "Foo", true},
		{simple, "Bar", true},
		{simple, "Baz", true},
		{simple, "/Foo/", true},
		{simple, "FooMissing", false},
		{simple, "foo", false},
		{simple, "", false},
		{simple, "/Bar/5", false},
		{reflect.TypeOf(ListEntity{}), "/Foo/5", true},
		{reflect.TypeOf(ArrayEntity{}), "/Foo/5", true},
		{reflect.TypeOf(&ComplexEntity{}), "/Baz/0/Foo", true},
		{reflect.TypeOf(ComplexEntity{}), "/Qux/0/Bar", true},
		{reflect.TypeOf(ComplexEntity{}), "/Qux/0/5", false},
		{nil, "Foo", false},
	}

	for _, tt := range tests {
		if got := IsPathValid(tt.typ, tt.path); got != tt.want {
			t.Errorf("IsPathValid(%v, %q) = %v, want %v", tt.typ, tt.path, got, tt.want)
		}
	}
}

func TestIsPathValid_SeparatorInvariance(t *testing.T) {
	typ := reflect.TypeOf(ComplexEntity{})
	for _, path := range []string{"Foo", "Bar/Foo", "Baz/0", "Missing", "Bar/1", "Matrix/0/0"} {
		want := IsPathValid(typ, path)
		for _, variant := range []string{"/" + path, path + "/", "/" + path + "/"} {
			if got := IsPathValid(typ, variant); got != want {
				t.Errorf("IsPathValid(%q) = %v, IsPathValid(%q) = %v", path, want, variant, got)
			}
		}
	}
}

func TestParsedPath_String(t *testing.T) {
	p, err := Parse[ComplexEntity]("Baz/3/Foo/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.String() != "/Baz/3/Foo" {
		t.Errorf("String() = %q", p.String())
	}

	comps := p.Components()
	comps[0] = nil
	if p.At(0) == nil {
		t.Errorf("Components() should return a copy")
	}
}

func TestParse_RegisteredDescriptor(t *testing.T) {
	e := New()
	reg := e.Registry()
	if reg == nil {
		t.Fatalf("engine should have a registry")
	}

	custom := New(WithRegistry(newRegistryWith(t, reflect.TypeOf(SimpleEntity{}), "Foo")))
	if !custom.IsPathValid(reflect.TypeOf(&SimpleEntity{}), "/Foo") {
		t.Errorf("/Foo should be valid")
	}
	if custom.IsPathValid(reflect.TypeOf(&SimpleEntity{}), "/Bar") {
		t.Errorf("/Bar should be hidden by the registration")
	}
	if !IsPathValid(reflect.TypeOf(&SimpleEntity{}), "/Bar") {
		t.Errorf("the default registry should not be affected")
	}
}

func newRegistryWith(t *testing.T, typ reflect.Type, names ...string) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	if _, err := r.Register(typ, names...); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return r
}
