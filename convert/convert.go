// Package convert turns opaque patch payloads into values of a statically
// declared Go type before they are stored in an object graph.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"github.com/huandu/go-clone"
)

// Converter coerces value into a value of type target.
type Converter interface {
	Convert(value any, target reflect.Type) (reflect.Value, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(value any, target reflect.Type) (reflect.Value, error)

func (f ConverterFunc) Convert(value any, target reflect.Type) (reflect.Value, error) {
	return f(value, target)
}

var (
	// ErrOverflow is returned when a number does not fit its declared type.
	ErrOverflow = errors.New("number overflows the target type")
	// ErrFractional is returned when a number with a fractional part is
	// stored into an integer type.
	ErrFractional = errors.New("number has a fractional part")
)

// Error reports a value that could not be converted to its declared type.
type Error struct {
	Value  any
	Target reflect.Type
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot convert %T to %v: %v", e.Value, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Structural is the default Converter. Values already assignable to the
// target are deep cloned so the destination graph never shares memory with
// the payload. Anything else (generic maps, []any, JSON numbers, ...) is
// decoded structurally with mapstructure, honoring json tags.
type Structural struct {
	// WeaklyTyped enables mapstructure's weak conversions (e.g. "1" to 1).
	WeaklyTyped bool
}

// Default is the converter used when none is configured.
var Default Converter = Structural{}

func (s Structural) Convert(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}

	if rv, ok := value.(reflect.Value); ok {
		if !rv.IsValid() {
			return reflect.Zero(target), nil
		}
		value = rv.Interface()
	}

	vt := reflect.TypeOf(value)
	if vt.AssignableTo(target) {
		// Generic targets get plain float64 numbers instead of JSON literals.
		if n := floatNumbers(value); reflect.TypeOf(n).AssignableTo(target) {
			value = n
		}
		return reflect.ValueOf(clone.Clone(value)).Convert(target), nil
	}

	out := reflect.New(target)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: s.WeaklyTyped,
		Result:           out.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
		),
	})
	if err != nil {
		return reflect.Value{}, &Error{Value: value, Target: target, Err: err}
	}

	if err := decoder.Decode(value); err != nil {
		return reflect.Value{}, &Error{Value: value, Target: target, Err: err}
	}

	return out.Elem(), nil
}

// number is implemented by encoding/json.Number and by the copies of it that
// JSON libraries vendor.
type number interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

func asNumber(value any) (number, bool) {
	n, ok := value.(number)
	if !ok || reflect.TypeOf(value).Kind() != reflect.String {
		return nil, false
	}
	return n, true
}

// JSONNumbers returns value with every JSON number literal, at any depth of
// generic maps and slices, retyped as encoding/json.Number.
func JSONNumbers(value any) any {
	return mapNumbers(value, func(n number) any {
		return json.Number(n.String())
	})
}

func floatNumbers(value any) any {
	return mapNumbers(value, func(n number) any {
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n
	})
}

func mapNumbers(value any, fn func(number) any) any {
	if n, ok := asNumber(value); ok {
		return fn(n)
	}

	switch v := value.(type) {
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = mapNumbers(e, fn)
		}
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = mapNumbers(e, fn)
		}
		return out
	default:
		return value
	}
}

// numberHookFunc parses JSON number literals and checks that numbers fit the
// declared numeric type exactly. Values destined for empty interfaces get
// float64 numbers.
func numberHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() == reflect.Interface {
			if to.NumMethod() == 0 {
				return floatNumbers(data), nil
			}
			return data, nil
		}
		if !isNumeric(to.Kind()) {
			return data, nil
		}

		if n, ok := asNumber(data); ok {
			v, err := parseNumber(n)
			if err != nil {
				return nil, err
			}
			data = v
		}

		rv := reflect.ValueOf(data)
		if !rv.IsValid() || !isNumeric(rv.Kind()) {
			return data, nil
		}
		return fitNumber(rv, to)
	}
}

func parseNumber(n number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u, nil
	}
	return n.Float64()
}

func fitNumber(v reflect.Value, to reflect.Type) (any, error) {
	out := reflect.New(to).Elem()

	switch {
	case isInt(to.Kind()):
		var i int64
		switch {
		case isInt(v.Kind()):
			i = v.Int()
		case isUint(v.Kind()):
			if v.Uint() > math.MaxInt64 {
				return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, v, to)
			}
			i = int64(v.Uint())
		default:
			f := v.Float()
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("%w: %v into %v", ErrFractional, f, to)
			}
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, f, to)
			}
			i = int64(f)
		}
		if out.OverflowInt(i) {
			return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, i, to)
		}
		out.SetInt(i)
	case isUint(to.Kind()):
		var u uint64
		switch {
		case isInt(v.Kind()):
			if v.Int() < 0 {
				return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, v, to)
			}
			u = uint64(v.Int())
		case isUint(v.Kind()):
			u = v.Uint()
		default:
			f := v.Float()
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("%w: %v into %v", ErrFractional, f, to)
			}
			if f < 0 || f >= math.MaxUint64 {
				return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, f, to)
			}
			u = uint64(f)
		}
		if out.OverflowUint(u) {
			return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, u, to)
		}
		out.SetUint(u)
	default:
		var f float64
		switch {
		case isInt(v.Kind()):
			f = float64(v.Int())
		case isUint(v.Kind()):
			f = float64(v.Uint())
		default:
			f = v.Float()
		}
		if out.OverflowFloat(f) {
			return nil, fmt.Errorf("%w: %v into %v", ErrOverflow, f, to)
		}
		out.SetFloat(f)
	}

	return out.Interface(), nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}
