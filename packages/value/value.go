package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ErrNotObject is returned by object operations on a non-object value.
var ErrNotObject = errors.New("value is not an object")

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
//
// Numbers keep their literal text so that values read from configuration
// are written back to the wire without float rounding.
type Value struct {
	kind Kind
	b    bool
	s    string
	arr  []Value
	obj  map[string]Value
}

func NullValue() Value { return Value{} }

func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a JSON number literal. The literal is not re-validated.
func NumberValue(n json.Number) Value { return Value{kind: Number, s: n.String()} }

func StringValue(s string) Value { return Value{kind: String, s: s} }

func ArrayValue(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: Array, arr: arr}
}

// ObjectValue builds an object from fields. The map is copied.
func ObjectValue(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: Object, obj: obj}
}

// EmptyObject returns an object with no fields.
func EmptyObject() Value {
	return Value{kind: Object, obj: map[string]Value{}}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) IsObject() bool { return v.kind == Object }

// IsEmpty reports whether v is null or an object without fields.
func (v Value) IsEmpty() bool {
	return v.kind == Null || (v.kind == Object && len(v.obj) == 0)
}

// Scalar returns the textual form of a bool, number or string.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.b), true
	case Number, String:
		return v.s, true
	default:
		return "", false
	}
}

func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Items returns a copy of the elements of an array.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	items := make([]Value, len(v.arr))
	copy(items, v.arr)
	return items
}

// Keys returns the field names of an object in sorted order.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	item, ok := v.obj[key]
	return item, ok
}

// Set assigns a field, overwriting any previous value.
func (v *Value) Set(key string, item Value) error {
	if v.kind != Object {
		return fmt.Errorf("set %q: %w (got %s)", key, ErrNotObject, v.kind)
	}
	if v.obj == nil {
		v.obj = make(map[string]Value)
	}
	v.obj[key] = item
	return nil
}

// Delete removes a field. Deleting a missing field is not an error.
func (v *Value) Delete(key string) error {
	if v.kind != Object {
		return fmt.Errorf("delete %q: %w (got %s)", key, ErrNotObject, v.kind)
	}
	delete(v.obj, key)
	return nil
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case Array:
		arr := make([]Value, len(v.arr))
		for i, item := range v.arr {
			arr[i] = item.Clone()
		}
		return Value{kind: Array, arr: arr}
	case Object:
		obj := make(map[string]Value, len(v.obj))
		for k, item := range v.obj {
			obj[k] = item.Clone()
		}
		return Value{kind: Object, obj: obj}
	default:
		return v
	}
}

// Equal reports structural equality. Numbers compare by literal text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number, String:
		return v.s == o.s
	case Array:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, item := range v.obj {
			other, ok := o.obj[k]
			if !ok || !item.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the compact JSON encoding of v.
func (v Value) String() string {
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.String()
}

// FromAny converts a decoded JSON or YAML tree into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t.Clone(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case int:
		return Value{kind: Number, s: strconv.Itoa(t)}, nil
	case int8, int16, int32, int64:
		return Value{kind: Number, s: fmt.Sprintf("%d", t)}, nil
	case uint, uint8, uint16, uint32, uint64:
		return Value{kind: Number, s: fmt.Sprintf("%d", t)}, nil
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case []any:
		arr := make([]Value, len(t))
		for i, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = conv
		}
		return Value{kind: Array, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = conv
		}
		return Value{kind: Object, obj: obj}, nil
	case map[any]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("object key %v is %T, want string", k, k)
			}
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			obj[key] = conv
		}
		return Value{kind: Object, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("number %v cannot be represented in JSON", f)
	}
	format := byte('f')
	if math.Abs(f) >= 1e21 {
		format = 'g'
	}
	return Value{kind: Number, s: strconv.FormatFloat(f, format, -1, 64)}, nil
}

// ToAny converts v into plain Go values. Numbers become int64 when they
// fit, float64 otherwise.
func (v Value) ToAny() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f
		}
		return json.Number(v.s)
	case String:
		return v.s
	case Array:
		arr := make([]any, len(v.arr))
		for i, item := range v.arr {
			arr[i] = item.ToAny()
		}
		return arr
	case Object:
		obj := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			obj[k] = item.ToAny()
		}
		return obj
	default:
		return nil
	}
}
