package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of a JSON value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an object. Objects are stored as
// member slices rather than maps so that insertion order is preserved.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node in a parsed JSON document. Once produced by the parser a
// Value is never mutated; transforms rebuild the tree instead.
type Value struct {
	kind    Kind
	boolean bool
	num     float64
	str     string
	items   []*Value
	members []Member
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{kind: KindNull} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// NewNumber returns a number value.
func NewNumber(f float64) *Value { return &Value{kind: KindNumber, num: f} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{kind: KindString, str: s} }

// NewArray returns an array value holding the given items.
func NewArray(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// NewObject returns an empty object value.
func NewObject() *Value { return &Value{kind: KindObject} }

// Kind returns the value's kind.
func (v *Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload. Only meaningful for KindBool.
func (v *Value) Bool() bool { return v.boolean }

// Float64 returns the numeric payload. Only meaningful for KindNumber.
func (v *Value) Float64() float64 { return v.num }

// Str returns the string payload. Only meaningful for KindString.
func (v *Value) Str() string { return v.str }

// Items returns the elements of an array value.
func (v *Value) Items() []*Value { return v.items }

// Members returns the key/value pairs of an object value in insertion order.
func (v *Value) Members() []Member { return v.members }

// Len returns the number of elements or members of a container, 0 otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// IsContainer reports whether the value is an object or an array.
func (v *Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// Append adds an element to an array value.
func (v *Value) Append(item *Value) {
	v.items = append(v.items, item)
}

// Set adds a member to an object value. If the key already exists the value
// is replaced in place, keeping the key's original position.
func (v *Value) Set(key string, val *Value) {
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Get returns the member value for key, if present.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	for i := range v.members {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}
	return nil, false
}

// At returns the array element at index i, if present.
func (v *Value) At(i int) (*Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Lookup resolves a path against the tree rooted at v. It fails closed:
// a path that does not resolve returns (nil, false), never an error.
func (v *Value) Lookup(p Path) (*Value, bool) {
	cur := v
	for _, seg := range p {
		if cur == nil {
			return nil, false
		}
		var ok bool
		if seg.IsIndex {
			cur, ok = cur.At(seg.Index)
		} else {
			cur, ok = cur.Get(seg.Key)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// MarshalJSON encodes the value as compact JSON with object keys in
// insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	v.appendJSON(&b)
	return []byte(b.String()), nil
}

// String returns the compact JSON encoding, for debugging and tests.
func (v *Value) String() string {
	var b strings.Builder
	v.appendJSON(&b)
	return b.String()
}

func (v *Value) appendJSON(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		b.WriteString(FormatNumber(v.num))
	case KindString:
		b.WriteString(QuoteString(v.str))
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			item.appendJSON(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(QuoteString(m.Key))
			b.WriteByte(':')
			m.Value.appendJSON(b)
		}
		b.WriteByte('}')
	}
}

// FormatNumber renders a float64 the way encoding/json does: integral
// values without a decimal point, exponent notation only for very large
// or very small magnitudes.
func FormatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// QuoteString returns the JSON string literal for s.
func QuoteString(s string) string {
	// encoding/json handles all escaping rules; errors are impossible for
	// a plain string input.
	b, _ := json.Marshal(s)
	return string(b)
}
