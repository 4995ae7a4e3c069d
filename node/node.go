// Package node implements the document-model abstraction: a tagged JSON
// value (Node) plus Adapter, an interface over Node's operations (see
// Std). Numbers are stored as arbitrary-precision decimals
// so round-tripping a document never loses digits; callers that need a
// native float/int pay for that conversion explicitly at the boundary.
package node

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind tags the concrete shape a Node holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

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

// Node is an in-memory JSON value. Its Kind never changes over its
// lifetime; mutating a container replaces the child binding at a slot
// rather than rewriting the child's tag in place.
type Node struct {
	kind Kind
	b    bool
	num  decimal.Decimal
	str  string
	arr  []*Node
	obj  *object
}

// object is an insertion-ordered string->Node map.
type object struct {
	keys []string
	vals map[string]*Node
}

func newObject() *object {
	return &object{vals: make(map[string]*Node)}
}

// Entry is a single ordered object member, returned by Entries.
type Entry struct {
	Key   string
	Value *Node
}

// Null returns the shared-shape null node. Each call returns a distinct
// value (Nodes are not interned) so callers may freely bind it.
func Null() *Node { return &Node{kind: KindNull} }

// Bool wraps a boolean scalar.
func Bool(v bool) *Node { return &Node{kind: KindBool, b: v} }

// NumberFromDecimal wraps an already-parsed decimal.
func NumberFromDecimal(d decimal.Decimal) *Node { return &Node{kind: KindNumber, num: d} }

// NumberFromInt wraps a whole number.
func NumberFromInt(i int64) *Node { return &Node{kind: KindNumber, num: decimal.NewFromInt(i)} }

// NumberFromFloat wraps a float64, going through a string to avoid binary
// float noise leaking into the decimal representation.
func NumberFromFloat(f float64) (*Node, error) {
	d, err := decimal.NewFromString(fmt.Sprintf("%g", f))
	if err != nil {
		return nil, fmt.Errorf("node: invalid float %v: %w", f, err)
	}
	return &Node{kind: KindNumber, num: d}, nil
}

// String wraps a string scalar.
func String(v string) *Node { return &Node{kind: KindString, str: v} }

// NewArray returns an empty array node.
func NewArray() *Node { return &Node{kind: KindArray, arr: nil} }

// NewObject returns an empty object node.
func NewObject() *Node { return &Node{kind: KindObject, obj: newObject()} }

// ArrayOf builds an array node from already-constructed elements.
func ArrayOf(elems ...*Node) *Node {
	n := &Node{kind: KindArray, arr: make([]*Node, len(elems))}
	copy(n.arr, elems)
	return n
}

// Kind reports the node's tag.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsNull() bool   { return n == nil || n.kind == KindNull }
func (n *Node) IsBool() bool   { return n != nil && n.kind == KindBool }
func (n *Node) IsNumber() bool { return n != nil && n.kind == KindNumber }
func (n *Node) IsString() bool { return n != nil && n.kind == KindString }
func (n *Node) IsArray() bool  { return n != nil && n.kind == KindArray }
func (n *Node) IsObject() bool { return n != nil && n.kind == KindObject }

// Wrap lifts a native Go scalar/container into a Node. Unrecognized types
// are rejected rather than silently dropped.
func Wrap(v any) (*Node, error) {
	switch tv := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return tv, nil
	case bool:
		return Bool(tv), nil
	case string:
		return String(tv), nil
	case decimal.Decimal:
		return NumberFromDecimal(tv), nil
	case int:
		return NumberFromInt(int64(tv)), nil
	case int64:
		return NumberFromInt(tv), nil
	case float64:
		return NumberFromFloat(tv)
	case []any:
		out := NewArray()
		for _, e := range tv {
			ce, err := Wrap(e)
			if err != nil {
				return nil, err
			}
			out.arr = append(out.arr, ce)
		}
		return out, nil
	case map[string]any:
		out := NewObject()
		for k, e := range tv {
			ce, err := Wrap(e)
			if err != nil {
				return nil, err
			}
			out.Set(k, ce)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("node: cannot wrap value of type %T", v)
	}
}

// Clone deep-copies n. Scalars are returned as fresh nodes so mutating the
// clone never affects the original's slots.
func Clone(n *Node) *Node {
	if n == nil {
		return Null()
	}
	switch n.kind {
	case KindNull:
		return Null()
	case KindBool:
		return Bool(n.b)
	case KindNumber:
		return NumberFromDecimal(n.num)
	case KindString:
		return String(n.str)
	case KindArray:
		out := NewArray()
		out.arr = make([]*Node, len(n.arr))
		for i, e := range n.arr {
			out.arr[i] = Clone(e)
		}
		return out
	case KindObject:
		out := NewObject()
		for _, k := range n.obj.keys {
			out.Set(k, Clone(n.obj.vals[k]))
		}
		return out
	default:
		return Null()
	}
}

// Size returns the element count of an array or the member count of an
// object; any other kind is size zero.
func (n *Node) Size() int {
	switch {
	case n.IsArray():
		return len(n.arr)
	case n.IsObject():
		return len(n.obj.keys)
	default:
		return 0
	}
}

// IsEmpty reports whether an array/object has zero elements/members.
func (n *Node) IsEmpty() bool { return n.Size() == 0 }

// Get looks up a member by key; ok is false if n is not an object or the
// key is absent.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsObject() {
		return nil, false
	}
	v, ok := n.obj.vals[key]
	return v, ok
}

// Has reports whether an object has the given member.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Entries returns an object's members in insertion order.
func (n *Node) Entries() []Entry {
	if !n.IsObject() {
		return nil
	}
	out := make([]Entry, 0, len(n.obj.keys))
	for _, k := range n.obj.keys {
		out = append(out, Entry{Key: k, Value: n.obj.vals[k]})
	}
	return out
}

// Elements returns an array's elements in order.
func (n *Node) Elements() []*Node {
	if !n.IsArray() {
		return nil
	}
	return n.arr
}

// Index returns the array element at i, or ok=false if out of range or n
// is not an array.
func (n *Node) Index(i int) (*Node, bool) {
	if !n.IsArray() || i < 0 || i >= len(n.arr) {
		return nil, false
	}
	return n.arr[i], true
}

// Set inserts or replaces a member, preserving its position on replace.
func (n *Node) Set(key string, v *Node) {
	if !n.IsObject() {
		return
	}
	if v == nil {
		v = Null()
	}
	if _, exists := n.obj.vals[key]; !exists {
		n.obj.keys = append(n.obj.keys, key)
	}
	n.obj.vals[key] = v
}

// Append adds v to the end of an array.
func (n *Node) Append(v *Node) {
	if !n.IsArray() {
		return
	}
	if v == nil {
		v = Null()
	}
	n.arr = append(n.arr, v)
}

// Insert places v before index i (0<=i<=len).
func (n *Node) Insert(i int, v *Node) error {
	if !n.IsArray() {
		return fmt.Errorf("node: Insert on non-array kind %s", n.Kind())
	}
	if i < 0 || i > len(n.arr) {
		return fmt.Errorf("node: Insert index %d out of bounds for length %d", i, len(n.arr))
	}
	if v == nil {
		v = Null()
	}
	n.arr = append(n.arr, nil)
	copy(n.arr[i+1:], n.arr[i:])
	n.arr[i] = v
	return nil
}

// Remove deletes a member by key, preserving the relative order of the
// remaining keys.
func (n *Node) Remove(key string) {
	if !n.IsObject() {
		return
	}
	if _, ok := n.obj.vals[key]; !ok {
		return
	}
	delete(n.obj.vals, key)
	for i, k := range n.obj.keys {
		if k == key {
			n.obj.keys = append(n.obj.keys[:i], n.obj.keys[i+1:]...)
			break
		}
	}
}

// RemoveAt deletes the array element at i.
func (n *Node) RemoveAt(i int) error {
	if !n.IsArray() {
		return fmt.Errorf("node: RemoveAt on non-array kind %s", n.Kind())
	}
	if i < 0 || i >= len(n.arr) {
		return fmt.Errorf("node: RemoveAt index %d out of bounds for length %d", i, len(n.arr))
	}
	n.arr = append(n.arr[:i], n.arr[i+1:]...)
	return nil
}

// AsString returns a string node's value.
func (n *Node) AsString() (string, bool) {
	if !n.IsString() {
		return "", false
	}
	return n.str, true
}

// AsBool returns a bool node's value.
func (n *Node) AsBool() (bool, bool) {
	if !n.IsBool() {
		return false, false
	}
	return n.b, true
}

// AsBigDecimal returns a number node's decimal value.
func (n *Node) AsBigDecimal() (decimal.Decimal, bool) {
	if !n.IsNumber() {
		return decimal.Decimal{}, false
	}
	return n.num, true
}

// AsNumber returns a number node's value narrowed to float64, an explicit
// narrowing call that may degrade precision for very large decimals.
func (n *Node) AsNumber() (float64, bool) {
	if !n.IsNumber() {
		return 0, false
	}
	f, _ := n.num.Float64()
	return f, true
}

// Unwrap converts n into a native Go value: nil, bool, string,
// []any, map[string]any, and a number that is decimal.Decimal unless
// reduceBigDecimals asks for a lossy float64 conversion instead (whole
// numbers become float64 too).
func Unwrap(n *Node, reduceBigDecimals bool) any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindNull:
		return nil
	case KindBool:
		return n.b
	case KindString:
		return n.str
	case KindNumber:
		if reduceBigDecimals {
			if n.num.IsInteger() {
				if f, exact := n.num.Float64(); exact {
					return f
				}
			}
			f, _ := n.num.Float64()
			return f
		}
		return n.num
	case KindArray:
		out := make([]any, len(n.arr))
		for i, e := range n.arr {
			out[i] = Unwrap(e, reduceBigDecimals)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.obj.keys))
		for _, k := range n.obj.keys {
			out[k] = Unwrap(n.obj.vals[k], reduceBigDecimals)
		}
		return out
	default:
		return nil
	}
}
