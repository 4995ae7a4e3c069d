package node

import "github.com/shopspring/decimal"

// Adapter collects classification, construction, access, mutation,
// extraction, and serialization over Node behind one interface, so an
// alternate representation could be put behind it. Std is the only
// concrete implementation shipped here; it forwards to Node's methods and
// this package's functions, which the merge, patch and resolve packages
// call directly rather than through Adapter.
type Adapter interface {
	IsNode(x any) bool
	IsString(n *Node) bool
	IsNumber(n *Node) bool
	IsBool(n *Node) bool
	IsNull(n *Node) bool
	IsArray(n *Node) bool
	IsObject(n *Node) bool

	NullNode() *Node
	Wrap(scalar any) (*Node, error)
	Parse(text string) (*Node, error)
	Clone(n *Node) *Node
	NewObject() *Node
	NewArray() *Node

	Size(n *Node) int
	IsEmpty(n *Node) bool
	Get(obj *Node, key string) (*Node, bool)
	Has(obj *Node, key string) bool
	Entries(obj *Node) []Entry
	Elements(arr *Node) []*Node
	Index(arr *Node, i int) (*Node, bool)

	Set(obj *Node, key string, v *Node)
	Append(arr *Node, v *Node)
	Insert(arr *Node, i int, v *Node) error
	Remove(obj *Node, key string)
	RemoveAt(arr *Node, i int) error

	AsString(x *Node) (string, bool)
	AsNumber(x *Node) (float64, bool)
	AsBigDecimal(x *Node) (decimal.Decimal, bool)
	AsBool(x *Node) (bool, bool)
	Unwrap(n *Node, reduceBigDecimals bool) any

	ToString(x *Node) (string, error)
}

// Std is the single concrete Adapter implementation: a tagged-union Node
// tree backed by shopspring/decimal for numeric fidelity.
type Std struct{}

var _ Adapter = Std{}

func (Std) IsNode(x any) bool {
	_, ok := x.(*Node)
	return ok
}

func (Std) IsString(n *Node) bool { return n.IsString() }
func (Std) IsNumber(n *Node) bool { return n.IsNumber() }
func (Std) IsBool(n *Node) bool   { return n.IsBool() }
func (Std) IsNull(n *Node) bool   { return n.IsNull() }
func (Std) IsArray(n *Node) bool  { return n.IsArray() }
func (Std) IsObject(n *Node) bool { return n.IsObject() }

func (Std) NullNode() *Node               { return Null() }
func (Std) Wrap(scalar any) (*Node, error) { return Wrap(scalar) }
func (Std) Parse(text string) (*Node, error) { return Parse(text) }
func (Std) Clone(n *Node) *Node            { return Clone(n) }
func (Std) NewObject() *Node               { return NewObject() }
func (Std) NewArray() *Node                { return NewArray() }

func (Std) Size(n *Node) int                { return n.Size() }
func (Std) IsEmpty(n *Node) bool            { return n.IsEmpty() }
func (Std) Get(obj *Node, key string) (*Node, bool) { return obj.Get(key) }
func (Std) Has(obj *Node, key string) bool  { return obj.Has(key) }
func (Std) Entries(obj *Node) []Entry       { return obj.Entries() }
func (Std) Elements(arr *Node) []*Node      { return arr.Elements() }
func (Std) Index(arr *Node, i int) (*Node, bool) { return arr.Index(i) }

func (Std) Set(obj *Node, key string, v *Node)    { obj.Set(key, v) }
func (Std) Append(arr *Node, v *Node)             { arr.Append(v) }
func (Std) Insert(arr *Node, i int, v *Node) error { return arr.Insert(i, v) }
func (Std) Remove(obj *Node, key string)          { obj.Remove(key) }
func (Std) RemoveAt(arr *Node, i int) error        { return arr.RemoveAt(i) }

func (Std) AsString(x *Node) (string, bool)                { return AsString(x) }
func (Std) AsNumber(x *Node) (float64, bool)                { return x.AsNumber() }
func (Std) AsBigDecimal(x *Node) (decimal.Decimal, bool)    { return x.AsBigDecimal() }
func (Std) AsBool(x *Node) (bool, bool)                     { return x.AsBool() }
func (Std) Unwrap(n *Node, reduceBigDecimals bool) any      { return Unwrap(n, reduceBigDecimals) }

func (Std) ToString(x *Node) (string, error) { return ToString(x) }
