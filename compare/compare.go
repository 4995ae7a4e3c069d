// Package compare implements a total-ish node ordering and
// JavaScript-style truthiness.
package compare

import "github.com/agentflare-ai/jsontransform/node"

// Order is the result of comparing two nodes: Less, Equal, or Greater.
// Equal is also returned for incomparable kinds, which keeps mixed-kind
// sorts stable rather than erroring.
type Order int

const (
	Less Order = -1
	Equal Order = 0
	Greater Order = 1
)

// Compare orders a and b: when both share a comparable kind (both
// arrays -> by length, both objects -> by size, both strings ->
// lexicographic, both numbers -> decimal compare, both bools -> false <
// true, either is null -> null sorts first), the ordering is returned;
// otherwise Equal is returned so sorts over mixed-kind input stay stable.
func Compare(a, b *node.Node) Order {
	if a.IsNull() && b.IsNull() {
		return Equal
	}
	if a.IsNull() {
		return Less
	}
	if b.IsNull() {
		return Greater
	}

	switch {
	case a.IsArray() && b.IsArray():
		return compareInt(a.Size(), b.Size())
	case a.IsObject() && b.IsObject():
		return compareInt(a.Size(), b.Size())
	case a.IsString() && b.IsString():
		as, _ := a.AsString()
		bs, _ := b.AsString()
		switch {
		case as < bs:
			return Less
		case as > bs:
			return Greater
		default:
			return Equal
		}
	case a.IsNumber() && b.IsNumber():
		ad, _ := a.AsBigDecimal()
		bd, _ := b.AsBigDecimal()
		return Order(ad.Cmp(bd))
	case a.IsBool() && b.IsBool():
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		return compareBool(ab, bb)
	default:
		return Equal
	}
}

func compareInt(a, b int) Order {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func compareBool(a, b bool) Order {
	if a == b {
		return Equal
	}
	if !a && b {
		return Less
	}
	return Greater
}

// Mode selects how string truthiness is evaluated.
type Mode int

const (
	// JavaScriptTruthiness treats any non-empty string as truthy.
	JavaScriptTruthiness Mode = iota
	// StrictTruthiness parses the string as a boolean literal ("true").
	StrictTruthiness
)

// Truthy evaluates n: arrays/objects truthy iff non-empty, bools are
// themselves, numbers truthy iff non-zero, strings depend on mode,
// null/absent is always false.
func Truthy(n *node.Node, mode Mode) bool {
	if n.IsNull() {
		return false
	}
	switch {
	case n.IsArray(), n.IsObject():
		return !n.IsEmpty()
	case n.IsBool():
		v, _ := n.AsBool()
		return v
	case n.IsNumber():
		d, _ := n.AsBigDecimal()
		return !d.IsZero()
	case n.IsString():
		s, _ := n.AsString()
		if mode == StrictTruthiness {
			return s == "true"
		}
		return s != ""
	default:
		return false
	}
}
