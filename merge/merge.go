// Package merge implements a path-addressed deep-merge engine:
// navigating and creating nested Object structure according
// to a dotted/bracketed path, with scalar-to-array auto-promotion on
// collision.
package merge

import (
	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/path"
)

// Into merges value into root at the location addressed by the dotted/
// bracketed path, creating missing intermediate objects and promoting a
// colliding scalar binding into an array. It returns root (mutated in
// place) for chaining: merge_into(root, value, path) -> root.
func Into(root *node.Node, value *node.Node, p string) *node.Node {
	if value == nil || value.IsNull() || root == nil || root.IsNull() {
		return root
	}
	segments := path.Tokenize(p)
	if len(segments) == 0 {
		return root
	}
	walk(root, value, segments)
	return root
}

// walk applies the merge uniformly at every segment, terminal or not:
// wrapRemaining(value, rest) degrades to value itself once rest is
// empty. The terminal segment is special only where the existing child
// is an object (shallow key union with an object value, otherwise the
// binding is replaced) or a scalar identical to value (left as is).
func walk(object *node.Node, value *node.Node, segments []string) {
	if !object.IsObject() {
		return
	}
	segment := segments[0]
	rest := segments[1:]

	child, exists := object.Get(segment)
	if !exists {
		wrapped := wrapRemaining(value, rest)
		if wrapped != nil && !wrapped.IsNull() {
			object.Set(segment, wrapped)
		}
		return
	}

	switch {
	case child.IsObject():
		if len(rest) > 0 {
			walk(child, value, rest)
			return
		}
		if value.IsObject() {
			// Shallow key union, not a recursive tree merge.
			for _, e := range value.Entries() {
				child.Set(e.Key, e.Value)
			}
			return
		}
		// No remaining segments and the incoming value is a scalar/array:
		// the object binding is simply replaced.
		object.Set(segment, value)
	case child.IsArray():
		child.Append(wrapRemaining(value, rest))
	default:
		// Re-merging the identical scalar at the same leaf is a no-op:
		// promotion to an array is a collision response, not something
		// that fires on an unchanged re-assignment.
		if len(rest) == 0 && node.DeepEqual(child, value) {
			return
		}
		promoted := node.ArrayOf(child, wrapRemaining(value, rest))
		object.Set(segment, promoted)
	}
}

// wrapRemaining pops segments from the back, each pop wrapping the
// running value in {segment: value}, so merge's front-to-back walk and
// this back-to-front construction meet in the middle at the right depth.
// With an empty segment list it is the identity function.
func wrapRemaining(value *node.Node, segments []string) *node.Node {
	out := value
	for i := len(segments) - 1; i >= 0; i-- {
		wrapper := node.NewObject()
		wrapper.Set(segments[i], out)
		out = wrapper
	}
	return out
}
