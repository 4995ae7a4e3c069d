// Package jsontransform is a thin facade over the document-model
// adapter, deep-merge engine, parameter resolver, and JSON Patch
// applier, so callers that don't need subpackage internals can import
// a single path.
package jsontransform

import (
	"github.com/agentflare-ai/jsontransform/merge"
	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/patch"
	"github.com/agentflare-ai/jsontransform/resolve"
)

// Node and Kind are re-exported as type aliases so callers commonly need
// only this package; the scalar/container constructors stay in package
// node and are not re-exported.
type (
	Node = node.Node
	Kind = node.Kind
)

// Parse lexes text into a Node tree.
func Parse(text string) (*Node, error) { return node.Parse(text) }

// ToString serializes n as canonical JSON text.
func ToString(n *Node) (string, error) { return node.ToString(n) }

// Merge writes value into root at the location addressed by a dotted/
// bracketed path, creating missing intermediate objects and promoting a
// colliding scalar binding into an array.
func Merge(root, value *Node, path string) *Node {
	return merge.Into(root, value, path)
}

// Resolver evaluates parameter reference strings against a primary
// document and a set of named secondary documents.
type Resolver = resolve.Resolver

// NewResolver builds a Resolver over primary, registering secondaries.
func NewResolver(primary *Node, secondaries map[string]any, opts resolve.Options) (*Resolver, error) {
	return resolve.New(primary, secondaries, opts)
}

// Patch, Operation, and Op are re-exported for callers that only need
// to apply or compute patches, not the patch package's lower-level
// Prepare/Diff journaling API.
type (
	Patch     = patch.Patch
	Operation = patch.Operation
	PatchOp   = patch.Op
)

// Apply applies p to a deep copy of document, leaving document unmodified.
func Apply(document *Node, p Patch) (*Node, error) { return patch.Apply(document, p) }

// NewPatch computes a minimal RFC 6902 patch transforming a into b.
func NewPatch(a, b *Node) (Patch, error) { return patch.New(a, b) }

// Prepare builds a journaled, reversible Diff from applying p to original.
func Prepare(original *Node, p Patch) (patch.Diff, error) { return patch.Prepare(original, p) }

// ExtractAdded splits after into the portion contributed by Add
// operations in p and the remainder.
func ExtractAdded(after *Node, p Patch) (remaining, addedOnly *Node, err error) {
	return patch.ExtractAdded(after, p)
}
