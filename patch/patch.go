// Package patch implements RFC 6902 JSON Patch application over
// node.Node: add/remove/replace/move/copy/test, journaled apply/revert
// via Prepare, and a streaming convenience wrapper.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/pointer"
)

// Op names a JSON Patch operation type.
type Op string

const (
	Add     Op = "add"
	Remove  Op = "remove"
	Replace Op = "replace"
	Move    Op = "move"
	Copy    Op = "copy"
	Test    Op = "test"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrTestFailed marks a "test" operation whose expected value didn't match.
	ErrTestFailed = errors.New("patch: test operation failed")
	// ErrIllegalMove marks a "move" whose destination is inside its own source.
	ErrIllegalMove = errors.New("patch: illegal move, destination is inside source")
	// ErrUnknownOp marks an operation whose Op field isn't one of the six.
	ErrUnknownOp = errors.New("patch: unknown operation")
)

// Operation is a single JSON Patch operation. Value round-trips through
// encoding/json via node.Node's own Marshaler/Unmarshaler.
type Operation struct {
	Op    Op         `json:"op"`
	Path  string     `json:"path"`
	From  string     `json:"from,omitempty"`
	Value *node.Node `json:"value,omitempty"`
}

// Patch is an ordered sequence of operations.
type Patch []Operation

// Apply applies patch to a deep copy of document, leaving document
// unmodified, and returns the resulting document.
func Apply(document *node.Node, p Patch) (*node.Node, error) {
	return ApplyInPlace(node.Clone(document), p)
}

// ApplyInPlace applies patch to document, mutating it directly, and
// returns the (possibly replaced) root.
func ApplyInPlace(document *node.Node, p Patch) (*node.Node, error) {
	for i, op := range p {
		var err error
		switch op.Op {
		case Add:
			document, err = applyAdd(document, op.Path, op.Value)
		case Remove:
			document, err = applyRemove(document, op.Path)
		case Replace:
			document, err = applyReplace(document, op.Path, op.Value)
		case Move:
			document, err = applyMove(document, op.From, op.Path)
		case Copy:
			document, err = applyCopy(document, op.From, op.Path)
		case Test:
			err = applyTest(document, op.Path, op.Value)
		default:
			return nil, fmt.Errorf("patch operation %d (%s): %w", i, op.Op, ErrUnknownOp)
		}
		if err != nil {
			return nil, fmt.Errorf("patch operation %d (%s) failed: %w", i, op.Op, err)
		}
	}
	return document, nil
}

func applyAdd(document *node.Node, path string, value *node.Node) (*node.Node, error) {
	p, err := pointer.New(path)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = node.Null()
	}
	if len(p) == 0 {
		return value, nil
	}
	parentPath := pointer.Pointer(p[:len(p)-1]).String()
	token := p[len(p)-1]

	parent, err := pointer.Get(document, parentPath)
	if err != nil {
		return nil, fmt.Errorf("parent %q not found for add: %w", parentPath, err)
	}

	switch {
	case parent.IsArray():
		if token == "-" {
			parent.Append(value)
			return document, nil
		}
		idx, err := pointer.ParseArrayIndex(token)
		if err != nil {
			return nil, err
		}
		if idx > parent.Size() {
			return nil, fmt.Errorf("%w: add index %d out of bounds for array of length %d", pointer.ErrIndexRange, idx, parent.Size())
		}
		if err := parent.Insert(idx, value); err != nil {
			return nil, err
		}
		return document, nil
	case parent.IsObject():
		parent.Set(token, value)
		return document, nil
	default:
		return nil, fmt.Errorf("%w at %q", pointer.ErrNotContainer, parentPath)
	}
}

func applyRemove(document *node.Node, path string) (*node.Node, error) {
	return pointer.Remove(document, path)
}

func applyReplace(document *node.Node, path string, value *node.Node) (*node.Node, error) {
	// Replace is atomic: the target location MUST already exist.
	if _, err := pointer.Get(document, path); err != nil {
		return nil, err
	}
	return pointer.Set(document, path, value)
}

func applyMove(document *node.Node, from, to string) (*node.Node, error) {
	if isProperPrefix(from, to) {
		return nil, fmt.Errorf("%w: from=%q to=%q", ErrIllegalMove, from, to)
	}
	val, err := pointer.Get(document, from)
	if err != nil {
		return nil, err
	}
	document, err = pointer.Remove(document, from)
	if err != nil {
		return nil, err
	}
	return applyAdd(document, to, val)
}

func applyCopy(document *node.Node, from, to string) (*node.Node, error) {
	val, err := pointer.Get(document, from)
	if err != nil {
		return nil, err
	}
	return applyAdd(document, to, node.Clone(val))
}

func applyTest(document *node.Node, path string, expected *node.Node) error {
	actual, err := pointer.Get(document, path)
	if err != nil {
		return err
	}
	if expected == nil {
		expected = node.Null()
	}
	if !node.DeepEqual(actual, expected) {
		return fmt.Errorf("%w: at %q", ErrTestFailed, path)
	}
	return nil
}

// isProperPrefix reports whether from is a proper prefix of to at a
// pointer-segment boundary, which would make a move into its own
// descendant (RFC 6902 illegal).
func isProperPrefix(from, to string) bool {
	if from == to {
		return false
	}
	if from == "" {
		return true
	}
	if len(to) <= len(from) {
		return false
	}
	return to[:len(from)] == from && to[len(from)] == '/'
}

// ApplyStream applies patch to the document decoded from r, writing the
// result to w as JSON. The whole document is decoded into memory before
// the patch is applied.
func ApplyStream(r io.Reader, w io.Writer, p Patch) error {
	decoder := json.NewDecoder(r)
	var doc node.Node
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	result, err := Apply(&doc, p)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	return encoder.Encode(result)
}
