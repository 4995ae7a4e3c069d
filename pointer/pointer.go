// Package pointer implements RFC 6901 JSON Pointer addressing over
// node.Node: tokenizing a pointer string, escaping/unescaping "~0"/"~1",
// and resolving, setting, or removing the value a pointer addresses.
package pointer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentflare-ai/jsontransform/node"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrSyntax marks a malformed JSON Pointer string.
	ErrSyntax = errors.New("pointer: invalid syntax")
	// ErrNotFound marks a pointer whose target does not exist.
	ErrNotFound = errors.New("pointer: target not found")
	// ErrIndexRange marks an array index outside its legal range.
	ErrIndexRange = errors.New("pointer: index out of range")
	// ErrNotContainer marks traversal through a non-container value.
	ErrNotContainer = errors.New("pointer: path segment is not a container")
)

// Pointer is a parsed, tokenized JSON Pointer.
type Pointer []string

// New tokenizes a JSON Pointer string per RFC 6901: a leading "/" is
// required for any non-empty pointer, tokens are "/"-separated, and
// "~1"/"~0" decode to "/"/"~". The empty string parses to an empty
// Pointer (addresses the document root).
func New(path string) (Pointer, error) {
	if path == "" {
		return Pointer{}, nil
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrSyntax, path)
	}
	raw := strings.Split(path[1:], "/")
	out := make(Pointer, len(raw))
	for i, tok := range raw {
		out[i] = decodeToken(tok)
	}
	return out, nil
}

func decodeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

func encodeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

// String renders p back into RFC 6901 pointer syntax.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(encodeToken(tok))
	}
	return b.String()
}

// ParseArrayIndex parses a pointer token as an array index. "-" is never
// a valid numeric index (callers check for it separately); leading
// zeros other than the literal "0" are rejected per RFC 6901.
func ParseArrayIndex(tok string) (int, error) {
	if tok == "" || tok == "-" {
		return 0, fmt.Errorf("%w: %q is not a numeric index", ErrSyntax, tok)
	}
	if len(tok) > 1 && tok[0] == '0' {
		return 0, fmt.Errorf("%w: %q has a leading zero", ErrSyntax, tok)
	}
	idx, err := strconv.Atoi(tok)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: %q is not a valid index", ErrSyntax, tok)
	}
	return idx, nil
}

// Get resolves p against root and returns the addressed node.
func Get(root *node.Node, path string) (*node.Node, error) {
	p, err := New(path)
	if err != nil {
		return nil, err
	}
	return p.Get(root)
}

// Get resolves p against root.
func (p Pointer) Get(root *node.Node) (*node.Node, error) {
	cur := root
	for i, tok := range p {
		next, err := step(cur, tok)
		if err != nil {
			return nil, fmt.Errorf("pointer: %w at segment %d (%q)", err, i, tok)
		}
		cur = next
	}
	return cur, nil
}

func step(cur *node.Node, tok string) (*node.Node, error) {
	switch {
	case cur.IsObject():
		v, ok := cur.Get(tok)
		if !ok {
			return nil, ErrNotFound
		}
		return v, nil
	case cur.IsArray():
		if tok == "-" {
			return nil, fmt.Errorf("%w: '-' is not readable", ErrIndexRange)
		}
		idx, err := ParseArrayIndex(tok)
		if err != nil {
			return nil, err
		}
		v, ok := cur.Index(idx)
		if !ok {
			return nil, ErrIndexRange
		}
		return v, nil
	default:
		return nil, ErrNotContainer
	}
}

// Set writes value at path, creating/replacing the addressed location,
// and returns the (possibly new) root. An empty path replaces the root
// wholesale. This does not implement "-" append semantics; callers that
// need array-insert-before-index or append behavior use patch.applyAdd.
func Set(root *node.Node, path string, value *node.Node) (*node.Node, error) {
	p, err := New(path)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return value, nil
	}
	parent, err := Pointer(p[:len(p)-1]).Get(root)
	if err != nil {
		return nil, err
	}
	last := p[len(p)-1]
	switch {
	case parent.IsObject():
		parent.Set(last, value)
	case parent.IsArray():
		idx, err := ParseArrayIndex(last)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= parent.Size() {
			return nil, fmt.Errorf("pointer: %w: index %d for array of length %d", ErrIndexRange, idx, parent.Size())
		}
		parent.Elements()[idx] = value
	default:
		return nil, fmt.Errorf("pointer: %w at %q", ErrNotContainer, path)
	}
	return root, nil
}

// Remove deletes the value addressed by path and returns the (possibly
// new) root. The target must already exist.
func Remove(root *node.Node, path string) (*node.Node, error) {
	p, err := New(path)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return node.Null(), nil
	}
	parent, err := Pointer(p[:len(p)-1]).Get(root)
	if err != nil {
		return nil, err
	}
	last := p[len(p)-1]
	switch {
	case parent.IsObject():
		if !parent.Has(last) {
			return nil, fmt.Errorf("pointer: %w at %q", ErrNotFound, path)
		}
		parent.Remove(last)
	case parent.IsArray():
		idx, err := ParseArrayIndex(last)
		if err != nil {
			return nil, err
		}
		if err := parent.RemoveAt(idx); err != nil {
			return nil, fmt.Errorf("pointer: %w: %v", ErrIndexRange, err)
		}
	default:
		return nil, fmt.Errorf("pointer: %w at %q", ErrNotContainer, path)
	}
	return root, nil
}
