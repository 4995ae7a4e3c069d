// Package resolve implements a parameter reference resolver: expanding
// reference strings rooted at "$" (primary document), "#name" (named
// secondary documents), the intrinsic macros #uuid/#null/#now, and the
// "\$"/"\#" literal escapes.
package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/theory/jsonpath"

	"github.com/agentflare-ai/jsontransform/node"
)

// ErrResolver marks a malformed JSONPath expression or a secondary
// document that failed to materialize.
var ErrResolver = errors.New("resolve: resolver error")

// Options configures a Resolver.
type Options struct {
	// ReduceBigDecimals, when true, narrows a resolved Node result to a
	// native Go scalar instead of returning the Node unchanged.
	ReduceBigDecimals bool
}

// entryState tags which of the three secondary-document states an entry
// currently holds.
type entryState int

const (
	stateLiteral entryState = iota
	stateLazy
	stateMaterialized
)

// secondaryEntry is a Literal(Node) | LazyContext(builder) |
// Materialized(context) sum type, mutated to Materialized in place on
// first access — local state scoped to one Resolver, never shared.
type secondaryEntry struct {
	state   entryState
	literal *node.Node
	build   func() (any, error) // produces the native doc the lazy context parses
	context any                 // materialized native document, ready for jsonpath.Select
}

// Resolver evaluates reference strings against a primary document and a
// set of named secondary documents. A Resolver is not safe for concurrent
// use by multiple goroutines: its parsed-path cache and its
// secondary-document materialization are both local, mutable state.
type Resolver struct {
	primary   *node.Node
	secondary map[string]*secondaryEntry
	opts      Options
	pathCache map[string]*jsonpath.Path
}

// New builds a Resolver over primary, registering secondaries: primitive
// scalars (string/number/bool) and already-wrapped *node.Node values are
// stored directly as literals; any other Go value (maps, slices,
// structs) is stored as a lazy JSONPath context, built only on first
// reference.
func New(primary *node.Node, secondaries map[string]any, opts Options) (*Resolver, error) {
	r := &Resolver{
		primary:   primary,
		secondary: make(map[string]*secondaryEntry, len(secondaries)),
		opts:      opts,
		pathCache: make(map[string]*jsonpath.Path),
	}
	for name, v := range secondaries {
		entry, err := classify(v)
		if err != nil {
			return nil, fmt.Errorf("%w: registering %q: %v", ErrResolver, name, err)
		}
		r.secondary[name] = entry
	}
	return r, nil
}

func classify(v any) (*secondaryEntry, error) {
	switch tv := v.(type) {
	case *node.Node:
		return &secondaryEntry{state: stateLiteral, literal: tv}, nil
	case string, bool, int, int64, float64:
		n, err := node.Wrap(tv)
		if err != nil {
			return nil, err
		}
		return &secondaryEntry{state: stateLiteral, literal: n}, nil
	default:
		return &secondaryEntry{
			state: stateLazy,
			build: func() (any, error) { return normalizeForJSONPath(tv) },
		}, nil
	}
}

// normalizeForJSONPath canonicalizes an arbitrary Go value (map, slice,
// struct, ...) into the map[string]any/[]any/float64/string/bool/nil
// shape a jsonpath.Select walk expects, via a JSON round-trip.
func normalizeForJSONPath(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal secondary document: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal secondary document: %w", err)
	}
	return out, nil
}

// Resolve evaluates name against the primary and secondary documents,
// applying each rule below in order: blank passthrough, literal/escape
// handling, intrinsic macros, regex-guard passthrough, and finally
// primary/secondary document lookup.
func (r *Resolver) Resolve(name string) (any, error) {
	if strings.TrimSpace(name) == "" {
		return name, nil
	}

	first := name[0]
	if first != '$' && first != '#' {
		if strings.HasPrefix(name, `\$`) || strings.HasPrefix(name, `\#`) {
			return name[1:], nil
		}
		return name, nil
	}

	if first == '#' && len(name) <= 5 {
		if v, handled := macro(name); handled {
			return v, nil
		}
		// Unmatched short "#xxxx" name: fall through to the JSONPath
		// branch below rather than erroring.
	}

	if len(name) >= 2 && (name[1] == '$' || isDigit(name[1])) {
		return name, nil
	}

	rootKey := rootKeyOf(name)

	var result any
	var err error
	switch {
	case rootKey != "$" && rootKey != "" && r.secondary[rootKey] != nil:
		result, err = r.resolveSecondary(rootKey, name)
	case rootKey == "$":
		result, err = r.resolvePrimary(name)
	default:
		return name, nil
	}
	if err != nil {
		return nil, err
	}

	if r.opts.ReduceBigDecimals {
		if n, ok := result.(*node.Node); ok {
			return node.Unwrap(n, true), nil
		}
	}
	return result, nil
}

// macro recognizes the three intrinsic macros. handled is false when
// name is a short "#xxxx" reference that isn't one of them.
func macro(name string) (value any, handled bool) {
	switch strings.ToLower(name) {
	case "#uuid":
		return uuid.New().String(), true
	case "#null":
		return nil, true
	case "#now":
		return time.Now().UTC().Format(time.RFC3339), true
	default:
		return nil, false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// rootKeyOf extracts the prefix up to the first '.' or '['.
func rootKeyOf(name string) string {
	idx := strings.IndexAny(name, ".[")
	if idx < 0 {
		return name
	}
	return name[:idx]
}

func (r *Resolver) resolvePrimary(name string) (any, error) {
	n, err := r.evalJSONPath(name, r.primary)
	if err != nil {
		return nil, fmt.Errorf("%w: primary document: %v", ErrResolver, err)
	}
	return n, nil
}

func (r *Resolver) resolveSecondary(rootKey, name string) (any, error) {
	entry := r.secondary[rootKey]
	if entry.state == stateLazy {
		doc, err := entry.build()
		if err != nil {
			return nil, fmt.Errorf("%w: materializing secondary %q: %v", ErrResolver, rootKey, err)
		}
		entry.context = doc
		entry.state = stateMaterialized
		entry.build = nil
	}

	if entry.state == stateMaterialized {
		expr := "$" + name[len(rootKey):]
		p, err := r.parse(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResolver, err)
		}
		results := p.Select(entry.context)
		if len(results) == 0 {
			return node.Null(), nil
		}
		return node.Wrap(results[0])
	}

	return entry.literal, nil
}

func (r *Resolver) evalJSONPath(expr string, primary *node.Node) (*node.Node, error) {
	p, err := r.parse(expr)
	if err != nil {
		return nil, err
	}
	// Unwrap with reduction so the walked document is plain
	// map[string]any/[]any/float64/string/bool/nil — the shape
	// jsonpath.Select's filter expressions are built to compare.
	doc := node.Unwrap(primary, true)
	results := p.Select(doc)
	if len(results) == 0 {
		return node.Null(), nil
	}
	return node.Wrap(results[0])
}

func (r *Resolver) parse(expr string) (*jsonpath.Path, error) {
	if p, ok := r.pathCache[expr]; ok {
		return p, nil
	}
	p, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", expr, err)
	}
	r.pathCache[expr] = p
	return p, nil
}
