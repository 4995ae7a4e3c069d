package patch

import (
	"fmt"
	"sort"

	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/pointer"
)

// ExtractAdded splits after into the portion contributed by Add
// operations in p (addedOnly) and the remainder (remaining), without
// mutating after. Both results share structure with after via
// copy-on-write: only containers on the path to an added member are
// cloned.
func ExtractAdded(after *node.Node, p Patch) (remaining *node.Node, addedOnly *node.Node, err error) {
	switch {
	case after.IsObject():
		remaining = shallowCloneObject(after)
	case after.IsArray():
		remaining = shallowCloneArray(after)
	default:
		remaining = after
	}

	type addOp struct {
		parent pointer.Pointer
		child  string
		value  *node.Node
	}
	groups := make(map[string][]addOp)
	parentByKey := make(map[string]pointer.Pointer)
	for _, op := range p {
		if op.Op != Add {
			continue
		}
		if op.Path == "" {
			return nil, nil, fmt.Errorf("patch: root-level add is not supported by ExtractAdded")
		}
		tokens, perr := pointer.New(op.Path)
		if perr != nil {
			return nil, nil, perr
		}
		parent := pointer.Pointer(tokens[:len(tokens)-1])
		child := tokens[len(tokens)-1]
		key := parent.String()
		groups[key] = append(groups[key], addOp{parent: parent, child: child, value: op.Value})
		parentByKey[key] = parent
	}
	if len(groups) == 0 {
		return remaining, nil, nil
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(parentByKey[keys[i]]) < len(parentByKey[keys[j]]) })

	for _, key := range keys {
		parentTokens := parentByKey[key]
		ops := groups[key]

		parentAfter, gerr := parentTokens.Get(after)
		if gerr != nil {
			return nil, nil, fmt.Errorf("patch: parent %q not found in after: %w", parentTokens.String(), gerr)
		}

		switch {
		case parentAfter.IsObject():
			final := make(map[string]*node.Node, len(ops))
			for _, op := range ops {
				if _, numErr := pointer.ParseArrayIndex(op.child); numErr == nil || op.child == "-" {
					return nil, nil, fmt.Errorf("patch: object parent %q received array-style add at child %q", parentTokens.String(), op.child)
				}
				final[op.child] = op.value
			}

			parentRem, gerr := parentTokens.Get(remaining)
			if gerr != nil {
				return nil, nil, fmt.Errorf("patch: parent %q not found in remaining: %w", parentTokens.String(), gerr)
			}
			if !parentRem.IsObject() {
				return nil, nil, fmt.Errorf("patch: parent %q expected object in remaining", parentTokens.String())
			}
			newObj := shallowCloneObject(parentRem)
			for k := range final {
				newObj.Remove(k)
			}
			remaining, err = cowSetAtPath(remaining, parentTokens, newObj)
			if err != nil {
				return nil, nil, err
			}

			addedOnly, err = ensureAddedOnlyParent(addedOnly, parentTokens, false)
			if err != nil {
				return nil, nil, err
			}
			aoParent, gerr := parentTokens.Get(addedOnly)
			if gerr != nil {
				return nil, nil, fmt.Errorf("patch: addedOnly parent %q missing after ensure: %w", parentTokens.String(), gerr)
			}
			for k := range final {
				v, _ := parentAfter.Get(k)
				aoParent.Set(k, v)
			}

		case parentAfter.IsArray():
			baseLen := parentAfter.Size() - len(ops)
			if baseLen < 0 {
				return nil, nil, fmt.Errorf("patch: invalid baseLen for parent %q", parentTokens.String())
			}
			final := make(map[int]struct{}, len(ops))
			appendCount := 0
			for _, op := range ops {
				if op.child == "-" {
					final[baseLen+appendCount] = struct{}{}
					appendCount++
					continue
				}
				idx, ierr := pointer.ParseArrayIndex(op.child)
				if ierr != nil {
					return nil, nil, fmt.Errorf("patch: array parent %q child %q is not numeric nor '-': %w", parentTokens.String(), op.child, ierr)
				}
				if idx >= baseLen {
					return nil, nil, fmt.Errorf("patch: array parent %q child index %d >= baseLen %d", parentTokens.String(), idx, baseLen)
				}
				final[idx] = struct{}{}
			}

			parentRem, gerr := parentTokens.Get(remaining)
			if gerr != nil {
				return nil, nil, fmt.Errorf("patch: parent %q not found in remaining: %w", parentTokens.String(), gerr)
			}
			if !parentRem.IsArray() {
				return nil, nil, fmt.Errorf("patch: parent %q expected array in remaining", parentTokens.String())
			}
			filtered := node.NewArray()
			for i, e := range parentRem.Elements() {
				if _, drop := final[i]; drop {
					continue
				}
				filtered.Append(e)
			}
			remaining, err = cowSetAtPath(remaining, parentTokens, filtered)
			if err != nil {
				return nil, nil, err
			}

			addedOnly, err = ensureAddedOnlyParent(addedOnly, parentTokens, true)
			if err != nil {
				return nil, nil, err
			}
			idxs := make([]int, 0, len(final))
			for idx := range final {
				idxs = append(idxs, idx)
			}
			sort.Ints(idxs)
			aoParent, gerr := parentTokens.Get(addedOnly)
			if gerr != nil {
				return nil, nil, fmt.Errorf("patch: addedOnly parent %q missing after ensure: %w", parentTokens.String(), gerr)
			}
			for _, idx := range idxs {
				v, ok := parentAfter.Index(idx)
				if !ok {
					return nil, nil, fmt.Errorf("patch: after array index %d out of bounds for parent %q", idx, parentTokens.String())
				}
				aoParent.Append(v)
			}

		default:
			return nil, nil, fmt.Errorf("patch: parent %q must be object or array", parentTokens.String())
		}
	}

	return remaining, addedOnly, nil
}

// cowSetAtPath performs copy-on-write assignment of newVal at tokens
// within root: containers on the path are shallow-cloned so the caller's
// original tree is never mutated.
func cowSetAtPath(root *node.Node, tokens pointer.Pointer, newVal *node.Node) (*node.Node, error) {
	if len(tokens) == 0 {
		return newVal, nil
	}

	type frame struct {
		container *node.Node
		key       string
		isArray   bool
		index     int
	}
	var stack []frame
	current := root
	for i, tok := range tokens {
		switch {
		case current.IsObject():
			child, ok := current.Get(tok)
			if !ok {
				return nil, fmt.Errorf("patch: cowSetAtPath missing key %q at segment %d", tok, i)
			}
			stack = append(stack, frame{container: current, key: tok})
			current = child
		case current.IsArray():
			if tok == "-" {
				return nil, fmt.Errorf("patch: cowSetAtPath does not accept '-' in path")
			}
			idx, err := pointer.ParseArrayIndex(tok)
			if err != nil {
				return nil, err
			}
			if idx >= current.Size() {
				return nil, fmt.Errorf("patch: cowSetAtPath index %d out of bounds at segment %d", idx, i)
			}
			stack = append(stack, frame{container: current, isArray: true, index: idx})
			elem, _ := current.Index(idx)
			current = elem
		default:
			return nil, fmt.Errorf("patch: cowSetAtPath encountered non-container at segment %d", i)
		}
	}

	updated := newVal
	for i := len(stack) - 1; i >= 0; i-- {
		fr := stack[i]
		if fr.isArray {
			cp := shallowCloneArray(fr.container)
			cp.Elements()[fr.index] = updated
			updated = cp
			continue
		}
		cp := shallowCloneObject(fr.container)
		cp.Set(fr.key, updated)
		updated = cp
	}
	return updated, nil
}

// ensureAddedOnlyParent creates missing intermediate object containers
// along tokens within an addedOnly tree, creating the final container as
// an object or array depending on wantArray.
func ensureAddedOnlyParent(root *node.Node, tokens pointer.Pointer, wantArray bool) (*node.Node, error) {
	if len(tokens) == 0 {
		if wantArray {
			return node.NewArray(), nil
		}
		return node.NewObject(), nil
	}
	out := root
	if out == nil || out.IsNull() {
		out = node.NewObject()
	}
	current := out
	for i, tok := range tokens {
		last := i == len(tokens)-1
		if !current.IsObject() {
			return nil, fmt.Errorf("patch: ensureAddedOnlyParent encountered non-object intermediate at segment %d", i)
		}
		child, ok := current.Get(tok)
		if !ok {
			var created *node.Node
			if last && wantArray {
				created = node.NewArray()
			} else {
				created = node.NewObject()
			}
			cp := shallowCloneObject(current)
			cp.Set(tok, created)
			var err error
			out, err = cowSetAtPath(out, pointer.Pointer(tokens[:i]), cp)
			if err != nil {
				return nil, err
			}
			current = created
			continue
		}
		if last {
			if wantArray && child.IsArray() {
				current = child
				continue
			}
			if !wantArray && child.IsObject() {
				current = child
				continue
			}
			var desired *node.Node
			if wantArray {
				desired = node.NewArray()
			} else {
				desired = node.NewObject()
			}
			cp := shallowCloneObject(current)
			cp.Set(tok, desired)
			var err error
			out, err = cowSetAtPath(out, pointer.Pointer(tokens[:i]), cp)
			if err != nil {
				return nil, err
			}
			current = desired
			continue
		}
		current = child
	}
	return out, nil
}

// shallowCloneObject copies an object node's key order and top-level
// bindings into a fresh object, leaving child nodes shared with n.
func shallowCloneObject(n *node.Node) *node.Node {
	out := node.NewObject()
	for _, e := range n.Entries() {
		out.Set(e.Key, e.Value)
	}
	return out
}

// shallowCloneArray copies an array node's element slice into a fresh
// array, leaving the elements themselves shared with n.
func shallowCloneArray(n *node.Node) *node.Node {
	out := node.NewArray()
	for _, e := range n.Elements() {
		out.Append(e)
	}
	return out
}
