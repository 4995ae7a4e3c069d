package patch

import (
	"fmt"
	"strconv"

	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/pointer"
)

// Delta captures a single concrete path change recorded during Prepare.
// Move/copy expand into an add/remove pair of deltas.
type Delta struct {
	Path          string
	Op            Op
	Before        *node.Node
	After         *node.Node
	ExistedBefore bool
	ExistedAfter  bool
}

// Diff holds ordered deltas plus the precompiled forward/reverse patches
// that reproduce or undo their effect.
type Diff struct {
	Deltas  []Delta
	forward Patch
	reverse Patch
}

// Apply reproduces the patch effect on document using the captured deltas.
func (d Diff) Apply(document *node.Node) (*node.Node, error) {
	return ApplyInPlace(document, d.forward)
}

// Revert undoes the effect on document using the captured deltas, in
// reverse order.
func (d Diff) Revert(document *node.Node) (*node.Node, error) {
	return ApplyInPlace(document, d.reverse)
}

func isRootPath(path string) bool {
	p, err := pointer.New(path)
	return err == nil && len(p) == 0
}

// Prepare simulates applying p to original without mutating it, and
// returns a Diff recording concrete, reproducible before/after values at
// each op's resolved path (including resolving "-" array appends into a
// concrete index), usable to reapply or revert the patch's effect later.
func Prepare(original *node.Node, p Patch) (Diff, error) {
	doc := node.Clone(original)
	var deltas []Delta

	for _, op := range p {
		switch op.Op {
		case Add:
			resolvedPath, err := resolveConcreteAddPath(doc, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("add resolve path: %w", err)
			}
			existed, before, err := tryGet(doc, resolvedPath)
			if err != nil {
				return Diff{}, fmt.Errorf("add read before: %w", err)
			}
			after := node.Clone(op.Value)
			deltas = append(deltas, Delta{Path: resolvedPath, Op: Add, Before: before, After: after, ExistedBefore: existed, ExistedAfter: true})

			doc, err = applyAdd(doc, op.Path, op.Value)
			if err != nil {
				return Diff{}, fmt.Errorf("apply add: %w", err)
			}

		case Remove:
			before, err := pointer.Get(doc, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("remove read before: %w", err)
			}
			before = node.Clone(before)
			deltas = append(deltas, Delta{Path: op.Path, Op: Remove, Before: before, ExistedBefore: true, ExistedAfter: false})

			doc, err = applyRemove(doc, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("apply remove: %w", err)
			}

		case Replace:
			before, err := pointer.Get(doc, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("replace read before: %w", err)
			}
			before = node.Clone(before)
			after := node.Clone(op.Value)
			deltas = append(deltas, Delta{Path: op.Path, Op: Replace, Before: before, After: after, ExistedBefore: true, ExistedAfter: true})

			doc, err = applyReplace(doc, op.Path, op.Value)
			if err != nil {
				return Diff{}, fmt.Errorf("apply replace: %w", err)
			}

		case Move:
			if isProperPrefix(op.From, op.Path) {
				return Diff{}, fmt.Errorf("apply move: %w: from=%q to=%q", ErrIllegalMove, op.From, op.Path)
			}
			val, err := pointer.Get(doc, op.From)
			if err != nil {
				return Diff{}, fmt.Errorf("move read source: %w", err)
			}
			val = node.Clone(val)
			deltas = append(deltas, Delta{Path: op.From, Op: Remove, Before: val, ExistedBefore: true, ExistedAfter: false})
			doc, err = applyRemove(doc, op.From)
			if err != nil {
				return Diff{}, fmt.Errorf("apply move: %w", err)
			}
			resolvedDest, err := resolveConcreteAddPath(doc, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("move resolve dest: %w", err)
			}
			destExisted, destBefore, err := tryGet(doc, resolvedDest)
			if err != nil {
				return Diff{}, fmt.Errorf("move read dest before: %w", err)
			}

			deltas = append(deltas, Delta{Path: resolvedDest, Op: Add, Before: destBefore, After: val, ExistedBefore: destExisted, ExistedAfter: true})

			doc, err = applyAdd(doc, op.Path, node.Clone(val))
			if err != nil {
				return Diff{}, fmt.Errorf("apply move: %w", err)
			}

		case Copy:
			val, err := pointer.Get(doc, op.From)
			if err != nil {
				return Diff{}, fmt.Errorf("copy read source: %w", err)
			}
			val = node.Clone(val)
			resolvedDest, err := resolveConcreteAddPath(doc, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("copy resolve dest: %w", err)
			}
			destExisted, destBefore, err := tryGet(doc, resolvedDest)
			if err != nil {
				return Diff{}, fmt.Errorf("copy read dest before: %w", err)
			}

			deltas = append(deltas, Delta{Path: resolvedDest, Op: Add, Before: destBefore, After: val, ExistedBefore: destExisted, ExistedAfter: true})

			doc, err = applyCopy(doc, op.From, op.Path)
			if err != nil {
				return Diff{}, fmt.Errorf("apply copy: %w", err)
			}

		case Test:
			if err := applyTest(doc, op.Path, op.Value); err != nil {
				return Diff{}, fmt.Errorf("test: %w", err)
			}
			// No delta recorded for a test op: it leaves no trace to replay.

		default:
			return Diff{}, fmt.Errorf("prepare: %w: %s", ErrUnknownOp, op.Op)
		}
	}

	forward, err := compileForward(deltas)
	if err != nil {
		return Diff{}, err
	}
	reverse, err := compileReverse(deltas)
	if err != nil {
		return Diff{}, err
	}
	return Diff{Deltas: deltas, forward: forward, reverse: reverse}, nil
}

func compileForward(deltas []Delta) (Patch, error) {
	var forward Patch
	for _, d := range deltas {
		switch d.Op {
		case Add:
			forward = append(forward, Operation{Op: Add, Path: d.Path, Value: d.After})
		case Remove:
			forward = append(forward, Operation{Op: Remove, Path: d.Path})
		case Replace:
			forward = append(forward, Operation{Op: Replace, Path: d.Path, Value: d.After})
		default:
			return nil, fmt.Errorf("prepare: %w in forward compile: %s", ErrUnknownOp, d.Op)
		}
	}
	return forward, nil
}

func compileReverse(deltas []Delta) (Patch, error) {
	var reverse Patch
	for i := len(deltas) - 1; i >= 0; i-- {
		d := deltas[i]
		if isRootPath(d.Path) {
			reverse = append(reverse, Operation{Op: Replace, Path: "", Value: d.Before})
			continue
		}
		switch d.Op {
		case Add:
			if d.ExistedBefore {
				reverse = append(reverse, Operation{Op: Replace, Path: d.Path, Value: d.Before})
			} else {
				reverse = append(reverse, Operation{Op: Remove, Path: d.Path})
			}
		case Remove:
			reverse = append(reverse, Operation{Op: Add, Path: d.Path, Value: d.Before})
		case Replace:
			reverse = append(reverse, Operation{Op: Replace, Path: d.Path, Value: d.Before})
		default:
			return nil, fmt.Errorf("prepare: %w in reverse compile: %s", ErrUnknownOp, d.Op)
		}
	}
	return reverse, nil
}

// tryGet reports whether an add at path would replace an existing value,
// returning a clone of that value so later mutation of document can't
// alias it. An existing array element is shifted by an add, not
// replaced, so it reports false.
func tryGet(document *node.Node, path string) (bool, *node.Node, error) {
	val, err := pointer.Get(document, path)
	if err != nil {
		return false, nil, nil
	}
	if p, perr := pointer.New(path); perr == nil && len(p) > 0 {
		if parent, gerr := pointer.Pointer(p[:len(p)-1]).Get(document); gerr == nil && parent.IsArray() {
			return false, nil, nil
		}
	}
	return true, node.Clone(val), nil
}

// resolveConcreteAddPath rewrites a trailing "-" array-append token into
// the concrete index it currently resolves to, leaving any other path
// unchanged.
func resolveConcreteAddPath(document *node.Node, path string) (string, error) {
	p, err := pointer.New(path)
	if err != nil {
		return "", err
	}
	if len(p) == 0 {
		return path, nil
	}
	last := p[len(p)-1]
	if last != "-" {
		return path, nil
	}
	parentPath := pointer.Pointer(p[:len(p)-1]).String()
	parent, err := pointer.Get(document, parentPath)
	if err != nil {
		return "", fmt.Errorf("parent %q not found for '-': %w", parentPath, err)
	}
	if !parent.IsArray() {
		return "", fmt.Errorf("%w: parent %q is not an array", pointer.ErrNotContainer, parentPath)
	}
	idx := strconv.Itoa(parent.Size())
	if parentPath == "" {
		return "/" + idx, nil
	}
	return parentPath + "/" + idx, nil
}
