package patch

import (
	"strconv"
	"strings"

	"github.com/agentflare-ai/jsontransform/node"
)

// New computes a minimal RFC 6902 patch transforming a into b.
func New(a, b *node.Node) (Patch, error) {
	return diffValue("", a, b)
}

func diffValue(path string, a, b *node.Node) (Patch, error) {
	if node.DeepEqual(a, b) {
		return nil, nil
	}
	if a.IsObject() && b.IsObject() {
		return diffObject(path, a, b)
	}
	if a.IsArray() && b.IsArray() {
		return diffArray(path, a, b)
	}
	return Patch{{Op: Replace, Path: path, Value: b}}, nil
}

func diffObject(path string, a, b *node.Node) (Patch, error) {
	var out Patch
	for _, e := range a.Entries() {
		if !b.Has(e.Key) {
			out = append(out, Operation{Op: Remove, Path: joinPath(path, e.Key)})
		}
	}
	for _, e := range b.Entries() {
		if av, exists := a.Get(e.Key); exists {
			child, err := diffValue(joinPath(path, e.Key), av, e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, child...)
			continue
		}
		out = append(out, Operation{Op: Add, Path: joinPath(path, e.Key), Value: node.Clone(e.Value)})
	}
	return out, nil
}

// diffArray produces a patch transforming a -> b using an LCS-based edit
// script: elements are matched by canonical-JSON token equality, the
// longest increasing subsequence of matched positions is kept in place,
// and everything else is removed (descending index order) then added
// (ascending index order).
func diffArray(path string, a, b *node.Node) (Patch, error) {
	atoks, err := tokenizeArray(a)
	if err != nil {
		return nil, err
	}
	btoks, err := tokenizeArray(b)
	if err != nil {
		return nil, err
	}
	n, m := len(atoks), len(btoks)

	posMap := make(map[string][]int, n)
	for i, t := range atoks {
		posMap[t] = append(posMap[t], i)
	}
	type pair struct{ ai, bj int }
	pairs := make([]pair, 0, min(n, m))
	seq := make([]int, 0, min(n, m))
	for j, t := range btoks {
		q := posMap[t]
		if len(q) == 0 {
			continue
		}
		ai := q[0]
		posMap[t] = q[1:]
		pairs = append(pairs, pair{ai: ai, bj: j})
		seq = append(seq, ai)
	}

	k := len(seq)
	tails := make([]int, 0, k)
	prev := make([]int, k)
	for i := range prev {
		prev[i] = -1
	}
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		pos := lo
		if pos > 0 {
			prev[i] = tails[pos-1]
		}
		if pos == len(tails) {
			tails = append(tails, i)
		} else {
			tails[pos] = i
		}
	}
	lisLen := len(tails)
	lisIdx := make([]int, lisLen)
	if lisLen > 0 {
		p := tails[lisLen-1]
		for x := lisLen - 1; x >= 0; x-- {
			lisIdx[x] = p
			p = prev[p]
			if p < 0 && x > 0 {
				break
			}
		}
	}

	keepA := make([]bool, n)
	keepB := make([]bool, m)
	for _, idxPair := range lisIdx {
		keepA[pairs[idxPair].ai] = true
		keepB[pairs[idxPair].bj] = true
	}

	var out Patch
	for i := n - 1; i >= 0; i-- {
		if !keepA[i] {
			out = append(out, Operation{Op: Remove, Path: joinPath(path, strconv.Itoa(i))})
		}
	}
	for j := 0; j < m; j++ {
		if !keepB[j] {
			elem, _ := b.Index(j)
			out = append(out, Operation{Op: Add, Path: joinPath(path, strconv.Itoa(j)), Value: node.Clone(elem)})
		}
	}
	return out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// tokenizeArray renders each element's canonical JSON text, so structural
// equality between elements collapses to string equality for the LCS match.
func tokenizeArray(arr *node.Node) ([]string, error) {
	elems := arr.Elements()
	out := make([]string, len(elems))
	for i, e := range elems {
		s, err := node.ToString(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// joinPath appends a single RFC 6901 token onto a pointer path, escaping
// "~" and "/" per the pointer grammar.
func joinPath(base, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return base + "/" + token
}
