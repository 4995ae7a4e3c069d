package patch_test

import (
	"testing"

	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/patch"
)

func TestExtractAdded_ArrayAppendDash(t *testing.T) {
	after := mustParse(t, `["a","b","c"]`)
	p := patch.Patch{{Op: patch.Add, Path: "/-", Value: node.String("c")}}

	rem, add, err := patch.ExtractAdded(after, p)
	if err != nil {
		t.Fatalf("ExtractAdded() error: %v", err)
	}
	assertJSONEqual(t, rem, mustParse(t, `["a","b"]`), "remaining mismatch")
	assertJSONEqual(t, add, mustParse(t, `["c"]`), "addedOnly mismatch")
	assertJSONEqual(t, after, mustParse(t, `["a","b","c"]`), "after mutated")
}

func TestExtractAdded_ArrayNumericInsideBase(t *testing.T) {
	after := mustParse(t, `["a","x","b"]`)
	p := patch.Patch{{Op: patch.Add, Path: "/1", Value: node.String("x")}}

	rem, add, err := patch.ExtractAdded(after, p)
	if err != nil {
		t.Fatalf("ExtractAdded() error: %v", err)
	}
	assertJSONEqual(t, rem, mustParse(t, `["a","b"]`), "remaining mismatch")
	assertJSONEqual(t, add, mustParse(t, `["x"]`), "addedOnly mismatch")
}

func TestExtractAdded_ObjectNested(t *testing.T) {
	after := mustParse(t, `{"a":{"b":{"c":1}}}`)
	one, _ := node.Wrap(1.0)
	p := patch.Patch{{Op: patch.Add, Path: "/a/b/c", Value: one}}

	rem, add, err := patch.ExtractAdded(after, p)
	if err != nil {
		t.Fatalf("ExtractAdded() error: %v", err)
	}
	assertJSONEqual(t, rem, mustParse(t, `{"a":{"b":{}}}`), "remaining mismatch")
	assertJSONEqual(t, add, mustParse(t, `{"a":{"b":{"c":1}}}`), "addedOnly mismatch")
}

func TestExtractAdded_ObjectRepeatedKeyLastWins(t *testing.T) {
	after := mustParse(t, `{"x":2}`)
	one, _ := node.Wrap(1.0)
	two, _ := node.Wrap(2.0)
	p := patch.Patch{
		{Op: patch.Add, Path: "/x", Value: one},
		{Op: patch.Add, Path: "/x", Value: two},
	}

	rem, add, err := patch.ExtractAdded(after, p)
	if err != nil {
		t.Fatalf("ExtractAdded() error: %v", err)
	}
	assertJSONEqual(t, rem, mustParse(t, `{}`), "remaining mismatch")
	assertJSONEqual(t, add, mustParse(t, `{"x":2}`), "addedOnly mismatch")
}

func TestExtractAdded_ErrRootAdd(t *testing.T) {
	after := mustParse(t, `{"a":1}`)
	p := patch.Patch{{Op: patch.Add, Path: "", Value: mustParse(t, `{"b":2}`)}}

	if _, _, err := patch.ExtractAdded(after, p); err == nil {
		t.Fatalf("expected error for root-level add")
	}
}

func TestExtractAdded_ErrMissingParent(t *testing.T) {
	after := mustParse(t, `{"z":1}`)
	one, _ := node.Wrap(1.0)
	p := patch.Patch{{Op: patch.Add, Path: "/a/b", Value: one}}

	if _, _, err := patch.ExtractAdded(after, p); err == nil {
		t.Fatalf("expected error for missing parent")
	}
}
