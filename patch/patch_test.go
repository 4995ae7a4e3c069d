package patch_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/agentflare-ai/jsontransform/node"
	"github.com/agentflare-ai/jsontransform/patch"
)

func mustParse(t *testing.T, s string) *node.Node {
	t.Helper()
	n, err := node.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", s, err)
	}
	return n
}

func mustParsePatch(t *testing.T, s string) patch.Patch {
	t.Helper()
	var p patch.Patch
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		t.Fatalf("unmarshal patch %q error: %v", s, err)
	}
	return p
}

func TestApply(t *testing.T) {
	cases := []struct {
		name        string
		doc         string
		patch       string
		expected    string
		expectedErr string
	}{
		// RFC 6902, Appendix A.1. Add an Object Member
		{
			name:     "add an object member",
			doc:      `{"a":"b","c":"d"}`,
			patch:    `[{"op":"add","path":"/b","value":"e"}]`,
			expected: `{"a":"b","c":"d","b":"e"}`,
		},
		// RFC 6902, Appendix A.2. Add an Array Element
		{
			name:     "add an array element",
			doc:      `{"foo":["bar","baz"]}`,
			patch:    `[{"op":"add","path":"/foo/1","value":"qux"}]`,
			expected: `{"foo":["bar","qux","baz"]}`,
		},
		// RFC 6902, Appendix A.3. Remove an Object Member
		{
			name:     "remove an object member",
			doc:      `{"a":"b","c":"d"}`,
			patch:    `[{"op":"remove","path":"/a"}]`,
			expected: `{"c":"d"}`,
		},
		// RFC 6902, Appendix A.4. Remove an Array Element
		{
			name:     "remove an array element",
			doc:      `{"foo":["bar","qux","baz"]}`,
			patch:    `[{"op":"remove","path":"/foo/1"}]`,
			expected: `{"foo":["bar","baz"]}`,
		},
		// RFC 6902, Appendix A.5. Replace a Value
		{
			name:     "replace a value",
			doc:      `{"a":"b","c":"d"}`,
			patch:    `[{"op":"replace","path":"/a","value":"e"}]`,
			expected: `{"a":"e","c":"d"}`,
		},
		// RFC 6902, Appendix A.6. Move a Value
		{
			name:     "move a value",
			doc:      `{"foo":{"bar":"baz","waldo":"fred"},"qux":{"corge":"grault"}}`,
			patch:    `[{"op":"move","from":"/foo/waldo","path":"/qux/thud"}]`,
			expected: `{"foo":{"bar":"baz"},"qux":{"corge":"grault","thud":"fred"}}`,
		},
		// RFC 6902, Appendix A.7. Move an Array Element
		{
			name:     "move an array element",
			doc:      `{"foo":["all","grass","cows","eat"]}`,
			patch:    `[{"op":"move","from":"/foo/1","path":"/foo/3"}]`,
			expected: `{"foo":["all","cows","eat","grass"]}`,
		},
		// RFC 6902, Appendix A.8. Test a Value
		{
			name:     "test a value (success)",
			doc:      `{"baz":"qux","foo":["a",2,"c"]}`,
			patch:    `[{"op":"test","path":"/baz","value":"qux"}]`,
			expected: `{"baz":"qux","foo":["a",2,"c"]}`,
		},
		// RFC 6902, Appendix A.9. Test a Value (error)
		{
			name:        "test a value (error)",
			doc:         `{"baz":"qux"}`,
			patch:       `[{"op":"test","path":"/baz","value":"bar"}]`,
			expectedErr: "test operation failed",
		},
		{
			name:        "illegal move into own descendant",
			doc:         `{"a":{"b":1}}`,
			patch:       `[{"op":"move","from":"/a","path":"/a/b"}]`,
			expectedErr: "illegal move",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, tc.doc)
			p := mustParsePatch(t, tc.patch)

			result, err := patch.Apply(doc, p)

			if tc.expectedErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got none", tc.expectedErr)
				}
				if !strings.Contains(err.Error(), tc.expectedErr) {
					t.Fatalf("expected error containing %q, got %q", tc.expectedErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := node.ToString(result)
			if err != nil {
				t.Fatalf("ToString() error: %v", err)
			}
			want, err := node.ToString(mustParse(t, tc.expected))
			if err != nil {
				t.Fatalf("ToString() error: %v", err)
			}
			if got != want {
				t.Fatalf("Apply() = %s, want %s", got, want)
			}
		})
	}
}

func TestApply_DoesNotMutateOriginal(t *testing.T) {
	doc := mustParse(t, `{"a":1}`)
	p := mustParsePatch(t, `[{"op":"replace","path":"/a","value":2}]`)

	if _, err := patch.Apply(doc, p); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	got, _ := node.ToString(doc)
	if got != `{"a":1}` {
		t.Fatalf("Apply() mutated its input document: %s", got)
	}
}

func TestApplyStream(t *testing.T) {
	doc := `{"a":"b","c":"d"}`
	p := mustParsePatch(t, `[{"op":"add","path":"/b","value":"e"}]`)

	var out bytes.Buffer
	if err := patch.ApplyStream(strings.NewReader(doc), &out, p); err != nil {
		t.Fatalf("ApplyStream() error: %v", err)
	}

	result, err := node.Parse(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	got, _ := node.ToString(result)
	want, _ := node.ToString(mustParse(t, `{"a":"b","c":"d","b":"e"}`))
	if got != want {
		t.Fatalf("ApplyStream() = %s, want %s", got, want)
	}
}
