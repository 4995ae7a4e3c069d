package resolve

import (
	"testing"

	"github.com/agentflare-ai/jsontransform/node"
)

func primaryDoc(t *testing.T) *node.Node {
	t.Helper()
	n, err := node.Parse(`{"user":{"name":"Ada","age":37},"tags":["a","b"]}`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return n
}

func TestResolve_BlankPassthrough(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "" {
		t.Fatalf("Resolve(\"\") = %v, want empty string", got)
	}
}

func TestResolve_LiteralPassthrough(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("hello world")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("Resolve() = %v, want %q", got, "hello world")
	}
}

func TestResolve_EscapedDollarAndHash(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cases := []struct{ in, want string }{
		{`\$literal`, `$literal`},
		{`\#literal`, `#literal`},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.in)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %v, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_RegexGuardPassthrough(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cases := []string{"$0", "$1", "$9"}
	for _, in := range cases {
		got, err := r.Resolve(in)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", in, err)
		}
		if got != in {
			t.Fatalf("Resolve(%q) = %v, want unchanged", in, got)
		}
	}
}

func TestResolve_UnrecognizedRootPassthrough(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("#unregistered.path")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "#unregistered.path" {
		t.Fatalf("Resolve() = %v, want unchanged", got)
	}
}

func TestResolve_Macros(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got, err := r.Resolve("#uuid")
	if err != nil {
		t.Fatalf("Resolve(#uuid) error: %v", err)
	}
	s, ok := got.(string)
	if !ok || len(s) != 36 {
		t.Fatalf("Resolve(#uuid) = %v, want a 36-char UUID string", got)
	}

	got, err = r.Resolve("#null")
	if err != nil {
		t.Fatalf("Resolve(#null) error: %v", err)
	}
	if got != nil {
		t.Fatalf("Resolve(#null) = %v, want nil", got)
	}

	got, err = r.Resolve("#now")
	if err != nil {
		t.Fatalf("Resolve(#now) error: %v", err)
	}
	if _, ok := got.(string); !ok {
		t.Fatalf("Resolve(#now) = %v, want a timestamp string", got)
	}
}

func TestResolve_PrimaryDocumentJSONPath(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{ReduceBigDecimals: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("$.user.name")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "Ada" {
		t.Fatalf("Resolve($.user.name) = %v, want Ada", got)
	}
}

func TestResolve_SecondaryDocumentLiteral(t *testing.T) {
	r, err := New(primaryDoc(t), map[string]any{"#greeting": "hi"}, Options{ReduceBigDecimals: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("#greeting")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "hi" {
		t.Fatalf("Resolve(#greeting) = %v, want hi", got)
	}
}

func TestResolve_SecondaryDocumentLazyJSONPath(t *testing.T) {
	order := map[string]any{"id": "ORD-1", "total": 42}
	r, err := New(primaryDoc(t), map[string]any{"#order": order}, Options{ReduceBigDecimals: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("#order.id")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "ORD-1" {
		t.Fatalf("Resolve(#order.id) = %v, want ORD-1", got)
	}
}

func TestResolve_ReduceBigDecimalsNarrowsToFloat(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{ReduceBigDecimals: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("$.user.age")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, ok := got.(float64); !ok {
		t.Fatalf("Resolve($.user.age) = %T(%v), want float64", got, got)
	}
}

func TestResolve_WithoutReduceReturnsNode(t *testing.T) {
	r, err := New(primaryDoc(t), nil, Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := r.Resolve("$.user.age")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, ok := got.(*node.Node); !ok {
		t.Fatalf("Resolve($.user.age) = %T(%v), want *node.Node", got, got)
	}
}
