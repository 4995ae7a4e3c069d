package node

import "testing"

func TestParseAndToString_Roundtrip(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"object", `{"a":"b","c":"d"}`, `{"a":"b","c":"d"}`},
		{"nested array", `{"foo":["bar","baz"]}`, `{"foo":["bar","baz"]}`},
		{"whole float no fraction", `{"n":1.0}`, `{"n":1}`},
		{"decimal trims trailing zeros", `{"n":1.2500}`, `{"n":1.25}`},
		{"bool", `{"b":true}`, `{"b":true}`},
		{"null", `{"n":null}`, `{"n":null}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			got, err := ToString(n)
			if err != nil {
				t.Fatalf("ToString() error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ToString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSet_PreservesPositionOnReplace(t *testing.T) {
	obj := NewObject()
	obj.Set("a", String("1"))
	obj.Set("b", String("2"))
	obj.Set("c", String("3"))
	obj.Set("b", String("replaced"))

	keys := make([]string, 0, 3)
	for _, e := range obj.Entries() {
		keys = append(keys, e.Key)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key order = %v, want %v", keys, want)
		}
	}
	v, _ := obj.Get("b")
	if s, _ := v.AsString(); s != "replaced" {
		t.Fatalf("b = %q, want replaced", s)
	}
}

func TestRemove_PreservesRemainingOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("a", String("1"))
	obj.Set("b", String("2"))
	obj.Set("c", String("3"))
	obj.Remove("b")

	var keys []string
	for _, e := range obj.Entries() {
		keys = append(keys, e.Key)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("keys after remove = %v", keys)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	orig := NewObject()
	orig.Set("arr", ArrayOf(String("x")))

	clone := Clone(orig)
	arr, _ := clone.Get("arr")
	arr.Append(String("y"))

	origArr, _ := orig.Get("arr")
	if origArr.Size() != 1 {
		t.Fatalf("mutating clone affected original: size=%d", origArr.Size())
	}
}

func TestInsert_OutOfBounds(t *testing.T) {
	arr := ArrayOf(String("a"), String("b"))
	if err := arr.Insert(3, String("c")); err == nil {
		t.Fatalf("expected error for out-of-bounds insert")
	}
	if err := arr.Insert(2, String("c")); err != nil {
		t.Fatalf("insert at len should succeed: %v", err)
	}
}

func TestUnwrap_ReduceBigDecimals(t *testing.T) {
	n, _ := Parse(`{"n":2.50}`)
	v, _ := n.Get("n")
	full := Unwrap(v, false)
	if _, ok := full.(interface{ String() string }); !ok {
		t.Fatalf("expected decimal.Decimal when reduceBigDecimals=false, got %T", full)
	}
	reduced := Unwrap(v, true)
	f, ok := reduced.(float64)
	if !ok || f != 2.5 {
		t.Fatalf("expected float64(2.5), got %#v", reduced)
	}
}

func TestAdapter_Std(t *testing.T) {
	var a Adapter = Std{}
	obj := a.NewObject()
	a.Set(obj, "x", a.NullNode())
	if !a.Has(obj, "x") {
		t.Fatalf("adapter Has() failed after Set()")
	}
	if !a.IsNull(obj.obj.vals["x"]) {
		t.Fatalf("adapter IsNull() failed")
	}
}
