package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse lexes text into a Node tree. Numbers are decoded with
// json.Number so no precision is lost before they become decimal.Decimal.
func Parse(text string) (*Node, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("node: parse: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(v any) (*Node, error) {
	switch tv := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(tv), nil
	case string:
		return String(tv), nil
	case json.Number:
		d, err := decimal.NewFromString(tv.String())
		if err != nil {
			return nil, fmt.Errorf("node: invalid number literal %q: %w", tv.String(), err)
		}
		return NumberFromDecimal(d), nil
	case []any:
		out := NewArray()
		for _, e := range tv {
			ce, err := fromRaw(e)
			if err != nil {
				return nil, err
			}
			out.arr = append(out.arr, ce)
		}
		return out, nil
	case map[string]any:
		// encoding/json does not preserve key order; this path is only used
		// for input that did not already flow through our own Node decoder.
		out := NewObject()
		for k, e := range tv {
			ce, err := fromRaw(e)
			if err != nil {
				return nil, err
			}
			out.Set(k, ce)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("node: parse: unsupported raw type %T", v)
	}
}

// ToString serializes n as canonical JSON text, preserving object
// insertion order and rendering numbers per the numeric-string rule
// (whole numbers without a fractional part, decimals with trailing
// zeros stripped but at least one significant digit kept).
func ToString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeNode(buf *bytes.Buffer, n *Node) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if n.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(numberString(n.num))
	case KindString:
		s, err := json.Marshal(n.str)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range n.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range n.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeNode(buf, n.obj.vals[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// numberString renders a decimal per the numeric-string rule: whole
// numbers without a fractional part or scientific notation, decimals
// with trailing zeros stripped but at least one significant digit.
func numberString(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// AsString renders the numeric-string / boolean-string rule independent
// of kind: numbers and bools degrade to their textual form, strings pass
// through, null becomes "null". Arrays/objects are not representable and
// return ok=false.
func AsString(n *Node) (string, bool) {
	if n == nil {
		return "null", true
	}
	switch n.kind {
	case KindNull:
		return "null", true
	case KindBool:
		if n.b {
			return "true", true
		}
		return "false", true
	case KindNumber:
		return numberString(n.num), true
	case KindString:
		return n.str, true
	default:
		return "", false
	}
}

// MarshalJSON implements json.Marshaler so Node can sit at API
// boundaries (e.g. an HTTP handler decoding a patch body).
func (n *Node) MarshalJSON() ([]byte, error) {
	s, err := ToString(n)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}
