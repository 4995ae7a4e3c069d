// Package path implements a dotted/bracketed path grammar, used by the
// merge engine to walk and create nested structure.
// This is distinct from RFC 6901 JSON Pointer (see package pointer):
// tokens here are opaque segment strings — either bare member names or
// bracket-selector text handed to a downstream JSONPath engine — not
// percent/tilde-escaped pointer tokens.
package path

import "strings"

// Tokenize splits path into an ordered sequence of segments following:
//
//   - a top-level '.' separates segments only when outside brackets/quotes
//   - '[' opens a bracket context; its matching ']' is not a separator
//   - inside a bracket context, '\'' or '"' opens a quoted region closed
//     by the matching quote, during which '.', '[', ']' are literal
//   - a lone leading "$" segment (denoting the document root) is dropped
//   - blank/whitespace-only input tokenizes to the empty sequence
func Tokenize(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	var segments []string
	var cur strings.Builder
	depth := 0
	var quote byte

	flush := func() {
		if cur.Len() > 0 {
			segments = append(segments, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		c := path[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case depth > 0 && (c == '\'' || c == '"'):
			quote = c
			cur.WriteByte(c)
		case c == '[':
			// A bracket selector is its own segment: flush whatever
			// preceded it (a bare name, or a just-closed bracket with no
			// separating dot) before starting the new one.
			if depth == 0 {
				flush()
			}
			depth++
			cur.WriteByte(c)
		case c == ']':
			if depth > 0 {
				depth--
			}
			cur.WriteByte(c)
		case c == '.' && depth == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	if len(segments) > 0 && segments[0] == "$" {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}
