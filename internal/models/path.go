package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RootToken is the rendered form of the empty path, addressing the
// document root.
const RootToken = "$"

// Segment is one step of a path: either an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns a segment addressing an object member.
func KeySegment(key string) Segment { return Segment{Key: key} }

// IndexSegment returns a segment addressing an array element.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path is an ordered sequence of segments locating a node from the
// document root. The empty path addresses the root itself.
type Path []Segment

// Child returns a new path extended by one key segment. The receiver is
// never modified and the result shares no backing storage with it, so
// paths captured during a traversal stay stable.
func (p Path) Child(key string) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = KeySegment(key)
	return child
}

// ChildIndex returns a new path extended by one index segment.
func (p Path) ChildIndex(i int) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = IndexSegment(i)
	return child
}

// String renders the path in JSONPath-like normalized form: "$" for the
// root, then ".key" for identifier-like keys, ["quoted key"] otherwise,
// and "[i]" for array indices.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(RootToken)
	for _, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if isIdentifier(seg.Key) {
			b.WriteByte('.')
			b.WriteString(seg.Key)
		} else {
			b.WriteByte('[')
			b.WriteString(QuoteString(seg.Key))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// ParsePath parses the syntax produced by Path.String. The leading "$"
// is required.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	if !strings.HasPrefix(s, RootToken) {
		return nil, fmt.Errorf("path must start with %q", RootToken)
	}
	rest := s[len(RootToken):]
	var p Path
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := 0
			for end < len(rest) && rest[end] != '.' && rest[end] != '[' {
				end++
			}
			key := rest[:end]
			if key == "" {
				return nil, fmt.Errorf("empty key segment in path %q", s)
			}
			p = append(p, KeySegment(key))
			rest = rest[end:]
		case '[':
			if len(rest) > 1 && (rest[1] == '"' || rest[1] == '\'') {
				// Quoted key segment. Scan to the closing quote honoring
				// escapes; a ']' inside the quotes is part of the key.
				end := closeQuote(rest, 1)
				if end < 0 {
					return nil, fmt.Errorf("unterminated quote in path %q", s)
				}
				if end+1 >= len(rest) || rest[end+1] != ']' {
					return nil, fmt.Errorf("unterminated bracket in path %q", s)
				}
				key, err := unquoteSegment(rest[1 : end+1])
				if err != nil {
					return nil, fmt.Errorf("invalid key segment in path %q: %w", s, err)
				}
				p = append(p, KeySegment(key))
				rest = rest[end+2:]
				continue
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated bracket in path %q", s)
			}
			inner := rest[1:end]
			if inner == "" {
				return nil, fmt.Errorf("empty bracket segment in path %q", s)
			}
			idx, err := strconv.Atoi(inner)
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid index segment %q in path %q", inner, s)
			}
			p = append(p, IndexSegment(idx))
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("unexpected character %q in path %q", rest[0], s)
		}
	}
	return p, nil
}

// closeQuote returns the index of the closing quote for the quoted
// string opening at s[start], skipping backslash escapes, or -1 if the
// string never closes.
func closeQuote(s string, start int) int {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func unquoteSegment(s string) (string, error) {
	if len(s) < 2 || s[0] != s[len(s)-1] {
		return "", fmt.Errorf("unbalanced quotes in %q", s)
	}
	if s[0] == '\'' {
		// strconv.Unquote handles single quotes only for single runes,
		// so normalize to double quotes first.
		inner := strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		s = `"` + inner + `"`
	}
	return strconv.Unquote(s)
}

// isIdentifier reports whether key can be rendered in dot notation.
func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
