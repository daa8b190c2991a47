package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/models"
)

// lenientParser is a recursive-descent parser for the lenient superset
// of JSON: unquoted identifier-like keys, single- or double-quoted
// strings, trailing commas in arrays and objects, and // or /* */
// comments. Nothing else is forgiven: missing values, unbalanced
// brackets, and stray tokens are errors, so a successful parse always
// reflects the input exactly. Only data values are ever produced.
type lenientParser struct {
	s        string
	pos      int
	maxDepth int
}

// parseLenient parses a complete document. The input must already be
// trimmed and non-empty.
func parseLenient(s string, maxDepth int) (*models.Value, error) {
	p := &lenientParser{s: s, maxDepth: maxDepth}
	p.skipSpace()
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.s) {
		return nil, p.errorf("unexpected trailing characters")
	}
	return v, nil
}

func (p *lenientParser) errorf(format string, args ...any) error {
	pos := p.pos
	if pos > len(p.s) {
		pos = len(p.s)
	}
	return fmt.Errorf(format+" at position %d", append(args, pos)...)
}

// skipSpace consumes whitespace and comments. An unterminated block
// comment consumes the rest of the input; the caller then fails with an
// unexpected-end error.
func (p *lenientParser) skipSpace() {
	for p.pos < len(p.s) {
		switch c := p.s[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.s) && p.s[p.pos+1] == '/':
			for p.pos < len(p.s) && p.s[p.pos] != '\n' {
				p.pos++
			}
		case c == '/' && p.pos+1 < len(p.s) && p.s[p.pos+1] == '*':
			end := strings.Index(p.s[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.s)
				return
			}
			p.pos += 2 + end + 2
		default:
			return
		}
	}
}

func (p *lenientParser) parseValue(depth int) (*models.Value, error) {
	if depth > p.maxDepth {
		return nil, errors.NewParsingError(
			fmt.Sprintf("document nests deeper than %d levels", p.maxDepth),
			errors.ErrTooDeep,
		)
	}
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.s[p.pos]; {
	case c == '{':
		return p.parseObject(depth)
	case c == '[':
		return p.parseArray(depth)
	case c == '"' || c == '\'':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return models.NewString(s), nil
	case c == 't':
		return p.parseLiteral("true", models.NewBool(true))
	case c == 'f':
		return p.parseLiteral("false", models.NewBool(false))
	case c == 'n':
		return p.parseLiteral("null", models.NewNull())
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *lenientParser) parseObject(depth int) (*models.Value, error) {
	p.pos++ // '{'
	obj := models.NewObject()
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, p.errorf("unexpected end of input inside object")
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.s) || p.s[p.pos] != ':' {
			return nil, p.errorf("expected ':' after object key %q", key)
		}
		p.pos++
		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, p.errorf("unexpected end of input inside object")
		}
		switch p.s[p.pos] {
		case ',':
			p.pos++
			p.skipSpace()
			// Trailing comma before the closing brace.
			if p.pos < len(p.s) && p.s[p.pos] == '}' {
				p.pos++
				return obj, nil
			}
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object, got %q", p.s[p.pos])
		}
	}
}

func (p *lenientParser) parseArray(depth int) (*models.Value, error) {
	p.pos++ // '['
	arr := models.NewArray()
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == ']' {
		p.pos++
		return arr, nil
	}
	for {
		item, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		arr.Append(item)
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, p.errorf("unexpected end of input inside array")
		}
		switch p.s[p.pos] {
		case ',':
			p.pos++
			p.skipSpace()
			// Trailing comma before the closing bracket.
			if p.pos < len(p.s) && p.s[p.pos] == ']' {
				p.pos++
				return arr, nil
			}
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array, got %q", p.s[p.pos])
		}
	}
}

// parseKey parses an object key: a quoted string or an unquoted
// identifier-like key (letters, digits, underscore, dollar; no leading
// digit).
func (p *lenientParser) parseKey() (string, error) {
	c := p.s[p.pos]
	if c == '"' || c == '\'' {
		return p.parseString()
	}
	if !isKeyStart(c) {
		return "", p.errorf("expected object key, got %q", c)
	}
	start := p.pos
	for p.pos < len(p.s) && isKeyChar(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos], nil
}

func isKeyStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKeyChar(c byte) bool {
	return isKeyStart(c) || (c >= '0' && c <= '9')
}

// parseString parses a string delimited by either quote character. The
// escape rules are JSON's, plus \' inside single-quoted strings.
func (p *lenientParser) parseString() (string, error) {
	quote := p.s[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.pos >= len(p.s) {
				return "", p.errorf("unterminated escape sequence")
			}
			switch esc := p.s[p.pos]; esc {
			case '"', '\'', '\\', '/':
				b.WriteByte(esc)
				p.pos++
			case 'b':
				b.WriteByte('\b')
				p.pos++
			case 'f':
				b.WriteByte('\f')
				p.pos++
			case 'n':
				b.WriteByte('\n')
				p.pos++
			case 'r':
				b.WriteByte('\r')
				p.pos++
			case 't':
				b.WriteByte('\t')
				p.pos++
			case 'u':
				p.pos++
				r, err := p.parseHexRune()
				if err != nil {
					return "", err
				}
				if utf16.IsSurrogate(r) {
					r = p.decodeSurrogate(r)
				}
				b.WriteRune(r)
			default:
				return "", p.errorf("invalid escape character %q", esc)
			}
		case c < 0x20:
			return "", p.errorf("invalid control character in string")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

// decodeSurrogate combines a UTF-16 surrogate with a following \uXXXX
// escape when possible; unpaired surrogates become the replacement
// character, as encoding/json does.
func (p *lenientParser) decodeSurrogate(r rune) rune {
	if !strings.HasPrefix(p.s[p.pos:], `\u`) {
		return utf8.RuneError
	}
	save := p.pos
	p.pos += 2
	r2, err := p.parseHexRune()
	if err != nil {
		p.pos = save
		return utf8.RuneError
	}
	if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
		return dec
	}
	// Not a valid pair: leave the second escape for the main loop.
	p.pos = save
	return utf8.RuneError
}

func (p *lenientParser) parseHexRune() (rune, error) {
	if p.pos+4 > len(p.s) {
		return 0, p.errorf("truncated unicode escape")
	}
	n, err := strconv.ParseUint(p.s[p.pos:p.pos+4], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid unicode escape %q", p.s[p.pos:p.pos+4])
	}
	p.pos += 4
	return rune(n), nil
}

func (p *lenientParser) parseNumber() (*models.Value, error) {
	start := p.pos
	for p.pos < len(p.s) && isNumberChar(p.s[p.pos]) {
		p.pos++
	}
	token := p.s[start:p.pos]
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", token)
	}
	return models.NewNumber(f), nil
}

func isNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') ||
		c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

func (p *lenientParser) parseLiteral(word string, v *models.Value) (*models.Value, error) {
	if !strings.HasPrefix(p.s[p.pos:], word) {
		return nil, p.errorf("invalid literal")
	}
	end := p.pos + len(word)
	if end < len(p.s) && isKeyChar(p.s[end]) {
		return nil, p.errorf("invalid literal")
	}
	p.pos = end
	return v, nil
}
