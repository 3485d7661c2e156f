package avaast

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// UnquoteString returns the cooked value of a JavaScript string or template literal.
// Text that is not a quoted literal is returned unchanged.
func UnquoteString(text string) string {
	if len(text) < 2 {
		return text
	}

	first, last := text[0], text[len(text)-1]
	if first != last || (first != '\'' && first != '"' && first != '`') {
		return text
	}

	return CookString(text[1 : len(text)-1])
}

// CookString resolves JavaScript escape sequences in the body of a literal.
// Malformed escapes keep the escaped character.
func CookString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}

		i++
		switch esc := raw[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '9' {
				b.WriteByte(esc)
				continue
			}
			b.WriteByte(0)
		case '\n':
			// Line continuation.
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := parseHexRune(raw, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
				continue
			}
			b.WriteByte(esc)
		case 'u':
			if i+1 < len(raw) && raw[i+1] == '{' {
				end := strings.IndexByte(raw[i+1:], '}')
				if end > 1 {
					if n, err := strconv.ParseUint(raw[i+2:i+1+end], 16, 32); err == nil && n <= utf8.MaxRune {
						b.WriteRune(rune(n))
						i += 1 + end
						continue
					}
				}
				b.WriteByte(esc)
				continue
			}
			if r, ok := parseHexRune(raw, i+1, 4); ok {
				b.WriteRune(r)
				i += 4
				continue
			}
			b.WriteByte(esc)
		default:
			b.WriteByte(esc)
		}
	}

	return b.String()
}

func parseHexRune(s string, start, n int) (rune, bool) {
	if start+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
