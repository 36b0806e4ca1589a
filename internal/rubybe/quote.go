package rubybe

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var escapes = map[byte]string{
	'\\': `\\`,
	'"':  `\"`,
	'#':  `\#`,
	'\a': `\a`,
	'\b': `\b`,
	'\t': `\t`,
	'\n': `\n`,
	'\v': `\v`,
	'\f': `\f`,
	'\r': `\r`,
	0x1b: `\e`,
}

// Quote returns s as a double-quoted Ruby string literal. Other control
// bytes and bytes that are not valid UTF-8 are written as \xNN, so the
// literal decodes to exactly s.
func (b *Builder) Quote(s string) string {
	return quote(s)
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if esc, ok := escapes[c]; ok {
			sb.WriteString(esc)
			i++
			continue
		}
		if c < 0x20 || c == 0x7f {
			fmt.Fprintf(&sb, `\x%02X`, c)
			i++
			continue
		}
		if c < utf8.RuneSelf {
			sb.WriteByte(c)
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			fmt.Fprintf(&sb, `\x%02X`, c)
			i++
			continue
		}
		sb.WriteString(s[i : i+size])
		i += size
	}
	sb.WriteByte('"')
	return sb.String()
}

// regexLiteral wraps a bracket expression in a Ruby regexp literal,
// escaping delimiters and interpolation markers that are not already
// escaped.
func regexLiteral(source string) string {
	var sb strings.Builder
	sb.WriteByte('/')
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch c {
		case '\\':
			sb.WriteByte(c)
			if i+1 < len(source) {
				i++
				sb.WriteByte(source[i])
			}
		case '/', '#':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('/')
	return sb.String()
}
