package evaluator

import (
	"strings"
	"unicode/utf8"
)

// Format produces the canonical printed representation of a value.
func Format(v Value) string { return pretty(v, 0) }

// pretty renders v; tab is the indent depth of the enclosing dictionary.
func pretty(v Value, tab int) string {
	switch x := v.(type) {
	case Number:
		return x.V.String()
	case Str:
		return quote(x.V)
	case Null:
		return "_"
	case *Dict:
		tabs := strings.Repeat("\t", tab)
		var b strings.Builder
		b.WriteString("{\n")
		for _, k := range x.keys {
			b.WriteString(tabs)
			b.WriteByte('\t')
			b.WriteString(quote([]byte(k)))
			b.WriteString(": ")
			b.WriteString(pretty(x.items[k], tab+1))
			b.WriteString(",\n")
		}
		b.WriteString(tabs)
		b.WriteByte('}')
		return b.String()
	case List:
		var b strings.Builder
		b.WriteByte('[')
		for i, it := range x.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pretty(it, tab))
		}
		b.WriteByte(']')
		return b.String()
	case *Closure:
		return `(\x)`
	default:
		return "(# UNKNOWN #)"
	}
}

// quote decodes bytes as UTF-8 and escapes backslash, double quote, newline
// and tab. Each maximal ill-formed subsequence becomes one U+FFFD, so a lone
// bad byte is replaced on its own and a truncated sequence as a whole.
func quote(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 2)
	sb.WriteByte('"')
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			size = badPrefix(b)
		}
		b = b[size:]
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// badPrefix returns the length of the ill-formed sequence at the start of b:
// a lead byte plus the continuation bytes that could still have completed it.
func badPrefix(b []byte) int {
	need, lo, hi := 0, byte(0x80), byte(0xbf)
	switch c := b[0]; {
	case c >= 0xc2 && c <= 0xdf:
		need = 1
	case c >= 0xe0 && c <= 0xef:
		need = 2
		if c == 0xe0 {
			lo = 0xa0
		} else if c == 0xed {
			hi = 0x9f
		}
	case c >= 0xf0 && c <= 0xf4:
		need = 3
		if c == 0xf0 {
			lo = 0x90
		} else if c == 0xf4 {
			hi = 0x8f
		}
	default:
		return 1
	}
	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		lo, hi = 0x80, 0xbf
		n++
	}
	return n
}
