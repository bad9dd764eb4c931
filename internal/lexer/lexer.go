package lexer

import (
	"fmt"

	"nli-lang/impl/internal/fraction"
)

// Token kinds.
const (
	BRACKET  = "BRACKET"
	SPECIAL  = "SPECIAL"
	OPERATOR = "OPERATOR"
	WORD     = "WORD"
	NUMBER   = "NUMBER"
	STRING   = "STRING"
	NULL     = "NULL"
)

type Token struct {
	Type string            `json:"type"`
	Lit  string            `json:"value,omitempty"`
	Num  fraction.Fraction `json:"-"`
	Str  []byte            `json:"-"`
	Pos  int               `json:"pos"`
}

// Is reports whether t is a BRACKET or SPECIAL token with the given text.
func (t Token) Is(lit string) bool {
	return (t.Type == BRACKET || t.Type == SPECIAL) && t.Lit == lit
}

// LexError reports malformed source. Incomplete is set when more input could fix it.
type LexError struct {
	Pos        int
	Msg        string
	Incomplete bool
}

func (e *LexError) Error() string { return fmt.Sprintf("lex error at %d: %s", e.Pos, e.Msg) }

func isOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '<', '>', '=', '.', '~', '&', '|', '^':
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Lex converts source into a flat token stream.
func Lex(src string) ([]Token, error) {
	var out []Token
	n := len(src)

	// pending word/operator text
	var acc []byte
	accType := ""
	accPos := 0

	end := func() {
		if len(acc) > 0 {
			out = append(out, Token{Type: accType, Lit: string(acc), Pos: accPos})
		}
		acc = acc[:0]
		accType = ""
	}
	extend := func(typ string, c byte, pos int) {
		if accType != typ {
			end()
			accType = typ
			accPos = pos
		}
		acc = append(acc, c)
	}

	for i := 0; i < n; i++ {
		ch := src[i]

		switch {
		case ch == '#':
			// comments are transparent: they do not end the pending token
			start := i
			i++
			for i < n && src[i] != '#' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= n {
				return nil, &LexError{Pos: start, Msg: "unterminated comment", Incomplete: true}
			}

		case ch == '"':
			end()
			start := i
			i++
			var str []byte
			closed := false
			for ; i < n; i++ {
				c := src[i]
				if c == '"' {
					closed = true
					break
				}
				if c == '\\' {
					i++
					if i >= n {
						break
					}
					switch src[i] {
					case 'n':
						str = append(str, '\n')
					case 't':
						str = append(str, '\t')
					default:
						str = append(str, src[i])
					}
					continue
				}
				str = append(str, c)
			}
			if !closed {
				return nil, &LexError{Pos: start, Msg: "unterminated string", Incomplete: true}
			}
			if str == nil {
				str = []byte{}
			}
			out = append(out, Token{Type: STRING, Lit: src[start : i+1], Str: str, Pos: start})

		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			end()

		case ch == '(' || ch == ')' || ch == '[' || ch == ']' || ch == '{' || ch == '}':
			end()
			out = append(out, Token{Type: BRACKET, Lit: string(ch), Pos: i})

		case ch == '\\' || ch == ':' || ch == ',':
			end()
			out = append(out, Token{Type: SPECIAL, Lit: string(ch), Pos: i})

		case ch == '_':
			end()
			out = append(out, Token{Type: NULL, Lit: "_", Pos: i})

		case ch == '@':
			end()
			out = append(out, Token{Type: NUMBER, Lit: "@", Num: fraction.Inf, Pos: i})

		case isDigit(ch):
			end()
			tok, next, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
			i = next - 1

		case isOperatorChar(ch):
			extend(OPERATOR, ch, i)

		default:
			extend(WORD, ch, i)
		}
	}
	end()

	return out, nil
}

// lexNumber scans a numeric literal starting at src[start] and returns the
// token plus the offset of the first byte after it.
func lexNumber(src string, start int) (Token, int, error) {
	var digits []byte
	point := -1
	fracDigits := 0
	last := start
	i := start
	for ; i < len(src); i++ {
		c := src[i]
		if c == '.' && point < 0 {
			point = i
		} else if isDigit(c) {
			digits = append(digits, c)
			if point >= 0 {
				fracDigits++
			}
		} else if c != '_' {
			break
		}
		last = i
	}
	// a trailing '.' belongs to the next token
	if point == last {
		i = point
	}

	num, err := fraction.Decimal(string(digits), fracDigits)
	if err != nil {
		return Token{}, 0, &LexError{Pos: start, Msg: err.Error()}
	}
	return Token{Type: NUMBER, Lit: src[start:i], Num: num, Pos: start}, i, nil
}

// IsIncomplete reports whether err was caused by input ending too early.
func IsIncomplete(err error) bool {
	le, ok := err.(*LexError)
	return ok && le.Incomplete
}
