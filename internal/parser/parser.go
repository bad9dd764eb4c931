package parser

import (
	"fmt"

	"github.com/edwingeng/deque"

	"nli-lang/impl/internal/lexer"
)

// Tiers lists operator precedence groups from tightest to loosest.
var Tiers = [][]string{
	{"."},
	{".>"},
	{"/<", "/>"},
	{"--"},
	{"++", "..", "//"},
	{"*", "/"},
	{"+", "-"},
	{"<<", ">>"},
	{"<=", ">=", "<", ">"},
	{"=", "~="},
	{"&", "|", "^"},
}

func inTier(tier []string, op string) bool {
	for _, o := range tier {
		if o == op {
			return true
		}
	}
	return false
}

func knownOperator(op string) bool {
	for _, tier := range Tiers {
		if inTier(tier, op) {
			return true
		}
	}
	return false
}

// ParseError reports a structural problem in the token stream. Pos is the
// byte offset of the offending token, or -1 at end of input.
type ParseError struct {
	Pos        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("parse error at end of input: %s", e.Msg)
	}
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

// IsIncomplete reports whether err was caused by the source ending early,
// so that appending more text could still make it valid.
func IsIncomplete(err error) bool {
	if pe, ok := err.(*ParseError); ok {
		return pe.Incomplete
	}
	return lexer.IsIncomplete(err)
}

type Parser struct {
	toks []lexer.Token
	i    int
}

func New(toks []lexer.Token) *Parser { return &Parser{toks: toks} }

// Parse turns a token stream into a single expression tree.
func Parse(toks []lexer.Token) (Expression, error) { return New(toks).ParseProgram() }

func (p *Parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *Parser) cur() lexer.Token { return p.toks[p.i] }

func (p *Parser) unexpectedEnd(want string) error {
	return &ParseError{Pos: -1, Msg: "expected " + want, Incomplete: true}
}

func isTerminator(t lexer.Token) bool {
	return t.Is(")") || t.Is("]") || t.Is("}") || t.Is(",") || t.Is(":")
}

func (p *Parser) ParseProgram() (Expression, error) {
	e, err := p.parseExpression()
	if err != nil {
		return Expression{}, err
	}
	if !p.atEnd() {
		t := p.cur()
		return Expression{}, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %q", t.Lit)}
	}
	return e, nil
}

// parseExpression collects branches up to the next terminator, which is
// left unconsumed, and resolves them by precedence.
func (p *Parser) parseExpression() (Expression, error) {
	var branches []Node
	for !p.atEnd() {
		t := p.cur()
		if isTerminator(t) {
			break
		}
		switch t.Type {
		case lexer.BRACKET:
			p.i++
			switch t.Lit {
			case "(":
				inner, err := p.parseExpression()
				if err != nil {
					return Expression{}, err
				}
				if p.atEnd() {
					return Expression{}, p.unexpectedEnd(`")"`)
				}
				if c := p.cur(); !c.Is(")") {
					return Expression{}, &ParseError{Pos: c.Pos, Msg: fmt.Sprintf("expected \")\" to close \"(\" at %d, found %q", t.Pos, c.Lit)}
				}
				p.i++
				branches = append(branches, inner)
			case "[":
				l, err := p.parseList()
				if err != nil {
					return Expression{}, err
				}
				branches = append(branches, l)
			case "{":
				d, err := p.parseDict()
				if err != nil {
					return Expression{}, err
				}
				branches = append(branches, d)
			}
		case lexer.SPECIAL:
			// the only special that is not a terminator
			fn, err := p.parseFunction()
			if err != nil {
				return Expression{}, err
			}
			branches = append(branches, fn)
		case lexer.WORD:
			p.i++
			branches = append(branches, Word{Name: t.Lit, Type: "Word"})
		case lexer.OPERATOR:
			p.i++
			branches = append(branches, Operator{Op: t.Lit, Pos: t.Pos, Type: "Operator"})
		case lexer.NUMBER:
			p.i++
			branches = append(branches, NumberLit{Type: "Number", Value: t.Num})
		case lexer.STRING:
			p.i++
			branches = append(branches, StringLit{Lit: t.Lit, Type: "String", Value: t.Str})
		case lexer.NULL:
			p.i++
			branches = append(branches, nullLit())
		default:
			return Expression{}, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("unknown token type %s", t.Type)}
		}
	}
	return p.resolve(branches)
}

// parseFunction parses `\ param body`. The token after the backslash is
// always consumed; it names the parameter only when it is a WORD. The body
// runs to the end of the enclosing expression.
func (p *Parser) parseFunction() (Function, error) {
	start := p.cur()
	p.i++
	if p.atEnd() {
		return Function{}, p.unexpectedEnd("function parameter")
	}
	t := p.cur()
	if isTerminator(t) {
		return Function{}, &ParseError{Pos: start.Pos, Msg: fmt.Sprintf("malformed function literal: %q after \\", t.Lit)}
	}
	param := ""
	if t.Type == lexer.WORD {
		param = t.Lit
	}
	p.i++
	body, err := p.parseExpression()
	if err != nil {
		return Function{}, err
	}
	return Function{Body: body, Param: param, Type: "Function"}, nil
}

// parseList parses list elements after "[" through the closing "]".
// Separators between elements are optional; any single token is skipped.
func (p *Parser) parseList() (List, error) {
	elems := make([]Expression, 0)
	for {
		if p.atEnd() {
			return List{}, p.unexpectedEnd(`"]"`)
		}
		e, err := p.parseExpression()
		if err != nil {
			return List{}, err
		}
		if p.atEnd() {
			return List{}, p.unexpectedEnd(`"]"`)
		}
		closing := p.cur().Is("]")
		if closing && e.Empty {
			break
		}
		elems = append(elems, e)
		if closing {
			break
		}
		p.i++
	}
	p.i++
	return List{Elements: elems, Type: "List"}, nil
}

// parseDict parses dictionary entries after "{" through the closing "}".
// An entry without ":" uses its key expression as the value too. A null key
// right before "}" ends the dictionary without adding an entry.
func (p *Parser) parseDict() (Dictionary, error) {
	entries := make([]DictEntry, 0)
	for {
		if p.atEnd() {
			return Dictionary{}, p.unexpectedEnd(`"}"`)
		}
		key, err := p.parseExpression()
		if err != nil {
			return Dictionary{}, err
		}
		if p.atEnd() {
			return Dictionary{}, p.unexpectedEnd(`"}"`)
		}
		t := p.cur()
		if _, null := key.Child.(NullLit); null && t.Is("}") {
			break
		}
		if t.Is(",") || t.Is("}") {
			entries = append(entries, DictEntry{Key: key.Child, Value: key})
			if t.Is("}") {
				break
			}
			p.i++
			continue
		}
		if !t.Is(":") {
			return Dictionary{}, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("expected \":\" in dictionary, found %q", t.Lit)}
		}
		p.i++
		val, err := p.parseExpression()
		if err != nil {
			return Dictionary{}, err
		}
		if p.atEnd() {
			return Dictionary{}, p.unexpectedEnd(`"}"`)
		}
		entries = append(entries, DictEntry{Key: key.Child, Value: val})
		if p.cur().Is("}") {
			break
		}
		p.i++
	}
	p.i++
	return Dictionary{Entries: entries, Type: "Dictionary"}, nil
}

// resolve folds a flat branch sequence into one node. Each tier streams the
// sequence from one deque into another: an operator of the tier combines the
// folded left neighbour with the next raw branch, and two adjacent
// non-operators become an application. Applications therefore all form on
// the first pass and bind tighter than any operator.
func (p *Parser) resolve(branches []Node) (Expression, error) {
	in := deque.NewDeque()
	for _, b := range branches {
		in.PushBack(b)
	}

	for _, tier := range Tiers {
		out := deque.NewDeque()
		for in.Len() != 0 {
			cur := in.PopFront().(Node)

			if op, ok := cur.(Operator); ok {
				if out.Len() == 0 || !inTier(tier, op.Op) {
					out.PushBack(cur)
					continue
				}
				if in.Len() == 0 {
					return Expression{}, &ParseError{Pos: op.Pos, Msg: fmt.Sprintf("missing right operand for %q", op.Op), Incomplete: p.atEnd()}
				}
				left := out.PopBack().(Node)
				right := in.PopFront().(Node)
				out.PushBack(Combination{Left: left, Operator: op.Op, Right: right, Type: "Combination"})
				continue
			}

			if out.Len() != 0 {
				if _, isOp := out.Back().(Operator); !isOp {
					fn := out.PopBack().(Node)
					out.PushBack(Application{Argument: cur, Function: fn, Type: "Application"})
					continue
				}
			}
			out.PushBack(cur)
		}
		in = out
	}

	switch in.Len() {
	case 0:
		return Expression{Child: nullLit(), Empty: true, Type: "Expression"}, nil
	case 1:
		return Expression{Child: in.PopFront().(Node), Type: "Expression"}, nil
	}

	for in.Len() != 0 {
		if op, ok := in.PopFront().(Operator); ok {
			if !knownOperator(op.Op) {
				return Expression{}, &ParseError{Pos: op.Pos, Msg: fmt.Sprintf("unknown operator %q", op.Op)}
			}
			return Expression{}, &ParseError{Pos: op.Pos, Msg: fmt.Sprintf("missing left operand for %q", op.Op)}
		}
	}
	return Expression{}, &ParseError{Pos: -1, Msg: "unresolved expression"}
}
