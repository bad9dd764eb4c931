package evaluator

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"

	"nli-lang/impl/internal/fraction"
	"nli-lang/impl/internal/lexer"
	"nli-lang/impl/internal/parser"
)

// EvalError reports an operator or application outside its domain.
type EvalError struct {
	Op  string
	Msg string
}

func (e *EvalError) Error() string {
	if e.Op == "" {
		return "eval error: " + e.Msg
	}
	return fmt.Sprintf("eval error in %q: %s", e.Op, e.Msg)
}

func unsupported(op string, a, b Value) error {
	return &EvalError{Op: op, Msg: fmt.Sprintf("unsupported operands %s and %s", kindOf(a), kindOf(b))}
}

func kindOf(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind()
}

type Evaluator struct {
	env *Env
}

// New returns an evaluator over the host's initial environment. A nil env
// is treated as empty.
func New(env *Env) *Evaluator {
	if env == nil {
		env = NewEnv(nil)
	}
	return &Evaluator{env: env}
}

// Eval evaluates a parsed program.
func (ev *Evaluator) Eval(prog parser.Expression) (Value, error) { return eval(prog, ev.env) }

// Interpret lexes, parses and evaluates src. The first error from any stage
// is returned as is.
func Interpret(src string, env *Env) (Value, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	return New(env).Eval(prog)
}

func eval(n parser.Node, env *Env) (Value, error) {
	switch x := n.(type) {
	case parser.Expression:
		return eval(x.Child, env)
	case parser.Combination:
		return combine(x, env)
	case parser.Application:
		fn, err := eval(x.Function, env)
		if err != nil {
			return nil, err
		}
		arg, err := eval(x.Argument, env)
		if err != nil {
			return nil, err
		}
		c, ok := fn.(*Closure)
		if !ok {
			return nil, &EvalError{Msg: fmt.Sprintf("cannot apply %s", kindOf(fn))}
		}
		return c.Call(arg)
	case parser.Function:
		return &Closure{Env: env, Param: x.Param, Body: x.Body}, nil
	case parser.Word:
		if v, ok := env.Get(x.Name); ok {
			return v, nil
		}
		return Null{}, nil
	case parser.List:
		items := make([]Value, 0, len(x.Elements))
		for _, e := range x.Elements {
			v, err := eval(e, env)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return List{Items: items}, nil
	case parser.Dictionary:
		d := NewDict()
		for _, e := range x.Entries {
			key, err := dictKey(e.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := eval(e.Value, env)
			if err != nil {
				return nil, err
			}
			d.Set(key, v)
		}
		return d, nil
	case parser.NumberLit:
		return Number{V: x.Value}, nil
	case parser.StringLit:
		return Str{V: x.Value}, nil
	case parser.NullLit:
		return Null{}, nil
	case parser.Operator:
		return nil, &EvalError{Op: x.Op, Msg: "operator used as a value"}
	default:
		return nil, &EvalError{Msg: fmt.Sprintf("unknown node %T", n)}
	}
}

// dictKey uses a bare word as its own text; anything else must evaluate to
// a string.
func dictKey(n parser.Node, env *Env) (string, error) {
	if w, ok := n.(parser.Word); ok {
		return w.Name, nil
	}
	v, err := eval(n, env)
	if err != nil {
		return "", err
	}
	s, ok := v.(Str)
	if !ok {
		return "", &EvalError{Msg: fmt.Sprintf("dictionary key must be a STRING, found %s", kindOf(v))}
	}
	return string(s.V), nil
}

func combine(x parser.Combination, env *Env) (Value, error) {
	if x.Operator == "." {
		return access(x, env)
	}

	a, err := eval(x.Left, env)
	if err != nil {
		return nil, err
	}
	b, err := eval(x.Right, env)
	if err != nil {
		return nil, err
	}

	switch op := x.Operator; op {
	case "..":
		l, ok1 := a.(Str)
		r, ok2 := b.(Str)
		if !ok1 || !ok2 {
			return nil, unsupported(op, a, b)
		}
		out := make([]byte, 0, len(l.V)+len(r.V))
		out = append(out, l.V...)
		return Str{V: append(out, r.V...)}, nil

	case "++":
		l, ok1 := a.(List)
		r, ok2 := b.(List)
		if !ok1 || !ok2 {
			return nil, unsupported(op, a, b)
		}
		out := make([]Value, 0, len(l.Items)+len(r.Items))
		out = append(out, l.Items...)
		return List{Items: append(out, r.Items...)}, nil

	case "//":
		l, ok1 := a.(*Dict)
		r, ok2 := b.(*Dict)
		if !ok1 || !ok2 {
			return nil, unsupported(op, a, b)
		}
		out := NewDict()
		for _, k := range l.keys {
			out.Set(k, l.items[k])
		}
		for _, k := range r.keys {
			out.Set(k, r.items[k])
		}
		return out, nil

	case "--":
		n, ok := b.(Number)
		if !ok {
			return nil, unsupported(op, a, b)
		}
		var size int
		switch c := a.(type) {
		case Str:
			size = len(c.V)
		case List:
			size = len(c.Items)
		case *Dict:
			size = c.Len()
		default:
			return nil, unsupported(op, a, b)
		}
		f, err := fraction.Operate("-", fraction.Deint(size), n.V)
		if err != nil {
			return nil, err
		}
		return Number{V: f}, nil

	case ".>":
		return mapOver(a, b)

	case "/<", "/>":
		s, ok := a.(Str)
		if !ok {
			return nil, unsupported(op, a, b)
		}
		n, err := count(op, b)
		if err != nil {
			return nil, err
		}
		return Str{V: trim(s.V, n, op == "/<")}, nil

	case "<<", ">>":
		s, ok := a.(Str)
		if !ok {
			return nil, unsupported(op, a, b)
		}
		n, err := count(op, b)
		if err != nil {
			return nil, err
		}
		if op == "<<" {
			return Str{V: shiftLeft(s.V, n)}, nil
		}
		return Str{V: shiftRight(s.V, n)}, nil

	case "&", "|", "^":
		l, ok1 := a.(Str)
		r, ok2 := b.(Str)
		if !ok1 || !ok2 {
			return nil, unsupported(op, a, b)
		}
		if len(l.V) != len(r.V) {
			return nil, &EvalError{Op: op, Msg: fmt.Sprintf("buffers differ in length (%d and %d)", len(l.V), len(r.V))}
		}
		return Str{V: bitwise(op[0], l.V, r.V)}, nil

	case "+", "-", "*", "/", "<", ">", "<=", ">=":
		l, ok1 := a.(Number)
		r, ok2 := b.(Number)
		if !ok1 || !ok2 {
			return nil, unsupported(op, a, b)
		}
		f, err := fraction.Operate(op, l.V, r.V)
		if err != nil {
			return nil, err
		}
		return Number{V: f}, nil

	case "~=":
		return Bool(a.Kind() == b.Kind()), nil

	case "=":
		return Bool(equal(a, b)), nil
	}

	return nil, &EvalError{Op: x.Operator, Msg: "unknown operator"}
}

// equal is defined for two strings or two numbers; every other pairing is
// unequal.
func equal(a, b Value) bool {
	switch x := a.(type) {
	case Str:
		y, ok := b.(Str)
		return ok && bytes.Equal(x.V, y.V)
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		f, _ := fraction.Operate("=", x.V, y.V)
		return f.Truth()
	}
	return false
}

// access implements `a.k`. A bare word on the right is a literal key.
func access(x parser.Combination, env *Env) (Value, error) {
	a, err := eval(x.Left, env)
	if err != nil {
		return nil, err
	}

	var (
		key    string
		index  *big.Int
		byName bool
	)
	if w, ok := x.Right.(parser.Word); ok {
		key, byName = w.Name, true
	} else {
		b, err := eval(x.Right, env)
		if err != nil {
			return nil, err
		}
		switch k := b.(type) {
		case Number:
			index = k.V.Num()
		case Str:
			key, byName = string(k.V), true
		default:
			return nil, unsupported(".", a, b)
		}
	}

	switch c := a.(type) {
	case Str:
		if byName {
			return nil, &EvalError{Op: ".", Msg: "STRING indexed by key " + strconv.Quote(key)}
		}
		i, ok := position(index, len(c.V))
		if !ok {
			return Null{}, nil
		}
		return Str{V: []byte{c.V[i]}}, nil
	case List:
		if byName {
			return nil, &EvalError{Op: ".", Msg: "LIST indexed by key " + strconv.Quote(key)}
		}
		i, ok := position(index, len(c.Items))
		if !ok {
			return Null{}, nil
		}
		return c.Items[i], nil
	case *Dict:
		if !byName {
			key = index.String()
		}
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		return Null{}, nil
	}
	return nil, &EvalError{Op: ".", Msg: fmt.Sprintf("cannot index %s", kindOf(a))}
}

// position converts an index to a slot in a sequence of length n.
func position(index *big.Int, n int) (int, bool) {
	if index.Sign() < 0 || !index.IsInt64() || index.Int64() >= int64(n) {
		return 0, false
	}
	return int(index.Int64()), true
}

// mapOver applies f to each list item, or to each dictionary value in
// sorted key order. The result is always a list.
func mapOver(a, b Value) (Value, error) {
	f, ok := b.(*Closure)
	if !ok {
		return nil, unsupported(".>", a, b)
	}
	var in []Value
	switch c := a.(type) {
	case List:
		in = c.Items
	case *Dict:
		keys := c.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			in = append(in, c.items[k])
		}
	default:
		return nil, unsupported(".>", a, b)
	}
	out := make([]Value, 0, len(in))
	for _, it := range in {
		v, err := f.Call(it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return List{Items: out}, nil
}

const maxCount = math.MaxInt32

// count reads a non-negative whole number operand. Counts past maxCount
// are clamped; every buffer operation saturates long before that.
func count(op string, v Value) (int, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, &EvalError{Op: op, Msg: fmt.Sprintf("count must be a NUMBER, found %s", kindOf(v))}
	}
	num := n.V.Num()
	if !n.V.IsInt() || num.Sign() < 0 {
		return 0, &EvalError{Op: op, Msg: "count must be a non-negative integer, found " + n.V.String()}
	}
	if !num.IsInt64() || num.Int64() > maxCount {
		return maxCount, nil
	}
	return int(num.Int64()), nil
}
