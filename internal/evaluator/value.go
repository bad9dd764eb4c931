package evaluator

import (
	"nli-lang/impl/internal/fraction"
	"nli-lang/impl/internal/parser"
)

// Value kinds.
const (
	KindNumber  = "NUMBER"
	KindString  = "STRING"
	KindNull    = "NULL"
	KindList    = "LIST"
	KindDict    = "DICTIONARY"
	KindClosure = "CLOSURE"
)

// Value is a runtime value. Values are never mutated once built.
type Value interface{ Kind() string }

type (
	Number struct{ V fraction.Fraction }
	Str    struct{ V []byte }
	Null   struct{}
	List   struct{ Items []Value }
)

func (Number) Kind() string { return KindNumber }
func (Str) Kind() string    { return KindString }
func (Null) Kind() string   { return KindNull }
func (List) Kind() string   { return KindList }

// Bool converts a truth value to the 1/0 number used for booleans.
func Bool(b bool) Number { return Number{V: fraction.Debool(b)} }

// Dict maps strings to values and remembers insertion order.
type Dict struct {
	keys  []string
	items map[string]Value
}

func NewDict() *Dict { return &Dict{items: map[string]Value{}} }

func (*Dict) Kind() string { return KindDict }

// Set adds or replaces a key. A replaced key keeps its original position.
func (d *Dict) Set(key string, v Value) {
	if _, ok := d.items[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.items[key] = v
}

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.items[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Dict) Len() int { return len(d.keys) }

// Closure is a function value. Native closures are supplied by the host;
// the others pair a captured environment with a parameter and a body.
type Closure struct {
	Env    *Env
	Param  string
	Body   parser.Expression
	Name   string
	native func(Value) (Value, error)
}

func (*Closure) Kind() string { return KindClosure }

// NewBuiltin wraps a host function as a closure value.
func NewBuiltin(name string, fn func(Value) (Value, error)) *Closure {
	return &Closure{Name: name, native: fn}
}

// Native reports whether the closure is a host builtin.
func (c *Closure) Native() bool { return c.native != nil }

// Call applies the closure to one argument. A parameterless closure ignores
// the argument and runs in its captured environment unchanged.
func (c *Closure) Call(arg Value) (Value, error) {
	if c.native != nil {
		return c.native(arg)
	}
	env := c.Env
	if c.Param != "" {
		env = env.Extend(c.Param, arg)
	}
	return eval(c.Body, env)
}
