package parser

import "nli-lang/impl/internal/fraction"

// Ordered JSON fields are ensured by struct field order.

// Node is a marker interface for tree nodes.
type Node interface{ isNode() }

// Expression wraps one resolved branch. Empty is set when the enclosed
// text produced no branches; Child is then a NullLit.
type Expression struct {
	Child Node   `json:"child"`
	Empty bool   `json:"empty,omitempty"`
	Type  string `json:"type"`
}

func (Expression) isNode() {}

// Combination is a binary operator application.
type Combination struct {
	Left     Node   `json:"left"`
	Operator string `json:"operator"`
	Right    Node   `json:"right"`
	Type     string `json:"type"`
}

func (Combination) isNode() {}

// Application is the juxtaposition of two sub-expressions.
type Application struct {
	Argument Node   `json:"argument"`
	Function Node   `json:"function"`
	Type     string `json:"type"`
}

func (Application) isNode() {}

// Function is a lambda literal. An empty Param means the argument is ignored.
type Function struct {
	Body  Expression `json:"body"`
	Param string     `json:"param,omitempty"`
	Type  string     `json:"type"`
}

func (Function) isNode() {}

type List struct {
	Elements []Expression `json:"elements"`
	Type     string       `json:"type"`
}

func (List) isNode() {}

type DictEntry struct {
	Key   Node `json:"key"`
	Value Node `json:"value"`
}

type Dictionary struct {
	Entries []DictEntry `json:"entries"`
	Type    string      `json:"type"`
}

func (Dictionary) isNode() {}

// Leaves

type Word struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (Word) isNode() {}

type Operator struct {
	Op   string `json:"op"`
	Pos  int    `json:"-"`
	Type string `json:"type"`
}

func (Operator) isNode() {}

type NumberLit struct {
	Type  string            `json:"type"`
	Value fraction.Fraction `json:"value"`
}

func (NumberLit) isNode() {}

type StringLit struct {
	Lit   string `json:"literal"`
	Type  string `json:"type"`
	Value []byte `json:"-"`
}

func (StringLit) isNode() {}

type NullLit struct {
	Type string `json:"type"`
}

func (NullLit) isNode() {}

func nullLit() NullLit { return NullLit{Type: "Null"} }
