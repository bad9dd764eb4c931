package evaluator

import (
	"encoding/hex"
	"unicode/utf8"

	"nli-lang/impl/internal/fraction"
)

// DumpNode is the raw structural form of a value, shaped for encoding with
// encoding/json or yaml.v3.
type DumpNode struct {
	Type    string             `json:"type" yaml:"type"`
	Number  *fraction.Fraction `json:"number,omitempty" yaml:"number,omitempty"`
	Text    string             `json:"text,omitempty" yaml:"text,omitempty"`
	Hex     string             `json:"hex,omitempty" yaml:"hex,omitempty"`
	Items   []DumpNode         `json:"items,omitempty" yaml:"items,omitempty"`
	Entries []DumpEntry        `json:"entries,omitempty" yaml:"entries,omitempty"`
	Param   string             `json:"param,omitempty" yaml:"param,omitempty"`
	Builtin string             `json:"builtin,omitempty" yaml:"builtin,omitempty"`
}

type DumpEntry struct {
	Key   string   `json:"key" yaml:"key"`
	Value DumpNode `json:"value" yaml:"value"`
}

// Dump converts v to its raw structural form. Strings carry their bytes in
// hex and, when they are valid UTF-8, their text.
func Dump(v Value) DumpNode {
	switch x := v.(type) {
	case Number:
		f := x.V
		return DumpNode{Type: KindNumber, Number: &f}
	case Str:
		n := DumpNode{Type: KindString, Hex: hex.EncodeToString(x.V)}
		if utf8.Valid(x.V) {
			n.Text = string(x.V)
		}
		return n
	case Null:
		return DumpNode{Type: KindNull}
	case List:
		items := make([]DumpNode, len(x.Items))
		for i, it := range x.Items {
			items[i] = Dump(it)
		}
		return DumpNode{Type: KindList, Items: items}
	case *Dict:
		entries := make([]DumpEntry, 0, x.Len())
		for _, k := range x.keys {
			entries = append(entries, DumpEntry{Key: k, Value: Dump(x.items[k])})
		}
		return DumpNode{Type: KindDict, Entries: entries}
	case *Closure:
		if x.Native() {
			return DumpNode{Type: KindClosure, Builtin: x.Name}
		}
		return DumpNode{Type: KindClosure, Param: x.Param}
	}
	return DumpNode{Type: "UNKNOWN"}
}
