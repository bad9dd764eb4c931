package lexer

import (
	"reflect"
	"testing"
)

func lex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return toks
}

// shape renders tokens as "TYPE:lit" for compact comparison.
func shape(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, tk := range toks {
		switch tk.Type {
		case NUMBER:
			out = append(out, NUMBER+":"+tk.Num.String())
		case STRING:
			out = append(out, STRING+":"+string(tk.Str))
		default:
			out = append(out, tk.Type+":"+tk.Lit)
		}
	}
	return out
}

func TestLexShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"sum", "2 + 3", []string{"NUMBER:2", "OPERATOR:+", "NUMBER:3"}},
		{"no spaces", "a+b", []string{"WORD:a", "OPERATOR:+", "WORD:b"}},
		{"multi char operator", "a .> b", []string{"WORD:a", "OPERATOR:.>", "WORD:b"}},
		{"brackets", "([{}])", []string{"BRACKET:(", "BRACKET:[", "BRACKET:{", "BRACKET:}", "BRACKET:]", "BRACKET:)"}},
		{"specials", `\x: y, z`, []string{`SPECIAL:\`, "WORD:x", "SPECIAL::", "WORD:y", "SPECIAL:,", "WORD:z"}},
		{"null", "_", []string{"NULL:_"}},
		{"null splits word", "a_b", []string{"WORD:a", "NULL:_", "WORD:b"}},
		{"infinity", "@", []string{"NUMBER:1 / 0"}},
		{"digit ends word", "x1", []string{"WORD:x", "NUMBER:1"}},
		{"trailing word flushed", "f x", []string{"WORD:f", "WORD:x"}},
		{"comment dropped", "1 #note# 2", []string{"NUMBER:1", "NUMBER:2"}},
		{"comment transparent inside word", "ab#c#d", []string{"WORD:abd"}},
		{"escaped hash in comment", `1 #a\#b# 2`, []string{"NUMBER:1", "NUMBER:2"}},
		{"string escapes", `"a\nb\tc\"d\\e\q"`, []string{"STRING:a\nb\tc\"d\\eq"}},
		{"string ends word", `ab"c"`, []string{"WORD:ab", "STRING:c"}},
		{"trailing dot is operator", "xs.3.", []string{"WORD:xs", "OPERATOR:.", "NUMBER:3", "OPERATOR:."}},
		{"second dot ends number", "1.2.3", []string{"NUMBER:6 / 5", "OPERATOR:.", "NUMBER:3"}},
		{"unicode word", "héllo", []string{"WORD:héllo"}},
		{"whitespace only", " \t\r\n", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shape(lex(t, tt.src))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Lex(%q)\nwant %q\n got %q", tt.src, tt.want, got)
			}
		})
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"3.25", "13 / 4"},
		{"1_000", "1000"},
		{"0.5", "1 / 2"},
		{"1.0_0", "1"},
		{"2.50", "5 / 2"},
		{"007", "7"},
		{"3._", "3"},
		{"99999999999999999999", "99999999999999999999"},
		{"1.0000000000000000000000001", "10000000000000000000000001 / 10000000000000000000000000"},
		{"123_456_789_012_345_678_901_234", "123456789012345678901234"},
	}
	for _, tt := range tests {
		toks := lex(t, tt.src)
		if len(toks) != 1 || toks[0].Type != NUMBER {
			t.Fatalf("Lex(%q) = %v, want a single NUMBER", tt.src, toks)
		}
		if got := toks[0].Num.String(); got != tt.want {
			t.Errorf("Lex(%q) = %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestLexStringBytes(t *testing.T) {
	toks := lex(t, `""`)
	if len(toks) != 1 || toks[0].Type != STRING || toks[0].Str == nil || len(toks[0].Str) != 0 {
		t.Fatalf("got %#v", toks)
	}
	toks = lex(t, `"é"`)
	if !reflect.DeepEqual(toks[0].Str, []byte{0xc3, 0xa9}) {
		t.Fatalf("got % x", toks[0].Str)
	}
}

func TestLexPositions(t *testing.T) {
	toks := lex(t, "ab + 12")
	want := []int{0, 3, 5}
	for i, tk := range toks {
		if tk.Pos != want[i] {
			t.Errorf("token %d at %d, want %d", i, tk.Pos, want[i])
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src        string
		incomplete bool
	}{
		{`"abc`, true},
		{`"abc\"`, true},
		{"1 # open", true},
		{`# ends in escape \#`, true},
	}
	for _, tt := range tests {
		_, err := Lex(tt.src)
		if err == nil {
			t.Fatalf("Lex(%q): expected error", tt.src)
		}
		if _, ok := err.(*LexError); !ok {
			t.Fatalf("Lex(%q): got %T, want *LexError", tt.src, err)
		}
		if IsIncomplete(err) != tt.incomplete {
			t.Errorf("Lex(%q): IsIncomplete = %v, want %v", tt.src, !tt.incomplete, tt.incomplete)
		}
	}
}
