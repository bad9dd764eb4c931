package evaluator

import (
	"errors"
	"reflect"
	"testing"

	"nli-lang/impl/internal/fraction"
	"nli-lang/impl/internal/lexer"
	"nli-lang/impl/internal/parser"
)

func run(t *testing.T, src string, env *Env) Value {
	t.Helper()
	v, err := Interpret(src, env)
	if err != nil {
		t.Fatalf("Interpret(%q): %v", src, err)
	}
	return v
}

func double() *Closure {
	return NewBuiltin("double", func(v Value) (Value, error) {
		n, ok := v.(Number)
		if !ok {
			return nil, errors.New("double: not a number")
		}
		f, err := fraction.Operate("*", n.V, fraction.Deint(2))
		return Number{V: f}, err
	})
}

func TestInterpretFormatted(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		// arithmetic and precedence
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 - 2 - 3", "5"},
		{"6 / 4", "3 / 2"},
		{"1 / 2 * 2", "1"},
		{"3.25", "13 / 4"},
		{"1_000 + 1", "1001"},
		{"@", "1 / 0"},
		{"@ + 1", "1 / 0"},
		{"1 < 2", "1"},
		{"2 < 1", "0"},
		{"2 <= 2", "1"},
		{"3 >= 4", "0"},
		{"3 > 2", "1"},

		// numbers past machine words
		{"9223372036854775807 + 1", "9223372036854775808"},
		{"3037000500 * 3037000500", "9223372037000250000"},
		{"0 - 9223372036854775808 - 1", "-9223372036854775809"},
		{"99999999999999999999", "99999999999999999999"},
		{"99999999999999999999 * 99999999999999999999 > 9223372036854775807", "1"},
		{"1 / 3 = 33333333333333333333 / 99999999999999999999", "1"},
		{"0.000000000000000000001 * 1000000000000000000000", "1"},
		{`"abc".99999999999999999999`, "_"},
		{`[1].(0 - 99999999999999999999)`, "_"},
		{`{"99999999999999999999": 1}.99999999999999999999`, "1"},
		{`"ab" /< 99999999999999999999`, `""`},
		{`"ab" << 99999999999999999999`, "\"\x00\x00\""},

		// equality and kind matching
		{`"ab" = "ab"`, "1"},
		{`"ab" = "ac"`, "0"},
		{`"ab" = 5`, "0"},
		{"1 / 2 = 2 / 4", "1"},
		{"[1] = [1]", "0"},
		{"_ = _", "0"},
		{`1 ~= 2`, "1"},
		{`"a" ~= "b"`, "1"},
		{`1 ~= "a"`, "0"},
		{`[] ~= {}`, "0"},

		// strings
		{`"ab" .. "cd"`, `"abcd"`},
		{`"hello" -- 1`, "4"},
		{`"hello" /< 2`, `"llo"`},
		{`"hello" /> 2`, `"hel"`},
		{`"hi" /< 5`, `""`},
		{`"a" & "_"`, `"A"`},
		{`"A" | " "`, `"a"`},
		{`"a" ^ " "`, `"A"`},
		{`"abc".1`, `"b"`},
		{`"abc".5`, "_"},

		// lists
		{"[]", "[]"},
		{"[1, 2] ++ [3]", "[1, 2, 3]"},
		{"[1, 2, 3] -- 1", "2"},
		{"[10, 20].1", "20"},
		{"[10, 20].2", "_"},
		{`[1, 2, 3] .> \x x * x`, "[1, 4, 9]"},
		{`[[1], "a", _]`, `[[1], "a", _]`},

		// dictionaries
		{"{}", "{\n}"},
		{"{a: 1}.a", "1"},
		{"{a: 1}.b", "_"},
		{`{a: 1}.("a")`, "1"},
		{`{"0": 5}.0`, "5"},
		{`{("a" .. "b"): 1}.ab`, "1"},
		{"{a: 1, b: 2} -- 0", "2"},
		{`{b: 1, a: 2} .> \x (x)`, "[2, 1]"},
		{"{a: 1, b: 2} // {b: 3, c: 4}", "{\n\t\"a\": 1,\n\t\"b\": 3,\n\t\"c\": 4,\n}"},
		{"{a: 1, a: 2}", "{\n\t\"a\": 2,\n}"},
		{"{_}", "{\n}"},
		{"{a: 1, _}", "{\n\t\"a\": 1,\n}"},

		// functions and scoping
		{`\x x`, `(\x)`},
		{`(\x x + 1) 2`, "3"},
		{`(\_ 7) 1`, "7"},
		{`(\x (\x x) 2) 1`, "2"},
		{`(\x \y x - y) 5 3`, "2"},
		{`(\mk [mk 1, mk 2] .> \g (g _)) (\a \_ a)`, "[1, 2]"},
		{"unbound", "_"},
		{"", "_"},
		{"_", "_"},
	}
	for _, tt := range tests {
		got := Format(run(t, tt.src, nil))
		if got != tt.want {
			t.Errorf("%s\n got %q\nwant %q", tt.src, got, tt.want)
		}
	}
}

func TestApplicationBindsTighterThanOperators(t *testing.T) {
	env := NewEnv(nil)
	env.Define("f", double())
	if got := Format(run(t, "f 3 + 1", env)); got != "7" {
		t.Fatalf("f 3 + 1 = %s, want 7", got)
	}

	env = NewEnv(nil)
	env.Define("f", run(t, `\x x * 2`, nil))
	if got := Format(run(t, "f 3 + 1", env)); got != "7" {
		t.Fatalf("f 3 + 1 = %s, want 7", got)
	}
}

func TestDictionaryShorthand(t *testing.T) {
	env := NewEnv(nil)
	env.Define("x", Number{V: fraction.Deint(4)})
	got := run(t, "{x}", env)
	d, ok := got.(*Dict)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if v, _ := d.Get("x"); v == nil || Format(v) != "4" {
		t.Fatalf("x = %v", v)
	}
}

func TestClosureCallLeavesCapturedEnvUntouched(t *testing.T) {
	env := NewEnv(nil)
	env.Define("k", Number{V: fraction.Deint(1)})
	f := run(t, `\x k + x`, env).(*Closure)

	for i := 0; i < 3; i++ {
		v, err := f.Call(Number{V: fraction.Deint(i)})
		if err != nil {
			t.Fatal(err)
		}
		if got := Format(v); got != Format(Number{V: fraction.Deint(i + 1)}) {
			t.Fatalf("call %d = %s", i, got)
		}
	}
	if _, ok := env.Get("x"); ok {
		t.Fatal("parameter leaked into the captured environment")
	}
	if f.Env != env {
		t.Fatal("closure should capture the environment by reference")
	}
}

func TestHostBuiltinSeesArgument(t *testing.T) {
	var seen []string
	env := NewEnv(nil)
	env.Define("log", NewBuiltin("log", func(v Value) (Value, error) {
		seen = append(seen, Format(v))
		return v, nil
	}))
	got := run(t, `(\_ 1) (log "side")`, env)
	if Format(got) != "1" {
		t.Fatalf("got %s", Format(got))
	}
	if !reflect.DeepEqual(seen, []string{`"side"`}) {
		t.Fatalf("seen %q", seen)
	}
}

func TestEvalErrors(t *testing.T) {
	srcs := []string{
		"1 2",
		`1 + "a"`,
		`"a" .. 1`,
		"[1] ++ 1",
		"{} // []",
		`"ab" & "a"`,
		`"ab" << "b"`,
		`"ab" << (1 / 2)`,
		`"ab" >> (0 - 1)`,
		"5 -- 1",
		"{1: 2}",
		`"abc".x`,
		"[1].a",
		"(5).0",
		"1 .> 2",
		`[1] .> 2`,
		`(\x x 1) 2`,
		`"ab" /< "a"`,
		"a + - b",
		"{_: 1}",
	}
	for _, src := range srcs {
		_, err := Interpret(src, nil)
		if err == nil {
			t.Errorf("Interpret(%q): expected error", src)
			continue
		}
		var ee *EvalError
		if !errors.As(err, &ee) {
			t.Errorf("Interpret(%q): got %T (%v), want *EvalError", src, err, err)
		}
	}
}

func TestInterpretPassesThroughStageErrors(t *testing.T) {
	_, err := Interpret(`"open`, nil)
	if _, ok := err.(*lexer.LexError); !ok {
		t.Fatalf("got %T, want *lexer.LexError", err)
	}
	_, err = Interpret("(1", nil)
	if _, ok := err.(*parser.ParseError); !ok {
		t.Fatalf("got %T, want *parser.ParseError", err)
	}
}

func TestEvaluatorEval(t *testing.T) {
	toks, err := lexer.Lex("n * n")
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatal(err)
	}
	env := NewEnv(nil)
	env.Define("n", Number{V: fraction.Deint(9)})
	v, err := New(env).Eval(prog)
	if err != nil {
		t.Fatal(err)
	}
	if Format(v) != "81" {
		t.Fatalf("got %s", Format(v))
	}
}
