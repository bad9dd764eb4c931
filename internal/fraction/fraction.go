package fraction

import (
	"encoding/json"
	"fmt"
	"math/big"

	"gopkg.in/yaml.v3"
)

// Fraction is an exact rational of arbitrary size. The denominator may be
// zero or negative; neither case is normalised. A Fraction is immutable:
// every operation allocates fresh integers, so values can be shared freely.
// The zero value is 0/0.
type Fraction struct {
	num, den *big.Int
}

// Inf is the value of the `@` literal.
var Inf = Unreduced(1, 0)

var (
	zero = new(big.Int)
	one  = big.NewInt(1)
)

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return zero
	}
	return x
}

func (f Fraction) n() *big.Int { return orZero(f.num) }
func (f Fraction) d() *big.Int { return orZero(f.den) }

// Simplify divides n and d by gcd(|n|, |d|). Signs are left where they are.
func Simplify(n, d *big.Int) (*big.Int, *big.Int) {
	g := new(big.Int).GCD(nil, nil, n, d)
	if g.Sign() == 0 {
		g.Set(one)
	}
	return new(big.Int).Quo(n, g), new(big.Int).Quo(d, g)
}

// FromBig returns n/d in lowest terms.
func FromBig(n, d *big.Int) Fraction {
	n, d = Simplify(n, d)
	return Fraction{num: n, den: d}
}

// New returns n/d in lowest terms.
func New(n, d int64) Fraction { return FromBig(big.NewInt(n), big.NewInt(d)) }

// Unreduced returns n/d exactly as given.
func Unreduced(n, d int64) Fraction {
	return Fraction{num: big.NewInt(n), den: big.NewInt(d)}
}

// Decimal returns digits / 10^scale in lowest terms. digits is a plain run
// of decimal digits of any length.
func Decimal(digits string, scale int) (Fraction, error) {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Fraction{}, fmt.Errorf("malformed digits %q", digits)
	}
	d := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	return FromBig(n, d), nil
}

// Debool maps a truth value to 1/1 or 0/1.
func Debool(b bool) Fraction {
	if b {
		return Unreduced(1, 1)
	}
	return Unreduced(0, 1)
}

// Deint maps a count to x/1.
func Deint(x int) Fraction { return Unreduced(int64(x), 1) }

// Num returns a copy of the numerator.
func (f Fraction) Num() *big.Int { return new(big.Int).Set(f.n()) }

// Den returns a copy of the denominator.
func (f Fraction) Den() *big.Int { return new(big.Int).Set(f.d()) }

// Truth reports whether f is non-zero.
func (f Fraction) Truth() bool { return f.n().Sign() != 0 }

// IsInt reports whether the denominator is exactly 1.
func (f Fraction) IsInt() bool { return f.d().Cmp(one) == 0 }

// Identical reports whether f and g have the same numerator and the same
// denominator. 1/2 and 2/4 are equal but not identical.
func (f Fraction) Identical(g Fraction) bool {
	return f.n().Cmp(g.n()) == 0 && f.d().Cmp(g.d()) == 0
}

func (f Fraction) String() string {
	if f.IsInt() {
		return f.n().String()
	}
	return f.n().String() + " / " + f.d().String()
}

func mul(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }

// Operate applies one of * / + - = < > <= >= to a and b.
// Products and quotients are cross-reduced but not reduced afterwards;
// sums and differences are always reduced.
func Operate(op string, a, b Fraction) (Fraction, error) {
	switch op {
	case "*":
		n1, d1 := Simplify(a.n(), b.d())
		n2, d2 := Simplify(b.n(), a.d())
		return Fraction{num: mul(n1, n2), den: mul(d1, d2)}, nil
	case "/":
		return Operate("*", a, Fraction{num: b.d(), den: b.n()})
	case "+":
		n := new(big.Int).Add(mul(a.n(), b.d()), mul(b.n(), a.d()))
		return FromBig(n, mul(a.d(), b.d())), nil
	case "-":
		return Operate("+", a, Fraction{num: new(big.Int).Neg(b.n()), den: b.d()})
	case "=":
		return Debool(cross(a, b) == 0), nil
	case "<":
		return Debool(cross(a, b) < 0), nil
	case ">":
		return Operate("<", b, a)
	case "<=":
		return Debool(cross(a, b) <= 0), nil
	case ">=":
		return Operate("<=", b, a)
	default:
		return Fraction{}, fmt.Errorf("unknown fraction operator %q", op)
	}
}

// cross compares a.num*b.den with b.num*a.den.
func cross(a, b Fraction) int { return mul(a.n(), b.d()).Cmp(mul(b.n(), a.d())) }

type wire struct {
	Num json.Number `json:"num"`
	Den json.Number `json:"den"`
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{Num: json.Number(f.n().String()), Den: json.Number(f.d().String())})
}

func (f *Fraction) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return f.set(string(w.Num), string(w.Den))
}

// MarshalYAML writes num and den as untagged plain scalars. yaml.v3 would
// resolve integers past 64 bits as floats and tag them explicitly otherwise.
func (f Fraction) MarshalYAML() (any, error) {
	plain := func(v string) *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Value: v} }
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		plain("num"), plain(f.n().String()),
		plain("den"), plain(f.d().String()),
	}}, nil
}

func (f *Fraction) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fraction must be a mapping", value.Line)
	}
	var num, den string
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch value.Content[i].Value {
		case "num":
			num = value.Content[i+1].Value
		case "den":
			den = value.Content[i+1].Value
		}
	}
	return f.set(num, den)
}

func (f *Fraction) set(num, den string) error {
	n, ok1 := new(big.Int).SetString(num, 10)
	d, ok2 := new(big.Int).SetString(den, 10)
	if !ok1 || !ok2 {
		return fmt.Errorf("malformed fraction %q / %q", num, den)
	}
	f.num, f.den = n, d
	return nil
}
