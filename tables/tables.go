// Package tables builds exp/log lookup tables for small binary fields and
// stores them as .npy files.
package tables

import (
	"fmt"
	"math/big"

	"github.com/ppopth/gf2m/field"
)

// MaxDegree is the largest m for which tables are built
const MaxDegree = 20

// Tables holds the exp/log tables of GF(2^m) for one generator g.
// Exp[i] = g^i for 0 <= i < 2^m-1, and Exp[2^m-1] = Exp[0] so that
// index arithmetic never needs a final wrap. Log[x] is the discrete log of
// x != 0; Log[0] holds 2^m-1 as a sentinel.
type Tables struct {
	M         int
	Poly      uint32
	Generator uint32
	Exp       []uint32
	Log       []uint32
}

// Option configures table generation
type Option func(*options) error

type options struct {
	progress func(done, total int)
}

// WithProgress reports generation progress after every batch of entries
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) error {
		o.progress = fn
		return nil
	}
}

// Generate builds the tables of f using the smallest generator of its
// multiplicative group
func Generate(f *field.BinaryField, opts ...Option) (*Tables, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	m := f.Degree()
	if m > MaxDegree {
		return nil, fmt.Errorf("tables are limited to m <= %d, not %d", MaxDegree, m)
	}
	if !field.IsIrreducible(f.Polynomial()) {
		return nil, field.Errorf(field.InvalidPolynomial, "0x%x is not irreducible, GF(2)[x]/P is not a field", f.Polynomial())
	}
	poly := uint32(f.Polynomial().Uint64())
	order := uint32(1)<<m - 1

	g, err := findGenerator(poly, m)
	if err != nil {
		return nil, err
	}

	t := &Tables{
		M:         m,
		Poly:      poly,
		Generator: g,
		Exp:       make([]uint32, order+1),
		Log:       make([]uint32, order+1),
	}

	// Report roughly a hundred times over the run
	step := int(order)/100 + 1
	x := uint32(1)
	for i := uint32(0); i < order; i++ {
		t.Exp[i] = x
		t.Log[x] = i
		x = mulForTable(x, g, poly, m)
		if o.progress != nil && (int(i+1)%step == 0 || i+1 == order) {
			o.progress(int(i+1), int(order))
		}
	}
	t.Exp[order] = t.Exp[0]
	t.Log[0] = order
	return t, nil
}

// findGenerator returns the smallest element whose powers cover every
// nonzero element
func findGenerator(poly uint32, m int) (uint32, error) {
	order := uint32(1)<<m - 1
	if order == 1 {
		return 1, nil
	}

	// g generates the group iff g^(order/q) != 1 for every prime q | order
	var cofactors []uint32
	for _, q := range primeFactors(order) {
		cofactors = append(cofactors, order/q)
	}

	for g := uint32(2); g <= order; g++ {
		primitive := true
		for _, e := range cofactors {
			if expForTable(g, e, poly, m) == 1 {
				primitive = false
				break
			}
		}
		if primitive {
			return g, nil
		}
	}
	return 0, fmt.Errorf("0x%x has no generator", poly)
}

// mulForTable multiplies x and y modulo poly by shift-and-add
func mulForTable(x, y, poly uint32, m int) uint32 {
	hibit := uint32(1) << (m - 1)
	var p uint32
	for i := 0; i < m; i++ {
		if y&1 != 0 {
			p ^= x
		}
		wasSet := x&hibit != 0
		x <<= 1
		y >>= 1
		if wasSet {
			x ^= poly
		}
	}
	return p
}

func expForTable(x, e, poly uint32, m int) uint32 {
	result := uint32(1)
	for e > 0 {
		if e&1 != 0 {
			result = mulForTable(result, x, poly, m)
		}
		x = mulForTable(x, x, poly, m)
		e >>= 1
	}
	return result
}

func primeFactors(n uint32) []uint32 {
	var factors []uint32
	for d := uint32(2); d*d <= n; d++ {
		if n%d == 0 {
			factors = append(factors, d)
			for n%d == 0 {
				n /= d
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

func (t *Tables) order() uint32 {
	return uint32(len(t.Exp) - 1)
}

func (t *Tables) check(a uint32) error {
	if uint64(a) > uint64(t.order()) {
		return field.Errorf(field.OutOfField, "GF(2^%d) scalars must be in 0 <= x < %d, not %d", t.M, t.order()+1, a)
	}
	return nil
}

// Mul returns a * b
func (t *Tables) Mul(a, b uint32) (uint32, error) {
	if err := t.check(a); err != nil {
		return 0, err
	}
	if err := t.check(b); err != nil {
		return 0, err
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	return t.Exp[(t.Log[a]+t.Log[b])%t.order()], nil
}

// Inv returns the multiplicative inverse of a
func (t *Tables) Inv(a uint32) (uint32, error) {
	if err := t.check(a); err != nil {
		return 0, err
	}
	if a == 0 {
		return 0, field.Errorf(field.InverseOfZero, "Polynomial inversion is not possible for zero")
	}
	return t.Exp[t.order()-t.Log[a]], nil
}

// Div returns a / b
func (t *Tables) Div(a, b uint32) (uint32, error) {
	if err := t.check(b); err != nil {
		return 0, err
	}
	if b == 0 {
		return 0, field.Errorf(field.DivisionByZero, "Division by zero is not allowed in Galois fields")
	}
	inv, err := t.Inv(b)
	if err != nil {
		return 0, err
	}
	return t.Mul(a, inv)
}

// Field returns the field context the tables were built for
func (t *Tables) Field() (*field.BinaryField, error) {
	return field.NewBinaryFieldWithPolynomial(t.M, new(big.Int).SetUint64(uint64(t.Poly)))
}
