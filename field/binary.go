package field

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// BinaryField is the field context for GF(2^m): the degree m and the
// reducing polynomial P. It is immutable and safe for concurrent use.
type BinaryField struct {
	m     int      // field extension degree
	poly  *big.Int // reducing polynomial, bit m set
	order *big.Int // 2^m
}

// NewBinaryField creates GF(2^m) with the default reducing polynomial for m
func NewBinaryField(m int) (*BinaryField, error) {
	p, err := DefaultPolynomial(m)
	if err != nil {
		return nil, err
	}
	return newBinaryField(m, p), nil
}

// NewBinaryFieldWithPolynomial creates GF(2^m) reduced by p. The polynomial
// must have degree exactly m; irreducibility is the caller's concern.
func NewBinaryFieldWithPolynomial(m int, p *big.Int) (*BinaryField, error) {
	if m <= 0 {
		return nil, Errorf(InvalidDegree, "field degree must be positive, not %d", m)
	}
	if p == nil || p.Sign() < 0 || degree(p) != m {
		return nil, Errorf(InvalidPolynomial, "reducing polynomial must have degree %d", m)
	}
	return newBinaryField(m, new(big.Int).Set(p)), nil
}

func newBinaryField(m int, p *big.Int) *BinaryField {
	return &BinaryField{
		m:     m,
		poly:  p,
		order: new(big.Int).Lsh(big.NewInt(1), uint(m)),
	}
}

// Degree returns m
func (f *BinaryField) Degree() int {
	return f.m
}

// Polynomial returns a copy of the reducing polynomial
func (f *BinaryField) Polynomial() *big.Int {
	return new(big.Int).Set(f.poly)
}

// Order returns the number of field elements, 2^m
func (f *BinaryField) Order() *big.Int {
	return new(big.Int).Set(f.order)
}

// Contains reports whether 0 <= v < 2^m
func (f *BinaryField) Contains(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(f.order) < 0
}

// String describes the field, e.g. "GF(2^8) mod 0x11d"
func (f *BinaryField) String() string {
	return fmt.Sprintf("GF(2^%d) mod 0x%x", f.m, f.poly)
}

// check returns v if it is a field element and an OutOfField error otherwise
func (f *BinaryField) check(v *big.Int) (*big.Int, error) {
	if v == nil {
		return nil, Errorf(OutOfField, "GF(2^%d) scalars must be in 0 <= x < %s, not nil", f.m, f.order)
	}
	if !f.Contains(v) {
		return nil, Errorf(OutOfField, "GF(2^%d) scalars must be in 0 <= x < %s, not %s", f.m, f.order, v)
	}
	return v, nil
}

func (f *BinaryField) check2(a, b *big.Int) error {
	if _, err := f.check(a); err != nil {
		return err
	}
	_, err := f.check(b)
	return err
}

// Zero returns the additive identity
func (f *BinaryField) Zero() *big.Int {
	return big.NewInt(0)
}

// One returns the multiplicative identity
func (f *BinaryField) One() *big.Int {
	return big.NewInt(1)
}

// Random returns a uniformly random field element
func (f *BinaryField) Random() (*big.Int, error) {
	return rand.Int(rand.Reader, f.order)
}

// Add returns a + b, which over GF(2) is a XOR b
func (f *BinaryField) Add(a, b *big.Int) (*big.Int, error) {
	if err := f.check2(a, b); err != nil {
		return nil, err
	}
	return f.check(new(big.Int).Xor(a, b))
}

// Sub returns a - b, identical to Add in characteristic 2
func (f *BinaryField) Sub(a, b *big.Int) (*big.Int, error) {
	return f.Add(a, b)
}

// Reduce returns a mod modulus using XOR-shift long division. The modulus
// is any nonzero polynomial, not necessarily a field polynomial.
func Reduce(a, modulus *big.Int) (*big.Int, error) {
	if modulus == nil || modulus.Sign() == 0 {
		return nil, Errorf(DivisorIsZero, "Modulo by zero is not allowed")
	}
	if a == nil || a.Sign() < 0 || modulus.Sign() < 0 {
		return nil, Errorf(OutOfField, "polynomials must be non-negative")
	}
	return polyMod(a, modulus), nil
}

// Mod returns a mod b where both operands are field elements and b plays
// the role of an arbitrary divisor polynomial
func (f *BinaryField) Mod(a, b *big.Int) (*big.Int, error) {
	if err := f.check2(a, b); err != nil {
		return nil, err
	}
	r, err := Reduce(a, b)
	if err != nil {
		return nil, err
	}
	return f.check(r)
}

// Mul returns a * b: the carry-less product reduced by the field polynomial
func (f *BinaryField) Mul(a, b *big.Int) (*big.Int, error) {
	if err := f.check2(a, b); err != nil {
		return nil, err
	}
	if f.m <= maxWordDegree {
		return f.check(mulWord(a, b, f.poly))
	}
	return f.check(polyMulMod(a, b, f.poly))
}

// Square returns a * a
func (f *BinaryField) Square(a *big.Int) (*big.Int, error) {
	if _, err := f.check(a); err != nil {
		return nil, err
	}
	return f.check(polyMod(polySquare(a), f.poly))
}

// Exp returns a^e for a non-negative exponent e
func (f *BinaryField) Exp(a, e *big.Int) (*big.Int, error) {
	if _, err := f.check(a); err != nil {
		return nil, err
	}
	if e == nil || e.Sign() < 0 {
		return nil, Errorf(OutOfField, "exponent must be a non-negative integer, not %v", e)
	}
	result := big.NewInt(1)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = polyMod(polySquare(result), f.poly)
		if e.Bit(i) == 1 {
			result = polyMulMod(result, a, f.poly)
		}
	}
	return f.check(result)
}

// Inv returns the multiplicative inverse of a using the extended Euclidean
// algorithm over GF(2)[x]
func (f *BinaryField) Inv(a *big.Int) (*big.Int, error) {
	if _, err := f.check(a); err != nil {
		return nil, err
	}
	if a.Sign() == 0 {
		return nil, Errorf(InverseOfZero, "Polynomial inversion is not possible for zero")
	}

	// Invariant: s_i * a = r_i (mod P)
	oldR := new(big.Int).Set(f.poly)
	r := new(big.Int).Set(a)
	oldS := big.NewInt(0)
	s := big.NewInt(1)

	for r.Sign() > 0 {
		q, remainder := polyDivMod(oldR, r)
		oldR, r = r, remainder
		oldS, s = s, new(big.Int).Xor(oldS, clmul(q, s))
	}

	if oldR.Cmp(big.NewInt(1)) != 0 {
		return nil, Errorf(NotInvertible, "0x%x has no inverse modulo 0x%x", a, f.poly)
	}
	return f.check(polyMod(oldS, f.poly))
}

// Div returns a / b = a * b^-1
func (f *BinaryField) Div(a, b *big.Int) (*big.Int, error) {
	if err := f.check2(a, b); err != nil {
		return nil, err
	}
	if b.Sign() == 0 {
		return nil, Errorf(DivisionByZero, "Division by zero is not allowed in Galois fields")
	}
	inv, err := f.Inv(b)
	if err != nil {
		return nil, err
	}
	return f.Mul(a, inv)
}
