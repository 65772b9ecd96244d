package field

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestKnownPolynomialsAreIrreducible(t *testing.T) {
	for m, exps := range knownPolynomials {
		p := PolynomialFromExponents(exps...)
		if degree(p) != m {
			t.Errorf("m=%d: polynomial has degree %d", m, degree(p))
		}
		if !IsIrreducible(p) {
			t.Errorf("m=%d: polynomial 0x%x is reducible", m, p)
		}
	}
}

func TestIsIrreducible(t *testing.T) {
	testCases := []struct {
		name     string
		p        *big.Int
		expected bool
	}{
		{"zero", big.NewInt(0), false},
		{"one", big.NewInt(1), false},
		{"x", big.NewInt(2), true},
		{"x+1", big.NewInt(3), true},
		{"x^2+x+1", big.NewInt(7), true},
		{"x^2+1", big.NewInt(5), false},
		{"aes", big.NewInt(0x11B), true},
		{"x^8+x^4+x^3+x^2+1", big.NewInt(0x11D), true},
		{"x^4+x+1", big.NewInt(0x13), true},
		{"x^4+x^2+1", big.NewInt(0x15), false},
		{"(x^3+x+1)(x^3+x^2+1)", clmul(big.NewInt(0xB), big.NewInt(0xD)), false},
		{"x^127+x+1", PolynomialFromExponents(127, 1, 0), true},
		{"deg571", PolynomialFromExponents(571, 507, 475, 0), false},
		{"x^163+x^7+x^6+x^3+1", PolynomialFromExponents(163, 7, 6, 3, 0), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsIrreducible(tc.p); got != tc.expected {
				t.Errorf("IsIrreducible(0x%x) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestDefaultPolynomialSearch(t *testing.T) {
	testCases := []struct {
		m         int
		exponents []int
	}{
		{1, []int{1, 0}},
		{2, []int{2, 1, 0}},
		{3, []int{3, 1, 0}},
		{5, []int{5, 2, 0}},
		{10, []int{10, 3, 0}},
		{13, []int{13, 4, 3, 1, 0}},
		{24, []int{24, 4, 3, 1, 0}},
		{100, []int{100, 15, 0}},
		{163, []int{163, 7, 6, 3, 0}},
		{233, []int{233, 74, 0}},
		{571, []int{571, 507, 475, 0}},
	}

	for _, tc := range testCases {
		p, err := DefaultPolynomial(tc.m)
		if err != nil {
			t.Fatalf("m=%d: %v", tc.m, err)
		}
		if expected := PolynomialFromExponents(tc.exponents...); p.Cmp(expected) != 0 {
			t.Errorf("m=%d: expected 0x%x, got 0x%x", tc.m, expected, p)
		}
	}
}

func TestDefaultPolynomialIsDeterministic(t *testing.T) {
	for _, m := range []int{17, 48, 96, 200} {
		p1, err := DefaultPolynomial(m)
		if err != nil {
			t.Fatal(err)
		}
		p2, _ := DefaultPolynomial(m)
		if p1.Cmp(p2) != 0 {
			t.Errorf("m=%d: search is not deterministic", m)
		}
		if degree(p1) != m || !IsIrreducible(p1) {
			t.Errorf("m=%d: 0x%x is not an irreducible polynomial of degree m", m, p1)
		}
	}
}

func TestDefaultPolynomialIsRemembered(t *testing.T) {
	const m = 1000
	p1, err := DefaultPolynomial(m)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := searched.Load(m); !ok {
		t.Fatalf("m=%d: search result was not stored", m)
	}

	start := time.Now()
	p2, err := DefaultPolynomial(m)
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("second lookup took %v", elapsed)
	}
	if p1.Cmp(p2) != 0 {
		t.Errorf("second lookup returned 0x%x, expected 0x%x", p2, p1)
	}

	// Callers get their own copy
	p2.SetBit(p2, 1, p2.Bit(1)^1)
	if p3, _ := DefaultPolynomial(m); p3.Cmp(p1) != 0 {
		t.Error("mutating a returned polynomial changed the stored one")
	}
}

func TestInvalidDegree(t *testing.T) {
	for _, m := range []int{0, -1, -163} {
		if _, err := NewBinaryField(m); !errors.Is(err, ErrInvalidDegree) {
			t.Errorf("m=%d: expected InvalidDegree, got %v", m, err)
		}
	}
}

func TestSparseReducerMatchesLongDivision(t *testing.T) {
	f := mustField(t, 233)
	r := newReducer(f.Polynomial())
	if r.mask == nil {
		t.Fatal("trinomial should use the sparse reducer")
	}

	s := NewSampler(f, 7)
	for i := 0; i < 50; i++ {
		a := clmul(s.Next(), s.Next())
		if got, expected := r.reduce(a), polyMod(a, f.Polynomial()); got.Cmp(expected) != 0 {
			t.Fatalf("sparse 0x%x != long division 0x%x", got, expected)
		}
	}
}

func TestPolySquare(t *testing.T) {
	s := NewSampler(mustField(t, 300), 1)
	for i := 0; i < 20; i++ {
		a := s.Next()
		if got, expected := polySquare(a), clmul(a, a); got.Cmp(expected) != 0 {
			t.Fatalf("polySquare(0x%x) = 0x%x, expected 0x%x", a, got, expected)
		}
	}
}

func TestPolyDivMod(t *testing.T) {
	s := NewSampler(mustField(t, 64), 3)
	for i := 0; i < 20; i++ {
		a := s.Next()
		b := s.NextNonZero()
		q, r := polyDivMod(a, b)
		if degree(r) >= degree(b) {
			t.Fatalf("remainder degree %d >= divisor degree %d", degree(r), degree(b))
		}
		// a = q*b + r
		if back := new(big.Int).Xor(clmul(q, b), r); back.Cmp(a) != 0 {
			t.Fatalf("q*b + r = 0x%x, expected 0x%x", back, a)
		}
		if r.Cmp(polyMod(a, b)) != 0 {
			t.Fatal("polyMod disagrees with polyDivMod")
		}
	}
}
