package field

import (
	"math/big"
	"sort"
	"sync"
)

// knownPolynomials lists the nonzero exponents of the reducing polynomial
// used for well-known degrees, leading term first.
var knownPolynomials = map[int][]int{
	8:   {8, 4, 3, 2, 0},
	16:  {16, 5, 3, 1, 0},
	32:  {32, 7, 3, 2, 0},
	64:  {64, 4, 3, 1, 0},
	113: {113, 9, 0},
	128: {128, 7, 2, 1, 0},
	131: {131, 8, 3, 2, 0},
	163: {163, 7, 6, 3, 0},
	193: {193, 15, 0},
	233: {233, 74, 0},
	239: {239, 36, 0},
	283: {283, 12, 7, 5, 0},
	409: {409, 87, 0},
}

// Degree571 is always reduced by x^571 + x^507 + x^475 + 1. This polynomial
// is divisible by x+1, so multiples of x+1 have no inverse in that ring.
const Degree571 = 571

var polynomial571 = PolynomialFromExponents(571, 507, 475, 0)

// benOrRounds bounds the cheap small-factor filter run before Rabin's test
const benOrRounds = 16

// PolynomialFromExponents returns the polynomial with a 1 coefficient at each exponent
func PolynomialFromExponents(exponents ...int) *big.Int {
	p := new(big.Int)
	for _, e := range exponents {
		p.SetBit(p, e, 1)
	}
	return p
}

// searched holds the result of searchPolynomial per degree. The search is a
// pure function of m and costs seconds for m in the thousands.
var searched sync.Map // int -> *big.Int

// DefaultPolynomial returns the reducing polynomial used for degree m when
// the caller does not supply one
func DefaultPolynomial(m int) (*big.Int, error) {
	if m <= 0 {
		return nil, Errorf(InvalidDegree, "field degree must be positive, not %d", m)
	}
	if v, ok := searched.Load(m); ok {
		return new(big.Int).Set(v.(*big.Int)), nil
	}
	p, err := searchPolynomial(m)
	if err != nil {
		return nil, err
	}
	v, _ := searched.LoadOrStore(m, p)
	return new(big.Int).Set(v.(*big.Int)), nil
}

func searchPolynomial(m int) (*big.Int, error) {
	if m == Degree571 {
		return new(big.Int).Set(polynomial571), nil
	}
	if exps, ok := knownPolynomials[m]; ok {
		return PolynomialFromExponents(exps...), nil
	}
	if m == 1 {
		return PolynomialFromExponents(1, 0), nil
	}

	// Trinomials x^m + x^k + 1 first
	for k := 1; k < m; k++ {
		if p := PolynomialFromExponents(m, k, 0); IsIrreducible(p) {
			return p, nil
		}
	}
	// Then pentanomials x^m + x^a + x^b + x^c + 1
	for a := 3; a < m; a++ {
		for b := 2; b < a; b++ {
			for c := 1; c < b; c++ {
				if p := PolynomialFromExponents(m, a, b, c, 0); IsIrreducible(p) {
					return p, nil
				}
			}
		}
	}
	return nil, Errorf(InvalidDegree, "no sparse irreducible polynomial of degree %d", m)
}

// IsIrreducible reports whether p has no nontrivial factor over GF(2)
func IsIrreducible(p *big.Int) bool {
	m := degree(p)
	if m < 1 || p.Sign() < 0 {
		return false
	}
	if m == 1 {
		return true
	}
	// Divisible by x
	if p.Bit(0) == 0 {
		return false
	}
	// Divisible by x+1 when the number of terms is even
	if popCount(p)%2 == 0 {
		return false
	}

	r := newReducer(p)
	x := big.NewInt(2)

	// Ben-Or: any factor of degree i divides x^(2^i) - x
	u := new(big.Int).Set(x)
	for i := 1; i <= m/2 && i <= benOrRounds; i++ {
		u = r.reduce(polySquare(u))
		if polyGCD(p, new(big.Int).Xor(u, x)).Cmp(big.NewInt(1)) != 0 {
			return false
		}
	}

	// Rabin: x^(2^m) = x mod p and gcd(x^(2^(m/q)) - x, p) = 1 for every prime q | m
	checkpoints := make([]int, 0, 8)
	for _, q := range primeFactors(m) {
		checkpoints = append(checkpoints, m/q)
	}
	sort.Ints(checkpoints)

	u.Set(x)
	done := 0
	for _, k := range checkpoints {
		for ; done < k; done++ {
			u = r.reduce(polySquare(u))
		}
		if polyGCD(p, new(big.Int).Xor(u, x)).Cmp(big.NewInt(1)) != 0 {
			return false
		}
	}
	for ; done < m; done++ {
		u = r.reduce(polySquare(u))
	}
	return u.Cmp(x) == 0
}

// reducer computes remainders modulo a fixed polynomial. Sparse moduli
// x^m + r(x) are folded word-wise instead of bit by bit.
type reducer struct {
	p    *big.Int
	m    int
	low  []int // exponents of r(x)
	mask *big.Int
}

const maxSparseTerms = 8

func newReducer(p *big.Int) *reducer {
	m := degree(p)
	r := &reducer{p: p, m: m}

	var low []int
	for i := 0; i < m; i++ {
		if p.Bit(i) == 1 {
			low = append(low, i)
			if len(low) > maxSparseTerms {
				return r
			}
		}
	}
	// Folding only converges quickly when r(x) sits well below x^m
	if len(low) > 0 && low[len(low)-1] > m/2 {
		return r
	}
	r.low = low
	r.mask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(m)), big.NewInt(1))
	return r
}

func (r *reducer) reduce(a *big.Int) *big.Int {
	if r.mask == nil {
		return polyMod(a, r.p)
	}
	result := new(big.Int).Set(a)
	high := new(big.Int)
	shifted := new(big.Int)
	for result.BitLen() > r.m {
		high.Rsh(result, uint(r.m))
		result.And(result, r.mask)
		for _, e := range r.low {
			shifted.Lsh(high, uint(e))
			result.Xor(result, shifted)
		}
	}
	return result
}

func popCount(a *big.Int) int {
	n := 0
	for i := 0; i < a.BitLen(); i++ {
		n += int(a.Bit(i))
	}
	return n
}

func primeFactors(n int) []int {
	var factors []int
	for d := 2; d*d <= n; d++ {
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
