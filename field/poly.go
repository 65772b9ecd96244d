package field

import "math/big"

// Polynomials over GF(2) are stored in a *big.Int, bit i being the
// coefficient of x^i. None of the helpers below modify their arguments.

// degree returns the degree of a, or -1 for the zero polynomial
func degree(a *big.Int) int {
	return a.BitLen() - 1
}

// clmul returns the carry-less product a*b
func clmul(a, b *big.Int) *big.Int {
	result := new(big.Int)
	shifted := new(big.Int)

	for i := 0; i < b.BitLen(); i++ {
		if b.Bit(i) == 1 {
			shifted.Lsh(a, uint(i))
			result.Xor(result, shifted)
		}
	}
	return result
}

// polyMod returns the remainder of a divided by the nonzero polynomial b
func polyMod(a, b *big.Int) *big.Int {
	remainder := new(big.Int).Set(a)
	bDegree := degree(b)
	shifted := new(big.Int)

	// Each step clears the leading bit, so the degree strictly decreases
	for degree(remainder) >= bDegree {
		shifted.Lsh(b, uint(degree(remainder)-bDegree))
		remainder.Xor(remainder, shifted)
	}
	return remainder
}

// polyDivMod returns the quotient and remainder of a divided by the nonzero polynomial b
func polyDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	quotient := new(big.Int)
	remainder := new(big.Int).Set(a)
	bDegree := degree(b)
	shifted := new(big.Int)

	for degree(remainder) >= bDegree {
		shift := degree(remainder) - bDegree
		quotient.SetBit(quotient, shift, 1)
		shifted.Lsh(b, uint(shift))
		remainder.Xor(remainder, shifted)
	}
	return quotient, remainder
}

// polyGCD returns gcd(a, b)
func polyGCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Set(a)
	y := new(big.Int).Set(b)
	for y.Sign() != 0 {
		x, y = y, polyMod(x, y)
	}
	return x
}

// spread maps a byte to the 16-bit word with its bits at even positions
var spread [256]uint16

func init() {
	for i := range spread {
		var s uint16
		for bit := 0; bit < 8; bit++ {
			if i&(1<<bit) != 0 {
				s |= 1 << (2 * bit)
			}
		}
		spread[i] = s
	}
}

// polySquare returns a^2. Over GF(2) squaring only interleaves zero bits.
func polySquare(a *big.Int) *big.Int {
	in := a.Bytes()
	out := make([]byte, 2*len(in))
	for i, b := range in {
		s := spread[b]
		out[2*i] = byte(s >> 8)
		out[2*i+1] = byte(s)
	}
	return new(big.Int).SetBytes(out)
}

// polyMulMod returns a*b mod p
func polyMulMod(a, b, p *big.Int) *big.Int {
	return polyMod(clmul(a, b), p)
}
