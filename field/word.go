package field

import (
	"math/big"

	"github.com/holiman/uint256"
)

// maxWordDegree is the largest m whose carry-less products (degree <= 2m-2)
// still fit a 256-bit word
const maxWordDegree = 127

// mulWord computes a*b mod p on fixed 256-bit words. Callers guarantee
// a, b < 2^m and deg(p) = m <= maxWordDegree.
func mulWord(a, b, p *big.Int) *big.Int {
	x, _ := uint256.FromBig(a)
	y, _ := uint256.FromBig(b)
	mod, _ := uint256.FromBig(p)

	product := clmulWord(x, y)
	return reduceWord(product, mod).ToBig()
}

// clmulWord returns the carry-less product of x and y, truncated to 256 bits
func clmulWord(x, y *uint256.Int) *uint256.Int {
	result := new(uint256.Int)
	shifted := new(uint256.Int)

	for i := 0; i < y.BitLen(); i++ {
		if (y[i/64]>>(uint(i)%64))&1 == 1 {
			shifted.Lsh(x, uint(i))
			result.Xor(result, shifted)
		}
	}
	return result
}

// reduceWord returns a mod p for a nonzero p
func reduceWord(a, p *uint256.Int) *uint256.Int {
	result := new(uint256.Int).Set(a)
	shifted := new(uint256.Int)
	pDegree := p.BitLen() - 1

	for result.BitLen()-1 >= pDegree {
		shifted.Lsh(p, uint(result.BitLen()-1-pDegree))
		result.Xor(result, shifted)
	}
	return result
}
