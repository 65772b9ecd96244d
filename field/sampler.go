package field

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Sampler draws a reproducible sequence of field elements from a seed.
// It is not safe for concurrent use.
type Sampler struct {
	field *BinaryField
	shake sha3.ShakeHash
	buf   []byte
}

// NewSampler returns a Sampler over f keyed by seed. Two samplers with the
// same field degree and seed produce the same sequence.
func NewSampler(f *BinaryField, seed uint64) *Sampler {
	shake := sha3.NewShake128()
	var header [16]byte
	binary.BigEndian.PutUint64(header[:8], seed)
	binary.BigEndian.PutUint64(header[8:], uint64(f.m))
	shake.Write([]byte("gf2m-sampler"))
	shake.Write(header[:])

	return &Sampler{
		field: f,
		shake: shake,
		buf:   make([]byte, (f.m+7)/8),
	}
}

// Next returns the next element, uniform over [0, 2^m)
func (s *Sampler) Next() *big.Int {
	s.shake.Read(s.buf)
	// Clear the bits above m in the leading byte
	if extra := len(s.buf)*8 - s.field.m; extra > 0 {
		s.buf[0] &= 0xFF >> extra
	}
	return new(big.Int).SetBytes(s.buf)
}

// NextNonZero returns the next nonzero element
func (s *Sampler) NextNonZero() *big.Int {
	for {
		if v := s.Next(); v.Sign() != 0 {
			return v
		}
	}
}
