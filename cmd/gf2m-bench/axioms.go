package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ppopth/gf2m/field"
)

// checkAxioms verifies the field laws on n sampled elements. Fields with a
// reducible polynomial skip the inverse laws for non-invertible elements.
func checkAxioms(f *field.BinaryField, s *field.Sampler, n int) error {
	zero, one := f.Zero(), f.One()

	for i := 0; i < n; i++ {
		a, b, c := s.Next(), s.Next(), s.Next()

		ab, _ := f.Add(a, b)
		ba, _ := f.Add(b, a)
		if ab.Cmp(ba) != 0 {
			return fmt.Errorf("add is not commutative for 0x%x, 0x%x", a, b)
		}
		aa, _ := f.Add(a, a)
		if aa.Cmp(zero) != 0 {
			return fmt.Errorf("0x%x + 0x%x != 0", a, a)
		}
		diff, _ := f.Sub(ab, b)
		if diff.Cmp(a) != 0 {
			return fmt.Errorf("(a + b) - b != a for 0x%x, 0x%x", a, b)
		}

		mab, _ := f.Mul(a, b)
		mba, _ := f.Mul(b, a)
		if mab.Cmp(mba) != 0 {
			return fmt.Errorf("mul is not commutative for 0x%x, 0x%x", a, b)
		}
		mabc, _ := f.Mul(mab, c)
		mbc, _ := f.Mul(b, c)
		ambc, _ := f.Mul(a, mbc)
		if mabc.Cmp(ambc) != 0 {
			return fmt.Errorf("mul is not associative for 0x%x, 0x%x, 0x%x", a, b, c)
		}
		bc, _ := f.Add(b, c)
		left, _ := f.Mul(a, bc)
		mac, _ := f.Mul(a, c)
		right, _ := f.Add(mab, mac)
		if left.Cmp(right) != 0 {
			return fmt.Errorf("mul does not distribute over add for 0x%x, 0x%x, 0x%x", a, b, c)
		}
		if m1, _ := f.Mul(a, one); m1.Cmp(a) != 0 {
			return fmt.Errorf("0x%x * 1 != 0x%x", a, a)
		}

		if b.Sign() == 0 {
			continue
		}
		inv, err := f.Inv(b)
		if errors.Is(err, field.ErrNotInvertible) {
			continue
		}
		if err != nil {
			return err
		}
		if prod, _ := f.Mul(b, inv); prod.Cmp(one) != 0 {
			return fmt.Errorf("0x%x * inv(0x%x) != 1", b, b)
		}
		q, err := f.Div(mab, b)
		if err != nil {
			return err
		}
		if q.Cmp(a) != 0 {
			return fmt.Errorf("(a * b) / b != a for 0x%x, 0x%x", a, b)
		}
		if r, _ := f.Mod(a, b); degreeOf(r) >= degreeOf(b) {
			return fmt.Errorf("0x%x mod 0x%x has degree %d", a, b, degreeOf(r))
		}
	}
	return nil
}

func degreeOf(v *big.Int) int {
	return v.BitLen() - 1
}
