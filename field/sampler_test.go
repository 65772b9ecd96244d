package field

import "testing"

func TestSamplerDeterministic(t *testing.T) {
	f := mustField(t, 163)
	s1 := NewSampler(f, 0)
	s2 := NewSampler(f, 0)
	for i := 0; i < 100; i++ {
		a, b := s1.Next(), s2.Next()
		if a.Cmp(b) != 0 {
			t.Fatalf("draw %d differs: 0x%x != 0x%x", i, a, b)
		}
		if !f.Contains(a) {
			t.Fatalf("draw %d out of field: 0x%x", i, a)
		}
	}
}

func TestSamplerSeeds(t *testing.T) {
	f := mustField(t, 64)
	a := NewSampler(f, 1).Next()
	b := NewSampler(f, 2).Next()
	if a.Cmp(b) == 0 {
		t.Error("different seeds produced the same first element")
	}
}

func TestSamplerMasksTopBits(t *testing.T) {
	for _, m := range []int{1, 3, 9, 131} {
		f := mustField(t, m)
		s := NewSampler(f, 5)
		for i := 0; i < 50; i++ {
			if v := s.Next(); v.BitLen() > m {
				t.Fatalf("m=%d: sample 0x%x has %d bits", m, v, v.BitLen())
			}
		}
	}
}

func TestSamplerNonZero(t *testing.T) {
	s := NewSampler(mustField(t, 1), 0)
	for i := 0; i < 20; i++ {
		if v := s.NextNonZero(); v.Sign() == 0 {
			t.Fatal("NextNonZero returned zero")
		}
	}
}
