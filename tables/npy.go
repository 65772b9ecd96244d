package tables

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kshedden/gonpy"
	"github.com/sbinet/npyio"
)

// ExpFile and LogFile name the table files of degree m inside a directory
func ExpFile(dir string, m int) string {
	return filepath.Join(dir, fmt.Sprintf("exp%d.npy", m))
}

func LogFile(dir string, m int) string {
	return filepath.Join(dir, fmt.Sprintf("log%d.npy", m))
}

// Save writes exp<m>.npy and log<m>.npy into dir, creating it if needed
func (t *Tables) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeNpy(ExpFile(dir, t.M), t.Exp); err != nil {
		return err
	}
	return writeNpy(LogFile(dir, t.M), t.Log)
}

func writeNpy(name string, data []uint32) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := npyio.Write(f, data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// Load reads the tables of degree m back from dir. The generator and the
// reducing polynomial are recovered from the tables themselves.
func Load(dir string, m int) (*Tables, error) {
	if m <= 0 || m > MaxDegree {
		return nil, fmt.Errorf("tables are limited to 1 <= m <= %d, not %d", MaxDegree, m)
	}
	exp, err := readNpy(ExpFile(dir, m))
	if err != nil {
		return nil, err
	}
	logs, err := readNpy(LogFile(dir, m))
	if err != nil {
		return nil, err
	}

	size := 1 << m
	if len(exp) != size || len(logs) != size {
		return nil, fmt.Errorf("tables of degree %d must have %d entries, got %d and %d", m, size, len(exp), len(logs))
	}

	if err := validate(exp, logs); err != nil {
		return nil, fmt.Errorf("tables of degree %d in %s: %w", m, dir, err)
	}

	t := &Tables{
		M:   m,
		Exp: exp,
		Log: logs,
	}
	if m == 1 {
		t.Generator = 1
		t.Poly = 0b11
		return t, nil
	}
	t.Generator = exp[1]

	// x^m mod P gives the low terms of P
	x := uint32(1)
	for i := 0; i < m; i++ {
		if x, err = t.Mul(x, 2); err != nil {
			return nil, err
		}
	}
	t.Poly = 1<<m | x
	return t, nil
}

// validate checks that exp and logs, both of length 2^m, are inverse
// permutations of the nonzero elements and the exponents 0..2^m-2
func validate(exp, logs []uint32) error {
	order := uint32(len(exp) - 1)
	for i, x := range exp {
		if x == 0 || x > order {
			return fmt.Errorf("exp[%d] = %d is not a nonzero element", i, x)
		}
	}
	if exp[order] != exp[0] {
		return fmt.Errorf("exp[%d] = %d, expected exp[0] = %d", order, exp[order], exp[0])
	}
	if logs[0] != order {
		return fmt.Errorf("log[0] = %d, expected %d", logs[0], order)
	}
	for a := uint32(1); a <= order; a++ {
		l := logs[a]
		if l >= order || exp[l] != a {
			return fmt.Errorf("log[%d] = %d does not invert the exp table", a, l)
		}
	}
	return nil
}

func readNpy(name string) ([]uint32, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := gonpy.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	data, err := r.GetUint32()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
