package field

import (
	"math/big"
	"strings"
)

// Format is the string representation of a field element
type Format int

const (
	Binary Format = iota + 1
	Hexadecimal
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case Hexadecimal:
		return "hexadecimal"
	default:
		return "unknown"
	}
}

func (f Format) base() int {
	switch f {
	case Binary:
		return 2
	case Hexadecimal:
		return 16
	default:
		return 0
	}
}

// ParseFormat accepts exactly "binary" or "hexadecimal"
func ParseFormat(s string) (Format, error) {
	switch s {
	case "binary":
		return Binary, nil
	case "hexadecimal":
		return Hexadecimal, nil
	default:
		return 0, Errorf(InvalidFormat, "invalid format %q, use 'binary' or 'hexadecimal'", s)
	}
}

// Parse reads s in the given format and checks that the value fits in GF(2^m)
func Parse(s string, format Format, m int) (*big.Int, error) {
	if m <= 0 {
		return nil, Errorf(InvalidDegree, "field degree must be positive, not %d", m)
	}
	base := format.base()
	if base == 0 {
		return nil, Errorf(InvalidFormat, "invalid format %s, use 'binary' or 'hexadecimal'", format)
	}
	if s == "" {
		return nil, Errorf(MalformedOperand, "empty operand for base %d", base)
	}
	for _, c := range s {
		if !validDigit(c, base) {
			return nil, Errorf(MalformedOperand, "invalid literal for base %d: %q", base, s)
		}
	}

	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, Errorf(MalformedOperand, "invalid literal for base %d: %q", base, s)
	}
	if v.BitLen() > m {
		bound := new(big.Int).Lsh(big.NewInt(1), uint(m))
		return nil, Errorf(OutOfField, "GF(2^%d) scalars must be in 0 <= x < %s, not %s", m, bound, v)
	}
	return v, nil
}

func validDigit(c rune, base int) bool {
	switch {
	case c == '0' || c == '1':
		return true
	case base == 16 && c >= '2' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// FormatElement renders v zero-padded to m binary digits or ceil(m/4) upper-case
// hexadecimal digits
func FormatElement(v *big.Int, format Format, m int) (string, error) {
	if m <= 0 {
		return "", Errorf(InvalidDegree, "field degree must be positive, not %d", m)
	}
	if v == nil || v.Sign() < 0 || v.BitLen() > m {
		bound := new(big.Int).Lsh(big.NewInt(1), uint(m))
		return "", Errorf(OutOfField, "GF(2^%d) scalars must be in 0 <= x < %s, not %v", m, bound, v)
	}

	var digits string
	var width int
	switch format {
	case Binary:
		digits = v.Text(2)
		width = m
	case Hexadecimal:
		digits = strings.ToUpper(v.Text(16))
		width = (m + 3) / 4
	default:
		return "", Errorf(InvalidFormat, "invalid format %s, use 'binary' or 'hexadecimal'", format)
	}
	if len(digits) < width {
		digits = strings.Repeat("0", width-len(digits)) + digits
	}
	return digits, nil
}

// Parse reads an operand of this field
func (f *BinaryField) Parse(s string, format Format) (*big.Int, error) {
	return Parse(s, format, f.m)
}

// Format renders an element of this field
func (f *BinaryField) Format(v *big.Int, format Format) (string, error) {
	return FormatElement(v, format, f.m)
}
