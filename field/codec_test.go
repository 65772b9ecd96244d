package field

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"binary", "hexadecimal"} {
		f, err := ParseFormat(s)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", s, err)
		}
		if f.String() != s {
			t.Errorf("expected %s, got %s", s, f)
		}
	}
	for _, s := range []string{"", "hex", "Binary", "decimal", "HEXADECIMAL"} {
		if _, err := ParseFormat(s); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseFormat(%q): expected InvalidFormat, got %v", s, err)
		}
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		input    string
		format   Format
		m        int
		expected string
	}{
		{"1101", Binary, 4, "d"},
		{"0001101", Binary, 4, "d"},
		{"ff", Hexadecimal, 8, "ff"},
		{"FF", Hexadecimal, 8, "ff"},
		{"aBc", Hexadecimal, 12, "abc"},
		{"0", Binary, 1, "0"},
		{"1", Binary, 1, "1"},
		{"000000000000000000000", Hexadecimal, 163, "0"},
	}

	for _, tc := range testCases {
		v, err := Parse(tc.input, tc.format, tc.m)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if got := v.Text(16); got != tc.expected {
			t.Errorf("Parse(%q) = %s, expected %s", tc.input, got, tc.expected)
		}
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		format Format
		m      int
		kind   error
	}{
		{"bad_hex_digit", "1G3H", Hexadecimal, 8, ErrMalformedOperand},
		{"bad_binary_digit", "10101112", Binary, 8, ErrMalformedOperand},
		{"hex_in_binary", "AB", Binary, 8, ErrMalformedOperand},
		{"empty", "", Hexadecimal, 8, ErrMalformedOperand},
		{"sign", "-1", Hexadecimal, 8, ErrMalformedOperand},
		{"prefix", "0x1F", Hexadecimal, 8, ErrMalformedOperand},
		{"space", " 1F", Hexadecimal, 8, ErrMalformedOperand},
		{"too_wide", "FF1", Hexadecimal, 8, ErrOutOfField},
		{"too_wide_binary", "100000000", Binary, 8, ErrOutOfField},
		{"bad_degree", "1", Binary, 0, ErrInvalidDegree},
		{"bad_format", "1", Format(0), 8, ErrInvalidFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input, tc.format, tc.m)
			if !errors.Is(err, tc.kind) {
				t.Errorf("expected %v, got %v", tc.kind, err)
			}
		})
	}
}

func TestOutOfFieldMessage(t *testing.T) {
	_, err := Parse("FF1", Hexadecimal, 8)
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "4081") || !strings.Contains(msg, "256") {
		t.Errorf("message should name the value and the bound: %s", msg)
	}
}

func TestFormatElement(t *testing.T) {
	f := mustField(t, 8)

	// Parse, operate, then Format
	a, _ := f.Parse("AA", Hexadecimal)
	b, _ := f.Parse("CC", Hexadecimal)
	product, err := f.Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := f.Format(product, Hexadecimal); s != "C9" {
		t.Errorf("AA*CC: expected C9, got %s", s)
	}

	a, _ = f.Parse("11001", Binary)
	b, _ = f.Parse("10101", Binary)
	sum, _ := f.Add(a, b)
	if s, _ := f.Format(sum, Binary); s != "00001100" {
		t.Errorf("11001+10101: expected 00001100, got %s", s)
	}

	a, _ = f.Parse("A1", Hexadecimal)
	b, _ = f.Parse("FF", Hexadecimal)
	quotient, _ := f.Div(a, b)
	if s, _ := f.Format(quotient, Hexadecimal); s != "54" {
		t.Errorf("A1/FF: expected 54, got %s", s)
	}
}

func TestFormatPadding(t *testing.T) {
	testCases := []struct {
		value    string
		format   Format
		m        int
		expected string
	}{
		{"1", Binary, 8, "00000001"},
		{"0", Binary, 3, "000"},
		{"1", Hexadecimal, 8, "01"},
		{"f", Hexadecimal, 5, "0F"},
		{"0", Hexadecimal, 163, strings.Repeat("0", 41)},
		{"abc", Hexadecimal, 12, "ABC"},
		{"1", Hexadecimal, 1, "1"},
	}

	for _, tc := range testCases {
		v := hexInt(t, tc.value)
		got, err := FormatElement(v, tc.format, tc.m)
		if err != nil {
			t.Fatalf("FormatElement(%s): %v", tc.value, err)
		}
		if got != tc.expected {
			t.Errorf("FormatElement(%s, %s, %d) = %q, expected %q", tc.value, tc.format, tc.m, got, tc.expected)
		}
	}
}

func TestFormatRejectsOutOfField(t *testing.T) {
	if _, err := FormatElement(hexInt(t, "100"), Hexadecimal, 8); !errors.Is(err, ErrOutOfField) {
		t.Errorf("expected OutOfField, got %v", err)
	}
	if _, err := FormatElement(nil, Binary, 8); !errors.Is(err, ErrOutOfField) {
		t.Errorf("expected OutOfField for nil, got %v", err)
	}
	if _, err := FormatElement(hexInt(t, "1"), Binary, 0); !errors.Is(err, ErrInvalidDegree) {
		t.Errorf("expected InvalidDegree, got %v", err)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, m := range []int{1, 7, 8, 33, 163} {
		f := mustField(t, m)
		s := NewSampler(f, uint64(m))
		for i := 0; i < 10; i++ {
			v := s.Next()
			for _, format := range []Format{Binary, Hexadecimal} {
				text, err := f.Format(v, format)
				if err != nil {
					t.Fatal(err)
				}
				back, err := f.Parse(text, format)
				if err != nil {
					t.Fatalf("m=%d: Parse(%q): %v", m, text, err)
				}
				if back.Cmp(v) != 0 {
					t.Fatalf("m=%d: round trip of 0x%x through %s gave 0x%x", m, v, format, back)
				}
			}
		}
	}
}
