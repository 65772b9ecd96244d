package calc

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ppopth/gf2m/field"
)

func newCalculator(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestOperations(t *testing.T) {
	c := newCalculator(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		req      Request
		expected string
	}{
		{"add_binary", Request{Op: Addition, Operand1: "10101010", Operand2: "11001100", InputFormat: "binary", OutputFormat: "binary", M: 8}, "01100110"},
		{"add_hex", Request{Op: Addition, Operand1: "A1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, "5E"},
		{"sub_hex", Request{Op: Subtraction, Operand1: "A1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, "5E"},
		{"mul_binary", Request{Op: Multiplication, Operand1: "10101010", Operand2: "11001100", InputFormat: "binary", OutputFormat: "binary", M: 8}, "11001001"},
		{"mul_hex", Request{Op: Multiplication, Operand1: "A1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, "0B"},
		{"div_hex", Request{Op: Division, Operand1: "A1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, "54"},
		{"div_binary", Request{Op: Division, Operand1: "10101010", Operand2: "11001100", InputFormat: "binary", OutputFormat: "binary", M: 8}, "10001111"},
		{"mod_binary", Request{Op: ModReduction, Operand1: "10101010", Operand2: "11001100", InputFormat: "binary", OutputFormat: "binary", M: 8}, "01100110"},
		{"mod_small_divisor", Request{Op: ModReduction, Operand1: "0C", Operand2: "03", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, "00"},
		{"inv_hex", Request{Op: Inverse, Operand1: "A1", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, "82"},
		{"inv_binary", Request{Op: Inverse, Operand1: "10101010", InputFormat: "binary", OutputFormat: "binary", M: 8}, "00001101"},
		{"mixed_formats", Request{Op: Addition, Operand1: "1", Operand2: "10", InputFormat: "binary", OutputFormat: "hexadecimal", M: 8}, "03"},
		{"default_degree", Request{Op: Multiplication, Operand1: "2", Operand2: "4" + strings.Repeat("0", 40), InputFormat: "hexadecimal", OutputFormat: "hexadecimal"}, strings.Repeat("0", 38) + "0C9"},
		{"default_degree_mod", Request{Op: ModReduction, Operand1: "5" + strings.Repeat("0", 40), Operand2: "2" + strings.Repeat("0", 39) + "1", InputFormat: "hexadecimal", OutputFormat: "hexadecimal"}, "1" + strings.Repeat("0", 39) + "2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Do(ctx, tc.req)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestRequestErrors(t *testing.T) {
	c := newCalculator(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  Request
		kind field.Kind
	}{
		{"invalid_binary", Request{Op: Addition, Operand1: "10101112", Operand2: "11001100", InputFormat: "binary", OutputFormat: "binary", M: 8}, field.MalformedOperand},
		{"invalid_hex", Request{Op: Multiplication, Operand1: "1G3H", Operand2: "A5", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, field.MalformedOperand},
		{"outside_field", Request{Op: Division, Operand1: "FF1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, field.OutOfField},
		{"second_outside_field", Request{Op: ModReduction, Operand1: "FF", Operand2: "FF1", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, field.OutOfField},
		{"input_type", Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "decimal", OutputFormat: "binary", M: 8}, field.InvalidFormat},
		{"output_type", Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "binary", OutputFormat: "octal", M: 8}, field.InvalidFormat},
		{"division_by_zero", Request{Op: Division, Operand1: "A1", Operand2: "00", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, field.DivisionByZero},
		{"modulo_by_zero", Request{Op: ModReduction, Operand1: "A1", Operand2: "0", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8}, field.DivisorIsZero},
		{"inverse_of_zero", Request{Op: Inverse, Operand1: "0", InputFormat: "binary", OutputFormat: "binary", M: 8}, field.InverseOfZero},
		{"negative_degree", Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "binary", OutputFormat: "binary", M: -1}, field.InvalidDegree},
		{"degree_too_large", Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "binary", OutputFormat: "binary", M: DefaultMaxDegree + 1}, field.InvalidDegree},
		{"missing_operand", Request{Op: Multiplication, Operand1: "1", InputFormat: "binary", OutputFormat: "binary", M: 8}, field.MissingOperand},
		{"unknown_operation", Request{Op: Operation(42), Operand1: "1", Operand2: "1", InputFormat: "binary", OutputFormat: "binary", M: 8}, field.InvalidOperation},
		{"not_invertible", Request{Op: Inverse, Operand1: "3", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 571}, field.NotInvertible},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Do(ctx, tc.req)
			kind, ok := field.KindOf(err)
			if !ok {
				t.Fatalf("expected a field error, got %v", err)
			}
			if kind != tc.kind {
				t.Errorf("expected %v, got %v (%v)", tc.kind, kind, err)
			}
		})
	}
}

func TestFormatMessages(t *testing.T) {
	c := newCalculator(t)

	_, err := c.Do(context.Background(), Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "decimal", OutputFormat: "octal", M: 8})
	if err == nil || err.Error() != InvalidInputFormatMessage {
		t.Errorf("input format should be checked first, got %v", err)
	}
	_, err = c.Do(context.Background(), Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "binary", OutputFormat: "octal", M: 8})
	if err == nil || err.Error() != InvalidOutputFormatMessage {
		t.Errorf("expected the output format message, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	c := newCalculator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, Request{Op: Addition, Operand1: "1", Operand2: "1", InputFormat: "binary", OutputFormat: "binary", M: 8})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCustomPolynomial(t *testing.T) {
	c := newCalculator(t, WithPolynomial(8, big.NewInt(0x11B)))

	got, err := c.Do(context.Background(), Request{Op: Inverse, Operand1: "53", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8})
	if err != nil {
		t.Fatal(err)
	}
	if got != "CA" {
		t.Errorf("expected CA, got %s", got)
	}

	if _, err := New(WithPolynomial(8, big.NewInt(0x101))); !errors.Is(err, field.ErrInvalidPolynomial) {
		t.Errorf("reducible polynomial should be rejected, got %v", err)
	}
	if _, err := New(WithPolynomial(9, big.NewInt(0x11B))); !errors.Is(err, field.ErrInvalidPolynomial) {
		t.Errorf("wrong degree should be rejected, got %v", err)
	}

	// The fixed degree-571 polynomial is reducible but still accepted
	p571 := field.PolynomialFromExponents(571, 507, 475, 0)
	if _, err := New(WithPolynomial(571, p571)); err != nil {
		t.Errorf("the degree-571 polynomial should be accepted, got %v", err)
	}
	other := field.PolynomialFromExponents(571, 506, 475, 0)
	if _, err := New(WithPolynomial(571, other)); !errors.Is(err, field.ErrInvalidPolynomial) {
		t.Errorf("other reducible degree-571 polynomials should be rejected, got %v", err)
	}
}

func TestDegreeOptions(t *testing.T) {
	c := newCalculator(t, WithDefaultDegree(8), WithMaxDegree(64))
	if c.DefaultDegree() != 8 || c.MaxDegree() != 64 {
		t.Fatalf("unexpected degrees %d, %d", c.DefaultDegree(), c.MaxDegree())
	}

	got, err := c.Do(context.Background(), Request{Op: Addition, Operand1: "A1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "5E" {
		t.Errorf("expected 5E, got %s", got)
	}

	if _, err := c.Field(65); !errors.Is(err, field.ErrInvalidDegree) {
		t.Errorf("expected InvalidDegree above the maximum, got %v", err)
	}
	if _, err := New(WithDefaultDegree(0)); !errors.Is(err, field.ErrInvalidDegree) {
		t.Errorf("expected InvalidDegree, got %v", err)
	}
	if _, err := New(WithDefaultDegree(100), WithMaxDegree(50)); err == nil {
		t.Error("default degree above the maximum should be rejected")
	}
}

func TestConcurrentRequests(t *testing.T) {
	c := newCalculator(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Do(context.Background(), Request{Op: Division, Operand1: "A1", Operand2: "FF", InputFormat: "hexadecimal", OutputFormat: "hexadecimal", M: 8})
			if err != nil {
				errs <- err
				return
			}
			if got != "54" {
				errs <- errors.New("unexpected result " + got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
