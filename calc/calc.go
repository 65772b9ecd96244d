package calc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ppopth/gf2m/field"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("calc")

const (
	// DefaultDegree is the field degree used when a request leaves m unset
	DefaultDegree = 163
	// DefaultMaxDegree bounds the field degree a request may ask for
	DefaultMaxDegree = 2048
)

// Messages returned for bad format tags
const (
	InvalidInputFormatMessage  = "Invalid input type.\nPlease provide either 'binary' or 'hexadecimal'."
	InvalidOutputFormatMessage = "Invalid output type.\nPlease provide either 'binary' or 'hexadecimal'."
)

// Request is a single arithmetic operation. Operand2 is ignored by Inverse.
type Request struct {
	Op           Operation
	Operand1     string
	Operand2     string
	InputFormat  string
	OutputFormat string
	M            int // 0 selects the calculator's default degree
}

// Option configures a Calculator during construction
type Option func(*Calculator) error

// Calculator parses, computes and formats arithmetic requests. It holds only
// immutable configuration, so one Calculator can serve concurrent requests.
type Calculator struct {
	defaultDegree int
	maxDegree     int
	polynomials   map[int]*big.Int // per-degree overrides of the default polynomial
}

// New creates a Calculator
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		defaultDegree: DefaultDegree,
		maxDegree:     DefaultMaxDegree,
		polynomials:   make(map[int]*big.Int),
	}

	for _, opt := range opts {
		err := opt(c)
		if err != nil {
			return nil, err
		}
	}

	if c.defaultDegree > c.maxDegree {
		return nil, fmt.Errorf("default degree %d exceeds the maximum degree %d", c.defaultDegree, c.maxDegree)
	}
	return c, nil
}

// WithDefaultDegree sets the degree used when a request has M == 0
func WithDefaultDegree(m int) Option {
	return func(c *Calculator) error {
		if m <= 0 {
			return field.Errorf(field.InvalidDegree, "field degree must be positive, not %d", m)
		}
		c.defaultDegree = m
		return nil
	}
}

// WithMaxDegree sets the largest degree a request may use
func WithMaxDegree(m int) Option {
	return func(c *Calculator) error {
		if m <= 0 {
			return field.Errorf(field.InvalidDegree, "field degree must be positive, not %d", m)
		}
		c.maxDegree = m
		return nil
	}
}

// WithPolynomial makes every request at degree m reduce by p instead of the
// default polynomial. p must be irreducible of degree m, or the fixed
// degree-571 polynomial.
func WithPolynomial(m int, p *big.Int) Option {
	return func(c *Calculator) error {
		if _, err := field.NewBinaryFieldWithPolynomial(m, p); err != nil {
			return err
		}
		if !field.IsIrreducible(p) && !isFixed571(m, p) {
			return field.Errorf(field.InvalidPolynomial, "0x%x is not irreducible", p)
		}
		c.polynomials[m] = new(big.Int).Set(p)
		return nil
	}
}

func isFixed571(m int, p *big.Int) bool {
	if m != field.Degree571 {
		return false
	}
	fixed, err := field.DefaultPolynomial(m)
	return err == nil && fixed.Cmp(p) == 0
}

// DefaultDegree returns the degree used for requests with M == 0
func (c *Calculator) DefaultDegree() int {
	return c.defaultDegree
}

// MaxDegree returns the largest accepted degree
func (c *Calculator) MaxDegree() int {
	return c.maxDegree
}

// Field builds the field context for degree m. A fresh context is built on
// every call.
func (c *Calculator) Field(m int) (*field.BinaryField, error) {
	if m == 0 {
		m = c.defaultDegree
	}
	if m < 0 || m > c.maxDegree {
		return nil, field.Errorf(field.InvalidDegree, "field degree must be in 1..%d, not %d", c.maxDegree, m)
	}
	if p, ok := c.polynomials[m]; ok {
		return field.NewBinaryFieldWithPolynomial(m, p)
	}
	return field.NewBinaryField(m)
}

// Do runs one request and returns the formatted result. A rejected request
// fails with a *field.Error; only a cancelled ctx yields anything else.
func (c *Calculator) Do(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !req.Op.Valid() {
		return "", field.Errorf(field.InvalidOperation, "unknown operation %d", int(req.Op))
	}

	inputFormat, err := field.ParseFormat(req.InputFormat)
	if err != nil {
		return "", &field.Error{Kind: field.InvalidFormat, Msg: InvalidInputFormatMessage}
	}
	outputFormat, err := field.ParseFormat(req.OutputFormat)
	if err != nil {
		return "", &field.Error{Kind: field.InvalidFormat, Msg: InvalidOutputFormatMessage}
	}

	f, err := c.Field(req.M)
	if err != nil {
		return "", err
	}
	if !req.Op.Unary() && req.Operand2 == "" {
		return "", field.Errorf(field.MissingOperand, "%s requires two operands", req.Op)
	}

	a, err := f.Parse(req.Operand1, inputFormat)
	if err != nil {
		return "", err
	}
	var b *big.Int
	if !req.Op.Unary() {
		b, err = f.Parse(req.Operand2, inputFormat)
		if err != nil {
			return "", err
		}
	}

	result, err := apply(f, req.Op, a, b)
	if err != nil {
		log.Debugf("%s in %s failed: %v", req.Op, f, err)
		return "", err
	}
	log.Debugf("%s in %s: 0x%x", req.Op, f, result)

	return f.Format(result, outputFormat)
}

func apply(f *field.BinaryField, op Operation, a, b *big.Int) (*big.Int, error) {
	switch op {
	case Addition:
		return f.Add(a, b)
	case Subtraction:
		return f.Sub(a, b)
	case Multiplication:
		return f.Mul(a, b)
	case Division:
		return f.Div(a, b)
	case ModReduction:
		return f.Mod(a, b)
	case Inverse:
		return f.Inv(a)
	default:
		return nil, field.Errorf(field.InvalidOperation, "unknown operation %d", int(op))
	}
}
