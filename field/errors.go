package field

import (
	"errors"
	"fmt"
)

// Kind classifies a field arithmetic failure
type Kind int

const (
	// InvalidFormat means a format tag is neither binary nor hexadecimal
	InvalidFormat Kind = iota + 1
	// MalformedOperand means an operand is empty or has a character illegal for its base
	MalformedOperand
	// OutOfField means a value does not fit in [0, 2^m)
	OutOfField
	// DivisorIsZero means a mod-reduction was requested against the zero polynomial
	DivisorIsZero
	// DivisionByZero means a field division by the zero element
	DivisionByZero
	// InverseOfZero means the inverse of the zero element was requested
	InverseOfZero
	// InvalidDegree means m <= 0 or m is above the configured limit
	InvalidDegree
	// InvalidPolynomial means a reducing polynomial does not have degree m
	InvalidPolynomial
	// NotInvertible means gcd(a, P) != 1, which only happens with a reducible P
	NotInvertible
	// InvalidOperation means an unknown operation name
	InvalidOperation
	// MissingOperand means a two-operand operation got only one operand
	MissingOperand
)

var kindNames = map[Kind]string{
	InvalidFormat:     "InvalidFormat",
	MalformedOperand:  "MalformedOperand",
	OutOfField:        "OutOfField",
	DivisorIsZero:     "DivisorIsZero",
	DivisionByZero:    "DivisionByZero",
	InverseOfZero:     "InverseOfZero",
	InvalidDegree:     "InvalidDegree",
	InvalidPolynomial: "InvalidPolynomial",
	NotInvertible:     "NotInvertible",
	InvalidOperation:  "InvalidOperation",
	MissingOperand:    "MissingOperand",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind named s
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Error is the error returned by every failing field operation
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is reports whether target is a *Error of the same kind, so that
// errors.Is(err, ErrOutOfField) works regardless of the message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrInvalidFormat     = &Error{Kind: InvalidFormat}
	ErrMalformedOperand  = &Error{Kind: MalformedOperand}
	ErrOutOfField        = &Error{Kind: OutOfField}
	ErrDivisorIsZero     = &Error{Kind: DivisorIsZero}
	ErrDivisionByZero    = &Error{Kind: DivisionByZero}
	ErrInverseOfZero     = &Error{Kind: InverseOfZero}
	ErrInvalidDegree     = &Error{Kind: InvalidDegree}
	ErrInvalidPolynomial = &Error{Kind: InvalidPolynomial}
	ErrNotInvertible     = &Error{Kind: NotInvertible}
	ErrInvalidOperation  = &Error{Kind: InvalidOperation}
	ErrMissingOperand    = &Error{Kind: MissingOperand}
)

// Errorf builds a *Error of kind k with a formatted message
func Errorf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind of err if it wraps a *Error
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
