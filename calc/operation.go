package calc

import (
	"strings"

	"github.com/ppopth/gf2m/field"
)

// Operation is one of the six arithmetic operations the calculator serves
type Operation int

const (
	Addition Operation = iota + 1
	Subtraction
	Multiplication
	Division
	ModReduction
	Inverse
)

var operationNames = map[Operation]string{
	Addition:       "addition",
	Subtraction:    "subtraction",
	Multiplication: "multiplication",
	Division:       "division",
	ModReduction:   "mod-reduction",
	Inverse:        "inverse",
}

var shortNames = map[string]Operation{
	"add": Addition,
	"sub": Subtraction,
	"mul": Multiplication,
	"div": Division,
	"mod": ModReduction,
	"inv": Inverse,
}

var successMessages = map[Operation]string{
	Addition:       "Polynomials added successfully!",
	Subtraction:    "Polynomials subtracted successfully!",
	Multiplication: "Polynomials multiplied successfully!",
	Division:       "Polynomials divided successfully!",
	ModReduction:   "Modulo reduction performed successfully!",
	Inverse:        "Polynomial inverse calculated successfully!",
}

// Operations lists every operation in route order
func Operations() []Operation {
	return []Operation{Addition, Subtraction, Multiplication, Division, ModReduction, Inverse}
}

// String returns the route name of the operation, e.g. "mod-reduction"
func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether o names a known operation
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

// Unary reports whether the operation takes a single operand
func (o Operation) Unary() bool {
	return o == Inverse
}

// SuccessMessage is the human-readable message attached to a successful result
func (o Operation) SuccessMessage() string {
	return successMessages[o]
}

// ParseOperation accepts route names ("multiplication") and short forms ("mul")
func ParseOperation(s string) (Operation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if op, ok := shortNames[name]; ok {
		return op, nil
	}
	for op, opName := range operationNames {
		if opName == name {
			return op, nil
		}
	}
	return 0, field.Errorf(field.InvalidOperation, "unknown operation %q", s)
}
