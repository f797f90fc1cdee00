package interp

import (
	"errors"
	"fmt"
)

// errHalt is the internal signal raised by hl and by end of input. It stops
// the run immediately and is never reported.
var errHalt = errors.New("halt")

// UndefinedNameError means a call target matched neither a primitive nor a
// stored form. Lenient mode turns it into an empty result.
type UndefinedNameError struct {
	Name string
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("form not found (%s)", e.Name)
}

// ArityError means a call's argument count violated the target's declared
// shape. Raised in unforgiving mode, and for the block primitives always.
type ArityError struct {
	Target string
	Have   int
	Want   int
	OrMore bool
	Excess bool
}

func (e *ArityError) Error() string {
	if e.Excess {
		return fmt.Sprintf("too many arguments: has %d, expecting %d", e.Have, e.Want)
	}
	more := ""
	if e.OrMore {
		more = " or more"
	}
	return fmt.Sprintf("too few arguments: has %d, expecting %d%s", e.Have, e.Want, more)
}

// NumericError means an arithmetic operand carried no numeric part. Only
// unforgiving mode surfaces it; lenient mode reads such operands as zero.
type NumericError struct {
	Operand string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("non-numeric operand (%s)", e.Operand)
}

// StorageError wraps a failure in the block store. Storage failures are
// fatal to the statement in both modes.
type StorageError struct {
	Op    string
	Block string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Block, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// StepLimitError means a statement exceeded the configured dispatch budget.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step budget exceeded (%d)", e.Limit)
}

// alwaysFatal reports whether an error aborts the statement even in
// lenient mode.
func alwaysFatal(err error) bool {
	var se *StorageError
	var le *StepLimitError
	return errors.As(err, &se) || errors.As(err, &le)
}
