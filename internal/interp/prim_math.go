package interp

import (
	"math"
	"math/big"
	"regexp"
)

// Operands carry an arbitrary non-numeric prefix ahead of an optionally
// signed decimal tail, per Mooers; the prefix of the first operand rides
// through to the result.
var numRE = regexp.MustCompile(`(?s)\A(.*?)([+-]?)([0-9]*)\z`)

// parsenum splits an operand into prefix and signed value. The sign comes
// back separately because cn tells -0 from 0. ok is false when a non-empty
// operand carries no digits; lenient mode reads those as zero.
func parsenum(arg string) (val *big.Int, prefix, sign string, ok bool) {
	m := numRE.FindStringSubmatch(arg)
	prefix, sign = m[1], m[2]
	digits := m[3]
	val = new(big.Int)
	if digits != "" {
		val.SetString(digits, 10)
		if sign == "-" {
			val.Neg(val)
		}
	}
	return val, prefix, sign, digits != "" || arg == ""
}

// clampCount reduces a character count to something addressable. Forms are
// far shorter than the clamp, so walks stop at the ends regardless.
func clampCount(v *big.Int) int {
	if !v.IsInt64() || v.Int64() > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v.Int64())
}

// arithOp combines two operand values; ok is false on division by zero.
type arithOp func(x, y *big.Int) (val *big.Int, ok bool)

// arith adapts an operation to the primitive shape shared by ad, su, ml,
// dv and rm: two operands and an optional default that is spliced actively
// when the divisor is zero.
func arith(op arithOp) primFn {
	return func(in *Interp, args []string) (string, bool, error) {
		x, prefix, _, okx := parsenum(args[0])
		y, _, _, oky := parsenum(args[1])
		if in.mode.Strict {
			if !okx {
				return "", false, &NumericError{Operand: args[0]}
			}
			if !oky {
				return "", false, &NumericError{Operand: args[1]}
			}
		}
		val, ok := op(x, y)
		if !ok {
			return args[2], true, nil
		}
		return prefix + val.String(), false, nil
	}
}

func addOp(x, y *big.Int) (*big.Int, bool) { return new(big.Int).Add(x, y), true }
func subOp(x, y *big.Int) (*big.Int, bool) { return new(big.Int).Sub(x, y), true }
func mulOp(x, y *big.Int) (*big.Int, bool) { return new(big.Int).Mul(x, y), true }

func divOp(x, y *big.Int) (*big.Int, bool) {
	if y.Sign() == 0 {
		return nil, false
	}
	return floorDiv(x, y), true
}

func remOp(x, y *big.Int) (*big.Int, bool) {
	if y.Sign() == 0 {
		return nil, false
	}
	return floorMod(x, y), true
}

// floorDiv rounds the quotient toward negative infinity, so that dv and rm
// stay consistent for negative operands.
func floorDiv(x, y *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

// floorMod yields a remainder carrying the divisor's sign.
func floorMod(x, y *big.Int) *big.Int {
	r := new(big.Int).Rem(x, y)
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		r.Add(r, y)
	}
	return r
}

func primGR(in *Interp, args []string) (string, bool, error) {
	x, _, _, okx := parsenum(args[0])
	y, _, _, oky := parsenum(args[1])
	if in.mode.Strict {
		if !okx {
			return "", false, &NumericError{Operand: args[0]}
		}
		if !oky {
			return "", false, &NumericError{Operand: args[1]}
		}
	}
	if x.Cmp(y) > 0 {
		return args[2], false, nil
	}
	return args[3], false, nil
}
