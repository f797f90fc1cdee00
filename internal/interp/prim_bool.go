package interp

import (
	"fmt"
	"math/big"
)

// The boolean primitives operate on the trailing run of octal digits in
// their operand, three bits per digit; any leading non-octal text is
// discarded. The result is rendered back at a fixed digit width.

// parsebool extracts the operand's octal tail as a value and a digit
// count.
func parsebool(arg string) (*big.Int, int) {
	i := len(arg)
	for i > 0 && arg[i-1] >= '0' && arg[i-1] <= '7' {
		i--
	}
	oct := arg[i:]
	v := new(big.Int)
	if oct != "" {
		v.SetString(oct, 8)
	}
	return v, len(oct)
}

// toOct renders a value as exactly width octal digits.
func toOct(v *big.Int, width int) string {
	if width == 0 {
		return ""
	}
	return fmt.Sprintf("%0*o", width, v)
}

// boolMask is the all-ones value for the given digit width.
func boolMask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width*3))
	return m.Sub(m, big.NewInt(1))
}

// primBU is bitwise union; the result is as wide as the wider operand.
func primBU(in *Interp, args []string) (string, bool, error) {
	v1, l1 := parsebool(args[0])
	v2, l2 := parsebool(args[1])
	w := l1
	if l2 > w {
		w = l2
	}
	return toOct(new(big.Int).Or(v1, v2), w), false, nil
}

// primBI is bitwise intersection; the result is as wide as the narrower
// operand.
func primBI(in *Interp, args []string) (string, bool, error) {
	v1, l1 := parsebool(args[0])
	v2, l2 := parsebool(args[1])
	w := l1
	if l2 < w {
		w = l2
	}
	return toOct(new(big.Int).And(v1, v2), w), false, nil
}

func primBC(in *Interp, args []string) (string, bool, error) {
	v, l := parsebool(args[0])
	c := new(big.Int).AndNot(boolMask(l), v)
	return toOct(c, l), false, nil
}

// primBR rotates left by the first operand's value, which may be negative.
func primBR(in *Interp, args []string) (string, bool, error) {
	n, _, _, ok := parsenum(args[0])
	if in.mode.Strict && !ok {
		return "", false, &NumericError{Operand: args[0]}
	}
	v, l := parsebool(args[1])
	if l == 0 {
		return "", false, nil
	}
	nbits := l * 3
	rot := new(big.Int).Mod(n, big.NewInt(int64(nbits)))
	left := uint(rot.Int64())
	hi := new(big.Int).Lsh(v, left)
	hi.And(hi, boolMask(l))
	lo := new(big.Int).Rsh(v, uint(nbits)-left)
	return toOct(hi.Or(hi, lo), l), false, nil
}

// primBS shifts by the first operand's value: positive shifts left,
// negative shifts right, vacated positions fill with zeros.
func primBS(in *Interp, args []string) (string, bool, error) {
	n, _, _, ok := parsenum(args[0])
	if in.mode.Strict && !ok {
		return "", false, &NumericError{Operand: args[0]}
	}
	v, l := parsebool(args[1])
	if l == 0 {
		return "", false, nil
	}
	nbits := int64(l * 3)
	d := new(big.Int).Set(n)
	out := new(big.Int)
	switch {
	case d.Sign() >= 0:
		if d.Cmp(big.NewInt(nbits)) < 0 {
			out.Lsh(v, uint(d.Int64()))
			out.And(out, boolMask(l))
		}
	default:
		d.Neg(d)
		if d.Cmp(big.NewInt(nbits)) < 0 {
			out.Rsh(v, uint(d.Int64()))
		}
	}
	return toOct(out, l), false, nil
}
