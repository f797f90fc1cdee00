package interp

import (
	"fmt"
	"strings"
)

// primEQ branches on literal text equality; no numeric coercion.
func primEQ(in *Interp, args []string) (string, bool, error) {
	if args[0] == args[1] {
		return args[2], false, nil
	}
	return args[3], false, nil
}

// primMO reads and writes the mode state. With no argument it drops back
// to the strict T-64 standard: no extended primitives, forgiving errors.
func primMO(in *Interp, args []string) (string, bool, error) {
	if len(args) == 0 || args[0] == "" {
		in.mode.Extended = false
		in.mode.Strict = false
		return "", false, nil
	}
	switch strings.ToLower(args[0]) {
	case "ms":
		arg := ""
		if len(args) > 1 {
			arg = args[1]
		}
		return "", false, in.syn.SetCall(arg)

	case "pm":
		return "", false, in.console.Write(modeReport(in.mode))

	case "e":
		if len(args) == 1 {
			in.mode.Extended = true
			return "", false, nil
		}
		return "", false, in.applySwitches(args[1])

	case "rt":
		if len(args) == 1 {
			return in.mode.Terminal.String(), false, nil
		}
		m, ok := ParseTerminalMode(args[1])
		if !ok {
			return "", false, fmt.Errorf("unrecognized terminal mode: %s", args[1])
		}
		if err := in.console.SetTerminal(args[1], args[2:]); err != nil {
			return "", false, err
		}
		in.mode.Terminal = m
		return "", false, nil
	}
	return "", false, fmt.Errorf("unrecognized mode: %s", args[0])
}

// applySwitches walks a run of +/- switches: p toggles extended
// primitives, u toggles unforgiving errors. A bare letter means on.
func (in *Interp) applySwitches(switches string) error {
	val := true
	for i := 0; i < len(switches); i++ {
		switch switches[i] {
		case '+':
			val = true
			if i == len(switches)-1 {
				return fmt.Errorf("missing switch")
			}
		case '-':
			val = false
			if i == len(switches)-1 {
				return fmt.Errorf("missing switch")
			}
		case 'p':
			in.mode.Extended = val
			val = true
		case 'u':
			in.mode.Strict = val
			val = true
		default:
			return fmt.Errorf("unrecognized switch: %c", switches[i])
		}
	}
	return nil
}

func modeReport(m Mode) string {
	ext, unf := "", ""
	if !m.Extended {
		ext = "un"
	}
	if m.Strict {
		unf = "un"
	}
	return fmt.Sprintf("<MO>: %sextended primitives; %sforgiving with errors.", ext, unf)
}
