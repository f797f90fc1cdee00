package interp

import (
	"sort"
	"strings"

	"mooers.net/trac64/internal/form"
)

func primDS(in *Interp, args []string) (string, bool, error) {
	in.forms[args[0]] = form.New(args[1])
	return "", false, nil
}

func primDD(in *Interp, args []string) (string, bool, error) {
	for _, name := range args {
		if _, ok := in.forms[name]; !ok {
			if in.mode.Strict {
				return "", false, &UndefinedNameError{Name: name}
			}
			continue
		}
		delete(in.forms, name)
	}
	return "", false, nil
}

func primDA(in *Interp, args []string) (string, bool, error) {
	in.forms = make(map[string]*form.Form)
	return "", false, nil
}

func primSS(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	f.Segment(args[1:]...)
	return "", false, nil
}

func primCL(in *Interp, args []string) (string, bool, error) {
	res, err := in.expand(args[0], args[1:])
	return res, false, err
}

func primNI(in *Interp, args []string) (string, bool, error) {
	if in.neutralImplied {
		return args[0], false, nil
	}
	return args[1], false, nil
}

func primCR(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	f.Reset()
	return "", false, nil
}

func primCC(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	res, forced := f.CallChar(args[1])
	return res, forced, nil
}

func primCS(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	res, forced := f.CallSeg(args[1])
	return res, forced, nil
}

func primCN(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	n, _, sign, ok := parsenum(args[1])
	if in.mode.Strict && !ok {
		return "", false, &NumericError{Operand: args[1]}
	}
	// the sign is kept apart from the count: -0 nudges backward, +0 forward
	res, forced := f.CallN(clampCount(n.Abs(n)), sign == "-", args[2])
	return res, forced, nil
}

func primIN(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	res, forced := f.Initial(args[1], args[2])
	return res, forced, nil
}

func primLN(in *Interp, args []string) (string, bool, error) {
	names := make([]string, 0, len(in.forms))
	for name := range in.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, args[0]), false, nil
}

func primPF(in *Interp, args []string) (string, bool, error) {
	f, err := in.findForm(args[0])
	if err != nil {
		return "", false, err
	}
	if err := in.console.Write(f.String() + "\n"); err != nil {
		return "", false, err
	}
	return "", false, nil
}
