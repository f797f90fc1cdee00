package interp

// primFn executes one primitive. It returns the result text and whether
// the splice must be forced active regardless of how the call was written
// (the default-string convention of the arithmetic and form-pointer
// primitives).
type primFn func(in *Interp, args []string) (result string, forced bool, err error)

// primitive declares one built-in operation: its argument shape and its
// behavior. max < 0 means variadic.
type primitive struct {
	name     string
	min, max int
	strict   bool // enforce the shape even in forgiving mode (block primitives)
	extended bool // only available in extended mode
	fn       primFn
}

// fixArgs applies the shared arity policy: unforgiving mode (or a
// shape-strict primitive) rejects counts outside [min, max]; otherwise
// missing arguments become empty strings and extras are dropped.
func (p *primitive) fixArgs(unforgiving bool, args []string) ([]string, error) {
	n := len(args)
	if unforgiving || p.strict {
		if n < p.min {
			return nil, &ArityError{
				Target: p.name, Have: n, Want: p.min, OrMore: p.min != p.max,
			}
		}
		if p.max >= 0 && n > p.max {
			return nil, &ArityError{Target: p.name, Have: n, Want: p.max, Excess: true}
		}
	}
	pad := p.min
	if p.max > pad {
		pad = p.max
	}
	for len(args) < pad {
		args = append(args, "")
	}
	if p.max >= 0 && len(args) > p.max {
		args = args[:p.max]
	}
	return args, nil
}

// register adds a primitive to the table. Duplicate names are a programming
// error.
func (in *Interp) register(p *primitive) {
	if _, dup := in.prims[p.name]; dup {
		panic("duplicate primitive: " + p.name)
	}
	in.prims[p.name] = p
}

// installPrimitives builds the primitive table, roughly in the order of the
// Mooers specification.
func (in *Interp) installPrimitives() {
	in.register(&primitive{name: "ps", min: 1, max: 1, fn: primPS})
	in.register(&primitive{name: "rs", min: 0, max: 2, fn: primRS})
	in.register(&primitive{name: "cm", min: 1, max: 1, fn: primCM})
	in.register(&primitive{name: "rc", min: 0, max: 0, fn: primRC})

	in.register(&primitive{name: "ds", min: 2, max: 2, fn: primDS})
	in.register(&primitive{name: "dd", min: 0, max: -1, fn: primDD})
	in.register(&primitive{name: "da", min: 0, max: 0, fn: primDA})
	in.register(&primitive{name: "ss", min: 1, max: -1, fn: primSS})
	in.register(&primitive{name: "cl", min: 1, max: -1, fn: primCL})
	in.register(&primitive{name: "ni", min: 1, max: 2, extended: true, fn: primNI})

	in.register(&primitive{name: "cr", min: 1, max: 1, fn: primCR})
	in.register(&primitive{name: "cc", min: 1, max: 2, fn: primCC})
	in.register(&primitive{name: "cs", min: 1, max: 2, fn: primCS})
	in.register(&primitive{name: "cn", min: 2, max: 3, fn: primCN})
	in.register(&primitive{name: "in", min: 2, max: 3, fn: primIN})

	in.register(&primitive{name: "ad", min: 2, max: 3, fn: arith(addOp)})
	in.register(&primitive{name: "su", min: 2, max: 3, fn: arith(subOp)})
	in.register(&primitive{name: "ml", min: 2, max: 3, fn: arith(mulOp)})
	in.register(&primitive{name: "dv", min: 2, max: 3, fn: arith(divOp)})
	in.register(&primitive{name: "rm", min: 2, max: 3, extended: true, fn: arith(remOp)})

	in.register(&primitive{name: "bu", min: 2, max: 2, fn: primBU})
	in.register(&primitive{name: "bi", min: 2, max: 2, fn: primBI})
	in.register(&primitive{name: "bc", min: 1, max: 1, fn: primBC})
	in.register(&primitive{name: "br", min: 2, max: 2, fn: primBR})
	in.register(&primitive{name: "bs", min: 2, max: 2, fn: primBS})

	in.register(&primitive{name: "eq", min: 3, max: 4, fn: primEQ})
	in.register(&primitive{name: "gr", min: 3, max: 4, fn: primGR})

	in.register(&primitive{name: "sb", min: 1, max: 1, strict: true, fn: primSB})
	in.register(&primitive{name: "fb", min: 1, max: 1, strict: true, fn: primFB})
	in.register(&primitive{name: "eb", min: 1, max: 1, strict: true, fn: primEB})

	in.register(&primitive{name: "ln", min: 1, max: 1, fn: primLN})
	in.register(&primitive{name: "pf", min: 1, max: 1, fn: primPF})
	in.register(&primitive{name: "tn", min: 0, max: 0, fn: primTN})
	in.register(&primitive{name: "tf", min: 0, max: 0, fn: primTF})
	in.register(&primitive{name: "hl", min: 0, max: 0, fn: primHL})
	in.register(&primitive{name: "mo", min: 0, max: -1, fn: primMO})
}
