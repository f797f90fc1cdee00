// Package interp implements the T-64 evaluator: the scan-dispatch-splice
// loop, the primitive table, and the interpreter's mode state.
package interp

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mooers.net/trac64/internal/form"
	"mooers.net/trac64/internal/scanner"
	"mooers.net/trac64/internal/syntax"
)

// Store is the block-persistence boundary consumed by the sb, fb and eb
// primitives.
type Store interface {
	// LoadAll returns every form image held in the named block.
	LoadAll(block string) ([]form.Image, error)
	// SaveAll replaces the named block's contents with the given images.
	SaveAll(block string, imgs []form.Image) error
	// Erase removes the named block.
	Erase(block string) error
}

// Reporter receives statement-level errors. Every reported error has
// already aborted its statement; the run continues with the next one.
type Reporter func(err error)

// Interp is one interpreter instance. Instances are independent: each owns
// its form store, mode state, syntax table and neutrality flag, so tests
// can run many side by side.
type Interp struct {
	forms    map[string]*form.Form
	prims    map[string]*primitive
	syn      *syntax.Table
	mode     Mode
	console  Console
	store    Store
	reporter Reporter

	// neutralImplied records whether the most recent implied (form) call
	// was written neutrally. Read only by ni.
	neutralImplied bool
	// unread holds console input past a mid-line meta character, waiting
	// for the next rs or rc
	unread string
	tracing        bool
	stepLimit      int // dispatches per statement, 0 = unlimited
}

// Option configures an Interp.
type Option func(*Interp)

// WithConsole sets the console. The default wraps stdin and stdout.
func WithConsole(c Console) Option {
	return func(in *Interp) { in.console = c }
}

// WithStore sets the block store used by sb, fb and eb.
func WithStore(s Store) Option {
	return func(in *Interp) { in.store = s }
}

// WithStrict starts the interpreter in unforgiving mode.
func WithStrict(strict bool) Option {
	return func(in *Interp) { in.mode.Strict = strict }
}

// WithTerminal sets the initial terminal mode.
func WithTerminal(m TerminalMode) Option {
	return func(in *Interp) { in.mode.Terminal = m }
}

// WithTrace starts the interpreter with call tracing on.
func WithTrace(on bool) Option {
	return func(in *Interp) { in.tracing = on }
}

// WithStepLimit bounds the number of dispatches per statement; 0 means
// unlimited. A safety valve for runaway recursive forms, off by default.
func WithStepLimit(n int) Option {
	return func(in *Interp) { in.stepLimit = n }
}

// WithReporter sets the error reporter. The default writes the message to
// the console prefixed with the standard report tag.
func WithReporter(r Reporter) Option {
	return func(in *Interp) { in.reporter = r }
}

// New creates an interpreter with the full primitive table installed.
func New(opts ...Option) *Interp {
	in := &Interp{
		forms: make(map[string]*form.Form),
		prims: make(map[string]*primitive),
		syn:   syntax.NewTable(),
		mode:  defaultMode(),
		// ni before any implied call reads the neutral branch
		neutralImplied: true,
	}
	in.installPrimitives()
	for _, opt := range opts {
		opt(in)
	}
	if in.console == nil {
		in.console = NewIOConsole(os.Stdin, os.Stdout)
	}
	if in.reporter == nil {
		in.reporter = func(err error) {
			in.console.Write(errorTag(err) + " " + err.Error() + "\n")
		}
	}
	return in
}

// Syntax exposes the interpreter's syntax table, so a driver can rebuild
// its idle script after cm or mo,ms changed the special characters.
func (in *Interp) Syntax() *syntax.Table { return in.syn }

// Mode returns a copy of the current mode state.
func (in *Interp) Mode() Mode { return in.mode }

// Run evaluates script to exhaustion and returns the accumulated output
// and whether a halt was requested. A fatal error unwinds only to the
// statement boundary: it is reported and the run resumes at the next
// statement.
func (in *Interp) Run(script string) (string, bool) {
	sc := scanner.New(in.syn, script)
	var out, stmt strings.Builder
	steps := 0

	fail := func(err error) {
		stmt.Reset()
		in.reporter(err)
		sc.SkipStatement()
		steps = 0
	}

	for {
		item, err := sc.Next()
		if err != nil {
			fail(err)
			continue
		}
		switch item.Kind {
		case scanner.Literal:
			stmt.WriteString(item.Text)

		case scanner.EndOfStatement:
			out.WriteString(stmt.String())
			stmt.Reset()
			steps = 0

		case scanner.EndOfBuffer:
			out.WriteString(stmt.String())
			return out.String(), false

		case scanner.Call:
			steps++
			if in.stepLimit > 0 && steps > in.stepLimit {
				fail(&StepLimitError{Limit: in.stepLimit})
				continue
			}
			res, rescan, err := in.dispatch(item.Call)
			if errors.Is(err, errHalt) {
				out.WriteString(stmt.String())
				return out.String(), true
			}
			if err != nil {
				fail(err)
				continue
			}
			sc.Splice(res, rescan)
		}
	}
}

// dispatch resolves and executes one call: primitives first, then the form
// store. It returns the result text and whether the splice is rescanned.
func (in *Interp) dispatch(call *scanner.CallRec) (string, bool, error) {
	name := strings.ToLower(call.Name)
	if in.tracing {
		in.trace(call)
	}
	if p, ok := in.prims[name]; ok && (in.mode.Extended || !p.extended) {
		args, err := p.fixArgs(in.mode.Strict, call.Args)
		if err != nil {
			if p.strict {
				// block primitives enforce their shape in both modes
				return "", false, fmt.Errorf("(%s) %w", name, err)
			}
			res, e := in.soften(name, err)
			return res, false, e
		}
		res, forced, err := p.fn(in, args)
		if err != nil {
			if errors.Is(err, errHalt) {
				return "", false, err
			}
			res, e := in.soften(name, err)
			return res, false, e
		}
		return res, !call.Neutral || forced, nil
	}

	// Implied call. The requested level is recorded for ni, and the
	// expansion is always rescanned; this pairing is what lets a form
	// quote itself back out when invoked neutrally.
	in.neutralImplied = call.Neutral
	res, err := in.expand(call.Name, call.Args)
	if err != nil {
		res, e := in.soften(call.Name, err)
		return res, false, e
	}
	return res, true, nil
}

// expand performs form-call expansion: the body from the form pointer
// onward with each segment gap filled by its positional argument.
// Unforgiving mode checks the argument count against the highest gap.
func (in *Interp) expand(name string, args []string) (string, error) {
	f, ok := in.forms[name]
	if !ok {
		return "", &UndefinedNameError{Name: name}
	}
	if in.mode.Strict {
		want := f.ArgCount()
		if len(args) < want {
			return "", &ArityError{Target: name, Have: len(args), Want: want}
		}
		if len(args) > want {
			return "", &ArityError{Target: name, Have: len(args), Want: want, Excess: true}
		}
	}
	return f.Value(args), nil
}

// soften applies the error mode: storage and budget failures are always
// fatal, everything else is fatal only when unforgiving; a forgiven call
// yields the empty string.
func (in *Interp) soften(target string, err error) (string, error) {
	if alwaysFatal(err) || in.mode.Strict {
		return "", fmt.Errorf("(%s) %w", target, err)
	}
	return "", nil
}

// findForm looks up a form for the primitives that require one.
func (in *Interp) findForm(name string) (*form.Form, error) {
	f, ok := in.forms[name]
	if !ok {
		return nil, &UndefinedNameError{Name: name}
	}
	return f, nil
}

// trace reports a call before it executes, in the classic T-64 shape:
// call characters, name, then each argument.
func (in *Interp) trace(c *scanner.CallRec) {
	var b strings.Builder
	b.WriteRune(in.syn.Call())
	if c.Neutral {
		b.WriteRune(in.syn.Call())
	}
	b.WriteString("/ ")
	b.WriteString(c.Name)
	for _, a := range c.Args {
		b.WriteString(" * ")
		b.WriteString(a)
	}
	b.WriteString(" /\n")
	in.console.Write(b.String())
}

// errorTag picks the report prefix: <STE> for storage trouble, <SCE> for
// exhausted budgets, <UNF> otherwise.
func errorTag(err error) string {
	var se *StorageError
	var le *StepLimitError
	switch {
	case errors.As(err, &se):
		return "<STE>"
	case errors.As(err, &le):
		return "<SCE>"
	}
	return "<UNF>"
}
