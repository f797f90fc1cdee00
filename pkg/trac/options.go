package trac

import (
	"io"

	"mooers.net/trac64/internal/interp"
	"mooers.net/trac64/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite block persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.store = s
		}
	}
}

// WithMemoryStore configures an in-memory block store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a caller-supplied block store.
func WithStore(s interp.Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithConsole sets the interpreter's console.
func WithConsole(c interp.Console) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithConsole(c))
	}
}

// WithIO wires plain reader/writer streams as the console (for scripted
// runs and testing).
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithConsole(interp.NewIOConsole(in, out)))
	}
}

// WithStrict starts the runtime in unforgiving error mode.
func WithStrict(strict bool) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithStrict(strict))
	}
}

// WithTrace starts the runtime with call tracing on.
func WithTrace(on bool) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithTrace(on))
	}
}

// WithStepLimit bounds the dispatches per statement; 0 means unlimited.
func WithStepLimit(n int) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithStepLimit(n))
	}
}

// WithTerminal sets the initial terminal mode.
func WithTerminal(m interp.TerminalMode) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithTerminal(m))
	}
}

// WithReporter sets the statement-error reporter.
func WithReporter(rep interp.Reporter) Option {
	return func(r *Runtime) {
		r.evalOpts = append(r.evalOpts, interp.WithReporter(rep))
	}
}
