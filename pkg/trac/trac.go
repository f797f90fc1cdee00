// Package trac provides the public API for the T-64 interpreter.
package trac

import (
	"fmt"
	"io"
	"os"

	"mooers.net/trac64/internal/interp"
)

// Runtime is one interpreter instance plus its attached resources.
type Runtime struct {
	interp   *interp.Interp
	store    interp.Store
	evalOpts []interp.Option
}

// New creates a new runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}
	if r.store != nil {
		r.evalOpts = append(r.evalOpts, interp.WithStore(r.store))
	}
	r.interp = interp.New(r.evalOpts...)
	return r
}

// Run evaluates script and returns the accumulated output and whether the
// script halted.
func (r *Runtime) Run(script string) (string, bool) {
	return r.interp.Run(script)
}

// RunReader evaluates a script from a reader.
func (r *Runtime) RunReader(reader io.Reader) (string, bool, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return "", false, err
	}
	out, halted := r.interp.Run(string(src))
	return out, halted, nil
}

// RunFile evaluates a script file.
func (r *Runtime) RunFile(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()
	return r.RunReader(f)
}

// IdleScript returns the standard idling program, read-and-print, built
// from the current syntax characters. Drivers run it in a loop until the
// interpreter halts.
func (r *Runtime) IdleScript() string {
	syn := r.interp.Syntax()
	c, m := syn.Call(), syn.Meta()
	return fmt.Sprintf("%c(ps,%c(rs))%c", c, c, m)
}

// Close releases attached resources.
func (r *Runtime) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
