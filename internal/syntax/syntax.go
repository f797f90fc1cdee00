// Package syntax holds the special characters of the T-64 language.
package syntax

import "fmt"

// Default special characters. The open/close delimiters and the argument
// separator are fixed by the T-64 standard; the call character and the meta
// character may be changed at runtime (mo,ms and cm respectively).
const (
	DefaultCall = '#'  // introduces a call: #( active, ##( neutral
	DefaultMeta = '\'' // terminates a top-level statement

	Open      = '('
	Close     = ')'
	Separator = ','
)

// Table is the mutable syntax-character table shared by the scanner and the
// evaluator. One table exists per interpreter instance.
type Table struct {
	call rune
	meta rune
}

// NewTable returns a table with the default T-64 characters.
func NewTable() *Table {
	return &Table{call: DefaultCall, meta: DefaultMeta}
}

// Call returns the current call (syntax) character.
func (t *Table) Call() rune { return t.call }

// Meta returns the current meta (statement terminator) character.
func (t *Table) Meta() rune { return t.meta }

// SetCall changes the call character. The first rune of s is used so that a
// full argument string can be passed straight through.
func (t *Table) SetCall(s string) error {
	r, err := t.check(s, t.meta)
	if err != nil {
		return err
	}
	t.call = r
	return nil
}

// SetMeta changes the meta character.
func (t *Table) SetMeta(s string) error {
	r, err := t.check(s, t.call)
	if err != nil {
		return err
	}
	t.meta = r
	return nil
}

// check validates a replacement character. Delimiters, the separator, and
// the other special character are rejected.
func (t *Table) check(s string, taken rune) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("cannot change to null string")
	}
	r := []rune(s)[0]
	switch r {
	case Open, Close, Separator, taken:
		return 0, fmt.Errorf("cannot change to %q", r)
	}
	return r, nil
}
