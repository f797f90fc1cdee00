package interp

// TerminalMode selects how the console handles input and display. The core
// records the mode and forwards it, with any display parameters, to the
// console untouched.
type TerminalMode int

const (
	// TermLine is cooked line input.
	TermLine TerminalMode = iota
	// TermBasic is raw input without escape handling.
	TermBasic
	// TermANSI is raw input with escape-sequence editing.
	TermANSI
)

// String returns the mode name as scripts spell it.
func (m TerminalMode) String() string {
	switch m {
	case TermLine:
		return "line"
	case TermBasic:
		return "basic"
	case TermANSI:
		return "ansi"
	}
	return "unknown"
}

// ParseTerminalMode maps a script-level mode name to its enum value.
func ParseTerminalMode(s string) (TerminalMode, bool) {
	switch s {
	case "line":
		return TermLine, true
	case "basic":
		return TermBasic, true
	case "ansi":
		return TermANSI, true
	}
	return TermLine, false
}

// Mode is the interpreter's process-wide configuration. Extended gates the
// primitives beyond the T-64 standard; Strict is the unforgiving error
// mode.
type Mode struct {
	Terminal TerminalMode
	Strict   bool
	Extended bool
}

// defaultMode matches the standard T-64 processor: extended primitives on,
// forgiving errors, cooked terminal.
func defaultMode() Mode {
	return Mode{Terminal: TermLine, Strict: false, Extended: true}
}
