package interp

import (
	"bufio"
	"io"
	"strings"
)

// Console is the interpreter's window on the terminal. A console that has
// run out of input returns io.EOF, which the evaluator treats as halt.
type Console interface {
	// Write sends text to the output stream.
	Write(text string) error
	// ReadLine reads one line, pre-seeded with seed and the cursor at the
	// given rune offset; cursor -1 places it at the end. Consoles without
	// an editable input may ignore the seed. The returned line carries no
	// trailing newline.
	ReadLine(seed string, cursor int) (string, error)
	// ReadChar reads a single character.
	ReadChar() (string, error)
	// SetTerminal switches the terminal mode (line, basic, ansi) with
	// opaque display parameters the core does not interpret.
	SetTerminal(mode string, params []string) error
}

// IOConsole adapts a plain reader/writer pair to the Console interface.
// Seeds are written as a visible prefix since a pipe cannot be edited.
// This is the default console and the one the tests drive.
type IOConsole struct {
	r *bufio.Reader
	w io.Writer
}

// NewIOConsole wraps r and w into a console.
func NewIOConsole(r io.Reader, w io.Writer) *IOConsole {
	return &IOConsole{r: bufio.NewReader(r), w: w}
}

func (c *IOConsole) Write(text string) error {
	_, err := io.WriteString(c.w, text)
	return err
}

func (c *IOConsole) ReadLine(seed string, cursor int) (string, error) {
	if seed != "" {
		if err := c.Write(seed); err != nil {
			return "", err
		}
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return seed + strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return seed + strings.TrimRight(line, "\r\n"), nil
}

func (c *IOConsole) ReadChar() (string, error) {
	r, _, err := c.r.ReadRune()
	if err != nil {
		return "", err
	}
	return string(r), nil
}

func (c *IOConsole) SetTerminal(mode string, params []string) error {
	// nothing to reconfigure on a pipe
	return nil
}
