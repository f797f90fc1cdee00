package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"mooers.net/trac64/internal/interp"
)

// termConsole drives a real terminal in the three terminal modes: line
// (cooked input through the tty line discipline), basic (raw input,
// backspace only) and ansi (raw input with escape-sequence editing).
type termConsole struct {
	fd    int
	out   *os.File
	rd    *bufio.Reader
	mode  interp.TerminalMode
	state *term.State // non-nil while the terminal is raw
}

func newTermConsole(mode interp.TerminalMode) (*termConsole, error) {
	c := &termConsole{
		fd:   int(os.Stdin.Fd()),
		out:  os.Stdout,
		rd:   bufio.NewReader(os.Stdin),
		mode: interp.TermLine,
	}
	if err := c.SetTerminal(mode.String(), nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *termConsole) Write(text string) error {
	if c.state != nil {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	_, err := io.WriteString(c.out, text)
	return err
}

// SetTerminal switches modes. Display parameters are hints for smarter
// terminals; nothing here uses them.
func (c *termConsole) SetTerminal(mode string, params []string) error {
	m, ok := interp.ParseTerminalMode(mode)
	if !ok {
		return fmt.Errorf("unknown terminal mode: %s", mode)
	}
	if m == interp.TermLine {
		c.restore()
	} else if c.state == nil {
		st, err := term.MakeRaw(c.fd)
		if err != nil {
			return err
		}
		c.state = st
	}
	c.mode = m
	return nil
}

func (c *termConsole) restore() {
	if c.state != nil {
		term.Restore(c.fd, c.state)
		c.state = nil
	}
}

// Close returns the terminal to cooked mode.
func (c *termConsole) Close() error {
	c.restore()
	return nil
}

func (c *termConsole) ReadChar() (string, error) {
	r, _, err := c.rd.ReadRune()
	if err != nil {
		return "", err
	}
	if c.state != nil {
		if r == 0x04 { // Ctrl+D
			return "", io.EOF
		}
		c.Write(string(r)) // echo
	}
	return string(r), nil
}

func (c *termConsole) ReadLine(seed string, cursor int) (string, error) {
	if c.state == nil {
		if seed != "" {
			if err := c.Write(seed); err != nil {
				return "", err
			}
		}
		line, err := c.rd.ReadString('\n')
		if err != nil {
			if err == io.EOF && line != "" {
				return seed + strings.TrimRight(line, "\r\n"), nil
			}
			return "", err
		}
		return seed + strings.TrimRight(line, "\r\n"), nil
	}
	return c.readLineRaw(seed, cursor)
}

// readLineRaw is the raw-mode line editor. The line starts as the seed
// with the cursor at the requested rune offset; -1 means the end.
func (c *termConsole) readLineRaw(seed string, cursor int) (string, error) {
	line := []rune(seed)
	cur := cursor
	if cur < 0 || cur > len(line) {
		cur = len(line)
	}

	// helper to repaint from the cursor to the end of the line
	redraw := func() {
		fmt.Fprint(c.out, "\x1b[K")
		fmt.Fprint(c.out, string(line[cur:]))
		if cur < len(line) {
			fmt.Fprintf(c.out, "\x1b[%dD", len(line)-cur)
		}
	}

	fmt.Fprint(c.out, string(line))
	if cur < len(line) && c.mode == interp.TermANSI {
		fmt.Fprintf(c.out, "\x1b[%dD", len(line)-cur)
	} else {
		cur = len(line)
	}

	ansi := c.mode == interp.TermANSI
	for {
		b, err := c.rd.ReadByte()
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				fmt.Fprint(c.out, "\r\n")
				return string(line), nil
			}
			return "", err
		}

		switch b {
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				return "", io.EOF
			}
			if ansi && cur < len(line) {
				line = append(line[:cur], line[cur+1:]...)
				redraw()
			}

		case 0x03: // Ctrl+C discards the line
			fmt.Fprint(c.out, "^C\r\n")
			return "", nil

		case 0x0d, 0x0a:
			fmt.Fprint(c.out, "\r\n")
			return string(line), nil

		case 0x7f, 0x08: // backspace
			if cur > 0 {
				cur--
				line = append(line[:cur], line[cur+1:]...)
				fmt.Fprint(c.out, "\b")
				redraw()
			}

		case 0x01: // Ctrl+A
			if ansi && cur > 0 {
				fmt.Fprintf(c.out, "\x1b[%dD", cur)
				cur = 0
			}

		case 0x05: // Ctrl+E
			if ansi && cur < len(line) {
				fmt.Fprintf(c.out, "\x1b[%dC", len(line)-cur)
				cur = len(line)
			}

		case 0x0b: // Ctrl+K
			if ansi && cur < len(line) {
				line = line[:cur]
				fmt.Fprint(c.out, "\x1b[K")
			}

		case 0x1b:
			if !ansi {
				continue
			}
			next, err := c.rd.ReadByte()
			if err != nil || next != '[' {
				continue
			}
			arrow, err := c.rd.ReadByte()
			if err != nil {
				continue
			}
			switch arrow {
			case 'C':
				if cur < len(line) {
					cur++
					fmt.Fprint(c.out, "\x1b[C")
				}
			case 'D':
				if cur > 0 {
					cur--
					fmt.Fprint(c.out, "\x1b[D")
				}
			case '3': // delete key: ESC [ 3 ~
				tilde, err := c.rd.ReadByte()
				if err == nil && tilde == '~' && cur < len(line) {
					line = append(line[:cur], line[cur+1:]...)
					redraw()
				}
			}

		default:
			if b >= 0x20 && b < 0x7f {
				r := rune(b)
				line = append(line[:cur], append([]rune{r}, line[cur:]...)...)
				cur++
				fmt.Fprint(c.out, string(r))
				if cur < len(line) {
					redraw()
				}
			}
		}
	}
}
