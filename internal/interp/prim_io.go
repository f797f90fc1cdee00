package interp

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

func primPS(in *Interp, args []string) (string, bool, error) {
	if err := in.console.Write(args[0]); err != nil {
		return "", false, err
	}
	return "", false, nil
}

// readCursor maps the rs displacement argument to a rune offset in the
// seed: non-negative counts from the start, negative counts back from the
// end, and the empty string or "end" places the cursor at the end.
func readCursor(spec, seed string) int {
	if spec == "" || spec == "end" {
		return -1
	}
	d, err := strconv.Atoi(spec)
	if err != nil {
		return -1
	}
	if d >= 0 {
		return d
	}
	n := len([]rune(seed)) + d
	if n < 0 {
		n = 0
	}
	return n
}

func primRS(in *Interp, args []string) (string, bool, error) {
	meta := string(in.syn.Meta())
	var b strings.Builder

	// text left over from a line whose meta character came early
	if in.unread != "" {
		if i := strings.Index(in.unread, meta); i >= 0 {
			res := in.unread[:i]
			in.unread = in.unread[i+len(meta):]
			return res, false, nil
		}
		b.WriteString(in.unread)
		in.unread = ""
	}

	seed, cursor := args[0], readCursor(args[1], args[0])
	for {
		line, err := in.console.ReadLine(seed, cursor)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", false, errHalt
			}
			return "", false, err
		}
		if i := strings.Index(line, meta); i >= 0 {
			b.WriteString(line[:i])
			in.unread = line[i+len(meta):] + "\n"
			return b.String(), false, nil
		}
		b.WriteString(line)
		b.WriteByte('\n')
		seed, cursor = "", -1
	}
}

func primRC(in *Interp, args []string) (string, bool, error) {
	if in.unread != "" {
		r, size := utf8.DecodeRuneInString(in.unread)
		in.unread = in.unread[size:]
		return string(r), false, nil
	}
	ch, err := in.console.ReadChar()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", false, errHalt
		}
		return "", false, err
	}
	return ch, false, nil
}

func primCM(in *Interp, args []string) (string, bool, error) {
	return "", false, in.syn.SetMeta(args[0])
}

func primTN(in *Interp, args []string) (string, bool, error) {
	in.tracing = true
	return "", false, nil
}

func primTF(in *Interp, args []string) (string, bool, error) {
	in.tracing = false
	return "", false, nil
}

func primHL(in *Interp, args []string) (string, bool, error) {
	return "", false, errHalt
}
