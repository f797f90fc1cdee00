// Package scanner implements the scan-buffer machine: a single mutable text
// buffer with an integer cursor and an explicit stack of open call frames.
// Deeply recursive scripts cost buffer space, never Go stack depth.
package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"mooers.net/trac64/internal/syntax"
)

// Kind classifies the units the scanner hands to the evaluator.
type Kind int

const (
	// Literal is a span of finished text at call depth 0.
	Literal Kind = iota
	// Call is a completed (innermost) call ready for dispatch. The
	// evaluator must answer with Splice before scanning on.
	Call
	// EndOfStatement marks the meta character: flush and start fresh.
	EndOfStatement
	// EndOfBuffer means the buffer is exhausted.
	EndOfBuffer
)

// CallRec is one completed call: the target name, its raw argument strings,
// and whether the call was introduced neutrally (double call character).
type CallRec struct {
	Name    string
	Args    []string
	Neutral bool
}

// Item is one scanned unit.
type Item struct {
	Kind Kind
	Text string   // literal text, for Literal items
	Call *CallRec // set for Call items
}

// ParseError reports unterminated or malformed call syntax. It is always
// fatal to the current statement.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// frame is one open call: byte offsets into the buffer. All offsets in a
// frame precede the cursor, so splices at the cursor never invalidate them.
type frame struct {
	start    int   // offset of the first call character of the run
	argStart int   // offset just past the open delimiter
	bounds   []int // offsets of depth-0 separators inside the call
	neutral  bool
}

// Scanner owns the scan buffer for the duration of a run.
type Scanner struct {
	syn    *syntax.Table
	buf    string
	cur    int // byte cursor
	mark   int // start of depth-0 text not yet returned as a literal
	frames []frame

	// span of the call most recently returned, awaiting Splice
	spanStart, spanEnd int
	pending            bool
}

// New creates a scanner over the given buffer, sharing the interpreter's
// syntax table.
func New(syn *syntax.Table, buffer string) *Scanner {
	return &Scanner{syn: syn, buf: buffer}
}

// Next scans forward and returns the next unit. After a Call item the
// caller must invoke Splice (or SkipStatement) before calling Next again.
func (s *Scanner) Next() (Item, error) {
	if s.pending {
		return Item{}, &ParseError{Msg: "call result not spliced"}
	}
	for {
		if s.cur >= len(s.buf) {
			if len(s.frames) > 0 {
				return Item{}, &ParseError{Msg: "hit end of string while expecting ')'"}
			}
			if it, ok := s.flushLiteral(); ok {
				return it, nil
			}
			return Item{Kind: EndOfBuffer}, nil
		}

		r, size := utf8.DecodeRuneInString(s.buf[s.cur:])
		switch {
		case r == s.syn.Meta():
			if len(s.frames) > 0 {
				return Item{}, &ParseError{Msg: "statement ended while expecting ')'"}
			}
			if it, ok := s.flushLiteral(); ok {
				return it, nil
			}
			s.cur += size
			s.mark = s.cur
			return Item{Kind: EndOfStatement}, nil

		case r == s.syn.Call():
			n, runEnd := s.countRun(size)
			if runEnd >= len(s.buf) || s.buf[runEnd] != syntax.Open {
				// bare call characters are literal text
				s.cur = runEnd
				continue
			}
			if len(s.frames) == 0 {
				if it, ok := s.flushLiteral(); ok {
					return it, nil
				}
			}
			if n > 2 {
				return Item{}, &ParseError{
					Msg: fmt.Sprintf("%d call characters before '(' (want 1 or 2)", n),
				}
			}
			s.frames = append(s.frames, frame{
				start:    s.cur,
				argStart: runEnd + 1,
				neutral:  n == 2,
			})
			s.cur = runEnd + 1

		case r == syntax.Open:
			if err := s.skipProtected(); err != nil {
				return Item{}, err
			}

		case r == syntax.Close:
			if len(s.frames) == 0 {
				s.cur += size
				continue
			}
			fr := s.frames[len(s.frames)-1]
			s.frames = s.frames[:len(s.frames)-1]
			s.spanStart, s.spanEnd = fr.start, s.cur+size
			s.pending = true
			return Item{Kind: Call, Call: s.record(fr)}, nil

		case r == syntax.Separator:
			if len(s.frames) > 0 {
				top := &s.frames[len(s.frames)-1]
				top.bounds = append(top.bounds, s.cur)
			}
			s.cur += size

		case r == '\n':
			// unprotected newlines never reach the language
			s.buf = s.buf[:s.cur] + s.buf[s.cur+size:]

		default:
			s.cur += size
		}
	}
}

// Splice replaces the just-returned call's span with result. With rescan
// set, the cursor rewinds to the start of the splice so the result is
// itself scanned; otherwise the cursor lands just past it and the result
// stays opaque text.
func (s *Scanner) Splice(result string, rescan bool) {
	if !s.pending {
		return
	}
	s.buf = s.buf[:s.spanStart] + result + s.buf[s.spanEnd:]
	if rescan {
		s.cur = s.spanStart
	} else {
		s.cur = s.spanStart + len(result)
	}
	s.pending = false
}

// SkipStatement abandons the current statement: open frames are dropped and
// the cursor moves past the next meta character, or to the end of the
// buffer. Used for error recovery.
func (s *Scanner) SkipStatement() {
	s.pending = false
	s.frames = s.frames[:0]
	if i := strings.IndexRune(s.buf[s.cur:], s.syn.Meta()); i >= 0 {
		s.cur += i + utf8.RuneLen(s.syn.Meta())
	} else {
		s.cur = len(s.buf)
	}
	s.mark = s.cur
}

// flushLiteral returns the depth-0 text between mark and the cursor, if
// any. The cursor is not advanced, so the caller re-scans the stopping
// point on the next call.
func (s *Scanner) flushLiteral() (Item, bool) {
	if len(s.frames) == 0 && s.mark < s.cur {
		it := Item{Kind: Literal, Text: s.buf[s.mark:s.cur]}
		s.mark = s.cur
		return it, true
	}
	return Item{}, false
}

// countRun counts the run of call characters at the cursor. Returns the
// run length and the offset just past it.
func (s *Scanner) countRun(firstSize int) (int, int) {
	n := 1
	i := s.cur + firstSize
	for i < len(s.buf) {
		r, size := utf8.DecodeRuneInString(s.buf[i:])
		if r != s.syn.Call() {
			break
		}
		n++
		i += size
	}
	return n, i
}

// skipProtected consumes a parenthesis-protected region: the outer pair is
// removed from the buffer and the cursor lands just past the contents,
// which are never scanned.
func (s *Scanner) skipProtected() error {
	depth := 1
	i := s.cur + 1
	for i < len(s.buf) {
		switch s.buf[i] {
		case syntax.Open:
			depth++
		case syntax.Close:
			depth--
			if depth == 0 {
				s.buf = s.buf[:s.cur] + s.buf[s.cur+1:i] + s.buf[i+1:]
				s.cur = i - 1
				return nil
			}
		}
		i++
	}
	return &ParseError{Msg: "hit end of string inside protected parentheses"}
}

// record builds the call record for a completed frame. The first segment
// is the target name; the rest are the raw arguments.
func (s *Scanner) record(fr frame) *CallRec {
	pieces := make([]string, 0, len(fr.bounds)+1)
	prev := fr.argStart
	for _, b := range fr.bounds {
		pieces = append(pieces, s.buf[prev:b])
		prev = b + 1
	}
	pieces = append(pieces, s.buf[prev:s.cur])
	return &CallRec{Name: pieces[0], Args: pieces[1:], Neutral: fr.neutral}
}
