// Package form implements the form store's data model: named text fragments
// made of text chunks and segment gaps, with a movable form pointer.
package form

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type kind int

const (
	textChunk kind = iota
	gapChunk
	endChunk
)

// chunk is one piece of a form body. A text chunk holds literal text, a gap
// chunk stands for a positional argument slot, and the single end chunk
// terminates every form so the pointer always has somewhere to rest.
type chunk struct {
	kind kind
	text string
	gap  int // argument index, 0-based
}

// Form is a stored text fragment. The form pointer is the pair (cp, off):
// cp indexes the chunk holding the pointer and off is a byte offset inside a
// text chunk (0 for gap and end chunks). off may transiently equal the chunk
// length after backward movement; normalize folds that into the next chunk.
type Form struct {
	chunks []chunk
	cp     int
	off    int
}

// New creates a form holding body verbatim with no segment gaps.
func New(body string) *Form {
	f := &Form{}
	if body != "" {
		f.chunks = append(f.chunks, chunk{kind: textChunk, text: body})
	}
	f.chunks = append(f.chunks, chunk{kind: endChunk})
	return f
}

// Value returns the form's text from the pointer onward, with each segment
// gap replaced by the corresponding positional argument. Missing arguments
// read as empty.
func (f *Form) Value(args []string) string {
	var b strings.Builder
	for i := f.cp; i < len(f.chunks); i++ {
		c := f.chunks[i]
		switch c.kind {
		case textChunk:
			if i == f.cp {
				b.WriteString(c.text[f.off:])
			} else {
				b.WriteString(c.text)
			}
		case gapChunk:
			if c.gap < len(args) {
				b.WriteString(args[c.gap])
			}
		}
	}
	return b.String()
}

// Segment converts every literal occurrence of each marker into a segment
// gap numbered by the marker's position. Markers are processed left to
// right, so a later marker never matches inside an earlier gap. Empty
// markers are skipped; the pointer moves to the left end.
func (f *Form) Segment(markers ...string) {
	for gapno, m := range markers {
		if m == "" {
			continue
		}
		var out []chunk
		for _, c := range f.chunks {
			if c.kind != textChunk {
				out = append(out, c)
				continue
			}
			for i, piece := range strings.Split(c.text, m) {
				if i > 0 {
					out = append(out, chunk{kind: gapChunk, gap: gapno})
				}
				if piece != "" {
					out = append(out, chunk{kind: textChunk, text: piece})
				}
			}
		}
		f.chunks = out
	}
	f.Reset()
}

// ArgCount returns how many positional arguments the form's gaps address:
// one past the highest gap number, or zero for an unsegmented form.
func (f *Form) ArgCount() int {
	n := 0
	for _, c := range f.chunks {
		if c.kind == gapChunk && c.gap+1 > n {
			n = c.gap + 1
		}
	}
	return n
}

// Reset moves the form pointer to the left end.
func (f *Form) Reset() {
	f.cp, f.off = 0, 0
}

// normalize folds the "just past the last byte of a text chunk" pointer
// state into the start of the following chunk.
func (f *Form) normalize() {
	for {
		c := f.chunks[f.cp]
		if c.kind == textChunk && f.off >= len(c.text) {
			f.cp++
			f.off = 0
			continue
		}
		return
	}
}

// atRightEnd reports whether the pointer sits exactly at the end chunk.
func (f *Form) atRightEnd() bool {
	f.normalize()
	return f.chunks[f.cp].kind == endChunk
}

// atLeftEnd reports whether the pointer sits at the very start of the form.
func (f *Form) atLeftEnd() bool {
	return f.cp == 0 && f.off == 0
}

// toNextChar advances the pointer over gaps until a character is available.
// Reports true when the pointer reaches the right end instead.
func (f *Form) toNextChar() bool {
	for {
		c := f.chunks[f.cp]
		switch {
		case c.kind == endChunk:
			return true
		case c.kind == textChunk && f.off < len(c.text):
			return false
		}
		f.cp++
		f.off = 0
	}
}

// nextChar returns the character at the pointer and moves past it. Only
// valid after toNextChar reported false.
func (f *Form) nextChar() rune {
	c := f.chunks[f.cp]
	r, size := utf8.DecodeRuneInString(c.text[f.off:])
	f.off += size
	if f.off >= len(c.text) {
		f.cp++
		f.off = 0
	}
	return r
}

// toPrevChar moves the pointer left over gaps until a character is available
// before it. Reports true when the pointer reaches the left end instead.
func (f *Form) toPrevChar() bool {
	if c := f.chunks[f.cp]; c.kind == textChunk && f.off > 0 {
		return false
	}
	for {
		if f.cp == 0 {
			return true
		}
		if prev := f.chunks[f.cp-1]; prev.kind == textChunk {
			f.cp--
			f.off = len(prev.text)
			return false
		}
		f.cp--
		f.off = 0
	}
}

// prevChar returns the character before the pointer and moves the pointer
// left of it. Only valid after toPrevChar reported false.
func (f *Form) prevChar() rune {
	c := f.chunks[f.cp]
	r, size := utf8.DecodeLastRuneInString(c.text[:f.off])
	f.off -= size
	return r
}

// CallChar yields the single character at the pointer, advancing past it.
// At the right end it yields dflt with forced set, telling the evaluator to
// splice the default actively.
func (f *Form) CallChar(dflt string) (string, bool) {
	if f.toNextChar() {
		return dflt, true
	}
	return string(f.nextChar()), false
}

// CallN yields n characters starting at the pointer, or, when back is set,
// the n characters ending at the pointer. A zero count only nudges the
// pointer over adjacent gaps. The default is yielded (forced active) only
// when the pointer is exactly at the relevant end.
func (f *Form) CallN(n int, back bool, dflt string) (string, bool) {
	if !back {
		if f.atRightEnd() {
			return dflt, true
		}
		if n == 0 {
			f.toNextChar()
			return "", false
		}
		var b strings.Builder
		for n > 0 {
			if f.toNextChar() {
				return b.String(), false
			}
			b.WriteRune(f.nextChar())
			n--
		}
		return b.String(), false
	}

	if f.atLeftEnd() {
		return dflt, true
	}
	if n == 0 {
		f.toPrevChar()
		return "", false
	}
	var chars []rune
	for n > 0 {
		if f.toPrevChar() {
			break
		}
		chars = append(chars, f.prevChar())
		n--
	}
	// collected right to left
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), false
}

// CallSeg yields the text from the pointer to the next segment gap and
// moves the pointer past that gap. At the right end it yields dflt forced.
func (f *Form) CallSeg(dflt string) (string, bool) {
	f.normalize()
	c := f.chunks[f.cp]
	if c.kind == endChunk {
		return dflt, true
	}
	var text string
	fromText := false
	if c.kind == textChunk {
		text = c.text[f.off:]
		fromText = true
	}
	f.cp++
	f.off = 0
	if f.chunks[f.cp].kind == endChunk {
		return text, false
	}
	if fromText {
		// the chunk after a text chunk is always a gap
		f.cp++
	}
	return text, false
}

// Initial scans forward from the pointer for text, yielding the characters
// skipped before the match and leaving the pointer just past it. Gaps are
// passed over without matching across them. When text is absent (or empty)
// the default is yielded forced and the pointer does not move.
func (f *Form) Initial(text, dflt string) (string, bool) {
	f.normalize()
	var val strings.Builder
	for i := f.cp; i < len(f.chunks); i++ {
		c := f.chunks[i]
		if c.kind != textChunk {
			continue
		}
		start := 0
		if i == f.cp {
			start = f.off
		}
		j := -1
		if text != "" {
			j = strings.Index(c.text[start:], text)
		}
		if j < 0 {
			val.WriteString(c.text[start:])
			continue
		}
		val.WriteString(c.text[start : start+j])
		newOff := start + j + len(text)
		if newOff >= len(c.text) {
			f.cp, f.off = i+1, 0
		} else {
			f.cp, f.off = i, newOff
		}
		return val.String(), false
	}
	return dflt, true
}

// String renders the form the way pf prints it: <^> marks the pointer and
// <n> marks the n-th segment gap, 1-based per Mooers.
func (f *Form) String() string {
	var b strings.Builder
	for i, c := range f.chunks {
		switch c.kind {
		case textChunk:
			if i == f.cp {
				b.WriteString(c.text[:f.off])
				b.WriteString("<^>")
				b.WriteString(c.text[f.off:])
			} else {
				b.WriteString(c.text)
			}
		case gapChunk:
			if i == f.cp && f.off == 0 {
				b.WriteString("<^>")
			}
			fmt.Fprintf(&b, "<%d>", c.gap+1)
		case endChunk:
			if i == f.cp {
				b.WriteString("<^>")
			}
		}
	}
	return b.String()
}
