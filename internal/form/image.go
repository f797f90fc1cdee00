package form

import "sort"

// Gap records one segment gap inside a flattened body: Pos is the byte
// offset within Body where the gap sits and Arg is the 0-based argument
// index it substitutes.
type Gap struct {
	Pos int `json:"pos"`
	Arg int `json:"arg"`
}

// Image is the persistable flat representation of a form. The form pointer
// is not part of the image; a restored form starts with the pointer at the
// left end.
type Image struct {
	Name string `json:"name"`
	Body string `json:"body"`
	Gaps []Gap  `json:"gaps,omitempty"`
}

// Image flattens the form under the given name.
func (f *Form) Image(name string) Image {
	img := Image{Name: name}
	var body []byte
	for _, c := range f.chunks {
		switch c.kind {
		case textChunk:
			body = append(body, c.text...)
		case gapChunk:
			img.Gaps = append(img.Gaps, Gap{Pos: len(body), Arg: c.gap})
		}
	}
	img.Body = string(body)
	return img
}

// FromImage rebuilds a form from its flat representation. Gaps are applied
// in Pos order; gaps sharing a position keep their slice order.
func FromImage(img Image) *Form {
	gaps := make([]Gap, len(img.Gaps))
	copy(gaps, img.Gaps)
	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Pos < gaps[j].Pos })

	f := &Form{}
	prev := 0
	for _, g := range gaps {
		if g.Pos < prev || g.Pos > len(img.Body) {
			continue // corrupt offset, drop the gap rather than panic
		}
		if g.Pos > prev {
			f.chunks = append(f.chunks, chunk{kind: textChunk, text: img.Body[prev:g.Pos]})
		}
		f.chunks = append(f.chunks, chunk{kind: gapChunk, gap: g.Arg})
		prev = g.Pos
	}
	if prev < len(img.Body) {
		f.chunks = append(f.chunks, chunk{kind: textChunk, text: img.Body[prev:]})
	}
	f.chunks = append(f.chunks, chunk{kind: endChunk})
	return f
}
