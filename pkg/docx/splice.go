package docx

import "encoding/xml"

// IndexOf returns the position of el in the body, or -1.
func (b *Body) IndexOf(el BodyElement) int {
	for i, e := range b.Elements {
		if e == el {
			return i
		}
	}
	return -1
}

// InsertAt splices els into the body at index i.
func (b *Body) InsertAt(i int, els ...BodyElement) {
	if i < 0 {
		i = 0
	}
	if i > len(b.Elements) {
		i = len(b.Elements)
	}
	b.Elements = append(b.Elements[:i], append(append([]BodyElement{}, els...), b.Elements[i:]...)...)
}

// RemoveAt removes the element at index i.
func (b *Body) RemoveAt(i int) {
	if i < 0 || i >= len(b.Elements) {
		return
	}
	b.Elements = append(b.Elements[:i], b.Elements[i+1:]...)
}

// ReplaceRange atomically replaces elements [i, j) with els. Insert-then-
// delete sequences around an anchor go through here so the body never holds
// an intermediate invalid state.
func (b *Body) ReplaceRange(i, j int, els []BodyElement) {
	if i < 0 || j > len(b.Elements) || i > j {
		return
	}
	rest := append(append([]BodyElement{}, els...), b.Elements[j:]...)
	b.Elements = append(b.Elements[:i], rest...)
}

func cloneBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

// Clone deep-copies a paragraph.
func (p *Paragraph) Clone() *Paragraph {
	out := &Paragraph{}
	if p.Properties != nil {
		out.Properties = &ParagraphProperties{Inner: cloneBytes(p.Properties.Inner)}
	}
	out.Runs = make([]Run, len(p.Runs))
	for i := range p.Runs {
		out.Runs[i] = *p.Runs[i].Clone()
	}
	for i := range p.Extras {
		out.Extras = append(out.Extras, ParagraphExtra{
			RawBlock: *p.Extras[i].RawBlock.Clone(),
			AfterRun: p.Extras[i].AfterRun,
		})
	}
	return out
}

// Clone deep-copies a run.
func (r *Run) Clone() *Run {
	out := &Run{}
	out.Properties = r.Properties.Clone()
	if r.Text != nil {
		t := *r.Text
		out.Text = &t
	}
	if r.Break != nil {
		br := *r.Break
		out.Break = &br
	}
	for _, extra := range r.Extras {
		out.Extras = append(out.Extras, *extra.Clone())
	}
	return out
}

// Clone deep-copies run properties. A nil receiver yields nil so style
// snapshots can be taken from property-less runs.
func (rp *RunProperties) Clone() *RunProperties {
	if rp == nil {
		return nil
	}
	out := &RunProperties{}
	if rp.Style != nil {
		v := *rp.Style
		out.Style = &v
	}
	if rp.Fonts != nil {
		v := *rp.Fonts
		out.Fonts = &v
	}
	if rp.Bold != nil {
		out.Bold = &Empty{}
	}
	if rp.Italic != nil {
		out.Italic = &Empty{}
	}
	if rp.Underline != nil {
		v := *rp.Underline
		out.Underline = &v
	}
	if rp.Color != nil {
		v := *rp.Color
		out.Color = &v
	}
	if rp.Size != nil {
		v := *rp.Size
		out.Size = &v
	}
	if rp.SizeCs != nil {
		v := *rp.SizeCs
		out.SizeCs = &v
	}
	return out
}

// Clone deep-copies a table, its rows and cells.
func (t *Table) Clone() *Table {
	out := &Table{}
	if t.Properties != nil {
		out.Properties = &TableProperties{Inner: cloneBytes(t.Properties.Inner)}
	}
	if t.Grid != nil {
		out.Grid = &TableGrid{Inner: cloneBytes(t.Grid.Inner)}
	}
	out.Rows = make([]TableRow, len(t.Rows))
	for i := range t.Rows {
		out.Rows[i] = *t.Rows[i].Clone()
	}
	return out
}

// Clone deep-copies a table row.
func (tr *TableRow) Clone() *TableRow {
	out := &TableRow{}
	if tr.Properties != nil {
		out.Properties = &RowProperties{Inner: cloneBytes(tr.Properties.Inner)}
	}
	out.Cells = make([]TableCell, len(tr.Cells))
	for i := range tr.Cells {
		out.Cells[i] = *tr.Cells[i].Clone()
	}
	return out
}

// Clone deep-copies a table cell.
func (tc *TableCell) Clone() *TableCell {
	out := &TableCell{}
	if tc.Properties != nil {
		out.Properties = &CellProperties{Inner: cloneBytes(tc.Properties.Inner)}
	}
	out.Paragraphs = make([]*Paragraph, len(tc.Paragraphs))
	for i, p := range tc.Paragraphs {
		out.Paragraphs[i] = p.Clone()
	}
	return out
}

// Clone deep-copies a raw block.
func (rb *RawBlock) Clone() *RawBlock {
	attrs := make([]xml.Attr, len(rb.Attrs))
	copy(attrs, rb.Attrs)
	return &RawBlock{Tag: rb.Tag, Attrs: attrs, Inner: cloneBytes(rb.Inner)}
}
