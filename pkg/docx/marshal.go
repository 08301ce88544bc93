package docx

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// BodyXML serializes the body elements back to WordprocessingML with
// conventional prefixes. The surrounding document element is taken verbatim
// from the source file by the container, so namespace declarations never
// need to be reconstructed here.
func (d *Document) BodyXML() []byte {
	var buf bytes.Buffer
	for _, el := range d.Body.Elements {
		switch e := el.(type) {
		case *Paragraph:
			appendParagraph(&buf, e)
		case *Table:
			appendTable(&buf, e)
		case *RawBlock:
			appendRawBlock(&buf, e)
		}
	}
	return buf.Bytes()
}

func appendParagraph(buf *bytes.Buffer, p *Paragraph) {
	buf.WriteString("<w:p>")
	if p.Properties != nil {
		buf.WriteString("<w:pPr>")
		buf.Write(p.Properties.Inner)
		buf.WriteString("</w:pPr>")
	}
	next := 0
	for i := range p.Runs {
		for next < len(p.Extras) && p.Extras[next].AfterRun <= i {
			appendRawBlock(buf, &p.Extras[next].RawBlock)
			next++
		}
		appendRun(buf, &p.Runs[i])
	}
	for next < len(p.Extras) {
		appendRawBlock(buf, &p.Extras[next].RawBlock)
		next++
	}
	buf.WriteString("</w:p>")
}

func appendRun(buf *bytes.Buffer, r *Run) {
	buf.WriteString("<w:r>")
	if r.Properties != nil {
		appendRunProperties(buf, r.Properties)
	}
	for i := range r.Extras {
		appendRawBlock(buf, &r.Extras[i])
	}
	if r.Break != nil {
		if r.Break.Type != "" {
			buf.WriteString(`<w:br w:type="` + escapeAttr(r.Break.Type) + `"/>`)
		} else {
			buf.WriteString("<w:br/>")
		}
	}
	if r.Text != nil {
		appendText(buf, r.Text)
	}
	buf.WriteString("</w:r>")
}

func appendText(buf *bytes.Buffer, t *Text) {
	content := t.Content
	preserve := t.Space == "preserve" ||
		strings.TrimSpace(content) != content
	if preserve {
		buf.WriteString(`<w:t xml:space="preserve">`)
	} else {
		buf.WriteString("<w:t>")
	}
	buf.WriteString(escapeText(content))
	buf.WriteString("</w:t>")
}

// appendRunProperties writes rPr children in schema order.
func appendRunProperties(buf *bytes.Buffer, rp *RunProperties) {
	buf.WriteString("<w:rPr>")
	if rp.Style != nil {
		buf.WriteString(`<w:rStyle w:val="` + escapeAttr(rp.Style.Val) + `"/>`)
	}
	if rp.Fonts != nil {
		buf.WriteString("<w:rFonts")
		if rp.Fonts.ASCII != "" {
			buf.WriteString(` w:ascii="` + escapeAttr(rp.Fonts.ASCII) + `"`)
		}
		if rp.Fonts.HAnsi != "" {
			buf.WriteString(` w:hAnsi="` + escapeAttr(rp.Fonts.HAnsi) + `"`)
		}
		if rp.Fonts.CS != "" {
			buf.WriteString(` w:cs="` + escapeAttr(rp.Fonts.CS) + `"`)
		}
		buf.WriteString("/>")
	}
	if rp.Bold != nil {
		buf.WriteString("<w:b/>")
	}
	if rp.Italic != nil {
		buf.WriteString("<w:i/>")
	}
	if rp.Underline != nil {
		buf.WriteString(`<w:u w:val="` + escapeAttr(rp.Underline.Val) + `"/>`)
	}
	if rp.Color != nil {
		buf.WriteString("<w:color")
		if rp.Color.Val != "" {
			buf.WriteString(` w:val="` + escapeAttr(rp.Color.Val) + `"`)
		}
		if rp.Color.ThemeColor != "" {
			buf.WriteString(` w:themeColor="` + escapeAttr(rp.Color.ThemeColor) + `"`)
		}
		if rp.Color.ThemeTint != "" {
			buf.WriteString(` w:themeTint="` + escapeAttr(rp.Color.ThemeTint) + `"`)
		}
		if rp.Color.ThemeShade != "" {
			buf.WriteString(` w:themeShade="` + escapeAttr(rp.Color.ThemeShade) + `"`)
		}
		buf.WriteString("/>")
	}
	if rp.Size != nil {
		buf.WriteString(`<w:sz w:val="` + escapeAttr(rp.Size.Val) + `"/>`)
	}
	if rp.SizeCs != nil {
		buf.WriteString(`<w:szCs w:val="` + escapeAttr(rp.SizeCs.Val) + `"/>`)
	}
	buf.WriteString("</w:rPr>")
}

func appendTable(buf *bytes.Buffer, t *Table) {
	buf.WriteString("<w:tbl>")
	if t.Properties != nil {
		buf.WriteString("<w:tblPr>")
		buf.Write(t.Properties.Inner)
		buf.WriteString("</w:tblPr>")
	}
	if t.Grid != nil {
		buf.WriteString("<w:tblGrid>")
		buf.Write(t.Grid.Inner)
		buf.WriteString("</w:tblGrid>")
	}
	for i := range t.Rows {
		appendTableRow(buf, &t.Rows[i])
	}
	buf.WriteString("</w:tbl>")
}

func appendTableRow(buf *bytes.Buffer, tr *TableRow) {
	buf.WriteString("<w:tr>")
	if tr.Properties != nil {
		buf.WriteString("<w:trPr>")
		buf.Write(tr.Properties.Inner)
		buf.WriteString("</w:trPr>")
	}
	for i := range tr.Cells {
		appendTableCell(buf, &tr.Cells[i])
	}
	buf.WriteString("</w:tr>")
}

func appendTableCell(buf *bytes.Buffer, tc *TableCell) {
	buf.WriteString("<w:tc>")
	if tc.Properties != nil {
		buf.WriteString("<w:tcPr>")
		buf.Write(tc.Properties.Inner)
		buf.WriteString("</w:tcPr>")
	}
	// A cell must contain at least one paragraph to be valid.
	if len(tc.Paragraphs) == 0 {
		buf.WriteString("<w:p/>")
	}
	for _, p := range tc.Paragraphs {
		appendParagraph(buf, p)
	}
	buf.WriteString("</w:tc>")
}

func appendRawBlock(buf *bytes.Buffer, rb *RawBlock) {
	buf.WriteString("<" + rb.Tag)
	for _, attr := range rb.Attrs {
		buf.WriteString(" " + attrName(attr.Name) + `="` + escapeAttr(attr.Value) + `"`)
	}
	if len(rb.Inner) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteString(">")
	buf.Write(rb.Inner)
	buf.WriteString("</" + rb.Tag + ">")
}

func attrName(name xml.Name) string {
	if name.Space == "xmlns" {
		return "xmlns:" + name.Local
	}
	if p, ok := namespacePrefixes[name.Space]; ok {
		return p + ":" + name.Local
	}
	return name.Local
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = escapeText(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
