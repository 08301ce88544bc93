// Package docx provides a minimal WordprocessingML document tree for the
// filling engine: ordered body elements, paragraphs with typed run
// formatting, tables, and raw pass-through for everything the engine never
// touches, so an untouched template survives a load/save cycle structurally
// intact.
package docx

import (
	"encoding/xml"
	"io"
	"strings"
)

// Document represents the parsed word/document.xml tree.
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
}

// BodyElement is any element that can appear in a document body.
type BodyElement interface {
	isBodyElement()
}

// Body holds the ordered list of block-level elements.
type Body struct {
	Elements []BodyElement `xml:"-"`
}

// Paragraph is a block of runs sharing one set of paragraph properties.
type Paragraph struct {
	Properties *ParagraphProperties
	Runs       []Run
	// Extras keeps paragraph children the engine does not model
	// (hyperlinks, bookmarks, proofing marks), anchored to their position
	// in the run sequence so they survive a save. Their content is not
	// scanned for placeholders.
	Extras []ParagraphExtra
}

func (p *Paragraph) isBodyElement() {}

// ParagraphExtra is an unmodeled paragraph child kept verbatim. AfterRun
// is the number of runs decoded before it; serialization re-anchors it
// there.
type ParagraphExtra struct {
	RawBlock
	AfterRun int
}

// ParagraphProperties carries the original pPr markup verbatim. The engine
// never interprets paragraph-level formatting, only preserves or constructs
// it.
type ParagraphProperties struct {
	Inner []byte `xml:",innerxml"`
}

// CenteredProperties returns paragraph properties with centered alignment.
func CenteredProperties() *ParagraphProperties {
	return &ParagraphProperties{Inner: []byte(`<w:jc w:val="center"/>`)}
}

// Run is a minimal span of text sharing one formatting attribute set.
type Run struct {
	Properties *RunProperties
	Text       *Text
	Break      *Break
	// Extras keeps run children the engine does not model (drawings,
	// tabs) so they survive a save.
	Extras []RawBlock
}

// RunProperties models the run formatting attributes the engine preserves
// across substitution: font family, size, bold, italic, underline and color.
type RunProperties struct {
	Style     *Style     `xml:"rStyle"`
	Fonts     *Fonts     `xml:"rFonts"`
	Bold      *Empty     `xml:"b"`
	Italic    *Empty     `xml:"i"`
	Underline *Underline `xml:"u"`
	Color     *Color     `xml:"color"`
	Size      *Size      `xml:"sz"`
	SizeCs    *Size      `xml:"szCs"`
}

// Text is the character content of a run.
type Text struct {
	Space   string `xml:"space,attr"`
	Content string `xml:",chardata"`
}

// Break is a line break inside a run.
type Break struct {
	Type string `xml:"type,attr"`
}

// Empty marks boolean run properties such as bold and italic.
type Empty struct{}

// Style references a named character or paragraph style.
type Style struct {
	Val string `xml:"val,attr"`
}

// Fonts carries the run font family attributes.
type Fonts struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
	CS    string `xml:"cs,attr"`
}

// Underline carries the underline style value.
type Underline struct {
	Val string `xml:"val,attr"`
}

// Color is a run color, either an explicit RGB value or a theme reference
// with optional tint/shade adjustment. Exactly one kind is expected; both
// round-trip unchanged.
type Color struct {
	Val        string `xml:"val,attr"`
	ThemeColor string `xml:"themeColor,attr"`
	ThemeTint  string `xml:"themeTint,attr"`
	ThemeShade string `xml:"themeShade,attr"`
}

// IsTheme reports whether the color is theme-relative rather than RGB.
func (c *Color) IsTheme() bool {
	return c != nil && c.ThemeColor != ""
}

// Size is a half-point font size.
type Size struct {
	Val string `xml:"val,attr"`
}

// Table is a block-level table.
type Table struct {
	Properties *TableProperties `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []TableRow       `xml:"tr"`
}

func (t *Table) isBodyElement() {}

// TableProperties carries tblPr verbatim.
type TableProperties struct {
	Inner []byte `xml:",innerxml"`
}

// TableGrid carries tblGrid verbatim.
type TableGrid struct {
	Inner []byte `xml:",innerxml"`
}

// TableRow is one row of cells.
type TableRow struct {
	Properties *RowProperties `xml:"trPr"`
	Cells      []TableCell    `xml:"tc"`
}

// RowProperties carries trPr verbatim.
type RowProperties struct {
	Inner []byte `xml:",innerxml"`
}

// TableCell holds a nested sequence of paragraphs.
type TableCell struct {
	Properties *CellProperties `xml:"tcPr"`
	Paragraphs []*Paragraph    `xml:"p"`
}

// CellProperties carries tcPr verbatim.
type CellProperties struct {
	Inner []byte `xml:",innerxml"`
}

// RawBlock is a body element (or run child) the engine does not model,
// preserved byte-for-byte: sectPr, bookmarks, drawings.
type RawBlock struct {
	Tag   string
	Attrs []xml.Attr
	Inner []byte
}

func (r *RawBlock) isBodyElement() {}

// UnmarshalXML decodes body children in document order, keeping unmodeled
// elements as raw blocks.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, &table)
			default:
				raw, err := decodeRawBlock(d, t)
				if err != nil {
					return err
				}
				b.Elements = append(b.Elements, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}
}

// UnmarshalXML decodes a paragraph, keeping hyperlinks, bookmarks and
// other unmodeled children as raw blocks in their run-relative positions.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			default:
				raw, err := decodeRawBlock(d, t)
				if err != nil {
					return err
				}
				p.Extras = append(p.Extras, ParagraphExtra{RawBlock: *raw, AfterRun: len(p.Runs)})
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
}

// UnmarshalXML decodes a run, keeping drawings and other unmodeled children
// as raw blocks.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Text = &text
			case "br":
				var br Break
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Break = &br
			default:
				raw, err := decodeRawBlock(d, t)
				if err != nil {
					return err
				}
				r.Extras = append(r.Extras, *raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}
}

// decodeRawBlock captures an element's name, attributes and inner markup
// without interpreting it.
func decodeRawBlock(d *xml.Decoder, start xml.StartElement) (*RawBlock, error) {
	var inner struct {
		Inner []byte `xml:",innerxml"`
	}
	if err := d.DecodeElement(&inner, &start); err != nil {
		return nil, err
	}
	attrs := make([]xml.Attr, len(start.Attr))
	copy(attrs, start.Attr)
	return &RawBlock{
		Tag:   prefixedName(start.Name),
		Attrs: attrs,
		Inner: inner.Inner,
	}, nil
}

func prefixedName(name xml.Name) string {
	if p, ok := namespacePrefixes[name.Space]; ok {
		return p + ":" + name.Local
	}
	if name.Space == "" {
		return name.Local
	}
	return name.Local
}

// namespacePrefixes maps the namespace URIs encountered in body-level
// elements back to their conventional prefixes for re-serialization.
var namespacePrefixes = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
	"http://www.w3.org/XML/1998/namespace":                                   "xml",
	"urn:schemas-microsoft-com:vml":                                          "v",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
}

// ParseDocument parses word/document.xml.
func ParseDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Body == nil {
		doc.Body = &Body{}
	}
	return &doc, nil
}

// GetText returns the text content of a run.
func (r *Run) GetText() string {
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// GetText returns the concatenated run text of a paragraph. Placeholder
// detection operates on this concatenation because tokens may straddle run
// boundaries.
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for i := range p.Runs {
		sb.WriteString(p.Runs[i].GetText())
	}
	return sb.String()
}

// GetText returns the newline-joined paragraph text of a cell.
func (c *TableCell) GetText() string {
	var texts []string
	for _, para := range c.Paragraphs {
		if text := para.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// Paragraphs returns the top-level paragraphs of the body in order.
func (b *Body) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range b.Elements {
		if p, ok := el.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the top-level tables of the body in order.
func (b *Body) Tables() []*Table {
	var out []*Table
	for _, el := range b.Elements {
		if t, ok := el.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}
