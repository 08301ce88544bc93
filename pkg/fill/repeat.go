package fill

import (
	"strconv"

	"github.com/escribadocs/escriba/pkg/docx"
)

// Record is one flat record filled into a cloned model structure. Keys are
// matched literally against cell text, braces included, via ReplaceInRuns.
type Record map[string]string

// anchorIndex returns the body index of the first paragraph containing the
// anchor key, or -1.
func anchorIndex(body *docx.Body, key string) int {
	for i, el := range body.Elements {
		if p, ok := el.(*docx.Paragraph); ok && HasKey(p.GetText(), key) {
			return i
		}
	}
	return -1
}

// fillTable runs per-run replacement over every paragraph of every cell,
// preserving each cell's own formatting.
func fillTable(t *docx.Table, values map[string]string) {
	for ri := range t.Rows {
		fillRow(&t.Rows[ri], values)
	}
}

func fillRow(row *docx.TableRow, values map[string]string) {
	for ci := range row.Cells {
		for _, p := range row.Cells[ci].Paragraphs {
			ReplaceInRuns(p, values)
		}
	}
}

// RepeatTable clones the model table immediately preceding the anchor
// paragraph once per record, fills each clone from its record, and replaces
// model plus anchor with the clone sequence. A spacer paragraph follows
// every clone so consecutive tables do not merge.
//
// A missing anchor or a missing model table is a silent no-op: templates
// without the optional section simply do not repeat. Zero records removes
// the model and the anchor, eliding the section.
func RepeatTable(d *docx.Document, anchorKey string, records []Record) {
	body := d.Body
	i := anchorIndex(body, anchorKey)
	if i < 1 {
		return
	}
	model, ok := body.Elements[i-1].(*docx.Table)
	if !ok {
		return
	}

	var out []docx.BodyElement
	for _, rec := range records {
		clone := model.Clone()
		fillTable(clone, rec)
		out = append(out, clone, &docx.Paragraph{})
	}
	body.ReplaceRange(i-1, i+1, out)
}

// RepeatRows clones the model row (second row of the table preceding the
// anchor) once per record, fills each clone, appends the clones after the
// header and removes the model row and the anchor paragraph. When
// sizeHalfPoints is positive every run in the clones is forced to that font
// size.
//
// Unlike table repetition, the row-per-record layout is mandatory for the
// documents that use it, so a malformed template is an error.
func RepeatRows(d *docx.Document, anchorKey string, records []Record, sizeHalfPoints int) error {
	body := d.Body
	i := anchorIndex(body, anchorKey)
	if i < 1 {
		return NewTemplateError("anchor %q not found", anchorKey)
	}
	table, ok := body.Elements[i-1].(*docx.Table)
	if !ok {
		return NewTemplateError("no table precedes anchor %q", anchorKey)
	}
	if len(table.Rows) < 2 {
		return NewTemplateError("table at anchor %q needs a header and a model row, has %d row(s)", anchorKey, len(table.Rows))
	}

	model := table.Rows[1]
	rows := table.Rows[:1:1]
	for _, rec := range records {
		clone := model.Clone()
		fillRow(clone, rec)
		if sizeHalfPoints > 0 {
			forceRowSize(clone, sizeHalfPoints)
		}
		rows = append(rows, *clone)
	}
	rows = append(rows, table.Rows[2:]...)
	table.Rows = rows

	body.RemoveAt(i)
	return nil
}

// forceRowSize sets the font size on every run of every cell paragraph.
func forceRowSize(row *docx.TableRow, halfPoints int) {
	val := strconv.Itoa(halfPoints)
	for ci := range row.Cells {
		for _, p := range row.Cells[ci].Paragraphs {
			for ri := range p.Runs {
				if p.Runs[ri].Properties == nil {
					p.Runs[ri].Properties = &docx.RunProperties{}
				}
				p.Runs[ri].Properties.Size = &docx.Size{Val: val}
				p.Runs[ri].Properties.SizeCs = &docx.Size{Val: val}
			}
		}
	}
}

// SignatureEntry is one signer of a signature grid: the line label under
// the rule is "Nome: <Name>" and "<Label>: <ID>".
type SignatureEntry struct {
	Name  string
	Label string
	ID    string
}

// SignatureGrid replaces the anchor paragraph with a two-column borderless
// table of signature blocks, ceil(n/2) rows, filled left to right. Odd
// counts leave the last right cell empty.
func SignatureGrid(d *docx.Document, anchorKey string, entries []SignatureEntry) error {
	if len(entries) == 0 {
		return NewRecordCountError("signature grid", "at least 1", 0)
	}
	body := d.Body
	i := anchorIndex(body, anchorKey)
	if i < 0 {
		return NewTemplateError("anchor %q not found", anchorKey)
	}

	rows := (len(entries) + 1) / 2
	table := &docx.Table{Rows: make([]docx.TableRow, rows)}
	for r := 0; r < rows; r++ {
		table.Rows[r].Cells = make([]docx.TableCell, 2)
		for c := 0; c < 2; c++ {
			idx := r*2 + c
			if idx < len(entries) {
				table.Rows[r].Cells[c] = signatureCell(entries[idx])
			} else {
				table.Rows[r].Cells[c] = docx.TableCell{Paragraphs: []*docx.Paragraph{{}}}
			}
		}
	}

	body.ReplaceRange(i, i+1, []docx.BodyElement{table, &docx.Paragraph{}})
	return nil
}

func signatureCell(e SignatureEntry) docx.TableCell {
	lines := []string{
		"__________________________________",
		"Nome: " + e.Name,
		e.Label + ": " + e.ID,
	}
	cell := docx.TableCell{}
	for _, line := range lines {
		cell.Paragraphs = append(cell.Paragraphs, &docx.Paragraph{
			Properties: docx.CenteredProperties(),
			Runs: []docx.Run{{
				Text: &docx.Text{Content: line},
			}},
		})
	}
	return cell
}

// MarkRatingGrid marks one score per criterion in the rating table adjacent
// to the anchor paragraph. Row 0 is the header; criterion k lives in row
// k+1; score columns start at column 1, so score s marks column s. The mark
// is a centered "X" replacing the cell content. The anchor paragraph's runs
// are cleared afterwards.
func MarkRatingGrid(d *docx.Document, anchorKey string, criteria []string, scores map[string]int) error {
	body := d.Body
	i := anchorIndex(body, anchorKey)
	if i < 0 {
		return NewTemplateError("anchor %q not found", anchorKey)
	}
	table := adjacentTable(body, i)
	if table == nil {
		return NewTemplateError("no table adjacent to anchor %q", anchorKey)
	}
	if len(table.Rows) < len(criteria)+1 {
		return NewTemplateError("rating table at anchor %q has %d row(s), need %d", anchorKey, len(table.Rows), len(criteria)+1)
	}

	for k, criterion := range criteria {
		score, ok := scores[criterion]
		if !ok || score < 1 || score > 5 {
			// Out-of-range scores skip the row rather than failing the
			// whole document.
			continue
		}
		row := &table.Rows[k+1]
		if score >= len(row.Cells) {
			return NewTemplateError("rating row %d at anchor %q has %d cell(s), need %d", k+1, anchorKey, len(row.Cells), score+1)
		}
		row.Cells[score].Paragraphs = []*docx.Paragraph{{
			Properties: docx.CenteredProperties(),
			Runs: []docx.Run{{
				Properties: &docx.RunProperties{Bold: &docx.Empty{}},
				Text:       &docx.Text{Content: "X"},
			}},
		}}
	}

	if p, ok := body.Elements[i].(*docx.Paragraph); ok {
		p.Runs = nil
	}
	return nil
}

// adjacentTable returns the table immediately before or after body index i.
func adjacentTable(body *docx.Body, i int) *docx.Table {
	if i > 0 {
		if t, ok := body.Elements[i-1].(*docx.Table); ok {
			return t
		}
	}
	if i+1 < len(body.Elements) {
		if t, ok := body.Elements[i+1].(*docx.Table); ok {
			return t
		}
	}
	return nil
}
