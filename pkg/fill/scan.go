package fill

import "github.com/escribadocs/escriba/pkg/docx"

// Paragraphs returns every paragraph of the document in reading order:
// top-level paragraphs plus the paragraphs nested in table cells. The
// slice aliases the live tree, so mutations through it take effect.
func Paragraphs(d *docx.Document) []*docx.Paragraph {
	var out []*docx.Paragraph
	for _, el := range d.Body.Elements {
		switch t := el.(type) {
		case *docx.Paragraph:
			out = append(out, t)
		case *docx.Table:
			for ri := range t.Rows {
				for ci := range t.Rows[ri].Cells {
					out = append(out, t.Rows[ri].Cells[ci].Paragraphs...)
				}
			}
		}
	}
	return out
}

// SubstituteAll applies the binding to every paragraph in the document.
// Structural operations (table repetition, grids) must run before this
// pass, since substitution rewrites the runs that repetition clones.
func SubstituteAll(d *docx.Document, b Binding) {
	for _, p := range Paragraphs(d) {
		Substitute(p, b)
	}
}

// UnresolvedKeys returns placeholder keys still present in the document
// after substitution, in order of first appearance. Callers surface a
// non-empty result as a data completeness warning.
func UnresolvedKeys(d *docx.Document) []string {
	seen := map[string]bool{}
	var keys []string
	for _, p := range Paragraphs(d) {
		for _, k := range Keys(p.GetText()) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
