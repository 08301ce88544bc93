package fill

import (
	"strings"

	"github.com/escribadocs/escriba/pkg/docx"
)

// marker delimits substitution sites inside the concatenated paragraph
// text. NUL cannot appear in document text, so marked keys never collide
// with literal content.
const marker = "\x00"

// Substitute replaces every bound placeholder in the paragraph, in place.
//
// Detection runs over the concatenated run text, so tokens straddling run
// boundaries are found. If any present key is bound to a clause, the whole
// paragraph is regenerated from the clause and nothing else is applied in
// this pass. Otherwise bound tokens are marked, all runs are cleared, and
// the text is re-emitted segment by segment: literal segments copy the
// style snapshot of the first run holding meaningful style (the split
// discards per-character granularity; known simplification), substituted
// segments become plain new runs.
//
// A paragraph with no bound key is left untouched.
func Substitute(p *docx.Paragraph, b Binding) {
	full := p.GetText()
	if !strings.Contains(full, "{") {
		return
	}

	matches := tokenPattern.FindAllStringSubmatch(full, -1)
	if matches == nil {
		return
	}

	for _, m := range matches {
		if v, ok := b[tokenKey(m)]; ok && v.IsClause() {
			applyClause(p, v)
			return
		}
	}

	marked := tokenPattern.ReplaceAllStringFunc(full, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)
		key := tokenKey(m)
		if _, ok := b[key]; ok {
			return marker + key + marker
		}
		return token
	})
	if marked == full {
		return
	}

	style := representativeStyle(p)
	p.Runs = nil
	// Each bound token contributed a marker pair, so the split
	// alternates strictly: even parts are literal text, odd parts are
	// keys. Membership checks would misread a literal that happens to
	// spell a key name.
	for i, part := range strings.Split(marked, marker) {
		if part == "" {
			continue
		}
		if i%2 == 1 {
			v := b[part]
			switch v.kind {
			case kindScalar:
				appendTextRuns(p, nil, v.scalar)
			case kindRich:
				appendSegments(p, v.segments)
			}
			continue
		}
		appendTextRuns(p, style.Clone(), part)
	}
}

// applyClause erases the paragraph's runs and re-emits the clause
// segments. No original run survives; an empty clause leaves an empty
// paragraph.
func applyClause(p *docx.Paragraph, v Value) {
	p.Runs = nil
	appendSegments(p, v.segments)
}

// appendSegments emits one run per segment, bold segments carrying only a
// bold property so everything else inherits from the paragraph style.
func appendSegments(p *docx.Paragraph, segments []Segment) {
	for _, seg := range segments {
		var props *docx.RunProperties
		if seg.Bold {
			props = &docx.RunProperties{Bold: &docx.Empty{}}
		}
		appendTextRuns(p, props, seg.Text)
	}
}

// appendTextRuns writes text as runs with the given properties, turning
// embedded newlines into line breaks.
func appendTextRuns(p *docx.Paragraph, props *docx.RunProperties, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			p.Runs = append(p.Runs, docx.Run{Properties: props.Clone(), Break: &docx.Break{}})
		}
		if line == "" {
			continue
		}
		p.Runs = append(p.Runs, docx.Run{
			Properties: props.Clone(),
			Text:       &docx.Text{Content: line},
		})
	}
}

// representativeStyle picks the style snapshot literal segments inherit:
// the first run that actually declares properties, else nil.
func representativeStyle(p *docx.Paragraph) *docx.RunProperties {
	for i := range p.Runs {
		if p.Runs[i].Properties != nil {
			return p.Runs[i].Properties
		}
	}
	return nil
}

// ReplaceInRuns substitutes raw old/new string pairs inside each run's own
// text, preserving that run's formatting untouched. Used to fill cloned
// model tables and rows, where each cell keeps its per-run styling.
func ReplaceInRuns(p *docx.Paragraph, values map[string]string) {
	for i := range p.Runs {
		if p.Runs[i].Text == nil {
			continue
		}
		text := p.Runs[i].Text.Content
		for old, repl := range values {
			text = strings.ReplaceAll(text, old, repl)
		}
		p.Runs[i].Text.Content = text
	}
}
