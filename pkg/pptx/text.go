package pptx

import (
	"strings"

	"github.com/escribadocs/escriba/pkg/fill"
)

// ReplaceTokens substitutes bound placeholders in every text paragraph of
// the slide: shape text, grouped shapes and table cells alike, since all
// of them hold a:p paragraphs.
//
// Detection runs over the concatenated run text of each paragraph, so a
// token split across runs is still found. A rewritten paragraph keeps the
// formatting snapshot of its first run (typeface, size, bold, italic and
// fill, whether srgbClr or schemeClr with luminance adjustments, all live
// inside the cloned a:rPr) and loses per-run granularity beyond that.
// Paragraphs with no bound key are left untouched.
func (s *Slide) ReplaceTokens(values map[string]string) {
	for _, p := range s.paragraphs() {
		rewriteParagraph(p, values)
	}
}

// paragraphs collects every a:p under the slide root.
func (s *Slide) paragraphs() []*Element {
	var out []*Element
	s.Root.Walk(func(el *Element) bool {
		if el.Tag == "a:p" {
			out = append(out, el)
			return false
		}
		return true
	})
	return out
}

func rewriteParagraph(p *Element, values map[string]string) {
	full := paragraphText(p)
	replaced, changed := fill.ReplaceTokens(full, values)
	if !changed {
		return
	}

	props := snapshotRunProperties(p)

	var kept []Node
	for _, c := range p.Children {
		if el, ok := c.(*Element); ok && (el.Tag == "a:r" || el.Tag == "a:br") {
			continue
		}
		kept = append(kept, c)
	}

	// a:endParaRPr must stay last; insert runs before it when present.
	insertAt := len(kept)
	for i, c := range kept {
		if el, ok := c.(*Element); ok && el.Tag == "a:endParaRPr" {
			insertAt = i
			break
		}
	}

	var runs []Node
	for i, line := range strings.Split(replaced, "\n") {
		if i > 0 {
			runs = append(runs, breakElement(props))
		}
		if line != "" {
			runs = append(runs, runElement(props, line))
		}
	}

	children := append([]Node{}, kept[:insertAt]...)
	children = append(children, runs...)
	children = append(children, kept[insertAt:]...)
	p.SetChildren(children)
}

// paragraphText concatenates the a:t content of the paragraph's runs.
func paragraphText(p *Element) string {
	var sb strings.Builder
	for _, r := range p.Elements("a:r") {
		if t := r.First("a:t"); t != nil {
			sb.WriteString(t.InnerText())
		}
	}
	return sb.String()
}

// snapshotRunProperties clones the first run's a:rPr, or nil when no run
// declares properties. The clone carries the whole formatting state, so
// rebuilt runs render exactly like the template's first run did.
func snapshotRunProperties(p *Element) *Element {
	for _, r := range p.Elements("a:r") {
		if props := r.First("a:rPr"); props != nil {
			return props.Clone()
		}
	}
	return nil
}

func runElement(props *Element, text string) *Element {
	run := &Element{Tag: "a:r"}
	if props != nil {
		run.Append(props.Clone())
	}
	t := &Element{Tag: "a:t"}
	t.Append(&Text{Data: text})
	run.Append(t)
	return run
}

func breakElement(props *Element) *Element {
	br := &Element{Tag: "a:br"}
	if props != nil {
		br.Append(props.Clone())
	}
	return br
}

// TextShapes returns the p:sp elements under the slide that carry a text
// body, including shapes nested in groups.
func (s *Slide) TextShapes() []*Element {
	var out []*Element
	s.Root.Walk(func(el *Element) bool {
		if el.Tag == "p:sp" && el.First("p:txBody") != nil {
			out = append(out, el)
			return false
		}
		return true
	})
	return out
}

// ShapeText returns the concatenated text of a shape's text body.
func ShapeText(sp *Element) string {
	body := sp.First("p:txBody")
	if body == nil {
		return ""
	}
	return body.InnerText()
}

// ForceFontFamily rewrites the latin typeface of every run property set on
// the slide, including paragraph defaults and end-of-paragraph properties.
// Sizes, weights and fills are untouched.
func (s *Slide) ForceFontFamily(family string) {
	s.Root.Walk(func(el *Element) bool {
		switch el.Tag {
		case "a:rPr", "a:defRPr", "a:endParaRPr":
			latin := el.First("a:latin")
			if latin == nil {
				latin = &Element{Tag: "a:latin"}
				el.Append(latin)
			}
			latin.SetAttr("typeface", family)
		}
		return true
	})
}
