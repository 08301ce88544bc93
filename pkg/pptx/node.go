// Package pptx edits PresentationML decks through a generic XML node tree.
// Slides mix many namespaces and extension lists, so instead of a typed
// schema the package parses each part with raw tokens, keeps prefixes
// verbatim, mutates the tree, and serializes it back.
package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is either an element or a text span in a parsed slide part.
type Node interface {
	Parent() *Element
	setParent(*Element)
}

// Text is character data inside an element.
type Text struct {
	parent *Element
	Data   string
}

func (t *Text) Parent() *Element     { return t.parent }
func (t *Text) setParent(p *Element) { t.parent = p }

// Element is an XML element with its prefixed tag, ordered attributes and
// ordered children. Attribute order is preserved so untouched parts
// serialize close to their source.
type Element struct {
	parent   *Element
	Tag      string
	Attrs    []Attr
	Children []Node
}

// Attr is one prefixed attribute.
type Attr struct {
	Name  string
	Value string
}

func (e *Element) Parent() *Element     { return e.parent }
func (e *Element) setParent(p *Element) { e.parent = p }

// Append adds child at the end of e's children.
func (e *Element) Append(child Node) {
	child.setParent(e)
	e.Children = append(e.Children, child)
}

// Replace swaps old for new among e's children. Returns false when old is
// not a direct child.
func (e *Element) Replace(old, repl Node) bool {
	for i, c := range e.Children {
		if c == old {
			repl.setParent(e)
			e.Children[i] = repl
			return true
		}
	}
	return false
}

// SetChildren replaces the child list wholesale.
func (e *Element) SetChildren(children []Node) {
	for _, c := range children {
		c.setParent(e)
	}
	e.Children = children
}

// Attr returns the value of the named attribute and whether it exists.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or appends an attribute.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// First returns the first direct child element with the given tag.
func (e *Element) First(tag string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Tag == tag {
			return el
		}
	}
	return nil
}

// Elements returns the direct child elements with the given tag.
func (e *Element) Elements(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Tag == tag {
			out = append(out, el)
		}
	}
	return out
}

// Walk visits e and every descendant element in document order. Returning
// false from fn stops descent into that element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			el.Walk(fn)
		}
	}
}

// InnerText concatenates all descendant text.
func (e *Element) InnerText() string {
	var sb strings.Builder
	e.Walk(func(el *Element) bool {
		for _, c := range el.Children {
			if t, ok := c.(*Text); ok {
				sb.WriteString(t.Data)
			}
		}
		return true
	})
	return sb.String()
}

// Clone deep-copies the element subtree. The copy has no parent.
func (e *Element) Clone() *Element {
	out := &Element{Tag: e.Tag, Attrs: make([]Attr, len(e.Attrs))}
	copy(out.Attrs, e.Attrs)
	for _, c := range e.Children {
		switch t := c.(type) {
		case *Element:
			out.Append(t.Clone())
		case *Text:
			out.Append(&Text{Data: t.Data})
		}
	}
	return out
}

// Parse reads an XML part into a node tree. Raw tokens keep namespace
// prefixes exactly as written, which matters because the serializer writes
// tags back verbatim without re-deriving bindings.
func Parse(data []byte) (*Element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root *Element
	var current *Element

	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse slide xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			el := &Element{Tag: rawName(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: rawName(a.Name), Value: a.Value})
			}
			if current != nil {
				current.Append(el)
			} else {
				root = el
			}
			current = el
		case xml.EndElement:
			if current != nil {
				current = current.parent
			}
		case xml.CharData:
			if current != nil && len(t) > 0 {
				current.Append(&Text{Data: string(t)})
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parse slide xml: empty document")
	}
	return root, nil
}

// rawName rejoins the prefix RawToken reports as the namespace field.
func rawName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// Serialize writes the tree back to part bytes, with the standard OOXML
// declaration. Tags, prefixes and attribute order come out exactly as held
// in the tree; no whitespace is introduced, since slide text elements are
// whitespace-sensitive.
func Serialize(root *Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	writeElement(&buf, root)
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, e *Element) {
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(a.Value))
		buf.WriteByte('"')
	}
	if len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range e.Children {
		switch t := c.(type) {
		case *Element:
			writeElement(buf, t)
		case *Text:
			buf.WriteString(escapeText(t.Data))
		}
	}
	buf.WriteString("</")
	buf.WriteString(e.Tag)
	buf.WriteByte('>')
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
