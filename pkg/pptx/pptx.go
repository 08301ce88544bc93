package pptx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const contentTypesPart = "[Content_Types].xml"

var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Deck is an opened PPTX template. Slides parse lazily and serialize back
// on save; every part the engine never touched is copied through verbatim.
type Deck struct {
	arc    *archive
	slides map[string]*Slide
}

// Slide is one parsed slide part. Root is the p:sld element.
type Slide struct {
	deck *Deck
	Path string
	Root *Element
}

// Open reads and parses a PPTX file from disk.
func Open(p string) (*Deck, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a PPTX package held in memory.
func OpenBytes(data []byte) (*Deck, error) {
	arc, err := openArchive(data)
	if err != nil {
		return nil, err
	}
	return &Deck{arc: arc, slides: make(map[string]*Slide)}, nil
}

// SlidePaths lists the slide parts in presentation order (numeric, not
// lexicographic, so slide10 follows slide9).
func (d *Deck) SlidePaths() []string {
	var paths []string
	for _, name := range d.arc.names() {
		if slidePattern.MatchString(name) {
			paths = append(paths, name)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return slideNumber(paths[i]) < slideNumber(paths[j])
	})
	return paths
}

func slideNumber(p string) int {
	m := slidePattern.FindStringSubmatch(p)
	n, _ := strconv.Atoi(m[1])
	return n
}

// Slide returns the parsed slide at the given part path, parsing it on
// first access.
func (d *Deck) Slide(p string) (*Slide, error) {
	if s, ok := d.slides[p]; ok {
		return s, nil
	}
	data, err := d.arc.get(p)
	if err != nil {
		return nil, err
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	s := &Slide{deck: d, Path: p, Root: root}
	d.slides[p] = s
	return s, nil
}

// Slides parses and returns every slide in presentation order.
func (d *Deck) Slides() ([]*Slide, error) {
	var out []*Slide
	for _, p := range d.SlidePaths() {
		s, err := d.Slide(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Save serializes every parsed slide back into the package and writes the
// package to w.
func (d *Deck) Save(w io.Writer) error {
	for p, s := range d.slides {
		d.arc.set(p, Serialize(s.Root))
	}
	return d.arc.save(w)
}

// Bytes serializes the package into memory.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var mediaPattern = regexp.MustCompile(`^ppt/media/image(\d+)\.`)

// AddImage stores image bytes as a new media part and registers its
// content type. ext is the bare extension, such as "png". Returns the part
// path for relationship targets.
func (d *Deck) AddImage(data []byte, ext string) (string, error) {
	next := 1
	for _, name := range d.arc.names() {
		if m := mediaPattern.FindStringSubmatch(name); m != nil {
			if n, _ := strconv.Atoi(m[1]); n >= next {
				next = n + 1
			}
		}
	}
	part := fmt.Sprintf("ppt/media/image%d.%s", next, ext)
	for d.arc.has(part) {
		next++
		part = fmt.Sprintf("ppt/media/image%d.%s", next, ext)
	}
	d.arc.set(part, data)
	if err := d.ensureContentType(ext); err != nil {
		return "", err
	}
	return part, nil
}

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
}

// ensureContentType adds a Default extension mapping to
// [Content_Types].xml unless one is already declared.
func (d *Deck) ensureContentType(ext string) error {
	ct, ok := imageContentTypes[ext]
	if !ok {
		return fmt.Errorf("unsupported image extension %q", ext)
	}
	data, err := d.arc.get(contentTypesPart)
	if err != nil {
		return err
	}
	root, err := Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", contentTypesPart, err)
	}
	for _, def := range root.Elements("Default") {
		if v, _ := def.Attr("Extension"); strings.EqualFold(v, ext) {
			return nil
		}
	}
	def := &Element{Tag: "Default"}
	def.SetAttr("Extension", ext)
	def.SetAttr("ContentType", ct)
	// Defaults must precede Override elements.
	insertBeforeOverrides(root, def)
	d.arc.set(contentTypesPart, Serialize(root))
	return nil
}

func insertBeforeOverrides(root *Element, def *Element) {
	for i, c := range root.Children {
		if el, ok := c.(*Element); ok && el.Tag == "Override" {
			def.setParent(root)
			root.Children = append(root.Children[:i], append([]Node{def}, root.Children[i:]...)...)
			return
		}
	}
	root.Append(def)
}

// AddImageRelationship links a media part into the slide's relationship
// part and returns the new relationship id.
func (s *Slide) AddImageRelationship(mediaPart string) (string, error) {
	relsPath := path.Join("ppt/slides/_rels", path.Base(s.Path)+".rels")
	data, err := s.deck.arc.get(relsPath)
	if err != nil {
		return "", err
	}
	root, err := Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", relsPath, err)
	}

	next := 1
	for _, rel := range root.Elements("Relationship") {
		id, _ := rel.Attr("Id")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n >= next {
			next = n + 1
		}
	}
	rid := fmt.Sprintf("rId%d", next)

	rel := &Element{Tag: "Relationship"}
	rel.SetAttr("Id", rid)
	rel.SetAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image")
	rel.SetAttr("Target", "../media/"+path.Base(mediaPart))
	root.Append(rel)

	s.deck.arc.set(relsPath, Serialize(root))
	return rid, nil
}
