package pptx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/escribadocs/escriba/pkg/fill"
)

// EMU conversion factors: 96-dpi pixels and inches to English Metric
// Units.
const (
	emuPerPixel = 9525
	emuPerInch  = 914400
)

// Image is one picture bound to a slot key. When both inch dimensions are
// positive the picture takes exactly that size, centered in the slot box;
// otherwise it is contain-fitted to the box.
type Image struct {
	Data         []byte
	WidthInches  float64
	HeightInches float64
}

// ImageSlot is a shape whose entire text is exactly one placeholder token.
// The shape's frame defines the box the picture is fitted into.
type ImageSlot struct {
	Key   string
	shape *Element
}

// ImageSlots finds the slide's image slots. A token embedded among other
// text never qualifies; the shape text must be the token and nothing else.
func (s *Slide) ImageSlots() []ImageSlot {
	var out []ImageSlot
	for _, sp := range s.TextShapes() {
		if key, ok := fill.ExactToken(ShapeText(sp)); ok {
			out = append(out, ImageSlot{Key: key, shape: sp})
		}
	}
	return out
}

// FillImageSlots replaces each slot whose key is present in images with a
// picture element. Slots with no bound image stay as they are, and keys
// with no matching slot are ignored.
func (s *Slide) FillImageSlots(images map[string]Image) error {
	for _, slot := range s.ImageSlots() {
		img, ok := images[slot.Key]
		if !ok {
			continue
		}
		if err := s.placeImage(slot, img); err != nil {
			return fmt.Errorf("fill image slot %q: %w", slot.Key, err)
		}
	}
	return nil
}

func (s *Slide) placeImage(slot ImageSlot, img Image) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	part, err := s.deck.AddImage(img.Data, format)
	if err != nil {
		return err
	}
	rid, err := s.AddImageRelationship(part)
	if err != nil {
		return err
	}

	box, err := shapeFrame(slot.shape)
	if err != nil {
		return err
	}
	var fitted frame
	if img.WidthInches > 0 && img.HeightInches > 0 {
		fitted = centerFixed(box, int64(img.WidthInches*emuPerInch), int64(img.HeightInches*emuPerInch))
	} else {
		fitted = containFit(box, int64(cfg.Width)*emuPerPixel, int64(cfg.Height)*emuPerPixel)
	}

	pic := pictureElement(s.nextShapeID(), rid, fitted)
	parent := slot.shape.Parent()
	if parent == nil || !parent.Replace(slot.shape, pic) {
		return fmt.Errorf("slot shape detached from tree")
	}
	return nil
}

// frame is a position and extent in EMU.
type frame struct {
	x, y, cx, cy int64
}

// shapeFrame reads the shape's a:xfrm offset and extent.
func shapeFrame(sp *Element) (frame, error) {
	spPr := sp.First("p:spPr")
	if spPr == nil {
		return frame{}, fmt.Errorf("shape has no p:spPr")
	}
	xfrm := spPr.First("a:xfrm")
	if xfrm == nil {
		return frame{}, fmt.Errorf("shape has no a:xfrm")
	}
	off := xfrm.First("a:off")
	ext := xfrm.First("a:ext")
	if off == nil || ext == nil {
		return frame{}, fmt.Errorf("shape frame incomplete")
	}
	var f frame
	var errs [4]error
	f.x, errs[0] = emuAttr(off, "x")
	f.y, errs[1] = emuAttr(off, "y")
	f.cx, errs[2] = emuAttr(ext, "cx")
	f.cy, errs[3] = emuAttr(ext, "cy")
	for _, err := range errs {
		if err != nil {
			return frame{}, err
		}
	}
	return f, nil
}

func emuAttr(el *Element, name string) (int64, error) {
	v, ok := el.Attr(name)
	if !ok {
		return 0, fmt.Errorf("missing %s attribute on %s", name, el.Tag)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s attribute on %s: %w", name, el.Tag, err)
	}
	return n, nil
}

// centerFixed places an exact (w, h) box centered on the slot box,
// ignoring the slot's own extent.
func centerFixed(box frame, w, h int64) frame {
	return frame{
		x:  box.x + (box.cx-w)/2,
		y:  box.y + (box.cy-h)/2,
		cx: w,
		cy: h,
	}
}

// containFit scales (w, h) to the largest size fitting inside box while
// keeping aspect ratio, centered.
func containFit(box frame, w, h int64) frame {
	if w <= 0 || h <= 0 {
		return box
	}
	cx, cy := box.cx, box.cy
	if w*box.cy > h*box.cx {
		cy = h * box.cx / w
	} else {
		cx = w * box.cy / h
	}
	return frame{
		x:  box.x + (box.cx-cx)/2,
		y:  box.y + (box.cy-cy)/2,
		cx: cx,
		cy: cy,
	}
}

// nextShapeID returns an id greater than every p:cNvPr id on the slide.
func (s *Slide) nextShapeID() int {
	max := 1
	s.Root.Walk(func(el *Element) bool {
		if el.Tag == "p:cNvPr" {
			if v, ok := el.Attr("id"); ok {
				if n, err := strconv.Atoi(v); err == nil && n >= max {
					max = n + 1
				}
			}
		}
		return true
	})
	return max
}

func pictureElement(id int, rid string, f frame) *Element {
	pic := &Element{Tag: "p:pic"}

	nv := &Element{Tag: "p:nvPicPr"}
	cNvPr := &Element{Tag: "p:cNvPr"}
	cNvPr.SetAttr("id", strconv.Itoa(id))
	cNvPr.SetAttr("name", fmt.Sprintf("Imagem %d", id))
	nv.Append(cNvPr)
	cNvPicPr := &Element{Tag: "p:cNvPicPr"}
	locks := &Element{Tag: "a:picLocks"}
	locks.SetAttr("noChangeAspect", "1")
	cNvPicPr.Append(locks)
	nv.Append(cNvPicPr)
	nv.Append(&Element{Tag: "p:nvPr"})
	pic.Append(nv)

	blipFill := &Element{Tag: "p:blipFill"}
	blip := &Element{Tag: "a:blip"}
	blip.SetAttr("r:embed", rid)
	blipFill.Append(blip)
	stretch := &Element{Tag: "a:stretch"}
	stretch.Append(&Element{Tag: "a:fillRect"})
	blipFill.Append(stretch)
	pic.Append(blipFill)

	spPr := &Element{Tag: "p:spPr"}
	xfrm := &Element{Tag: "a:xfrm"}
	off := &Element{Tag: "a:off"}
	off.SetAttr("x", strconv.FormatInt(f.x, 10))
	off.SetAttr("y", strconv.FormatInt(f.y, 10))
	ext := &Element{Tag: "a:ext"}
	ext.SetAttr("cx", strconv.FormatInt(f.cx, 10))
	ext.SetAttr("cy", strconv.FormatInt(f.cy, 10))
	xfrm.Append(off)
	xfrm.Append(ext)
	spPr.Append(xfrm)
	geom := &Element{Tag: "a:prstGeom"}
	geom.SetAttr("prst", "rect")
	geom.Append(&Element{Tag: "a:avLst"})
	spPr.Append(geom)
	pic.Append(spPr)

	return pic
}
