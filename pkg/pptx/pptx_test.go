package pptx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

const slideXMLNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

func textShape(id int, runs string) string {
	return `<p:sp><p:nvSpPr><p:cNvPr id="` + itoa(id) + `" name="Caixa"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
		`<p:spPr><a:xfrm><a:off x="914400" y="914400"/><a:ext cx="1828800" cy="914400"/></a:xfrm></p:spPr>` +
		`<p:txBody><a:bodyPr/><a:p>` + runs + `</a:p></p:txBody></p:sp>`
}

func itoa(n int) string {
	return string(rune('0' + n))
}

func sampleSlide() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld ` + slideXMLNS + `><p:cSld><p:spTree>` +
		textShape(2, `<a:r><a:rPr lang="pt-BR" sz="1800" b="1"><a:latin typeface="Poppins"/><a:solidFill><a:srgbClr val="720D83"/></a:solidFill></a:rPr><a:t>Imóvel: {{ender</a:t></a:r><a:r><a:t>eco}}</a:t></a:r>`) +
		textShape(3, `<a:r><a:t>{{grafico_01}}</a:t></a:r>`) +
		`</p:spTree></p:cSld></p:sld>`
}

func buildDeck(t *testing.T) *Deck {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
			`</Types>`,
		"ppt/slides/slide1.xml": sampleSlide(),
		"ppt/slides/_rels/slide1.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
			`</Relationships>`,
	}
	for name, content := range parts {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	deck, err := OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return deck
}

func smallPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0x72, G: 0x0D, B: 0x83, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestReplaceTokensAcrossRuns(t *testing.T) {
	deck := buildDeck(t)
	slide, err := deck.Slide("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatalf("Slide: %v", err)
	}

	slide.ReplaceTokens(map[string]string{"endereco": "Rua A, 10"})

	shapes := slide.TextShapes()
	if got := ShapeText(shapes[0]); got != "Imóvel: Rua A, 10" {
		t.Errorf("shape text = %q", got)
	}

	// Rebuilt run keeps the first run's formatting snapshot.
	out := Serialize(slide.Root)
	for _, want := range []string{`<a:latin typeface="Poppins"/>`, `<a:srgbClr val="720D83"/>`, `sz="1800"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("formatting snapshot lost %q", want)
		}
	}

	// The image-slot token has no binding here and stays put.
	if got := ShapeText(shapes[1]); got != "{{grafico_01}}" {
		t.Errorf("unbound token rewritten: %q", got)
	}
}

func TestImageSlots(t *testing.T) {
	deck := buildDeck(t)
	slide, _ := deck.Slide("ppt/slides/slide1.xml")

	slots := slide.ImageSlots()
	if len(slots) != 1 || slots[0].Key != "grafico_01" {
		t.Fatalf("slots = %+v", slots)
	}
}

func TestFillImageSlots(t *testing.T) {
	deck := buildDeck(t)
	slide, _ := deck.Slide("ppt/slides/slide1.xml")

	err := slide.FillImageSlots(map[string]Image{
		"grafico_01": {Data: smallPNG(t, 4, 2)},
	})
	if err != nil {
		t.Fatalf("FillImageSlots: %v", err)
	}

	if len(slide.ImageSlots()) != 0 {
		t.Error("slot still present after fill")
	}

	out := string(Serialize(slide.Root))
	if !strings.Contains(out, "<p:pic>") {
		t.Error("no picture element emitted")
	}
	if !strings.Contains(out, `r:embed="rId2"`) {
		t.Errorf("relationship id not wired: %s", out)
	}

	var buf bytes.Buffer
	if err := deck.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved := buf.Bytes()

	zr, err := zip.NewReader(bytes.NewReader(saved), int64(len(saved)))
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	found := map[string]bool{}
	for _, f := range zr.File {
		found[f.Name] = true
	}
	if !found["ppt/media/image1.png"] {
		t.Errorf("media part missing: %v", found)
	}

	reopened, err := OpenBytes(saved)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	ct, err := reopened.arc.get("[Content_Types].xml")
	if err != nil {
		t.Fatalf("content types: %v", err)
	}
	if !strings.Contains(string(ct), `Extension="png"`) {
		t.Error("png content type not registered")
	}
	rels, _ := reopened.arc.get("ppt/slides/_rels/slide1.xml.rels")
	if !strings.Contains(string(rels), `Target="../media/image1.png"`) {
		t.Errorf("relationship not written: %s", rels)
	}
}

func TestAddImageNumbersAfterExistingMedia(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="png" ContentType="image/png"/>` +
			`</Types>`,
		"ppt/media/image1.png": "existing",
	}
	for name, content := range parts {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	deck, err := OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}

	part, err := deck.AddImage(smallPNG(t, 2, 2), "png")
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if part != "ppt/media/image2.png" {
		t.Errorf("part = %q", part)
	}

	// The existing part is never overwritten.
	original, err := deck.arc.get("ppt/media/image1.png")
	if err != nil {
		t.Fatalf("get existing part: %v", err)
	}
	if string(original) != "existing" {
		t.Errorf("existing media rewritten: %q", original)
	}
}

func TestContainFit(t *testing.T) {
	box := frame{x: 0, y: 0, cx: 1000, cy: 1000}

	wide := containFit(box, 2000, 1000)
	if wide.cx != 1000 || wide.cy != 500 || wide.y != 250 {
		t.Errorf("wide fit = %+v", wide)
	}

	tall := containFit(box, 500, 1000)
	if tall.cy != 1000 || tall.cx != 500 || tall.x != 250 {
		t.Errorf("tall fit = %+v", tall)
	}
}

func TestForceFontFamily(t *testing.T) {
	deck := buildDeck(t)
	slide, _ := deck.Slide("ppt/slides/slide1.xml")

	slide.ForceFontFamily("Montserrat")

	out := string(Serialize(slide.Root))
	if strings.Contains(out, "Poppins") {
		t.Errorf("old typeface survived: %s", out)
	}
	if !strings.Contains(out, `typeface="Montserrat"`) {
		t.Error("new typeface not applied")
	}
}
