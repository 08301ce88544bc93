// Package render defines the conversion collaborator documents are handed
// to after filling, the fallback policy around it, and PDF assembly from
// rasterized pages. Actual office-suite conversion lives behind the
// Renderer interface; the generation pipeline only depends on the
// contract.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io"

	"github.com/lvillar/gofpdf"
)

// Renderer converts a filled document into its final delivery format and
// returns the path of the produced file. Callers bound the conversion
// with the context.
type Renderer interface {
	Render(ctx context.Context, docPath, outDir string) (string, error)
}

// Func adapts a function to the Renderer interface.
type Func func(ctx context.Context, docPath, outDir string) (string, error)

// Render implements Renderer.
func (f Func) Render(ctx context.Context, docPath, outDir string) (string, error) {
	return f(ctx, docPath, outDir)
}

// RenderError reports a failed conversion, keeping both attempts when the
// degraded path also failed.
type RenderError struct {
	Primary  error
	Degraded error
}

func (e *RenderError) Error() string {
	if e.Degraded != nil {
		return fmt.Sprintf("render failed: primary: %v; degraded: %v", e.Primary, e.Degraded)
	}
	return fmt.Sprintf("render failed: %v", e.Primary)
}

// Unwrap exposes the degraded error when present, the primary otherwise.
func (e *RenderError) Unwrap() error {
	if e.Degraded != nil {
		return e.Degraded
	}
	return e.Primary
}

// WithFallback returns a renderer that tries primary once and, on
// failure, hands the document to degraded. A cancelled context is never
// retried. Total failure surfaces both errors in one RenderError.
func WithFallback(primary, degraded Renderer) Renderer {
	return Func(func(ctx context.Context, docPath, outDir string) (string, error) {
		out, perr := primary.Render(ctx, docPath, outDir)
		if perr == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", &RenderError{Primary: perr}
		}
		out, derr := degraded.Render(ctx, docPath, outDir)
		if derr != nil {
			return "", &RenderError{Primary: perr, Degraded: derr}
		}
		return out, nil
	})
}

// pixelsToMM converts 96-dpi pixels to millimeters.
func pixelsToMM(px int) float64 {
	return float64(px) * 25.4 / 96.0
}

// AssemblePDF joins rasterized PNG pages into one PDF, one image per
// page, each page sized to its image so nothing is scaled or cropped.
// Page order is input order.
func AssemblePDF(pages [][]byte, w io.Writer) error {
	if len(pages) == 0 {
		return fmt.Errorf("assemble pdf: no pages")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 210, Ht: 297},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(page))
		if err != nil {
			return fmt.Errorf("assemble pdf: decode page %d: %w", i+1, err)
		}
		wMM := pixelsToMM(cfg.Width)
		hMM := pixelsToMM(cfg.Height)

		name := fmt.Sprintf("page-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(page))

		// Orientation "P" takes the size literally; "L" would swap the
		// dimensions we already computed.
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: wMM, Ht: hMM})
		pdf.ImageOptions(name, 0, 0, wMM, hMM, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("assemble pdf: %w", err)
	}
	return nil
}
