package docgen

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/escribadocs/escriba/pkg/charts"
	"github.com/escribadocs/escriba/pkg/pptx"
)

const appraisalTemplate = "laudo_avaliacao.pptx"

// Default image-slot keys the rasterized charts bind to.
const (
	DefaultChart1Key = "grafico_01"
	DefaultChart2Key = "grafico_02"
)

// ChartSeriesInput is one raw series: values arrive as strings in
// Brazilian or machine notation; unparseable entries plot as gaps.
type ChartSeriesInput struct {
	Label  string   `json:"rotulo"`
	Values []string `json:"valores" validate:"required"`
}

// QuarterlyInput feeds the quarterly comparison chart.
type QuarterlyInput struct {
	Quarters []string         `json:"trimestres" validate:"min=1"`
	Current  ChartSeriesInput `json:"atual"`
	Previous ChartSeriesInput `json:"anterior"`
}

// MonthlyInput feeds the monthly revenue chart: exactly twelve values
// starting at the "AAAA-MM" month.
type MonthlyInput struct {
	Start  string   `json:"inicio" validate:"required"`
	Values []string `json:"valores" validate:"len=12"`
}

// AppraisalImage binds a picture to an image-slot key, either as bytes or
// as a file path. Both inch dimensions positive means a fixed size
// centered in the slot; otherwise the picture is contain-fitted.
type AppraisalImage struct {
	Key          string  `json:"chave" validate:"required"`
	Data         []byte  `json:"-"`
	Path         string  `json:"arquivo"`
	WidthInches  float64 `json:"largura_pol"`
	HeightInches float64 `json:"altura_pol"`
}

// AppraisalPayload is the input for the appraisal report deck.
type AppraisalPayload struct {
	// Variables bind placeholder keys to replacement text. Unknown keys
	// in the deck stay in place.
	Variables map[string]string `json:"variaveis" validate:"required"`
	// Aliases map alternative template keys to canonical variable names,
	// so older deck revisions keep working.
	Aliases   map[string]string `json:"apelidos"`
	Images    []AppraisalImage  `json:"imagens" validate:"omitempty,dive"`
	Quarterly *QuarterlyInput   `json:"trimestral"`
	Monthly   *MonthlyInput     `json:"mensal"`
	// FontFamily, when set, is forced onto every run of every slide.
	FontFamily string `json:"fonte"`
	// Chart slot keys, overridable per call.
	Chart1Key string `json:"chave_grafico_1"`
	Chart2Key string `json:"chave_grafico_2"`
}

// AppraisalReport generates the appraisal deck and returns the output
// path.
func (s *Service) AppraisalReport(ctx context.Context, payload AppraisalPayload) (string, error) {
	if err := s.validatePayload("appraisal report", payload); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	deck, err := pptx.Open(s.templatePath(appraisalTemplate))
	if err != nil {
		return "", fmt.Errorf("appraisal report: %w", err)
	}

	values := make(map[string]string, len(payload.Variables)+len(payload.Aliases))
	for k, v := range payload.Variables {
		values[k] = v
	}
	for alias, canonical := range payload.Aliases {
		if v, ok := payload.Variables[canonical]; ok {
			values[alias] = v
		}
	}

	images := make(map[string]pptx.Image, len(payload.Images)+2)
	for _, img := range payload.Images {
		data := img.Data
		if data == nil && img.Path != "" {
			data, err = os.ReadFile(img.Path)
			if err != nil {
				return "", fmt.Errorf("appraisal report: image %q: %w", img.Key, err)
			}
		}
		if data == nil {
			return "", fmt.Errorf("appraisal report: image %q has neither data nor path", img.Key)
		}
		images[img.Key] = pptx.Image{
			Data:         data,
			WidthInches:  img.WidthInches,
			HeightInches: img.HeightInches,
		}
	}
	if err := s.bindCharts(payload, images); err != nil {
		return "", fmt.Errorf("appraisal report: %w", err)
	}

	slides, err := deck.Slides()
	if err != nil {
		return "", fmt.Errorf("appraisal report: %w", err)
	}
	for _, slide := range slides {
		// Image slots resolve before the text pass: a key bound both as a
		// variable and as an image is an image slot, never a text location.
		if err := slide.FillImageSlots(images); err != nil {
			return "", fmt.Errorf("appraisal report: %s: %w", slide.Path, err)
		}
		slide.ReplaceTokens(values)
		if payload.FontFamily != "" {
			slide.ForceFontFamily(payload.FontFamily)
		}
	}

	out := s.outputPath("laudo-avaliacao", "pptx")
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("appraisal report: create output: %w", err)
	}
	defer f.Close()
	if err := deck.Save(f); err != nil {
		return "", fmt.Errorf("appraisal report: save: %w", err)
	}

	s.log.Info("generated appraisal report",
		zap.String("output", out),
		zap.Int("slides", len(slides)),
		zap.Int("images", len(images)))
	return out, nil
}

// bindCharts rasterizes the requested charts and binds them to their
// image-slot keys.
func (s *Service) bindCharts(payload AppraisalPayload, images map[string]pptx.Image) error {
	if payload.Quarterly != nil {
		key := payload.Chart1Key
		if key == "" {
			key = DefaultChart1Key
		}
		var buf bytes.Buffer
		err := charts.QuarterlyComparison(
			payload.Quarterly.Quarters,
			charts.Series{Name: payload.Quarterly.Current.Label, Values: charts.CoerceAll(payload.Quarterly.Current.Values)},
			charts.Series{Name: payload.Quarterly.Previous.Label, Values: charts.CoerceAll(payload.Quarterly.Previous.Values)},
			&buf,
		)
		if err != nil {
			return err
		}
		images[key] = pptx.Image{Data: buf.Bytes()}
	}

	if payload.Monthly != nil {
		key := payload.Chart2Key
		if key == "" {
			key = DefaultChart2Key
		}
		var buf bytes.Buffer
		if err := charts.MonthlyRevenue(payload.Monthly.Start, charts.CoerceAll(payload.Monthly.Values), &buf); err != nil {
			return err
		}
		images[key] = pptx.Image{Data: buf.Bytes()}
	}

	return nil
}
