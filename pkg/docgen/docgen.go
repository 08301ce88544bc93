// Package docgen exposes one generation operation per document kind:
// brokerage contract, visit declaration and purchase-and-sale promise as
// DOCX, and the appraisal report deck as PPTX. Each operation loads its
// template fresh, applies structural repetition, substitutes placeholders
// and writes a uniquely named work product; no state survives between
// calls, so concurrent generations are independent.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/escribadocs/escriba/pkg/brformat"
	"github.com/escribadocs/escriba/pkg/docx"
	"github.com/escribadocs/escriba/pkg/fill"
)

// Logger is the narrow logging surface the service needs. *zap.Logger
// satisfies it; the engine packages below this one stay logger-free.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// Options configures a Service.
type Options struct {
	// TemplateDir holds the document templates, one file per kind.
	TemplateDir string
	// OutputDir receives generated documents.
	OutputDir string
	// Logger defaults to a no-op logger when nil.
	Logger Logger
	// Locale defaults to Brazilian Portuguese when zero.
	Locale *brformat.Config
}

// Service generates documents. Safe for concurrent use.
type Service struct {
	templates string
	out       string
	log       Logger
	validate  *validator.Validate
	fmtr      *brformat.Formatter
}

// New builds a Service.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	locale := brformat.BrazilianPortuguese()
	if opts.Locale != nil {
		locale = *opts.Locale
	}
	return &Service{
		templates: opts.TemplateDir,
		out:       opts.OutputDir,
		log:       log,
		validate:  validator.New(),
		fmtr:      brformat.New(locale),
	}
}

// templatePath resolves a template file name inside the template dir.
func (s *Service) templatePath(name string) string {
	return filepath.Join(s.templates, name)
}

// outputPath builds a unique output file name for one generation.
func (s *Service) outputPath(kind, ext string) string {
	return filepath.Join(s.out, fmt.Sprintf("%s-%s.%s", kind, uuid.NewString(), ext))
}

// saveDocx writes the filled document to a unique path.
func (s *Service) saveDocx(doc *docx.Docx, kind string) (string, error) {
	out := s.outputPath(kind, "docx")
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := doc.Save(f); err != nil {
		return "", fmt.Errorf("save %s: %w", kind, err)
	}
	return out, nil
}

// validatePayload runs struct validation and turns failures into one
// descriptive error.
func (s *Service) validatePayload(kind string, payload interface{}) error {
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", kind, err)
	}
	return nil
}

// warnUnresolved logs placeholders the payload left unbound. Omitted
// keys stay in the document on purpose, so this is diagnostic only.
func (s *Service) warnUnresolved(kind string, d *docx.Document) {
	if keys := fill.UnresolvedKeys(d); len(keys) > 0 {
		s.log.Warn("unresolved placeholders",
			zap.String("document", kind),
			zap.Strings("keys", keys))
	}
}

// record expands key/value pairs into the literal token forms cloned
// table cells may carry, single and double braces alike, for per-run
// replacement.
func record(values map[string]string) fill.Record {
	rec := make(fill.Record, len(values)*2)
	for k, v := range values {
		rec["{{"+k+"}}"] = v
		rec["{"+k+"}"] = v
	}
	return rec
}
