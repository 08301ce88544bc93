package docgen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/escribadocs/escriba/pkg/docx"
	"github.com/escribadocs/escriba/pkg/fill"
)

const visitTemplate = "declaracao_visita.docx"

// RatingCriteria are the seven fixed satisfaction criteria of the visit
// declaration's optional rating grid, in template row order.
var RatingCriteria = []string{
	"Atendimento do corretor",
	"Pontualidade",
	"Conhecimento sobre o imóvel",
	"Clareza das informações",
	"Estado de conservação do imóvel",
	"Adequação ao que foi anunciado",
	"Avaliação geral da visita",
}

// VisitDeclarationPayload is the input for a property visit declaration.
type VisitDeclarationPayload struct {
	PropertyAddress string    `json:"endereco" validate:"required"`
	Visitors        []Party   `json:"visitantes" validate:"min=1,dive"`
	Agency          *Agency   `json:"imobiliaria"`
	Broker          Broker    `json:"corretor" validate:"required"`
	Date            time.Time `json:"data" validate:"required"`
	// Ratings maps criteria names to 1..5 scores. Nil skips the rating
	// grid entirely; out-of-range scores skip their row.
	Ratings map[string]int `json:"avaliacao"`
}

// VisitDeclaration generates the visit declaration document and returns
// the output path.
func (s *Service) VisitDeclaration(ctx context.Context, payload VisitDeclarationPayload) (string, error) {
	if err := s.validatePayload("visit declaration", payload); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := docx.Open(s.templatePath(visitTemplate))
	if err != nil {
		return "", fmt.Errorf("visit declaration: %w", err)
	}

	fill.RepeatTable(doc.Document, "visitantes", visitorRecords(payload.Visitors))

	if err := fill.SignatureGrid(doc.Document, "assinaturas_visitantes", partySignatures(payload.Visitors)); err != nil {
		return "", fmt.Errorf("visit declaration: visitor signatures: %w", err)
	}

	if payload.Ratings != nil {
		if err := fill.MarkRatingGrid(doc.Document, "avaliacao_visita", RatingCriteria, payload.Ratings); err != nil {
			return "", fmt.Errorf("visit declaration: rating grid: %w", err)
		}
	}

	binding := fill.Binding{
		"endereco":       fill.String(payload.PropertyAddress),
		"data_extenso":   fill.String(s.fmtr.LongDate(payload.Date)),
		"nome_corretor":  fill.String(payload.Broker.Name),
		"creci_corretor": fill.String(payload.Broker.CRECI),
		"intermediacao":  AgencyClause(payload.Agency),
	}
	// First-visitor fallbacks for mentions outside the repeated table.
	binding["nome_visitante"] = fill.String(payload.Visitors[0].Name)
	binding["cpf_visitante"] = fill.String(payload.Visitors[0].CPF)
	fill.SubstituteAll(doc.Document, binding)
	s.warnUnresolved("visit declaration", doc.Document)

	out, err := s.saveDocx(doc, "declaracao-visita")
	if err != nil {
		return "", err
	}
	s.log.Info("generated visit declaration",
		zap.String("output", out),
		zap.Int("visitors", len(payload.Visitors)),
		zap.Bool("rated", payload.Ratings != nil))
	return out, nil
}

func visitorRecords(visitors []Party) []fill.Record {
	var out []fill.Record
	for _, v := range visitors {
		out = append(out, record(map[string]string{
			"nome_visitante":     v.Name,
			"rg_visitante":       v.RG,
			"cpf_visitante":      v.CPF,
			"telefone_visitante": v.Phone,
			"email_visitante":    v.Email,
		}))
	}
	return out
}
