package docgen

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/escribadocs/escriba/pkg/docx"
	"github.com/escribadocs/escriba/pkg/fill"
)

const promiseTemplate = "promessa_compra_venda.docx"

// paymentCellSize forces the payment schedule rows to 9pt (half-point
// units) so long schedules keep to the page.
const paymentCellSize = 18

// PropertyRecord identifies the property at the registry office.
type PropertyRecord struct {
	Registration string `json:"matricula" validate:"required"`
	Registry     string `json:"cartorio" validate:"required"`
	Address      string `json:"endereco" validate:"required"`
	City         string `json:"cidade" validate:"required"`
	Description  string `json:"descricao"`
}

// SalePromisePayload is the input for a purchase-and-sale promise.
type SalePromisePayload struct {
	Sellers  []Party        `json:"vendedores" validate:"min=1,dive"`
	Buyers   []Party        `json:"compradores" validate:"min=1,dive"`
	Property PropertyRecord `json:"imovel" validate:"required"`
	Price    float64        `json:"valor" validate:"gt=0"`
	Payments []Payment      `json:"pagamentos" validate:"min=1,dive"`
	// Encumbrance, when present, generates the registered-charge clause.
	Encumbrance *Encumbrance `json:"gravame"`
	// FGTSFinancing switches the financing clause on.
	FGTSFinancing bool `json:"financiamento_fgts"`
	// Commentary is free-form text, typically the furniture staying with
	// the property, rendered quoted.
	Commentary string    `json:"observacoes"`
	Agency     *Agency   `json:"imobiliaria"`
	Date       time.Time `json:"data" validate:"required"`
	Witnesses  []Witness `json:"testemunhas" validate:"len=2,dive"`
}

// SalePromise generates the purchase-and-sale promise document and
// returns the output path.
func (s *Service) SalePromise(ctx context.Context, payload SalePromisePayload) (string, error) {
	if err := s.validatePayload("sale promise", payload); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := docx.Open(s.templatePath(promiseTemplate))
	if err != nil {
		return "", fmt.Errorf("sale promise: %w", err)
	}

	if err := fill.RepeatRows(doc.Document, "cronograma_pagamentos", s.paymentRecords(payload.Payments), paymentCellSize); err != nil {
		return "", fmt.Errorf("sale promise: payment schedule: %w", err)
	}

	if err := fill.SignatureGrid(doc.Document, "assinaturas_vendedores", partySignatures(payload.Sellers)); err != nil {
		return "", fmt.Errorf("sale promise: seller signatures: %w", err)
	}
	if err := fill.SignatureGrid(doc.Document, "assinaturas_compradores", partySignatures(payload.Buyers)); err != nil {
		return "", fmt.Errorf("sale promise: buyer signatures: %w", err)
	}

	binding := fill.Binding{
		"qualificacao_vendedores":  PartyEnumeration(payload.Sellers, sellerRole(len(payload.Sellers))),
		"qualificacao_compradores": PartyEnumeration(payload.Buyers, buyerRole(len(payload.Buyers))),
		"clausula_gravame":         EncumbranceClause(payload.Encumbrance),
		"clausula_financiamento":   FinancingClause(payload.FGTSFinancing),
		"clausula_observacoes":     CommentaryClause(payload.Commentary),
		"intermediacao":            AgencyClause(payload.Agency),
		"matricula":                fill.String(payload.Property.Registration),
		"cartorio":                 fill.String(payload.Property.Registry),
		"endereco":                 fill.String(payload.Property.Address),
		"cidade":                   fill.String(payload.Property.City),
		"descricao_imovel":         fill.String(payload.Property.Description),
		"valor":                    fill.String(s.fmtr.Currency(payload.Price)),
		"valor_extenso":            fill.String(s.fmtr.CurrencyInWords(payload.Price)),
		"data_extenso":             fill.String(s.fmtr.LongDate(payload.Date)),
	}
	bindWitnesses(binding, payload.Witnesses)
	fill.SubstituteAll(doc.Document, binding)
	s.warnUnresolved("sale promise", doc.Document)

	out, err := s.saveDocx(doc, "promessa-compra-venda")
	if err != nil {
		return "", err
	}
	s.log.Info("generated sale promise",
		zap.String("output", out),
		zap.Int("sellers", len(payload.Sellers)),
		zap.Int("buyers", len(payload.Buyers)),
		zap.Int("payments", len(payload.Payments)))
	return out, nil
}

func sellerRole(n int) string {
	if n > 1 {
		return "PROMITENTES VENDEDORES"
	}
	return "PROMITENTE VENDEDOR"
}

func buyerRole(n int) string {
	if n > 1 {
		return "PROMITENTES COMPRADORES"
	}
	return "PROMITENTE COMPRADOR"
}

func (s *Service) paymentRecords(payments []Payment) []fill.Record {
	var out []fill.Record
	for i, p := range payments {
		number := p.Number
		if number == 0 {
			number = i + 1
		}
		out = append(out, record(map[string]string{
			"parcela_numero":     strconv.Itoa(number),
			"parcela_vencimento": s.fmtr.ShortDate(p.DueDate),
			"parcela_valor":      s.fmtr.Currency(p.Amount),
			"parcela_forma":      p.Method,
		}))
	}
	return out
}
