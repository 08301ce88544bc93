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

const brokerageTemplate = "contrato_corretagem.docx"

// BrokerageContractPayload is the input for a brokerage (commission)
// contract.
type BrokerageContractPayload struct {
	PropertyAddress string   `json:"endereco" validate:"required"`
	Parties         []Party  `json:"partes" validate:"min=1,dive"`
	Brokers         []Broker `json:"corretores" validate:"min=1,dive"`
	Agency          *Agency  `json:"imobiliaria"`
	CommissionValue float64  `json:"valor_comissao" validate:"gt=0"`
	// CommissionSplit distributes the commission among brokers by
	// percentage; each row of the split table shows the percentage and
	// the computed per-broker value.
	CommissionSplit []CommissionShare `json:"divisao_comissao" validate:"omitempty,dive"`
	City            string            `json:"cidade" validate:"required"`
	Date            time.Time         `json:"data" validate:"required"`
	Witnesses       []Witness         `json:"testemunhas" validate:"len=2,dive"`
}

// BrokerageContract generates the brokerage contract document and returns
// the output path.
func (s *Service) BrokerageContract(ctx context.Context, payload BrokerageContractPayload) (string, error) {
	if err := s.validatePayload("brokerage contract", payload); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := docx.Open(s.templatePath(brokerageTemplate))
	if err != nil {
		return "", fmt.Errorf("brokerage contract: %w", err)
	}

	fill.RepeatTable(doc.Document, "partes_contratantes", partyRecords(payload.Parties))
	fill.RepeatTable(doc.Document, "corretores", brokerRecords(payload.Brokers))

	if err := fill.RepeatRows(doc.Document, "divisao_comissao", s.commissionRecords(payload), 0); err != nil {
		return "", fmt.Errorf("brokerage contract: commission split: %w", err)
	}

	if err := fill.SignatureGrid(doc.Document, "assinaturas_partes", partySignatures(payload.Parties)); err != nil {
		return "", fmt.Errorf("brokerage contract: party signatures: %w", err)
	}
	if err := fill.SignatureGrid(doc.Document, "assinaturas_corretores", s.brokerSignatures(payload)); err != nil {
		return "", fmt.Errorf("brokerage contract: broker signatures: %w", err)
	}

	binding := fill.Binding{
		"endereco":               fill.String(payload.PropertyAddress),
		"cidade":                 fill.String(payload.City),
		"data_extenso":           fill.String(s.fmtr.LongDate(payload.Date)),
		"valor_comissao":         fill.String(s.fmtr.Currency(payload.CommissionValue)),
		"valor_comissao_extenso": fill.String(s.fmtr.CurrencyInWords(payload.CommissionValue)),
	}
	bindFirstParty(binding, payload.Parties[0])
	bindFirstBroker(binding, payload.Brokers[0])
	bindWitnesses(binding, payload.Witnesses)
	fill.SubstituteAll(doc.Document, binding)
	s.warnUnresolved("brokerage contract", doc.Document)

	out, err := s.saveDocx(doc, "contrato-corretagem")
	if err != nil {
		return "", err
	}
	s.log.Info("generated brokerage contract",
		zap.String("output", out),
		zap.Int("parties", len(payload.Parties)),
		zap.Int("brokers", len(payload.Brokers)))
	return out, nil
}

// partyRecords builds the table-per-record data for contracting parties.
func partyRecords(parties []Party) []fill.Record {
	var out []fill.Record
	for _, p := range parties {
		out = append(out, record(map[string]string{
			"nome_parte":     p.Name,
			"nacionalidade":  p.Nationality,
			"estado_civil":   p.MaritalStatus,
			"profissao":      p.Profession,
			"rg_parte":       p.RG,
			"cpf_parte":      p.CPF,
			"endereco_parte": p.Address,
			"telefone_parte": p.Phone,
			"email_parte":    p.Email,
		}))
	}
	return out
}

// brokerRecords builds the table-per-record data for brokers.
func brokerRecords(brokers []Broker) []fill.Record {
	var out []fill.Record
	for _, b := range brokers {
		out = append(out, record(map[string]string{
			"nome_corretor":     b.Name,
			"creci_corretor":    b.CRECI,
			"cpf_corretor":      b.CPF,
			"email_corretor":    b.Email,
			"telefone_corretor": b.Phone,
		}))
	}
	return out
}

// commissionRecords computes each broker's slice of the commission from
// its percentage.
func (s *Service) commissionRecords(payload BrokerageContractPayload) []fill.Record {
	var out []fill.Record
	for _, share := range payload.CommissionSplit {
		value := payload.CommissionValue * share.Percent / 100
		out = append(out, record(map[string]string{
			"corretor_divisao":   share.BrokerName,
			"percentual_divisao": s.fmtr.Percent(share.Percent),
			"valor_divisao":      s.fmtr.Currency(value),
		}))
	}
	return out
}

func partySignatures(parties []Party) []fill.SignatureEntry {
	var out []fill.SignatureEntry
	for _, p := range parties {
		out = append(out, fill.SignatureEntry{Name: p.Name, Label: "CPF", ID: p.CPF})
	}
	return out
}

// brokerSignatures lists the intermediary side of the signature section:
// the agency under its CNPJ when one is named, then each broker.
func (s *Service) brokerSignatures(payload BrokerageContractPayload) []fill.SignatureEntry {
	var out []fill.SignatureEntry
	if payload.Agency != nil && payload.Agency.Name != "" {
		out = append(out, fill.SignatureEntry{Name: payload.Agency.Name, Label: "CNPJ", ID: payload.Agency.CNPJ})
	}
	for _, b := range payload.Brokers {
		out = append(out, fill.SignatureEntry{Name: b.Name, Label: "CRECI", ID: b.CRECI})
	}
	return out
}

// bindFirstParty adds first-record scalar fallbacks so mentions outside
// the repeated table still resolve.
func bindFirstParty(b fill.Binding, p Party) {
	b["nome_parte"] = fill.String(p.Name)
	b["cpf_parte"] = fill.String(p.CPF)
}

func bindFirstBroker(b fill.Binding, br Broker) {
	b["nome_corretor"] = fill.String(br.Name)
	b["creci_corretor"] = fill.String(br.CRECI)
}

func bindWitnesses(b fill.Binding, witnesses []Witness) {
	for i, w := range witnesses {
		n := strconv.Itoa(i + 1)
		b["testemunha_"+n+"_nome"] = fill.String(w.Name)
		b["testemunha_"+n+"_rg"] = fill.String(w.RG)
		b["testemunha_"+n+"_cpf"] = fill.String(w.CPF)
	}
}
