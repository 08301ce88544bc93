package docgen

import (
	"strings"

	"github.com/escribadocs/escriba/pkg/fill"
)

// EncumbranceClause expands the registered-charge clause. A nil
// encumbrance elides the paragraph; a present one names the charge kind,
// the beneficiary and its registration, followed by the two fixed legal
// undertakings in bold.
func EncumbranceClause(e *Encumbrance) fill.Value {
	if e == nil {
		return fill.Clause()
	}
	segs := []fill.Segment{
		fill.Lit("O imóvel objeto deste instrumento encontra-se gravado com "),
		fill.Bold(e.Kind),
		fill.Lit(" em favor de "),
		fill.Bold(e.Beneficiary),
	}
	if e.BeneficiaryCNPJ != "" {
		segs = append(segs, fill.Lit(", inscrito no CNPJ sob o nº "+e.BeneficiaryCNPJ))
	}
	if e.Registration != "" {
		segs = append(segs, fill.Lit(", conforme "+e.Registration))
	}
	segs = append(segs,
		fill.Lit(". "),
		fill.Bold("O PROMITENTE VENDEDOR obriga-se a providenciar a baixa do gravame até a lavratura da escritura definitiva, "),
		fill.Bold("sob pena de responder pelas perdas e danos decorrentes."),
	)
	return fill.Clause(segs...)
}

// FinancingClause expands the FGTS financing clause: two sentences with
// bold lead-ins when financing applies, an elided paragraph otherwise.
func FinancingClause(usesFGTS bool) fill.Value {
	if !usesFGTS {
		return fill.Clause()
	}
	return fill.Clause(
		fill.Bold("PARÁGRAFO PRIMEIRO: "),
		fill.Lit("o pagamento do saldo será realizado por meio de financiamento com utilização de recursos do FGTS, "+
			"obrigando-se o PROMITENTE COMPRADOR a apresentar a documentação exigida pelo agente financeiro."),
		fill.Lit("\n"),
		fill.Bold("PARÁGRAFO SEGUNDO: "),
		fill.Lit("a não aprovação do financiamento pelo agente financeiro, por fato não imputável às partes, "+
			"resolverá o presente compromisso sem penalidade, restituindo-se os valores pagos."),
	)
}

// AgencyClause renders the intermediation sentence fragment. The three
// branches: no agency, represented by an unnamed agency, represented by a
// named agency (name bold inline).
func AgencyClause(a *Agency) fill.Value {
	switch {
	case a == nil:
		return fill.Rich(fill.Lit("não havendo a intermediação de corretor ou imobiliária nesta transação"))
	case a.Name == "":
		return fill.Rich(fill.Lit("havendo a intermediação de imobiliária nesta transação"))
	default:
		return fill.Rich(
			fill.Lit("havendo a intermediação da imobiliária "),
			fill.Bold(a.Name),
			fill.Lit(" nesta transação"),
		)
	}
}

// CommentaryClause expands free-form commentary, typically the furniture
// list, as quoted text. Empty commentary elides the paragraph.
func CommentaryClause(text string) fill.Value {
	if strings.TrimSpace(text) == "" {
		return fill.Clause()
	}
	return fill.Clause(
		fill.Lit("As partes fazem constar ainda: "),
		fill.Lit("“"+strings.TrimSpace(text)+"”."),
	)
}

// PartyEnumeration renders a list of people as one qualification
// paragraph: bold name, qualification text, optional bold spouse
// sub-clause, address and phone, joined with commas and a final "e", and
// closed with the bold role designation.
func PartyEnumeration(parties []Party, role string) fill.Value {
	var segs []fill.Segment
	for i, p := range parties {
		if i > 0 {
			if i == len(parties)-1 {
				segs = append(segs, fill.Lit("; e "))
			} else {
				segs = append(segs, fill.Lit("; "))
			}
		}
		segs = append(segs, partySegments(p)...)
	}
	segs = append(segs,
		fill.Lit(", doravante denominado(a)(s) "),
		fill.Bold(role),
		fill.Lit("."),
	)
	return fill.Clause(segs...)
}

func partySegments(p Party) []fill.Segment {
	segs := []fill.Segment{fill.Bold(strings.ToUpper(p.Name))}

	var quals []string
	for _, q := range []string{p.Nationality, p.MaritalStatus, p.Profession} {
		if q != "" {
			quals = append(quals, q)
		}
	}
	if p.RG != "" {
		quals = append(quals, "portador(a) do RG nº "+p.RG)
	}
	quals = append(quals, "inscrito(a) no CPF sob o nº "+p.CPF)
	segs = append(segs, fill.Lit(", "+strings.Join(quals, ", ")))

	if p.Spouse != nil {
		segs = append(segs, fill.Lit(", casado(a) com "))
		segs = append(segs, fill.Bold(strings.ToUpper(p.Spouse.Name)))
		segs = append(segs, fill.Lit(", inscrito(a) no CPF sob o nº "+p.Spouse.CPF))
	}
	if p.Address != "" {
		segs = append(segs, fill.Lit(", residente e domiciliado(a) em "+p.Address))
	}
	if p.Phone != "" {
		segs = append(segs, fill.Lit(", telefone "+p.Phone))
	}
	return segs
}
