package docgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escribadocs/escriba/pkg/fill"
)

func flatten(v fill.Value) string {
	var b strings.Builder
	for _, seg := range v.Segments() {
		b.WriteString(seg.Text)
	}
	return b.String()
}

func boldText(v fill.Value) []string {
	var out []string
	for _, seg := range v.Segments() {
		if seg.Bold {
			out = append(out, seg.Text)
		}
	}
	return out
}

func TestEncumbranceClause(t *testing.T) {
	v := EncumbranceClause(&Encumbrance{
		Kind:            "alienação fiduciária",
		Beneficiary:     "Banco Alfa S.A.",
		BeneficiaryCNPJ: "00.000.000/0001-91",
		Registration:    "R-4 da matrícula",
	})
	require.True(t, v.IsClause())
	text := flatten(v)
	assert.Contains(t, text, "alienação fiduciária")
	assert.Contains(t, text, "Banco Alfa S.A.")
	assert.Contains(t, text, "CNPJ sob o nº 00.000.000/0001-91")
	assert.Contains(t, text, "conforme R-4 da matrícula")
	assert.Contains(t, boldText(v), "alienação fiduciária")

	elided := EncumbranceClause(nil)
	require.True(t, elided.IsClause())
	assert.Empty(t, elided.Segments())
}

func TestFinancingClause(t *testing.T) {
	v := FinancingClause(true)
	require.True(t, v.IsClause())
	text := flatten(v)
	assert.Contains(t, text, "FGTS")
	assert.Contains(t, boldText(v), "PARÁGRAFO PRIMEIRO: ")
	assert.Contains(t, boldText(v), "PARÁGRAFO SEGUNDO: ")
	// The two sentences land on separate lines.
	assert.Contains(t, text, "\n")

	elided := FinancingClause(false)
	assert.Empty(t, elided.Segments())
}

func TestAgencyClause(t *testing.T) {
	none := AgencyClause(nil)
	assert.False(t, none.IsClause())
	assert.Contains(t, flatten(none), "não havendo a intermediação")

	unnamed := AgencyClause(&Agency{})
	assert.Contains(t, flatten(unnamed), "havendo a intermediação de imobiliária")
	assert.Empty(t, boldText(unnamed))

	named := AgencyClause(&Agency{Name: "Imobiliária Horizonte"})
	assert.Contains(t, flatten(named), "Imobiliária Horizonte")
	assert.Equal(t, []string{"Imobiliária Horizonte"}, boldText(named))
}

func TestCommentaryClause(t *testing.T) {
	v := CommentaryClause("  o imóvel será entregue com os móveis planejados da cozinha  ")
	require.True(t, v.IsClause())
	assert.Contains(t, flatten(v), "“o imóvel será entregue com os móveis planejados da cozinha”.")

	assert.Empty(t, CommentaryClause("   ").Segments())
}

func TestPartyEnumeration(t *testing.T) {
	parties := []Party{
		{
			Name:          "Ana Souza",
			Nationality:   "brasileira",
			MaritalStatus: "casada",
			Profession:    "engenheira",
			RG:            "12.345.678-9",
			CPF:           "111.222.333-44",
			Address:       "Rua das Flores, 10, São Paulo/SP",
			Phone:         "(11) 99999-0000",
			Spouse:        &Party{Name: "Bruno Souza", CPF: "555.666.777-88"},
		},
		{Name: "Carlos Lima", CPF: "999.888.777-66"},
		{Name: "Diana Prado", CPF: "123.456.789-00"},
	}

	v := PartyEnumeration(parties, "PROMITENTES VENDEDORES")
	require.True(t, v.IsClause())
	text := flatten(v)

	assert.Contains(t, text, "ANA SOUZA, brasileira, casada, engenheira")
	assert.Contains(t, text, "portador(a) do RG nº 12.345.678-9")
	assert.Contains(t, text, "casado(a) com ")
	assert.Contains(t, text, "residente e domiciliado(a) em Rua das Flores, 10, São Paulo/SP")
	assert.Contains(t, text, "telefone (11) 99999-0000")

	// Middle parties join with "; ", the last with "; e ".
	assert.Contains(t, text, "; CARLOS LIMA")
	assert.Contains(t, text, "; e DIANA PRADO")

	bold := boldText(v)
	assert.Contains(t, bold, "ANA SOUZA")
	assert.Contains(t, bold, "BRUNO SOUZA")
	assert.Contains(t, bold, "PROMITENTES VENDEDORES")
	assert.True(t, strings.HasSuffix(text, "doravante denominado(a)(s) PROMITENTES VENDEDORES."))
}

func TestPartyEnumerationSingle(t *testing.T) {
	v := PartyEnumeration([]Party{{Name: "Eva Nunes", CPF: "000.111.222-33"}}, "PROMITENTE COMPRADOR")
	text := flatten(v)
	assert.NotContains(t, text, "; e ")
	assert.Contains(t, text, "EVA NUNES, inscrito(a) no CPF sob o nº 000.111.222-33")
}
