package docgen

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escribadocs/escriba/pkg/docx"
	"github.com/escribadocs/escriba/pkg/fill"
)

func wp(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func wtc(text string) string {
	return `<w:tc>` + wp(text) + `</w:tc>`
}

func wtr(cells ...string) string {
	return `<w:tr>` + strings.Join(cells, "") + `</w:tr>`
}

func wtbl(rows ...string) string {
	return `<w:tbl>` + strings.Join(rows, "") + `</w:tbl>`
}

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for part, content := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   documentXML,
	} {
		fw, err := zw.Create(part)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644))
}

func newTestService(t *testing.T) (*Service, string, string) {
	t.Helper()
	templates := t.TempDir()
	out := t.TempDir()
	return New(Options{TemplateDir: templates, OutputDir: out}), templates, out
}

func openOutput(t *testing.T, path string) *docx.Docx {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := docx.OpenBytes(data)
	require.NoError(t, err)
	return doc
}

func allText(doc *docx.Docx) string {
	var b strings.Builder
	for _, p := range fill.Paragraphs(doc.Document) {
		b.WriteString(p.GetText())
		b.WriteString("\n")
	}
	return b.String()
}

func ratingTemplateTable() string {
	header := wtr(wtc("Critério"), wtc("1"), wtc("2"), wtc("3"), wtc("4"), wtc("5"))
	rows := []string{header}
	for _, criterion := range RatingCriteria {
		rows = append(rows, wtr(wtc(criterion), wtc(""), wtc(""), wtc(""), wtc(""), wtc("")))
	}
	return wtbl(rows...)
}

func visitTemplateBody() string {
	return wp("DECLARAÇÃO DE VISITA AO IMÓVEL") +
		wp("Imóvel: {{endereco}}, visitado em {{data_extenso}}.") +
		wtbl(wtr(wtc("Visitante: {{nome_visitante}}"), wtc("CPF: {{cpf_visitante}}"))) +
		wp("{{visitantes}}") +
		wp("Corretor responsável: {{nome_corretor}}, CRECI {{creci_corretor}}, {{intermediacao}}.") +
		ratingTemplateTable() +
		wp("{{avaliacao_visita}}") +
		wp("{{assinaturas_visitantes}}")
}

func TestVisitDeclaration(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "declaracao_visita.docx", visitTemplateBody())

	payload := VisitDeclarationPayload{
		PropertyAddress: "Rua das Flores, 10, São Paulo/SP",
		Visitors: []Party{
			{Name: "Ana Souza", CPF: "111.222.333-44"},
			{Name: "Bruno Lima", CPF: "555.666.777-88"},
			{Name: "Carla Prado", CPF: "999.888.777-66"},
		},
		Agency: &Agency{Name: "Imobiliária Horizonte", CNPJ: "00.000.000/0001-91"},
		Broker: Broker{Name: "Diego Ramos", CRECI: "123456-F"},
		Date:   time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Ratings: map[string]int{
			"Atendimento do corretor":   5,
			"Pontualidade":              3,
			"Avaliação geral da visita": 9, // out of range, row stays blank
		},
	}

	out, err := svc.VisitDeclaration(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(out), "declaracao-visita-"))
	assert.True(t, strings.HasSuffix(out, ".docx"))

	doc := openOutput(t, out)
	text := allText(doc)

	assert.Contains(t, text, "Rua das Flores, 10, São Paulo/SP")
	assert.Contains(t, text, "15 de março de 2026")
	assert.Contains(t, text, "havendo a intermediação da imobiliária Imobiliária Horizonte")
	for _, visitor := range []string{"Ana Souza", "Bruno Lima", "Carla Prado"} {
		assert.Contains(t, text, "Visitante: "+visitor)
	}
	assert.NotContains(t, text, "{{")

	// One cloned table per visitor, the rating grid and the signature grid.
	tables := doc.Document.Body.Tables()
	require.Len(t, tables, 5)

	rating := tables[3]
	assert.Equal(t, "X", rating.Rows[1].Cells[5].GetText())
	assert.Equal(t, "X", rating.Rows[2].Cells[3].GetText())
	for c := 1; c <= 5; c++ {
		assert.Empty(t, rating.Rows[7].Cells[c].GetText(), "out-of-range score marked a cell")
	}

	// Three signers fill two rows, left to right, last cell empty.
	signatures := tables[4]
	require.Len(t, signatures.Rows, 2)
	assert.Contains(t, signatures.Rows[0].Cells[0].GetText(), "Nome: Ana Souza")
	assert.Contains(t, signatures.Rows[0].Cells[1].GetText(), "CPF: 555.666.777-88")
	assert.Empty(t, signatures.Rows[1].Cells[1].GetText())
}

func TestVisitDeclarationWithoutRatings(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "declaracao_visita.docx", visitTemplateBody())

	payload := VisitDeclarationPayload{
		PropertyAddress: "Av. Central, 500",
		Visitors:        []Party{{Name: "Ana Souza", CPF: "111.222.333-44"}},
		Broker:          Broker{Name: "Diego Ramos", CRECI: "123456-F"},
		Date:            time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
	}

	out, err := svc.VisitDeclaration(context.Background(), payload)
	require.NoError(t, err)

	doc := openOutput(t, out)
	rating := doc.Document.Body.Tables()[1]
	for r := 1; r < len(rating.Rows); r++ {
		for c := 1; c <= 5; c++ {
			assert.Empty(t, rating.Rows[r].Cells[c].GetText())
		}
	}
	// Without an agency the declaration states no intermediation.
	assert.Contains(t, allText(doc), "não havendo a intermediação")
}

func TestVisitDeclarationValidation(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "declaracao_visita.docx", visitTemplateBody())

	_, err := svc.VisitDeclaration(context.Background(), VisitDeclarationPayload{
		PropertyAddress: "Av. Central, 500",
		Broker:          Broker{Name: "Diego Ramos", CRECI: "123456-F"},
		Date:            time.Now(),
	})
	assert.ErrorContains(t, err, "invalid visit declaration payload")
}

func TestVisitDeclarationCancelledContext(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "declaracao_visita.docx", visitTemplateBody())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.VisitDeclaration(ctx, VisitDeclarationPayload{
		PropertyAddress: "Av. Central, 500",
		Visitors:        []Party{{Name: "Ana Souza", CPF: "111.222.333-44"}},
		Broker:          Broker{Name: "Diego Ramos", CRECI: "123456-F"},
		Date:            time.Now(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func promiseTemplateBody() string {
	schedule := wtbl(
		wtr(wtc("Parcela"), wtc("Vencimento"), wtc("Valor"), wtc("Forma")),
		wtr(wtc("{{parcela_numero}}"), wtc("{{parcela_vencimento}}"), wtc("{{parcela_valor}}"), wtc("{{parcela_forma}}")),
	)
	return wp("{{qualificacao_vendedores}}") +
		wp("{{qualificacao_compradores}}") +
		wp("Imóvel da matrícula {{matricula}} do {{cartorio}}, situado em {{endereco}}, {{cidade}}. {{descricao_imovel}}") +
		wp("Preço certo e ajustado: {{valor}} ({{valor_extenso}}).") +
		schedule +
		wp("{{cronograma_pagamentos}}") +
		wp("{{clausula_gravame}}") +
		wp("{{clausula_financiamento}}") +
		wp("{{clausula_observacoes}}") +
		wp("{{intermediacao}}") +
		wp("{{cidade}}, {{data_extenso}}.") +
		wp("Testemunha 1: {{testemunha_1_nome}}, CPF {{testemunha_1_cpf}}") +
		wp("Testemunha 2: {{testemunha_2_nome}}, CPF {{testemunha_2_cpf}}") +
		wp("{{assinaturas_vendedores}}") +
		wp("{{assinaturas_compradores}}")
}

func promisePayload() SalePromisePayload {
	return SalePromisePayload{
		Sellers: []Party{{Name: "Ana Souza", CPF: "111.222.333-44"}},
		Buyers: []Party{
			{Name: "Bruno Lima", CPF: "555.666.777-88"},
			{Name: "Carla Lima", CPF: "999.888.777-66"},
		},
		Property: PropertyRecord{
			Registration: "123.456",
			Registry:     "2º Cartório de Registro de Imóveis de Campinas",
			Address:      "Rua das Acácias, 77",
			City:         "Campinas/SP",
			Description:  "Apartamento de 80m² com duas vagas.",
		},
		Price: 450000,
		Payments: []Payment{
			{DueDate: time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), Amount: 90000, Method: "PIX"},
			{DueDate: time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC), Amount: 360000, Method: "financiamento bancário"},
		},
		FGTSFinancing: true,
		Commentary:    "os móveis planejados da cozinha permanecem no imóvel",
		Date:          time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Witnesses: []Witness{
			{Name: "Elisa Duarte", CPF: "123.123.123-12"},
			{Name: "Fábio Torres", CPF: "321.321.321-32"},
		},
	}
}

func TestSalePromise(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "promessa_compra_venda.docx", promiseTemplateBody())

	out, err := svc.SalePromise(context.Background(), promisePayload())
	require.NoError(t, err)

	doc := openOutput(t, out)
	text := allText(doc)

	assert.Contains(t, text, "ANA SOUZA")
	assert.Contains(t, text, "PROMITENTE VENDEDOR.")
	assert.Contains(t, text, "PROMITENTES COMPRADORES.")
	assert.Contains(t, text, "R$ 450.000,00")
	assert.Contains(t, text, "quatrocentos e cinquenta mil reais")
	assert.Contains(t, text, "PARÁGRAFO PRIMEIRO")
	assert.Contains(t, text, "“os móveis planejados da cozinha permanecem no imóvel”.")
	assert.Contains(t, text, "15 de março de 2026")
	assert.Contains(t, text, "Testemunha 1: Elisa Duarte, CPF 123.123.123-12")
	assert.NotContains(t, text, "{{")

	// No encumbrance: the clause paragraph collapses to nothing.
	assert.NotContains(t, text, "gravado com")

	schedule := doc.Document.Body.Tables()[0]
	require.Len(t, schedule.Rows, 3)
	assert.Equal(t, "1", schedule.Rows[1].Cells[0].GetText())
	assert.Equal(t, "10/04/2026", schedule.Rows[1].Cells[1].GetText())
	assert.Equal(t, "R$ 90.000,00", schedule.Rows[1].Cells[2].GetText())
	assert.Equal(t, "financiamento bancário", schedule.Rows[2].Cells[3].GetText())

	// Schedule rows are forced to the compact font size.
	run := schedule.Rows[1].Cells[0].Paragraphs[0].Runs[0]
	require.NotNil(t, run.Properties)
	require.NotNil(t, run.Properties.Size)
	assert.Equal(t, "18", run.Properties.Size.Val)
}

func TestSalePromiseWithEncumbrance(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "promessa_compra_venda.docx", promiseTemplateBody())

	payload := promisePayload()
	payload.Encumbrance = &Encumbrance{Kind: "alienação fiduciária", Beneficiary: "Banco Alfa S.A."}
	payload.FGTSFinancing = false
	payload.Commentary = ""

	out, err := svc.SalePromise(context.Background(), payload)
	require.NoError(t, err)

	text := allText(openOutput(t, out))
	assert.Contains(t, text, "gravado com alienação fiduciária em favor de Banco Alfa S.A.")
	assert.NotContains(t, text, "FGTS")
	assert.NotContains(t, text, "As partes fazem constar")
}

func TestSalePromiseMalformedTemplate(t *testing.T) {
	svc, templates, _ := newTestService(t)
	// Schedule table lacks the model row.
	body := strings.Replace(promiseTemplateBody(),
		wtr(wtc("{{parcela_numero}}"), wtc("{{parcela_vencimento}}"), wtc("{{parcela_valor}}"), wtc("{{parcela_forma}}")),
		"", 1)
	writeTemplate(t, templates, "promessa_compra_venda.docx", body)

	_, err := svc.SalePromise(context.Background(), promisePayload())
	var terr *fill.TemplateError
	require.ErrorAs(t, err, &terr)
}

func brokerageTemplateBody() string {
	split := wtbl(
		wtr(wtc("Corretor"), wtc("Percentual"), wtc("Valor")),
		wtr(wtc("{{corretor_divisao}}"), wtc("{{percentual_divisao}}"), wtc("{{valor_divisao}}")),
	)
	return wp("CONTRATO DE CORRETAGEM") +
		wtbl(wtr(wtc("Parte: {{nome_parte}}"), wtc("CPF: {{cpf_parte}}"))) +
		wp("{{partes_contratantes}}") +
		wtbl(wtr(wtc("Corretor: {{nome_corretor}}"), wtc("CRECI: {{creci_corretor}}"))) +
		wp("{{corretores}}") +
		wp("Imóvel: {{endereco}}. Comissão: {{valor_comissao}} ({{valor_comissao_extenso}}).") +
		split +
		wp("{{divisao_comissao}}") +
		wp("{{cidade}}, {{data_extenso}}.") +
		wp("Testemunha 1: {{testemunha_1_nome}} Testemunha 2: {{testemunha_2_nome}}") +
		wp("{{assinaturas_partes}}") +
		wp("{{assinaturas_corretores}}")
}

func TestBrokerageContract(t *testing.T) {
	svc, templates, _ := newTestService(t)
	writeTemplate(t, templates, "contrato_corretagem.docx", brokerageTemplateBody())

	payload := BrokerageContractPayload{
		PropertyAddress: "Rua das Acácias, 77, Campinas/SP",
		Parties: []Party{
			{Name: "Ana Souza", CPF: "111.222.333-44"},
			{Name: "Bruno Lima", CPF: "555.666.777-88"},
		},
		Brokers: []Broker{
			{Name: "Diego Ramos", CRECI: "123456-F"},
			{Name: "Elisa Duarte", CRECI: "654321-F"},
		},
		Agency:          &Agency{Name: "Imobiliária Horizonte", CNPJ: "00.000.000/0001-91"},
		CommissionValue: 27000,
		CommissionSplit: []CommissionShare{
			{BrokerName: "Diego Ramos", Percent: 60},
			{BrokerName: "Elisa Duarte", Percent: 40},
		},
		City: "Campinas",
		Date: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Witnesses: []Witness{
			{Name: "Fábio Torres", CPF: "123.123.123-12"},
			{Name: "Gilda Nunes", CPF: "321.321.321-32"},
		},
	}

	out, err := svc.BrokerageContract(context.Background(), payload)
	require.NoError(t, err)

	doc := openOutput(t, out)
	text := allText(doc)

	assert.Contains(t, text, "Parte: Ana Souza")
	assert.Contains(t, text, "Parte: Bruno Lima")
	assert.Contains(t, text, "Corretor: Diego Ramos")
	assert.Contains(t, text, "R$ 27.000,00")
	assert.Contains(t, text, "vinte e sete mil reais")
	assert.NotContains(t, text, "{{")

	tables := doc.Document.Body.Tables()
	// 2 party tables + 2 broker tables + split + 2 signature grids.
	require.Len(t, tables, 7)

	split := tables[4]
	require.Len(t, split.Rows, 3)
	assert.Equal(t, "60%", split.Rows[1].Cells[1].GetText())
	assert.Equal(t, "R$ 16.200,00", split.Rows[1].Cells[2].GetText())
	assert.Equal(t, "R$ 10.800,00", split.Rows[2].Cells[2].GetText())

	// The agency signs ahead of the brokers, under its CNPJ.
	brokerSignatures := tables[6]
	first := brokerSignatures.Rows[0].Cells[0].GetText()
	assert.Contains(t, first, "Nome: Imobiliária Horizonte")
	assert.Contains(t, first, "CNPJ: 00.000.000/0001-91")
	assert.Contains(t, brokerSignatures.Rows[0].Cells[1].GetText(), "CRECI: 123456-F")
}

func TestRecordExpandsBothTokenForms(t *testing.T) {
	rec := record(map[string]string{"nome": "Ana"})
	assert.Equal(t, "Ana", rec["{{nome}}"])
	assert.Equal(t, "Ana", rec["{nome}"])
}
