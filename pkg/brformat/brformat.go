// Package brformat renders monetary amounts, dates and numbers the way
// Brazilian contract documents spell them: grouped digits with comma
// decimals, month names in Portuguese, and amounts written out in words.
// All locale state lives in an explicit Config; nothing here is
// process-global.
package brformat

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Config carries the locale parameters a Formatter uses. Today the only
// shipped configuration is Brazilian Portuguese, but callers pass the
// value explicitly so nothing depends on ambient locale.
type Config struct {
	Tag            language.Tag
	CurrencySymbol string
	Months         [12]string
}

// BrazilianPortuguese returns the pt-BR configuration.
func BrazilianPortuguese() Config {
	return Config{
		Tag:            language.BrazilianPortuguese,
		CurrencySymbol: "R$",
		Months: [12]string{
			"janeiro", "fevereiro", "março", "abril", "maio", "junho",
			"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
		},
	}
}

// Formatter renders values under one Config.
type Formatter struct {
	cfg     Config
	printer *message.Printer
}

// New builds a Formatter for the given configuration.
func New(cfg Config) *Formatter {
	return &Formatter{cfg: cfg, printer: message.NewPrinter(cfg.Tag)}
}

// Currency formats an amount as "R$ 1.234,56".
func (f *Formatter) Currency(amount float64) string {
	return f.cfg.CurrencySymbol + " " + f.Decimal(amount)
}

// Decimal formats a number with locale grouping and exactly two decimal
// places: "1.234,56".
func (f *Formatter) Decimal(amount float64) string {
	return f.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// Int formats an integer with locale grouping: "12.500".
func (f *Formatter) Int(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Percent formats a rate as "6,5%", dropping the fraction when the rate is
// whole.
func (f *Formatter) Percent(rate float64) string {
	if rate == float64(int64(rate)) {
		return f.printer.Sprintf("%d%%", int64(rate))
	}
	return f.printer.Sprint(number.Decimal(rate, number.MaxFractionDigits(2))) + "%"
}

// MonthName returns the configured month name.
func (f *Formatter) MonthName(m time.Month) string {
	return f.cfg.Months[m-1]
}

// LongDate spells a date the way contracts date their signature line:
// "02 de setembro de 2026".
func (f *Formatter) LongDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), f.MonthName(t.Month()), t.Year())
}

// ShortDate formats "02/09/2026".
func (f *Formatter) ShortDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// CurrencyInWords spells an amount in full, as contracts require beside
// the numeric figure: 1250.40 becomes "um mil, duzentos e cinquenta reais
// e quarenta centavos". Negative amounts are not meaningful in contract
// text and spell their absolute value.
func (f *Formatter) CurrencyInWords(amount float64) string {
	if amount < 0 {
		amount = -amount
	}
	cents := int64(amount*100 + 0.5)
	reais := cents / 100
	cents = cents % 100

	var parts []string
	switch {
	case reais == 0 && cents == 0:
		return "zero real"
	case reais == 1:
		parts = append(parts, "um real")
	case reais > 1:
		word := Cardinal(reais)
		// "um milhão de reais", not "um milhão reais".
		if reais >= 1_000_000 && reais%1_000_000 == 0 {
			parts = append(parts, word+" de reais")
		} else {
			parts = append(parts, word+" reais")
		}
	}
	switch {
	case cents == 1:
		parts = append(parts, "um centavo")
	case cents > 1:
		parts = append(parts, Cardinal(cents)+" centavos")
	}
	return strings.Join(parts, " e ")
}

var (
	units = [...]string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove",
		"dez", "onze", "doze", "treze", "catorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tens     = [...]string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	hundreds = [...]string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
		"seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// Cardinal spells a non-negative integer in Portuguese, up to the
// billions. Scale words inflect for plural ("dois milhões") and the
// "e"/comma connectives follow written contract usage.
func Cardinal(n int64) string {
	if n == 0 {
		return "zero"
	}
	if n < 0 {
		n = -n
	}

	type scale struct {
		value    int64
		singular string
		plural   string
	}
	scales := []scale{
		{1_000_000_000, "um bilhão", "bilhões"},
		{1_000_000, "um milhão", "milhões"},
		{1_000, "um mil", "mil"},
	}

	var parts []string
	var lastGroup int64
	rest := n
	for _, s := range scales {
		if rest < s.value {
			continue
		}
		count := rest / s.value
		rest = rest % s.value
		if count == 1 {
			parts = append(parts, s.singular)
		} else if s.value == 1_000 {
			parts = append(parts, belowThousand(count)+" mil")
		} else {
			parts = append(parts, belowThousand(count)+" "+s.plural)
		}
		lastGroup = count
	}
	if rest > 0 {
		parts = append(parts, belowThousand(rest))
		lastGroup = rest
	}

	// "e" joins the final group when it reads as a unit — under one
	// hundred or a round hundred ("e quarenta e cinco", "e quinhentos
	// mil"); a comma separates it otherwise.
	if len(parts) == 1 {
		return parts[0]
	}
	last := parts[len(parts)-1]
	head := strings.Join(parts[:len(parts)-1], ", ")
	if lastGroup < 100 || lastGroup%100 == 0 {
		return head + " e " + last
	}
	return head + ", " + last
}

// belowThousand spells 1..999.
func belowThousand(n int64) string {
	if n == 100 {
		return "cem"
	}
	var parts []string
	if n >= 100 {
		parts = append(parts, hundreds[n/100])
		n = n % 100
	}
	if n >= 20 {
		if n%10 == 0 {
			parts = append(parts, tens[n/10])
		} else {
			parts = append(parts, tens[n/10]+" e "+units[n%10])
		}
	} else if n > 0 {
		parts = append(parts, units[n])
	}
	return strings.Join(parts, " e ")
}
