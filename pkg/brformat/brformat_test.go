package brformat

import (
	"testing"
	"time"
)

func ptBR() *Formatter {
	return New(BrazilianPortuguese())
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 1,00"},
		{1234.5, "R$ 1.234,50"},
		{1250000.4, "R$ 1.250.000,40"},
	}
	f := ptBR()
	for _, tt := range tests {
		if got := f.Currency(tt.amount); got != tt.want {
			t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	f := ptBR()
	if got := f.Percent(6); got != "6%" {
		t.Errorf("Percent(6) = %q", got)
	}
	if got := f.Percent(6.5); got != "6,5%" {
		t.Errorf("Percent(6.5) = %q", got)
	}
}

func TestLongDate(t *testing.T) {
	f := ptBR()
	d := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)
	if got := f.LongDate(d); got != "02 de setembro de 2026" {
		t.Errorf("LongDate = %q", got)
	}
	if got := f.ShortDate(d); got != "02/09/2026" {
		t.Errorf("ShortDate = %q", got)
	}
}

func TestCardinal(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{1, "um"},
		{15, "quinze"},
		{20, "vinte"},
		{21, "vinte e um"},
		{100, "cem"},
		{101, "cento e um"},
		{250, "duzentos e cinquenta"},
		{999, "novecentos e noventa e nove"},
		{1000, "um mil"},
		{1250, "um mil, duzentos e cinquenta"},
		{2000, "dois mil"},
		{2045, "dois mil e quarenta e cinco"},
		{1000000, "um milhão"},
		{2500000, "dois milhões e quinhentos mil"},
	}
	for _, tt := range tests {
		if got := Cardinal(tt.n); got != tt.want {
			t.Errorf("Cardinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCurrencyInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "zero real"},
		{1, "um real"},
		{0.01, "um centavo"},
		{0.5, "cinquenta centavos"},
		{2, "dois reais"},
		{2.5, "dois reais e cinquenta centavos"},
		{1250.4, "um mil, duzentos e cinquenta reais e quarenta centavos"},
		{1000000, "um milhão de reais"},
	}
	f := ptBR()
	for _, tt := range tests {
		if got := f.CurrencyInWords(tt.amount); got != tt.want {
			t.Errorf("CurrencyInWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.345,67", 12345.67, false},
		{"12,34", 12.34, false},
		{"1234", 1234, false},
		{"1234.56", 1234.56, false},
		{"R$ 1.234,56", 1234.56, false},
		{" 42 ", 42, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDecimal(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
