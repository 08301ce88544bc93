package brformat

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDecimal reads a number written either in Brazilian notation
// ("1.234,56") or machine notation ("1234.56"). A comma anywhere marks
// Brazilian notation, where dots are thousands separators.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse decimal: empty input")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return v, nil
}
