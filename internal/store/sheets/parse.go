package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"tripcounter/internal/core"
)

// Row parsing is tolerant: spreadsheet cells edited by hand can carry
// stray spaces, decimal commas, or localized booleans, and a bad cell
// should skip the row rather than fail the whole read.

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return cols[idx]
}

func parseCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "S/")
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return 0, false
	}
	return cents, true
}

func parseKilometers(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseFlag understands the spellings the sheet has accumulated over time.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sí", "si", "true", "1", "yes":
		return true
	}
	return false
}

func flagCell(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func centsCell(m core.Money) float64 {
	return float64(m.Cents) / 100.0
}
