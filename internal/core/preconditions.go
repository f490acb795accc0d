package core

import "strings"

// HasDuplicateTrip reports whether a trip with the same start and end time
// already exists among the day's trips. Two submissions with identical times
// on one date are the same ride entered twice.
func HasDuplicateTrip(trips []Trip, horaInicio, horaFin string) bool {
	hi := strings.TrimSpace(horaInicio)
	hf := strings.TrimSpace(horaFin)
	for _, t := range trips {
		if strings.TrimSpace(t.HoraInicio) == hi && strings.TrimSpace(t.HoraFin) == hf {
			return true
		}
	}
	return false
}

// HasDuplicateExtra is the extra-trip variant of HasDuplicateTrip.
func HasDuplicateExtra(extras []ExtraTrip, horaInicio, horaFin string) bool {
	hi := strings.TrimSpace(horaInicio)
	hf := strings.TrimSpace(horaFin)
	for _, e := range extras {
		if strings.TrimSpace(e.HoraInicio) == hi && strings.TrimSpace(e.HoraFin) == hf {
			return true
		}
	}
	return false
}

// NextNumero returns the sequence number for a new record on a date.
func NextNumero(sameDateCount int) int {
	return sameDateCount + 1
}
