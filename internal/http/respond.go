package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"tripcounter/internal/core"
)

const maxBodyBytes = 1 << 20

// writeJSON sends a JSON response. Encoding failures are logged, not
// surfaced; headers are already gone by then.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError sends the {"error": ...} body every non-2xx response carries.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// readJSON decodes a request body into dst, rejecting oversized payloads.
func readJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// statusForError maps domain sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrDuplicate),
		errors.Is(err, core.ErrAlreadyStarted),
		errors.Is(err, core.ErrAlreadyEnded):
		return http.StatusConflict
	case errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrNotStarted):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEndBeforeStart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyTime),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrMissingDueDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidKilometer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorCode renders the wire error token for a domain error.
func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, core.ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, core.ErrAlreadyEnded):
		return "already_ended"
	case errors.Is(err, core.ErrNotStarted):
		return "not_started"
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrEndBeforeStart):
		return "km_end_below_start"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_monto"
	case errors.Is(err, core.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, core.ErrEmptyTime):
		return "missing_time"
	case errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrMissingDueDate):
		return "missing_fields"
	case errors.Is(err, core.ErrInvalidType):
		return "invalid_tipo"
	case errors.Is(err, core.ErrInvalidKilometer):
		return "invalid_km"
	default:
		return "internal_error"
	}
}

// writeDomainError maps a domain error to its status and wire token.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), errorCode(err))
}
