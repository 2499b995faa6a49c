package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tally/internal/codec"
	"tally/internal/core"
	"tally/internal/stats"
	"tally/internal/store"
)

// Request bodies are small JSON documents; cap reads defensively.
const maxBodyBytes = 4 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps domain errors onto HTTP statuses: a missing id is
// 404, a validation failure 422, a malformed payload 400.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, codec.ErrMalformedPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrDuplicateName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parsePeriod reads the period query parameter, defaulting to month.
func parsePeriod(r *http.Request) (stats.Period, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return stats.Month, true
	}
	p := stats.Period(v)
	return p, p.IsValid()
}

// parseIntParam reads a bounded positive integer query parameter.
func parseIntParam(r *http.Request, name string, def, max int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// refInstant reads an optional ref=YYYY-MM-DD parameter, falling back to
// the injected clock. Deterministic aggregates need a pinnable reference.
func (s *Server) refInstant(r *http.Request) (time.Time, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("ref"))
	if v == "" {
		return s.clock.Now(), true
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return time.Time{}, false
	}
	return d.Time, true
}
