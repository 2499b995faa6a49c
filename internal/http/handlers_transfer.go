package http

import (
	"io"
	"net/http"
	"strings"

	"tally/internal/codec"
	"tally/internal/log"
)

// handleExport streams the full transaction list as CSV or JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := codec.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = codec.CSV
	}
	if !format.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown format")
		return
	}

	records := s.transactions.List()
	switch format {
	case codec.JSON:
		payload, err := codec.ExportJSON(records)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
		_, _ = io.WriteString(w, payload)
	default:
		payload, err := codec.ExportCSV(records)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		_, _ = io.WriteString(w, payload)
	}
}

// handleImport parses an uploaded payload and bulk-creates the rows.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format := codec.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = codec.CSV
	}
	if !format.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown format")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	summary, err := s.importer.Import(r.Context(), format, string(body))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, summary)
}

// handleWipe empties every collection and the archive.
func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.ClearAll(r.Context(), s.transactions); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to wipe archive", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "wipe failed")
		return
	}
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
