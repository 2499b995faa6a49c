package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"tally/internal/core"
	"tally/internal/stats"
	"tally/internal/store"
)

type transactionPayload struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Description string      `json:"description,omitempty"`
}

func toTransactionPayload(t core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          t.ID,
		Title:       t.Title,
		Amount:      json.Number(t.Amount.String()),
		Type:        string(t.Type),
		Category:    t.Category,
		Date:        t.Date.Format(),
		Description: t.Description,
	}
}

func toTransactionPayloads(records []core.Transaction) []transactionPayload {
	out := make([]transactionPayload, 0, len(records))
	for _, t := range records {
		out = append(out, toTransactionPayload(t))
	}
	return out
}

func (p transactionPayload) toTransaction() (core.Transaction, error) {
	amount, err := core.ParseMoney(p.Amount.String())
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	typ, err := core.ParseTransactionType(p.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Title:       p.Title,
		Amount:      amount,
		Type:        typ,
		Category:    p.Category,
		Date:        date,
		Description: p.Description,
	}, nil
}

// matchesQuery reports whether a transaction matches a lowercased
// free-text query: substring over title, category, description and the
// decimal amount.
func matchesQuery(t core.Transaction, query string) bool {
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Category), query) ||
		strings.Contains(strings.ToLower(t.Description), query) ||
		strings.Contains(t.Amount.String(), query)
}

// handleListTransactions returns the collection newest-first, optionally
// narrowed by period, type, category and free-text search.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	records := s.transactions.List()

	if p, ok := parsePeriod(r); r.URL.Query().Get("period") != "" {
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown period")
			return
		}
		ref, ok := s.refInstant(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid ref date")
			return
		}
		records = stats.FilterByPeriod(records, p, ref)
	}

	if typ := r.URL.Query().Get("type"); typ != "" {
		parsed, err := core.ParseTransactionType(typ)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown type")
			return
		}
		filtered := records[:0:0]
		for _, t := range records {
			if t.Type == parsed {
				filtered = append(filtered, t)
			}
		}
		records = filtered
	}

	if category := r.URL.Query().Get("category"); category != "" {
		filtered := records[:0:0]
		for _, t := range records {
			if t.Category == category {
				filtered = append(filtered, t)
			}
		}
		records = filtered
	}

	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := records[:0:0]
		for _, t := range records {
			if matchesQuery(t, q) {
				filtered = append(filtered, t)
			}
		}
		records = filtered
	}

	writeJSON(w, http.StatusOK, toTransactionPayloads(records))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := req.toTransaction()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := s.txService.Create(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, toTransactionPayload(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionPayload(t))
}

type transactionPatchPayload struct {
	Title       *string      `json:"title"`
	Amount      *json.Number `json:"amount"`
	Type        *string      `json:"type"`
	Category    *string      `json:"category"`
	Date        *string      `json:"date"`
	Description *string      `json:"description"`
}

func (p transactionPatchPayload) toPatch() (store.TransactionPatch, error) {
	patch := store.TransactionPatch{
		Title:       p.Title,
		Category:    p.Category,
		Description: p.Description,
	}
	if p.Amount != nil {
		amount, err := core.ParseMoney(p.Amount.String())
		if err != nil {
			return store.TransactionPatch{}, err
		}
		patch.Amount = &amount
	}
	if p.Type != nil {
		typ, err := core.ParseTransactionType(*p.Type)
		if err != nil {
			return store.TransactionPatch{}, err
		}
		patch.Type = &typ
	}
	if p.Date != nil {
		date, err := core.ParseDate(*p.Date)
		if err != nil {
			return store.TransactionPatch{}, err
		}
		patch.Date = &date
	}
	return patch, nil
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPatchPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := s.txService.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, toTransactionPayload(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.txService.Delete(r.Context(), r.PathValue("id"))
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.txService.DeleteBatch(r.Context(), req.IDs)
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
