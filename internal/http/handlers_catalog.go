package http

import (
	"encoding/json"
	"net/http"

	"tally/internal/core"
	"tally/internal/store"
)

type categoryPayload struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

func toCategoryPayload(c core.Category) categoryPayload {
	return categoryPayload{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
	}
}

func toCategoryPayloads(records []core.Category) []categoryPayload {
	out := make([]categoryPayload, 0, len(records))
	for _, c := range records {
		out = append(out, toCategoryPayload(c))
	}
	return out
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if typ := r.URL.Query().Get("type"); typ != "" {
		parsed, err := core.ParseTransactionType(typ)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown type")
			return
		}
		writeJSON(w, http.StatusOK, toCategoryPayloads(s.categories.ListByType(parsed)))
		return
	}
	writeJSON(w, http.StatusOK, toCategoryPayloads(s.categories.List()))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := s.catalog.CreateCategory(r.Context(), core.Category{
		Name:  req.Name,
		Type:  typ,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryPayload(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.catalog.UpdateCategory(r.Context(), r.PathValue("id"), store.CategoryPatch{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryPayload(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.catalog.DeleteCategory(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetCategories(w http.ResponseWriter, r *http.Request) {
	kept := s.catalog.ResetCategories(r.Context())
	writeJSON(w, http.StatusOK, toCategoryPayloads(kept))
}

type recurringPayload struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Frequency   string      `json:"frequency"`
	NextDate    string      `json:"nextDate"`
	IsActive    bool        `json:"isActive"`
	IsDefault   bool        `json:"isDefault"`
	Description string      `json:"description,omitempty"`
}

func toRecurringPayload(r core.RecurringTransaction) recurringPayload {
	return recurringPayload{
		ID:          r.ID,
		Title:       r.Title,
		Amount:      json.Number(r.Amount.String()),
		Type:        string(r.Type),
		Category:    r.Category,
		Frequency:   string(r.Frequency),
		NextDate:    r.NextDate.Format(),
		IsActive:    r.IsActive,
		IsDefault:   r.IsDefault,
		Description: r.Description,
	}
}

func toRecurringPayloads(records []core.RecurringTransaction) []recurringPayload {
	out := make([]recurringPayload, 0, len(records))
	for _, r := range records {
		out = append(out, toRecurringPayload(r))
	}
	return out
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		writeJSON(w, http.StatusOK, toRecurringPayloads(s.recurring.ListActive()))
		return
	}
	writeJSON(w, http.StatusOK, toRecurringPayloads(s.recurring.List()))
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseMoney(req.Amount.String())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	nextDate, err := core.ParseDate(req.NextDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := s.catalog.CreateRecurring(r.Context(), core.RecurringTransaction{
		Title:       req.Title,
		Amount:      amount,
		Type:        typ,
		Category:    req.Category,
		Frequency:   core.Frequency(req.Frequency),
		NextDate:    nextDate,
		IsActive:    req.IsActive,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringPayload(created))
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string      `json:"title"`
		Amount      *json.Number `json:"amount"`
		Type        *string      `json:"type"`
		Category    *string      `json:"category"`
		Frequency   *string      `json:"frequency"`
		NextDate    *string      `json:"nextDate"`
		IsActive    *bool        `json:"isActive"`
		Description *string      `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := store.RecurringPatch{
		Title:       req.Title,
		Category:    req.Category,
		IsActive:    req.IsActive,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := core.ParseMoney(req.Amount.String())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		patch.Amount = &amount
	}
	if req.Type != nil {
		typ, err := core.ParseTransactionType(*req.Type)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		patch.Type = &typ
	}
	if req.Frequency != nil {
		freq := core.Frequency(*req.Frequency)
		patch.Frequency = &freq
	}
	if req.NextDate != nil {
		nextDate, err := core.ParseDate(*req.NextDate)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		patch.NextDate = &nextDate
	}

	updated, err := s.catalog.UpdateRecurring(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringPayload(updated))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	s.catalog.DeleteRecurring(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	toggled, err := s.catalog.ToggleRecurring(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringPayload(toggled))
}

func (s *Server) handleResetRecurring(w http.ResponseWriter, r *http.Request) {
	kept := s.catalog.ResetRecurring(r.Context())
	writeJSON(w, http.StatusOK, toRecurringPayloads(kept))
}

type budgetPayload struct {
	Category string      `json:"category"`
	Limit    json.Number `json:"limit"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets := s.budgets.List()
	out := make([]budgetPayload, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetPayload{
			Category: b.Category,
			Limit:    json.Number(b.Limit.String()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit json.Number `json:"limit"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit, err := core.ParseMoney(req.Limit.String())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	category := r.PathValue("category")
	if err := s.catalog.SetBudget(r.Context(), category, limit); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetPayload{Category: category, Limit: json.Number(limit.String())})
}

func (s *Server) handleRemoveBudget(w http.ResponseWriter, r *http.Request) {
	s.catalog.RemoveBudget(r.Context(), r.PathValue("category"))
	w.WriteHeader(http.StatusNoContent)
}
