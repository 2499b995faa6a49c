package http

import (
	"encoding/json"
	"net/http"

	"tally/internal/core"
	"tally/internal/stats"
)

type summaryPayload struct {
	Period  string      `json:"period"`
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
	Balance json.Number `json:"balance"`
}

// handleSummary returns period totals. Results are cached briefly; any
// mutation purges the cache.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}

	key := string(p) + "@" + core.DateOf(ref).Format()
	totals, cached := s.summaryCache.Get(key)
	if !cached {
		totals = stats.ComputeTotals(stats.FilterByPeriod(s.transactions.List(), p, ref))
		s.summaryCache.Set(key, totals)
	}

	writeJSON(w, http.StatusOK, summaryPayload{
		Period:  string(p),
		Income:  json.Number(totals.Income.String()),
		Expense: json.Number(totals.Expense.String()),
		Balance: json.Number(totals.Balance.String()),
	})
}

type categoryTotalPayload struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}

	typ := core.Expense
	if v := r.URL.Query().Get("type"); v != "" {
		parsed, err := core.ParseTransactionType(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown type")
			return
		}
		typ = parsed
	}

	records := stats.FilterByPeriod(s.transactions.List(), p, ref)
	totals := stats.GroupByCategory(records, typ)
	if limit := parseIntParam(r, "limit", 0, 100); limit > 0 {
		totals = stats.TopCategories(totals, limit)
	}

	out := make([]categoryTotalPayload, 0, len(totals))
	for _, ct := range totals {
		out = append(out, categoryTotalPayload{
			Name:   ct.Name,
			Amount: json.Number(ct.Amount.String()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}
	days := parseIntParam(r, "days", 7, 90)

	series := stats.DailySeries(s.transactions.List(), days, ref)
	type point struct {
		Label  string      `json:"label"`
		Date   string      `json:"date"`
		Amount json.Number `json:"amount"`
	}
	out := make([]point, 0, len(series))
	for _, dp := range series {
		out = append(out, point{
			Label:  dp.Label,
			Date:   dp.Date.Format(),
			Amount: json.Number(dp.Amount.String()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}
	months := parseIntParam(r, "months", 6, 24)

	series := stats.MonthlySeries(s.transactions.List(), months, ref)
	type point struct {
		Label   string      `json:"label"`
		Year    int         `json:"year"`
		Month   int         `json:"month"`
		Income  json.Number `json:"income"`
		Expense json.Number `json:"expense"`
		Net     json.Number `json:"net"`
	}
	out := make([]point, 0, len(series))
	for _, mp := range series {
		out = append(out, point{
			Label:   mp.Label,
			Year:    mp.Year,
			Month:   mp.Month,
			Income:  json.Number(mp.Income.String()),
			Expense: json.Number(mp.Expense.String()),
			Net:     json.Number(mp.Net.String()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}

	ins := stats.ComputeInsights(s.transactions.List(), ref)
	writeJSON(w, http.StatusOK, struct {
		MonthExpense json.Number `json:"monthExpense"`
		TopCategory  string      `json:"topCategory,omitempty"`
		TopAmount    json.Number `json:"topAmount"`
		DailyAverage json.Number `json:"dailyAverage"`
	}{
		MonthExpense: json.Number(ins.MonthExpense.String()),
		TopCategory:  ins.TopCategory,
		TopAmount:    json.Number(ins.TopAmount.String()),
		DailyAverage: json.Number(ins.DailyAverage.String()),
	})
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}

	totals := stats.ComputeTotals(stats.FilterByPeriod(s.transactions.List(), p, ref))
	writeJSON(w, http.StatusOK, struct {
		Period string `json:"period"`
		Score  int    `json:"score"`
	}{
		Period: string(p),
		Score:  stats.HealthScore(totals.Income, totals.Expense),
	})
}

type budgetStatusPayload struct {
	Category     string      `json:"category"`
	Spent        json.Number `json:"spent"`
	Limit        json.Number `json:"limit"`
	Percentage   float64     `json:"percentage"`
	IsOverBudget bool        `json:"isOverBudget"`
}

// handleBudgetReport reports month-to-date spending against every
// configured budget. The raw percentage is preserved above 100 so callers
// can render overage.
func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.refInstant(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ref date")
		return
	}

	monthly := stats.FilterByPeriod(s.transactions.List(), stats.Month, ref)
	spentByCategory := make(map[string]core.Money)
	for _, ct := range stats.GroupByCategory(monthly, core.Expense) {
		spentByCategory[ct.Name] = ct.Amount
	}

	budgets := s.budgets.List()
	out := make([]budgetStatusPayload, 0, len(budgets))
	for _, b := range budgets {
		status := stats.ComputeBudgetStatus(spentByCategory[b.Category], b.Limit)
		out = append(out, budgetStatusPayload{
			Category:     b.Category,
			Spent:        json.Number(status.Spent.String()),
			Limit:        json.Number(status.Limit.String()),
			Percentage:   status.Percentage,
			IsOverBudget: status.IsOverBudget,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
