package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tally/internal/backend"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/services"
	"tally/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	transactions := store.NewTransactionStore()
	categories := store.NewCategoryStoreWithDefaults()
	recurring := store.NewRecurringStoreWithDefaults()
	budgets := store.NewBudgetStoreWithDefaults()

	txService := services.NewTransactionService(transactions, nil, nil)
	catalog := services.NewCatalogService(categories, recurring, budgets, nil)

	b := &backend.Result{
		Transactions:       transactions,
		Categories:         categories,
		Recurring:          recurring,
		Budgets:            budgets,
		TransactionService: txService,
		CatalogService:     catalog,
		ImportService:      services.NewImportService(txService),
	}

	clock := ledger.FixedClock{Instant: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	s := NewServer(":0", b, clock, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTransactions(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/transactions",
		`{"title":"Groceries","amount":42.50,"type":"expense","category":"Food","date":"2024-03-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created["id"] == "" || created["id"] == nil {
		t.Fatal("created transaction has no id")
	}

	rec = do(s, http.MethodPost, "/api/transactions",
		`{"title":"Salary","amount":2500.00,"type":"income","category":"Salary","date":"2024-03-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second create status = %d", rec.Code)
	}

	rec = do(s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	// Newest insertion first.
	if list[0]["title"] != "Salary" {
		t.Errorf("list[0] = %v, want Salary first", list[0]["title"])
	}
}

func TestSearchTransactions(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{
		`{"title":"Grocery run","amount":42.50,"type":"expense","category":"Food","date":"2024-03-10","description":"weekly shop"}`,
		`{"title":"Salary","amount":2500.00,"type":"income","category":"Salary","date":"2024-03-01"}`,
		`{"title":"Cinema","amount":15.00,"type":"expense","category":"Entertainment","date":"2024-03-12","description":"groceries? no, popcorn"}`,
	} {
		if rec := do(s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title case-insensitive", "q=GROCERY", []string{"Grocery run"}},
		{"description match", "q=popcorn", []string{"Cinema"}},
		{"category match", "q=salar", []string{"Salary"}},
		{"amount match", "q=42.5", []string{"Grocery run"}},
		{"substring across fields", "q=grocer", []string{"Cinema", "Grocery run"}},
		{"combined with type", "q=grocer&type=expense", []string{"Cinema", "Grocery run"}},
		{"no match", "q=zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodGet, "/api/transactions?"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var list []map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
				t.Fatalf("decode list: %v", err)
			}
			if len(list) != len(tt.want) {
				t.Fatalf("got %d records, want %d (%s)", len(list), len(tt.want), rec.Body.String())
			}
			for i, title := range tt.want {
				if list[i]["title"] != title {
					t.Errorf("list[%d] = %v, want %s", i, list[i]["title"], title)
				}
			}
		})
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty title", `{"title":"  ","amount":5,"type":"expense","category":"Food","date":"2024-03-10"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"title":"X","amount":-5,"type":"expense","category":"Food","date":"2024-03-10"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"title":"X","amount":5,"type":"transfer","category":"Food","date":"2024-03-10"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"title":"X","amount":5,"type":"expense","category":"Food","date":"10/03/2024"}`, http.StatusUnprocessableEntity},
		{"not json", `not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestUpdateTransactionPartial(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/transactions",
		`{"title":"Dinner","amount":30.00,"type":"expense","category":"Food","date":"2024-03-10"}`)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = do(s, http.MethodPut, "/api/transactions/"+created.ID, `{"title":"Dinner out"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated["title"] != "Dinner out" {
		t.Errorf("title = %v, want Dinner out", updated["title"])
	}
	if updated["category"] != "Food" {
		t.Errorf("category changed: %v", updated["category"])
	}
	if updated["id"] != created.ID {
		t.Errorf("id changed: %v", updated["id"])
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	s := newTestServer(t)
	rec := do(s, http.MethodPut, "/api/transactions/999", `{"title":"X"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/transactions",
		`{"title":"Coffee","amount":3.50,"type":"expense","category":"Food","date":"2024-03-10"}`)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec = do(s, http.MethodDelete, "/api/transactions/"+created.ID, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete #%d status = %d", i+1, rec.Code)
		}
	}

	rec = do(s, http.MethodGet, "/api/transactions", "")
	var list []any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list length = %d, want 0", len(list))
	}
}

func TestSummaryReflectsMutations(t *testing.T) {
	s := newTestServer(t)

	do(s, http.MethodPost, "/api/transactions",
		`{"title":"Salary","amount":1000.00,"type":"income","category":"Salary","date":"2024-03-01"}`)

	rec := do(s, http.MethodGet, "/api/stats/summary?period=month", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var sum struct {
		Income  json.Number `json:"income"`
		Expense json.Number `json:"expense"`
		Balance json.Number `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Income.String() != "1000.00" || sum.Balance.String() != "1000.00" {
		t.Fatalf("summary = %+v, want income 1000.00", sum)
	}

	// The cache must not serve the old totals after a mutation.
	do(s, http.MethodPost, "/api/transactions",
		`{"title":"Rent","amount":700.00,"type":"expense","category":"Bills","date":"2024-03-05"}`)

	rec = do(s, http.MethodGet, "/api/stats/summary?period=month", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Expense.String() != "700.00" || sum.Balance.String() != "300.00" {
		t.Errorf("summary after mutation = %+v, want expense 700.00 balance 300.00", sum)
	}
}

func TestInvalidateStatsDropsCachedSummary(t *testing.T) {
	s := newTestServer(t)

	do(s, http.MethodPost, "/api/transactions",
		`{"title":"Salary","amount":1000.00,"type":"income","category":"Salary","date":"2024-03-01"}`)

	rec := do(s, http.MethodGet, "/api/stats/summary?period=month", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var sum struct {
		Expense json.Number `json:"expense"`
	}

	// A mutation outside the request path, the way the recurring ticker
	// materializes templates.
	_, err := s.txService.Create(context.Background(), core.Transaction{
		Title:    "Gym Membership",
		Amount:   core.Money{Cents: 3500},
		Type:     core.Expense,
		Category: "Health",
		Date:     core.NewDate(2024, 3, 15),
	})
	if err != nil {
		t.Fatalf("out-of-band create: %v", err)
	}

	rec = do(s, http.MethodGet, "/api/stats/summary?period=month", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Expense.String() != "0.00" {
		t.Fatalf("expected cached totals before invalidation, got expense %s", sum.Expense)
	}

	s.InvalidateStats()

	rec = do(s, http.MethodGet, "/api/stats/summary?period=month", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Expense.String() != "35.00" {
		t.Errorf("expense after invalidation = %s, want 35.00", sum.Expense)
	}
}

func TestSummaryPeriodBoundary(t *testing.T) {
	s := newTestServer(t)

	// Server clock is fixed at 2024-03-15: March 1 is inside the month
	// period, February 28 is not.
	do(s, http.MethodPost, "/api/transactions",
		`{"title":"In","amount":10.00,"type":"expense","category":"Food","date":"2024-03-01"}`)
	do(s, http.MethodPost, "/api/transactions",
		`{"title":"Out","amount":99.00,"type":"expense","category":"Food","date":"2024-02-28"}`)

	rec := do(s, http.MethodGet, "/api/stats/summary?period=month", "")
	var sum struct {
		Expense json.Number `json:"expense"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Expense.String() != "10.00" {
		t.Errorf("expense = %s, want 10.00", sum.Expense)
	}
}

func TestBudgetReportOverBudget(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPut, "/api/budgets/Food", `{"limit":500.00}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set budget status = %d", rec.Code)
	}

	do(s, http.MethodPost, "/api/transactions",
		`{"title":"Feast","amount":600.00,"type":"expense","category":"Food","date":"2024-03-10"}`)

	rec = do(s, http.MethodGet, "/api/budgets/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	var report []struct {
		Category     string  `json:"category"`
		Percentage   float64 `json:"percentage"`
		IsOverBudget bool    `json:"isOverBudget"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var food *struct {
		Category     string  `json:"category"`
		Percentage   float64 `json:"percentage"`
		IsOverBudget bool    `json:"isOverBudget"`
	}
	for i := range report {
		if report[i].Category == "Food" {
			food = &report[i]
		}
	}
	if food == nil {
		t.Fatal("no Food entry in report")
	}
	if food.Percentage != 120 || !food.IsOverBudget {
		t.Errorf("Food status = %+v, want 120%% over budget", *food)
	}
}

func TestCategoryDuplicateRejected(t *testing.T) {
	s := newTestServer(t)

	// Food is a default expense category.
	rec := do(s, http.MethodPost, "/api/categories", `{"name":"Food","type":"expense"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	rec = do(s, http.MethodPost, "/api/categories", `{"name":"Food","type":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("same name different type status = %d, want 201", rec.Code)
	}
}

func TestToggleRecurring(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodGet, "/api/recurring", "")
	var list []struct {
		ID       string `json:"id"`
		IsActive bool   `json:"isActive"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("no default recurring templates")
	}

	target := list[0]
	rec = do(s, http.MethodPost, "/api/recurring/"+target.ID+"/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	var toggled struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if toggled.IsActive == target.IsActive {
		t.Errorf("IsActive unchanged after toggle")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t)

	do(s, http.MethodPost, "/api/transactions",
		`{"title":"Dinner \"out\"","amount":55.00,"type":"expense","category":"Food","date":"2024-03-10","description":"with, friends"}`)

	rec := do(s, http.MethodGet, "/api/export?format=json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	exported := rec.Body.String()

	// Wipe, then import the export back.
	if rec = do(s, http.MethodDelete, "/api/data", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("wipe status = %d", rec.Code)
	}

	rec = do(s, http.MethodPost, "/api/import?format=json", exported)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}
	var summary struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("imported = %d, want 1", summary.Imported)
	}

	rec = do(s, http.MethodGet, "/api/transactions", "")
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}
	if list[0]["title"] != `Dinner "out"` || list[0]["description"] != "with, friends" {
		t.Errorf("round-trip mangled record: %v", list[0])
	}
}

func TestImportCSVPartial(t *testing.T) {
	s := newTestServer(t)

	payload := "Date,Title,Category,Type,Amount,Description\n" +
		"2024-03-10,Groceries,Food,expense,42.50,\n" +
		"2024-03-11,Broken,Food,expense,not-a-number,\n"

	rec := do(s, http.MethodPost, "/api/import?format=csv", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d", rec.Code)
	}
	var summary struct {
		Imported int      `json:"imported"`
		Skipped  []string `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Imported != 1 || len(summary.Skipped) != 1 {
		t.Errorf("summary = %+v, want 1 imported 1 skipped", summary)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := do(s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
