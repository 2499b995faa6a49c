package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"tally/internal/core"
)

// jsonTransaction is the wire shape of one exported record.
type jsonTransaction struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Amount      jsonAmount `json:"amount"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Description string     `json:"description,omitempty"`
}

// jsonAmount marshals Money as a plain decimal number ("15.99") so the
// export is exact and human-readable; no float round-tripping of cents.
type jsonAmount core.Money

func (a jsonAmount) MarshalJSON() ([]byte, error) {
	return []byte(core.Money(a).String()), nil
}

func (a *jsonAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	a.Cents = cents
	return nil
}

// ExportJSON serializes the transaction list as an indented JSON array,
// suitable for exact round-trip.
func ExportJSON(records []core.Transaction) (string, error) {
	out := make([]jsonTransaction, len(records))
	for i, t := range records {
		out[i] = jsonTransaction{
			ID:          t.ID,
			Title:       t.Title,
			Amount:      jsonAmount(t.Amount),
			Type:        string(t.Type),
			Category:    t.Category,
			Date:        t.Date.Format(),
			Description: t.Description,
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode transactions: %w", err)
	}
	return buf.String(), nil
}

// ImportJSON parses a JSON payload. The top level must be an array of
// objects or the whole import aborts with ErrMalformedPayload. Individual
// elements follow the same skip-and-collect policy as CSV rows; exported
// ids are ignored.
func ImportJSON(payload string) (ImportResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return ImportResult{}, fmt.Errorf("%w: top level must be an array of objects", ErrMalformedPayload)
	}

	var result ImportResult
	for i, element := range raw {
		if trimmed := bytes.TrimSpace(element); len(trimmed) == 0 || trimmed[0] != '{' {
			return ImportResult{}, fmt.Errorf("%w: element %d is not an object", ErrMalformedPayload, i+1)
		}
		var jt jsonTransaction
		if err := json.Unmarshal(element, &jt); err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: i + 1, Reason: err})
			continue
		}
		record, err := jt.toTransaction()
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: i + 1, Reason: err})
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func (jt jsonTransaction) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(jt.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", jt.Date, err)
	}
	typ, err := core.ParseTransactionType(jt.Type)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("type %q: %w", jt.Type, err)
	}
	t := core.Transaction{
		Title:       strings.TrimSpace(jt.Title),
		Amount:      core.Money(jt.Amount),
		Type:        typ,
		Category:    strings.TrimSpace(jt.Category),
		Date:        date,
		Description: jt.Description,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
