package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"tally/internal/core"
)

// csvHeader is the exact export column order.
var csvHeader = []string{"Date", "Title", "Category", "Type", "Amount", "Description"}

// WriteCSV renders the transaction list in current order, one row per
// record under the fixed header. Quoting follows RFC 4180, so embedded
// quotes and commas in Title/Description survive a round-trip.
func WriteCSV(w io.Writer, records []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range records {
		row := []string{
			t.Date.Format(),
			t.Title,
			t.Category,
			string(t.Type),
			t.Amount.String(),
			t.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV is a convenience wrapper returning the payload as a string.
func ExportCSV(records []core.Transaction) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ReadCSV parses a CSV payload. Columns are mapped by header name, not
// position, so reordered exports still import. Rows with an unparseable
// amount, unknown type, bad date or empty title are skipped and collected;
// a missing required header aborts the whole import.
func ReadCSV(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return ImportResult{}, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Date", "Title", "Category", "Type", "Amount"} {
		if _, ok := cols[required]; !ok {
			return ImportResult{}, fmt.Errorf("%w: missing column %s", ErrMalformedPayload, required)
		}
	}

	var result ImportResult
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Reason: err})
			continue
		}
		record, err := rowToTransaction(row, cols)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Reason: err})
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

// ImportCSV is a convenience wrapper over ReadCSV for string payloads.
func ImportCSV(payload string) (ImportResult, error) {
	return ReadCSV(strings.NewReader(payload))
}

func rowToTransaction(row []string, cols map[string]int) (core.Transaction, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := core.ParseDate(cell("Date"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", cell("Date"), err)
	}
	typ, err := core.ParseTransactionType(cell("Type"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("type %q: %w", cell("Type"), err)
	}
	amount, err := core.ParseMoney(cell("Amount"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", cell("Amount"), err)
	}
	t := core.Transaction{
		Title:       cell("Title"),
		Amount:      amount,
		Type:        typ,
		Category:    cell("Category"),
		Date:        date,
		Description: cell("Description"),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
