package services

import (
	"context"
	"log/slog"

	"tally/internal/codec"
)

// ImportService parses an uploaded payload and commits the parsed rows as
// a single batch. Malformed payloads abort; bad rows are skipped and
// reported.
type ImportService struct {
	transactions *TransactionService
}

func NewImportService(transactions *TransactionService) *ImportService {
	return &ImportService{transactions: transactions}
}

// ImportSummary reports what an import did. Skipped rows are rendered as
// strings so the summary serializes cleanly.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// Import parses payload in the given format and appends the resulting
// records. Inbound ids are ignored; every record gets a fresh one.
func (s *ImportService) Import(ctx context.Context, format codec.Format, payload string) (ImportSummary, error) {
	var (
		result codec.ImportResult
		err    error
	)
	switch format {
	case codec.JSON:
		result, err = codec.ImportJSON(payload)
	default:
		result, err = codec.ImportCSV(payload)
	}
	if err != nil {
		return ImportSummary{}, err
	}

	created, err := s.transactions.CreateBatch(ctx, result.Records)
	if err != nil {
		return ImportSummary{}, err
	}

	slog.InfoContext(ctx, "Import complete",
		"format", string(format),
		"imported", len(created),
		"skipped", len(result.Skipped))

	summary := ImportSummary{Imported: len(created)}
	for _, rowErr := range result.Skipped {
		summary.Skipped = append(summary.Skipped, rowErr.Error())
	}
	return summary, nil
}
