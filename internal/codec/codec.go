// Package codec serializes transaction lists to CSV and JSON and parses
// the same formats back into records.
//
// Import is row-tolerant for CSV: a malformed row is skipped and reported,
// the rest of the file still loads. JSON import aborts when the top-level
// shape is not an array of objects. Neither path trusts inbound ids; the
// store's bulk-create assigns fresh ones.
package codec

import (
	"errors"
	"fmt"

	"tally/internal/core"
)

// Format identifies a supported serialization format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

func (f Format) IsValid() bool {
	return f == CSV || f == JSON
}

// ErrMalformedPayload marks an import payload whose overall shape is wrong:
// a missing CSV header, or JSON whose top level is not an array of objects.
var ErrMalformedPayload = errors.New("malformed payload")

// RowError reports a single skipped row.
type RowError struct {
	Line   int // 1-based record number in the source payload
	Reason error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Reason)
}

func (e RowError) Unwrap() error {
	return e.Reason
}

// ImportResult carries the accepted records and the rows that were skipped.
// Accepted records have no ids; bulk-create assigns them.
type ImportResult struct {
	Records []core.Transaction
	Skipped []RowError
}
