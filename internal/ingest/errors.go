package ingest

import (
	"fmt"
	"strings"
)

// DecodeError means no encoding in the fallback list could parse the bytes.
type DecodeError struct {
	Attempted []string
	Last      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode file with any encoding (tried %s): %v",
		strings.Join(e.Attempted, ", "), e.Last)
}

func (e *DecodeError) Unwrap() error { return e.Last }

// StructuralError means a required header row could not be located.
// Columns and Preview give the caller something to debug with.
type StructuralError struct {
	Reason  string
	Columns []string
	Preview []string
}

func (e *StructuralError) Error() string {
	msg := e.Reason
	if len(e.Columns) > 0 {
		msg += "; available columns: " + strings.Join(e.Columns, ", ")
	}
	return msg
}

// MissingColumnError means required canonical columns were absent after
// mapping. Fatal for single-table shapes; per-sub-table it only skips
// that sub-table.
type MissingColumnError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	msg := "missing required columns: " + strings.Join(e.Missing, ", ")
	if len(e.Available) > 0 {
		msg += "; available columns: " + strings.Join(e.Available, ", ")
	}
	return msg
}

// EmptyResultError means every row was filtered out as invalid or a
// summary row. A run that produces no rows must not look successful.
type EmptyResultError struct {
	Stage string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no valid data rows remain after %s", e.Stage)
}
