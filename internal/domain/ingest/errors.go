package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for ingestion errors.
var (
	ErrUnsupportedMediaType = errors.New("only CSV files are allowed")
	ErrDecode               = errors.New("upload is not valid UTF-8 text")
	ErrEmptyFile            = errors.New("upload has no header row")
	ErrMissingColumns       = errors.New("missing required columns")
	ErrMalformedCSV         = errors.New("malformed CSV")
	ErrInvalidRow           = errors.New("invalid row")
	ErrTooManyRows          = errors.New("too many rows")
	ErrUnknownPolicy        = errors.New("unknown missing-value policy")
)

// MissingColumnsError names the required columns absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing required columns: " + strings.Join(e.Columns, ", ")
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// RowError reports a data row rejected by strict validation.
type RowError struct {
	Row    int      // 1-based data row index
	Fields []string // columns that failed validation
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: missing value for %s", e.Row, strings.Join(e.Fields, ", "))
}

func (e *RowError) Unwrap() error { return ErrInvalidRow }
