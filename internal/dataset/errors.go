package dataset

import (
	"fmt"
	"strings"
)

// LoadError is fatal: a required source file is missing, unreadable or
// structurally unusable. The pipeline produces no partial state.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErr(source string, err error) *LoadError {
	return &LoadError{Source: source, Err: err}
}

func loadErrf(source, format string, args ...any) *LoadError {
	return &LoadError{Source: source, Err: fmt.Errorf(format, args...)}
}

// SchemaWarning is non-fatal: a reference table is present but lacks the
// columns needed for its join. The affected dimension is simply absent
// from the enriched set.
type SchemaWarning struct {
	Table          string   `json:"table"`
	MissingColumns []string `json:"missing_columns"`
}

func (w SchemaWarning) String() string {
	return fmt.Sprintf("table %s is missing columns: %s", w.Table, strings.Join(w.MissingColumns, ", "))
}
