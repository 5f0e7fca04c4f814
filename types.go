package aidp

import (
	"errors"
	"strings"
)

// DefaultMaxRows is the client-side row cap applied when a request does not
// specify one.
const DefaultMaxRows = 1000

// Record is a single result row, keyed by column name. Values are
// JSON-serializable: []byte column values are normalized to string during
// scanning.
type Record map[string]interface{}

// QueryRequest represents a single SQL query against AIDP.
type QueryRequest struct {
	// SQL is the statement to run (Spark SQL / SQL-92). Required.
	SQL string `json:"sql"`

	// Catalog optionally selects a catalog via USE CATALOG before the query.
	Catalog string `json:"catalog,omitempty"`

	// Schema optionally selects a schema (database) via USE before the query.
	Schema string `json:"schema,omitempty"`

	// MaxRows bounds the number of rows fetched client-side.
	// Defaults to DefaultMaxRows when zero or negative.
	MaxRows int `json:"max_rows,omitempty"`
}

// ErrEmptySQL is returned when a request carries no SQL statement.
var ErrEmptySQL = errors.New("sql statement must not be empty")

// Validate checks the request and applies the default row cap.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.SQL) == "" {
		return ErrEmptySQL
	}
	if r.MaxRows <= 0 {
		r.MaxRows = DefaultMaxRows
	}
	return nil
}

// QueryResult represents the rows returned by a query.
// RowCount always equals len(Rows) and reflects the number of rows actually
// fetched, capped by the request's MaxRows - not the total available on the
// server.
type QueryResult struct {
	Rows     []Record `json:"rows"`
	RowCount int      `json:"rowcount"`

	// Columns preserves the server-returned column order for tabular output
	// formats. It is not part of the tool's JSON contract.
	Columns []string `json:"-"`
}
