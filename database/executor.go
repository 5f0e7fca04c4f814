package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	aidp "github.com/aiops/aidp-sql-tool"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor runs a single query against AIDP: it opens a connection, issues
// the optional catalog/schema preamble, executes the main SQL and drains up
// to the request's row cap. Connection and rows are scoped to the call and
// released on every exit path. Failures from the driver propagate to the
// caller unmodified in substance - no retry, no partial results.
type Executor struct {
	connector *Connector
	logger    *zap.Logger
}

// NewExecutor creates an executor using the given connector.
// A nil logger defaults to a no-op logger.
func NewExecutor(connector *Connector, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{connector: connector, logger: logger}
}

// Execute runs the request and returns the fetched rows as records.
// If a preamble statement fails, the main query is never attempted.
func (e *Executor) Execute(ctx context.Context, req aidp.QueryRequest) (*aidp.QueryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	queryID := uuid.New().String()
	e.logger.Info("Executing query",
		zap.String("query_id", queryID),
		zap.String("sql", req.SQL),
		zap.String("catalog", req.Catalog),
		zap.String("schema", req.Schema),
		zap.Int("max_rows", req.MaxRows),
	)
	startTime := time.Now()

	db, err := e.connector.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	// Pin a single session so the USE statements apply to the main query.
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}
	defer conn.Close()

	for _, stmt := range preamble(req) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	rows, err := conn.QueryContext(ctx, req.SQL)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	// Closing early after the row cap also releases the server-side cursor.
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &aidp.QueryResult{Rows: make([]aidp.Record, 0), Columns: columns}
	for len(result.Rows) < req.MaxRows && rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(aidp.Record, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case nil:
				record[col] = nil
			case []byte:
				record[col] = string(v)
			default:
				record[col] = v
			}
		}
		result.Rows = append(result.Rows, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	e.logger.Info("Query finished",
		zap.String("query_id", queryID),
		zap.Int("rowcount", result.RowCount),
		zap.Duration("duration", time.Since(startTime)),
	)
	return result, nil
}

// preamble returns the catalog/schema selection statements for the request,
// catalog first. Spark supports both USE statements in recent versions.
func preamble(req aidp.QueryRequest) []string {
	var stmts []string
	if req.Catalog != "" {
		stmts = append(stmts, "USE CATALOG "+quoteIdentifier(req.Catalog))
	}
	if req.Schema != "" {
		stmts = append(stmts, "USE "+quoteIdentifier(req.Schema))
	}
	return stmts
}

// quoteIdentifier backtick-quotes a Spark SQL identifier, doubling any
// embedded backticks.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
