package tool

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	aidp "github.com/aiops/aidp-sql-tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockTool registers a sqlmock instance under a test-unique DSN and
// returns a tool configured to open it.
func newMockTool(t *testing.T) (sqlmock.Sqlmock, *SQLQueryTool) {
	t.Helper()

	dsn := "sqlmock_tool_" + strings.ReplaceAll(t.Name(), "/", "_")
	_, mock, err := sqlmock.NewWithDSN(dsn,
		sqlmock.MonitorPingsOption(true),
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
	)
	require.NoError(t, err)

	cfg := &aidp.Config{
		JDBCURL:       dsn,
		DriverJarPath: "/opt/spark/SparkJDBC42.jar",
		DriverName:    "sqlmock",
	}
	return mock, NewWithConfig(cfg, nil)
}

func TestToolMetadata(t *testing.T) {
	queryTool := New(nil)
	assert.Equal(t, "aidp_sql_query", queryTool.Name())
	assert.Contains(t, queryTool.Description(), "AIDP")
	assert.Contains(t, queryTool.Description(), "max_rows")
}

func TestDefinition(t *testing.T) {
	def := Definition()
	assert.Equal(t, "function", def.Type)
	require.NotNil(t, def.Function)
	assert.Equal(t, "aidp_sql_query", def.Function.Name)

	params, ok := def.Function.Parameters.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"sql"}, params["required"])

	properties, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"sql", "catalog", "schema", "max_rows"} {
		assert.Contains(t, properties, name)
	}
}

func TestCallWithJSONInput(t *testing.T) {
	mock, queryTool := newMockTool(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1 AS x").
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	mock.ExpectClose()

	out, err := queryTool.Call(context.Background(), `{"sql": "SELECT 1 AS x", "max_rows": 10}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows": [{"x": 1}], "rowcount": 1}`, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallWithPreamble(t *testing.T) {
	mock, queryTool := newMockTool(t)

	mock.ExpectPing()
	mock.ExpectExec("USE CATALOG `sales`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("USE `analytics`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectClose()

	out, err := queryTool.Call(context.Background(),
		`{"sql": "SELECT id FROM orders", "catalog": "sales", "schema": "analytics"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows": [{"id": 7}], "rowcount": 1}`, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallWithBareSQLInput(t *testing.T) {
	mock, queryTool := newMockTool(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1 AS x").
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	mock.ExpectClose()

	out, err := queryTool.Call(context.Background(), "SELECT 1 AS x")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows": [{"x": 1}], "rowcount": 1}`, out)
}

func TestCallWithInvalidJSONInput(t *testing.T) {
	_, queryTool := newMockTool(t)

	_, err := queryTool.Call(context.Background(), `{"sql": `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tool input")
}

func TestCallMissingConfig(t *testing.T) {
	queryTool := NewWithConfig(&aidp.Config{}, nil)

	_, err := queryTool.Call(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, aidp.ErrMissingJDBCURL)
}

func TestCallReadsEnvironmentPerCall(t *testing.T) {
	dsn := "sqlmock_tool_env_" + t.Name()
	_, mock, err := sqlmock.NewWithDSN(dsn,
		sqlmock.MonitorPingsOption(true),
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
	)
	require.NoError(t, err)

	t.Setenv("AIDP_JDBC_URL", dsn)
	t.Setenv("AIDP_JDBC_JAR", "/opt/spark/SparkJDBC42.jar")
	t.Setenv("AIDP_DRIVER_NAME", "sqlmock")

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1 AS x").
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	mock.ExpectClose()

	out, err := New(nil).Call(context.Background(), "SELECT 1 AS x")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows": [{"x": 1}], "rowcount": 1}`, out)
}

func TestDecodeInputDefaults(t *testing.T) {
	req, err := decodeInput(`{"sql": "SELECT 1"}`)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", req.SQL)
	assert.Empty(t, req.Catalog)
	assert.Empty(t, req.Schema)
	assert.Zero(t, req.MaxRows)

	req, err = decodeInput("  SELECT 2  ")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", req.SQL)
}
