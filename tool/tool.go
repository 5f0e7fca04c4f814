// Package tool exposes AIDP SQL querying as a LangChain tool.
//
// Auth modes supported (see AIDP docs):
//   - API key / OCI profile (recommended for servers/headless)
//   - Authorization token (browser SSO; not ideal for headless)
//
// Required env:
//
//	AIDP_JDBC_URL  -> Full JDBC URL from AIDP 'Connection details'
//	AIDP_JDBC_JAR  -> Path to Spark JDBC jar (e.g., SparkJDBC42.jar)
//
// Optional env:
//
//	AIDP_OCI_CONFIG_FILE -> Non-default path to OCI config file
//	AIDP_OCI_PROFILE     -> Non-default OCI profile name
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	aidp "github.com/aiops/aidp-sql-tool"
	"github.com/aiops/aidp-sql-tool/database"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"
)

// ToolName is the callable name exposed to agent frameworks.
const ToolName = "aidp_sql_query"

const toolDescription = "Run SQL against OCI AIDP (Spark) over JDBC and return rows as JSON-safe records. " +
	"Input is a JSON object: {\"sql\": string, \"catalog\": string (optional), " +
	"\"schema\": string (optional), \"max_rows\": integer (optional, default 1000)}. " +
	"A plain string input is treated as the SQL text."

// SQLQueryTool is a LangChain tool that queries OCI AIDP via the Spark
// driver bridge. Each call reads the connection configuration from the
// environment, opens its own connection and closes it before returning, so
// concurrent callers may safely issue requests in parallel.
type SQLQueryTool struct {
	logger *zap.Logger

	// config overrides the environment when set; used in tests.
	config *aidp.Config
}

var _ tools.Tool = (*SQLQueryTool)(nil)

// New creates the AIDP SQL query tool. A nil logger defaults to a no-op
// logger.
func New(logger *zap.Logger) *SQLQueryTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLQueryTool{logger: logger}
}

// NewWithConfig creates the tool with a fixed configuration instead of
// reading the environment on every call.
func NewWithConfig(cfg *aidp.Config, logger *zap.Logger) *SQLQueryTool {
	t := New(logger)
	t.config = cfg
	return t
}

// Name implements tools.Tool.
func (t *SQLQueryTool) Name() string { return ToolName }

// Description implements tools.Tool.
func (t *SQLQueryTool) Description() string { return toolDescription }

// Call implements tools.Tool. It decodes the tool input, runs the query
// synchronously and returns the result as a JSON string of the shape
// {"rows": [...], "rowcount": N}. Asynchronous behavior is the caller's:
// run Call on a goroutine.
func (t *SQLQueryTool) Call(ctx context.Context, input string) (string, error) {
	req, err := decodeInput(input)
	if err != nil {
		return "", err
	}

	result, err := t.Run(ctx, req)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(out), nil
}

// Run executes a typed request. Configuration is read from the environment
// unless the tool was built with NewWithConfig.
func (t *SQLQueryTool) Run(ctx context.Context, req aidp.QueryRequest) (*aidp.QueryResult, error) {
	cfg := t.config
	if cfg == nil {
		var err error
		cfg, err = aidp.ConfigFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	executor := database.NewExecutor(database.NewConnector(cfg, t.logger), t.logger)
	return executor.Execute(ctx, req)
}

// decodeInput parses the tool input. Agent frameworks pass the arguments as
// a JSON object; a bare string is accepted as the SQL text for convenience.
func decodeInput(input string) (aidp.QueryRequest, error) {
	var req aidp.QueryRequest

	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
			return req, fmt.Errorf("invalid tool input: %w", err)
		}
		return req, nil
	}

	req.SQL = trimmed
	return req, nil
}

// Definition returns the function-call schema for registering the tool with
// an agent framework.
func Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        ToolName,
			Description: toolDescription,
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sql": map[string]any{
						"type":        "string",
						"description": "SQL to run against AIDP (Spark SQL / SQL-92).",
					},
					"catalog": map[string]any{
						"type":        "string",
						"description": "Optional catalog name.",
					},
					"schema": map[string]any{
						"type":        "string",
						"description": "Optional schema (database) name.",
					},
					"max_rows": map[string]any{
						"type":        "integer",
						"description": "Max rows to return. Default 1000.",
					},
				},
				"required": []string{"sql"},
			},
		},
	}
}
