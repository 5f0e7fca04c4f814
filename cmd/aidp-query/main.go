package main

import (
	"context"
	"fmt"
	"os"

	aidp "github.com/aiops/aidp-sql-tool"
	"github.com/aiops/aidp-sql-tool/database"
	"github.com/aiops/aidp-sql-tool/formats"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	envFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aidp-query <sql>",
		Short: "Run SQL against OCI AIDP (Spark) and print the result",
		Long: `A CLI for the AIDP SQL query tool.

Runs a single SQL statement against OCI AIDP over the Spark driver bridge and
prints the result rows.

Required environment:
  AIDP_JDBC_URL  Full JDBC URL from AIDP 'Connection details'
  AIDP_JDBC_JAR  Path to the Spark JDBC jar (e.g. SparkJDBC42.jar)

Optional environment:
  AIDP_OCI_CONFIG_FILE  Non-default path to an OCI config file
  AIDP_OCI_PROFILE      Non-default OCI profile name`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _ := cmd.Flags().GetString("catalog")
			schema, _ := cmd.Flags().GetString("schema")
			maxRows, _ := cmd.Flags().GetInt("max-rows")
			format, _ := cmd.Flags().GetString("format")
			pretty, _ := cmd.Flags().GetBool("pretty")
			return runQuery(args[0], catalog, schema, maxRows, format, pretty)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file before connecting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringP("catalog", "c", "", "Catalog to select before the query (USE CATALOG)")
	rootCmd.Flags().StringP("schema", "s", "", "Schema to select before the query (USE)")
	rootCmd.Flags().IntP("max-rows", "m", aidp.DefaultMaxRows, "Maximum number of rows to fetch")
	rootCmd.Flags().StringP("format", "f", "json", "Output format: json or csv")
	rootCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runQuery(sql, catalog, schema string, maxRows int, format string, pretty bool) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := aidp.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	executor := database.NewExecutor(database.NewConnector(cfg, logger), logger)
	result, err := executor.Execute(context.Background(), aidp.QueryRequest{
		SQL:     sql,
		Catalog: catalog,
		Schema:  schema,
		MaxRows: maxRows,
	})
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return formats.WriteCSV(os.Stdout, result)
	case "json":
		return formats.WriteJSON(os.Stdout, result, pretty)
	default:
		return fmt.Errorf("unknown output format: %s (use json or csv)", format)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	// Keep stdout clean for query output.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
