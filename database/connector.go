package database

import (
	"context"
	"database/sql"
	"fmt"

	aidp "github.com/aiops/aidp-sql-tool"
	_ "github.com/databricks/databricks-sql-go"
	"go.uber.org/zap"
)

// Connector opens one connection per call against the remote Spark SQL
// engine. There is no pooling: a connection is opened, used for exactly one
// query (plus optional preamble statements), and closed.
type Connector struct {
	cfg    *aidp.Config
	logger *zap.Logger
}

// NewConnector creates a connector for the given configuration.
// A nil logger defaults to a no-op logger.
func NewConnector(cfg *aidp.Config, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{cfg: cfg, logger: logger}
}

// Open validates the configuration, builds the effective connection string
// and opens a connection handle. The handle is pinged so that connection
// errors (bad URL, unreachable host, auth rejection) surface here rather
// than on first use. The caller owns the handle and must close it.
func (c *Connector) Open(ctx context.Context) (*sql.DB, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := c.cfg.ConnectionString()
	c.logger.Debug("Opening connection",
		zap.String("driver", c.cfg.DriverName),
		zap.String("driver_jar", c.cfg.DriverJarPath),
		zap.Bool("oci_config_file_set", c.cfg.OCIConfigFile != ""),
		zap.Bool("oci_profile_set", c.cfg.OCIProfile != ""),
	)

	db, err := sql.Open(c.cfg.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	// Single-use handle: one connection, no idle reuse.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to AIDP: %w", err)
	}

	return db, nil
}
