package aidp

import (
	"errors"
	"strings"

	env "github.com/Netflix/go-env"
)

// DefaultDriverName is the database/sql driver used to reach the Spark SQL
// engine. The databricks driver speaks the same Thrift-over-HTTP protocol the
// Simba Spark JDBC bridge uses.
const DefaultDriverName = "databricks"

// Config holds the connection configuration for AIDP. It is sourced from the
// process environment at call time and never cached between invocations.
type Config struct {
	// JDBCURL is the full connection string from the AIDP "Connection
	// details" page. Required.
	JDBCURL string `env:"AIDP_JDBC_URL"`

	// DriverJarPath is the path to the Spark JDBC driver archive
	// (e.g. SparkJDBC42.jar). Required.
	DriverJarPath string `env:"AIDP_JDBC_JAR"`

	// OCIConfigFile is a non-default path to an OCI config file. Optional;
	// appended to the connection string unless already present there.
	OCIConfigFile string `env:"AIDP_OCI_CONFIG_FILE"`

	// OCIProfile is a non-default OCI profile name. Optional; appended to
	// the connection string unless already present there.
	OCIProfile string `env:"AIDP_OCI_PROFILE"`

	// DriverName overrides the database/sql driver. Defaults to "databricks".
	DriverName string `env:"AIDP_DRIVER_NAME"`
}

// Configuration errors, raised before any connection attempt.
var (
	ErrMissingJDBCURL   = errors.New("AIDP_JDBC_URL must be set in the environment")
	ErrMissingDriverJar = errors.New("AIDP_JDBC_JAR must be set in the environment")
)

// ConfigFromEnv reads the connection configuration from the process
// environment. The environment is read fresh on every call.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the required configuration is present and applies
// defaults. No username/password is required: authentication is handled
// out-of-band via the OCI profile/token mechanism.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JDBCURL) == "" {
		return ErrMissingJDBCURL
	}
	if strings.TrimSpace(c.DriverJarPath) == "" {
		return ErrMissingDriverJar
	}
	if c.DriverName == "" {
		c.DriverName = DefaultDriverName
	}
	return nil
}

// ConnectionString returns the effective connection string, with the OCI
// config file and profile appended unless the URL already carries them.
// Parameters are ;-separated; a trailing separator on the URL is reused
// rather than doubled.
func (c *Config) ConnectionString() string {
	dsn := strings.TrimSpace(c.JDBCURL)
	if c.OCIConfigFile != "" && !strings.Contains(dsn, "OCIConfigFile=") {
		dsn = appendParam(dsn, "OCIConfigFile="+c.OCIConfigFile)
	}
	if c.OCIProfile != "" && !strings.Contains(dsn, "OCIProfile=") {
		dsn = appendParam(dsn, "OCIProfile="+c.OCIProfile)
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if strings.HasSuffix(dsn, ";") {
		return dsn + param
	}
	return dsn + ";" + param
}
