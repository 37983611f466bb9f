// Package file loads the readysync configuration from a TOML file.
// Every value has a working default so a fresh install runs against
// the test environment with the standard template set.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/uwfpm/readysync/internal/core/domain"
)

// defaultTemplates is the full set of request categories mirrored by
// default. Each one is fetched independently so a failing category
// never blocks the rest.
var defaultTemplates = []string{
	"After Hours Call Center",
	"Customer Request",
	"Keys",
	"Abatement Risk Asessment",
	"Bio-Safety Cabinet Service",
	"Move Request",
	"AssetWorks Access Request",
	"Remodel Project",
	"Digger Request",
	"Vehicle Maintenance",
	"Helium / Nitrogen",
	"Capital Project Support",
	"Space Management WO",
	"Heating Plant Internal Request",
	"Physical Plant Asset Repair",
}

// Defaults for values left unset in the config file.
const (
	DefaultServer            = "test"
	DefaultTimeoutSeconds    = 60
	DefaultRequestsPerSecond = 2
	DefaultHistoryKeep       = 90
)

// CredentialsConfig names the environment variables holding the
// encrypted API credentials. Empty values fall back to the provider
// defaults (READY_ENC_KEY / READY_ENC_CREDS).
type CredentialsConfig struct {
	KeyEnv   string `toml:"key_env"`
	CredsEnv string `toml:"creds_env"`
}

// Config holds everything the CLI needs to run a reconciliation.
type Config struct {
	// Server selects the AssetWorks environment ("test" or "prod").
	Server string `toml:"server"`

	// Endpoint overrides the derived reporting URL when set. Useful
	// for pointing at a local stub.
	Endpoint string `toml:"endpoint"`

	// DataDir is where daily files, the baseline and the run history
	// database live. Defaults to ~/.readysync/data.
	DataDir string `toml:"data_dir"`

	// TimeoutSeconds bounds each individual API call.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerSecond throttles outbound API traffic.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Templates is the set of request categories to mirror.
	Templates []string `toml:"templates"`

	// HistoryKeep is how many run records to retain.
	HistoryKeep int `toml:"history_keep"`

	Credentials CredentialsConfig `toml:"credentials"`
}

// Default returns a Config populated with every default value.
func Default() *Config {
	return &Config{
		Server:            DefaultServer,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Templates:         append([]string(nil), defaultTemplates...),
		HistoryKeep:       DefaultHistoryKeep,
	}
}

// DefaultPath returns the default config file location,
// ~/.readysync/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".readysync", "config.toml"), nil
}

// Load reads the config file at path, filling in defaults for any
// value the file omits. If path is empty the default location is used.
// A missing file is not an error: the full default config is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server != "test" && c.Server != "prod" {
		return fmt.Errorf("%w: server must be \"test\" or \"prod\", got %q", domain.ErrInvalidInput, c.Server)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be positive", domain.ErrInvalidInput)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests_per_second must be positive", domain.ErrInvalidInput)
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("%w: templates must not be empty", domain.ErrInvalidInput)
	}
	return nil
}

// EndpointURL returns the reporting endpoint for the configured
// environment. An explicit Endpoint override wins. The production URL
// drops the environment suffix from the hostname.
func (c *Config) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	server := c.Server
	if server == "prod" {
		server = ""
	}
	return fmt.Sprintf("https://uwisc%s.assetworks.cloud/ready/api/reporting/request?", server)
}

// Timeout returns the per-call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveDataDir returns the data directory, creating it if needed.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".readysync", "data")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dir, nil
}
