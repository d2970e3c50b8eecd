package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultServerURL is used when neither the config file nor the environment names a server.
const DefaultServerURL = "http://localhost:8001"

// CLIConfig is the rosterctl configuration file.
type CLIConfig struct {
	ServerURL   string       `toml:"server_url"`
	DefaultYear string       `toml:"default_year,omitempty"`
	NATSURL     string       `toml:"nats_url,omitempty"`
	Timeout     Duration     `toml:"timeout,omitempty"`
	Backup      BackupConfig `toml:"backup"`
}

// BackupConfig names where export snapshots are written.
type BackupConfig struct {
	Dir        string `toml:"dir,omitempty"`
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultCLIConfigPath returns $XDG_CONFIG_HOME/roster/config.toml,
// falling back to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultCLIConfigPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "roster", "config.toml"), nil
}

// LoadCLI reads the CLI config file at path. A missing file yields defaults.
// ROSTER_SERVER overrides server_url and ROSTER_NATS_URL overrides nats_url.
// POST: ServerURL and Timeout are always set
func LoadCLI(path string) (CLIConfig, error) {
	var cfg CLIConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return CLIConfig{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	if s := os.Getenv("ROSTER_SERVER"); s != "" {
		cfg.ServerURL = s
	}
	if s := os.Getenv("ROSTER_NATS_URL"); s != "" {
		cfg.NATSURL = s
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Timeout.Duration <= 0 {
		cfg.Timeout.Duration = 10 * time.Second
	}
	return cfg, nil
}

// SaveCLI writes cfg to path, creating the parent directory.
func SaveCLI(path string, cfg CLIConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
