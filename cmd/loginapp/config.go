package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sakhura/loginapp/pkg/ftpserver"
)

// Config holds the application configuration
type Config struct {
	// User data
	SeedFile       string `json:"seed_file,omitempty" yaml:"seed_file,omitempty"`               // Optional: users to seed the store with instead of the defaults
	RemoteURL      string `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`             // Optional: HTTP secondary authenticator
	RemoteSeedFile string `json:"remote_seed_file,omitempty" yaml:"remote_seed_file,omitempty"` // Optional: file-backed secondary authenticator
	RemoteTimeout  int    `json:"remote_timeout" yaml:"remote_timeout"`                         // Seconds before a remote call is abandoned

	// Caller settings
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"` // Failed logins allowed before the prompt blocks

	// FTP front end
	ListenAddr       string `json:"listen_addr" yaml:"listen_addr"`
	Port             int    `json:"port" yaml:"port"`
	RootDir          string `json:"root_dir" yaml:"root_dir"`         // Root directory served over FTP
	HomePattern      string `json:"home_pattern" yaml:"home_pattern"` // Pattern for user home directories (e.g., "users/%s")
	PassivePortRange [2]int `json:"passive_port_range" yaml:"passive_port_range"`
	IdleTimeout      int    `json:"idle_timeout" yaml:"idle_timeout"` // Connection idle timeout in seconds
	TLSCertFile      string `json:"tls_cert_file,omitempty" yaml:"tls_cert_file,omitempty"`
	TLSKeyFile       string `json:"tls_key_file,omitempty" yaml:"tls_key_file,omitempty"`

	// Logging settings
	AccessLogPath string `json:"access_log_path,omitempty" yaml:"access_log_path,omitempty"`
	AppLogPath    string `json:"app_log_path,omitempty" yaml:"app_log_path,omitempty"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogMaxSizeMB  int    `json:"log_max_size_mb" yaml:"log_max_size_mb"` // Log files rotate past this size, negative disables rotation

	// Status files
	StatusDir      string `json:"status_dir,omitempty" yaml:"status_dir,omitempty"` // Optional: directory for serve health files
	StatusInterval int    `json:"status_interval" yaml:"status_interval"`           // Seconds between running file updates
}

// DefaultConfig returns a Config with every default applied
func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(fs afero.Fs, path string, config *Config) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	// Relative paths are resolved against the config file location
	configDir := filepath.Dir(path)
	for _, p := range []*string{
		&config.SeedFile,
		&config.RemoteSeedFile,
		&config.RootDir,
		&config.TLSCertFile,
		&config.TLSKeyFile,
		&config.AccessLogPath,
		&config.AppLogPath,
		&config.StatusDir,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}

	config.applyDefaults()
	return config.validate()
}

func (c *Config) applyDefaults() {
	if c.RemoteTimeout == 0 {
		c.RemoteTimeout = 5
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.Port == 0 {
		c.Port = 2121
	}
	if c.HomePattern == "" {
		c.HomePattern = ftpserver.DefaultHomePattern
	}
	if c.PassivePortRange[0] == 0 {
		c.PassivePortRange[0] = 50000
	}
	if c.PassivePortRange[1] == 0 {
		c.PassivePortRange[1] = 50100
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 300 // 5 minutes
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 10
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = 30
	}
}

func (c *Config) validate() error {
	if c.RemoteURL != "" && c.RemoteSeedFile != "" {
		return fmt.Errorf("remote_url and remote_seed_file are mutually exclusive")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative")
	}
	if c.RemoteTimeout < 0 {
		return fmt.Errorf("remote_timeout must not be negative")
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status_interval must be positive")
	}
	return nil
}

// remoteTimeout returns RemoteTimeout as a duration
func (c *Config) remoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeout) * time.Second
}
