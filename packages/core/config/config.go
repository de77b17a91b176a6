package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read as settings.
const EnvPrefix = "HITDIFF"

// DefaultProfilesFile is used when no profiles file is configured.
const DefaultProfilesFile = "hitdiff.yaml"

// DefaultRequestsFile is used by the req command when none is configured.
const DefaultRequestsFile = "hitreq.yaml"

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitdiff.yaml",
	".hitdiff.yml",
	"hitdiff.config.yaml",
}

// Config represents the hitdiff settings
type Config struct {
	Profiles        string
	Requests        string
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
	ValidateSSL     bool
	Proxy           string
	Headers         map[string]string // Default headers for all requests
	RateLimit       float64           // requests per second, 0 for unlimited
	Output          string
	NoColor         bool
	LogLevel        string
	LogFile         string
	// Source is the config file the settings were read from, if any.
	Source string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Profiles:        DefaultProfilesFile,
		Requests:        DefaultRequestsFile,
		Timeout:         30 * time.Second,
		FollowRedirects: true,
		MaxRedirects:    10,
		ValidateSSL:     true,
		Output:          "console",
		LogLevel:        "warn",
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("profiles", d.Profiles)
	v.SetDefault("requests", d.Requests)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("follow_redirects", d.FollowRedirects)
	v.SetDefault("max_redirects", d.MaxRedirects)
	v.SetDefault("validate_ssl", d.ValidateSSL)
	v.SetDefault("proxy", d.Proxy)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("output", d.Output)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// LoadConfig loads configuration from the specified path or searches the
// current directory for one of ConfigFilenames.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return load(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory.
// Defaults and environment variables still apply when none is found.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return load(configPath)
		}
	}
	return load("")
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Profiles:        v.GetString("profiles"),
		Requests:        v.GetString("requests"),
		Timeout:         v.GetDuration("timeout"),
		FollowRedirects: v.GetBool("follow_redirects"),
		MaxRedirects:    v.GetInt("max_redirects"),
		ValidateSSL:     v.GetBool("validate_ssl"),
		Proxy:           v.GetString("proxy"),
		Headers:         v.GetStringMapString("headers"),
		RateLimit:       v.GetFloat64("rate_limit"),
		Output:          v.GetString("output"),
		NoColor:         v.GetBool("no_color"),
		LogLevel:        v.GetString("log_level"),
		LogFile:         v.GetString("log_file"),
		Source:          v.ConfigFileUsed(),
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %v", cfg.Timeout)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate_limit must not be negative, got %v", cfg.RateLimit)
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of a .env file into the process
// environment. Variables already set are kept. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
