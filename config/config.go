package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// EnvPrefix prefixes every environment variable read by Load (MINI_PORT, ...)
const EnvPrefix = "MINI"

// Config holds all application configuration.
type Config struct {
	Port           int    `config:"port"`
	PoolSize       int    `config:"pool.size"`
	PublicDir      string `config:"public"`
	Env            string `config:"env"`
	LogLevel       string `config:"log.level"`
	MaxConnections int    `config:"max.conns"`
	ConfigFile     string `config:"-"`
}

// Production reports whether the server runs in the production environment
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Addr returns the listen address for Port on all interfaces
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// New loads configuration from the command line and the environment. It
// exits the process on invalid input.
func New() *Config {
	cfg, err := Load(os.Args[1:], os.Environ())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// Load builds a Config from args and environ. Precedence, lowest first:
// flag defaults, the JSON file named by -config, MINI_* variables, then
// flags given explicitly on the command line.
func Load(args, environ []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("mini-server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", 9999, "HTTP server port")
	fs.IntVar(&cfg.PoolSize, "pool-size", 64, "Number of connection workers")
	fs.StringVar(&cfg.PublicDir, "public", "public", "Directory served by the default handler")
	fs.StringVar(&cfg.Env, "env", "development", "Environment (development/production)")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	fs.IntVar(&cfg.MaxConnections, "max-conns", 0, "Maximum simultaneous connections (0 = unlimited)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Optional JSON configuration file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m := NewManager()
	if cfg.ConfigFile != "" {
		if err := m.LoadFromJSON(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	m.LoadFromEnv(EnvPrefix, environ)

	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	if err := m.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("apply configuration: %w", err)
	}

	// Explicit flags win over file and environment
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool size must be positive, got %d", c.PoolSize)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("max connections must not be negative, got %d", c.MaxConnections)
	}
	return nil
}
