package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all configuration for zbxreport
type Config struct {
	Zabbix   ZabbixConfig   `yaml:"zabbix" mapstructure:"zabbix"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
}

// ZabbixConfig is how to reach and authenticate against the API
type ZabbixConfig struct {
	URL        string        `yaml:"url" mapstructure:"url"`
	User       string        `yaml:"user" mapstructure:"user"`
	Password   string        `yaml:"password,omitempty" mapstructure:"password"`
	Token      string        `yaml:"token,omitempty" mapstructure:"token"`
	SkipVerify bool          `yaml:"skip_verify" mapstructure:"skip_verify"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RateLimit  float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	PingKey    string        `yaml:"ping_key" mapstructure:"ping_key"`
}

// ReportConfig selects what to report on and how to render it
type ReportConfig struct {
	Group   string `yaml:"group" mapstructure:"group"`
	Days    int    `yaml:"days" mapstructure:"days"`
	Output  string `yaml:"output,omitempty" mapstructure:"output"`
	Title   string `yaml:"title" mapstructure:"title"`
	Chart   bool   `yaml:"chart" mapstructure:"chart"`
	Summary bool   `yaml:"summary" mapstructure:"summary"`
}

// HistoryConfig controls the local run history database
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	Path          string `yaml:"path" mapstructure:"path"`
	RetentionDays int    `yaml:"retention_days" mapstructure:"retention_days"`
}

// ResolverConfig enables DNS lookups for DNS-only host interfaces
type ResolverConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Server  string        `yaml:"server,omitempty" mapstructure:"server"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig is used by the serve command
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// Default values
const (
	DefaultDays          = 30
	DefaultTitle         = "Asset Availability Report"
	DefaultPingKey       = "icmpping"
	DefaultTimeout       = 30 * time.Second
	DefaultRateLimit     = 10.0
	DefaultHistoryPath   = "zbxreport.db"
	DefaultRetentionDays = 365
	DefaultPort          = 8080
)

// Default returns a Config populated with defaults
func Default() *Config {
	return &Config{
		Zabbix: ZabbixConfig{
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
			PingKey:   DefaultPingKey,
		},
		Report: ReportConfig{
			Days:  DefaultDays,
			Title: DefaultTitle,
			Chart: true,
		},
		History: HistoryConfig{
			Path:          DefaultHistoryPath,
			RetentionDays: DefaultRetentionDays,
		},
		Resolver: ResolverConfig{
			Timeout: 3 * time.Second,
		},
		Server: ServerConfig{
			Port: DefaultPort,
		},
	}
}

// ValidateConnection checks the fields needed to talk to Zabbix
func (c *Config) ValidateConnection() error {
	z := c.Zabbix
	if strings.TrimSpace(z.URL) == "" {
		return fmt.Errorf("zabbix server url is required")
	}
	u, err := url.Parse(z.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("zabbix server url %q must be an http(s) url", z.URL)
	}
	if z.Token == "" {
		if strings.TrimSpace(z.User) == "" {
			return fmt.Errorf("api user is required")
		}
		if z.Password == "" {
			return fmt.Errorf("api password is required")
		}
	}
	if z.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if z.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

// ValidateReport checks the host group and period
func (c *Config) ValidateReport() error {
	if strings.TrimSpace(c.Report.Group) == "" {
		return fmt.Errorf("host group name is required")
	}
	if c.Report.Days <= 0 {
		return fmt.Errorf("period must be a positive number of days")
	}
	return nil
}

// Validate checks if the configuration is valid for generating a report
func (c *Config) Validate() error {
	if err := c.ValidateConnection(); err != nil {
		return err
	}
	if err := c.ValidateReport(); err != nil {
		return err
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history database path cannot be empty")
	}
	return nil
}

// ValidateServer checks settings used by the serve command
func (c *Config) ValidateServer() error {
	if err := c.ValidateConnection(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.History.Path == "" {
		return fmt.Errorf("history database path cannot be empty")
	}
	return nil
}
