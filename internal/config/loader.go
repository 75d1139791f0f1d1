package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
)

const (
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = ".zbxreport.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/zbxreport"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. ZBXREPORT_ZABBIX_PASSWORD.
	EnvPrefix = "ZBXREPORT"
	// DotEnvFile is loaded into the environment when present.
	DotEnvFile = ".env"
)

// Find locates the config file:
// 1. Explicit path (from --config flag)
// 2. .zbxreport.yaml in the current directory
// 3. ~/.config/zbxreport/config.yaml
//
// Returns an empty path when nothing is found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not accessible: "+explicit,
				"Check the path passed to --config")
		}
		return explicit, nil
	}

	if _, err := os.Stat(ConfigFileName); err == nil {
		abs, absErr := filepath.Abs(ConfigFileName)
		if absErr != nil {
			return ConfigFileName, nil
		}
		return abs, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Load builds the configuration from defaults, the config file, the
// environment (after loading .env), and finally flags.
func Load(explicit string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+path,
				"Check the file is valid YAML")
		}
	}

	if err := bindFlags(v, flags); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to bind flags", "")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check value types in "+displayPath(path))
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides are seen by
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("zabbix.url", "")
	v.SetDefault("zabbix.user", "")
	v.SetDefault("zabbix.password", "")
	v.SetDefault("zabbix.token", "")
	v.SetDefault("zabbix.skip_verify", false)
	v.SetDefault("zabbix.timeout", d.Zabbix.Timeout)
	v.SetDefault("zabbix.rate_limit", d.Zabbix.RateLimit)
	v.SetDefault("zabbix.ping_key", d.Zabbix.PingKey)

	v.SetDefault("report.group", "")
	v.SetDefault("report.days", d.Report.Days)
	v.SetDefault("report.output", "")
	v.SetDefault("report.title", d.Report.Title)
	v.SetDefault("report.chart", d.Report.Chart)
	v.SetDefault("report.summary", d.Report.Summary)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.retention_days", d.History.RetentionDays)

	v.SetDefault("resolver.enabled", d.Resolver.Enabled)
	v.SetDefault("resolver.server", "")
	v.SetDefault("resolver.timeout", d.Resolver.Timeout)

	v.SetDefault("server.port", d.Server.Port)
}

// loadDotEnv loads a .env file if one exists. Existing environment
// variables win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to load "+path,
			"Check the file uses KEY=value lines")
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "flags and environment"
	}
	return path
}
