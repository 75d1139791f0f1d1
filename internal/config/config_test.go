package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Zabbix.URL = "https://zabbix.example.com"
	cfg.Zabbix.User = "Admin"
	cfg.Zabbix.Password = "zabbix"
	cfg.Report.Group = "Linux servers"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing url", mutate: func(c *Config) { c.Zabbix.URL = "" }, wantErr: "url is required"},
		{name: "bad scheme", mutate: func(c *Config) { c.Zabbix.URL = "ftp://zabbix" }, wantErr: "http(s)"},
		{name: "no scheme", mutate: func(c *Config) { c.Zabbix.URL = "zabbix.example.com" }, wantErr: "http(s)"},
		{name: "missing user", mutate: func(c *Config) { c.Zabbix.User = " " }, wantErr: "user is required"},
		{name: "missing password", mutate: func(c *Config) { c.Zabbix.Password = "" }, wantErr: "password is required"},
		{name: "token replaces credentials", mutate: func(c *Config) {
			c.Zabbix.User = ""
			c.Zabbix.Password = ""
			c.Zabbix.Token = "tok"
		}},
		{name: "zero timeout", mutate: func(c *Config) { c.Zabbix.Timeout = 0 }, wantErr: "timeout"},
		{name: "negative rate", mutate: func(c *Config) { c.Zabbix.RateLimit = -1 }, wantErr: "rate limit"},
		{name: "missing group", mutate: func(c *Config) { c.Report.Group = "" }, wantErr: "host group"},
		{name: "zero days", mutate: func(c *Config) { c.Report.Days = 0 }, wantErr: "positive number of days"},
		{name: "negative days", mutate: func(c *Config) { c.Report.Days = -3 }, wantErr: "positive number of days"},
		{name: "history without path", mutate: func(c *Config) {
			c.History.Enabled = true
			c.History.Path = ""
		}, wantErr: "history database path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg := validConfig()
	cfg.Report.Group = ""
	assert.NoError(t, cfg.ValidateServer())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.ValidateServer())
}

// isolate runs the test in an empty directory with an empty HOME so no
// stray config or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
zabbix:
  url: https://file.example.com
  user: file-user
  timeout: 45s
report:
  group: From File
  days: 7
`), 0o600))

	t.Setenv("ZBXREPORT_ZABBIX_PASSWORD", "from-env")
	t.Setenv("ZBXREPORT_REPORT_DAYS", "14")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddConnectionFlags(fs)
	AddReportFlags(fs)
	require.NoError(t, fs.Parse([]string{"--group", "From Flag"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.Zabbix.URL)
	assert.Equal(t, "file-user", cfg.Zabbix.User)
	assert.Equal(t, "from-env", cfg.Zabbix.Password)
	assert.Equal(t, 45*time.Second, cfg.Zabbix.Timeout)
	assert.Equal(t, 14, cfg.Report.Days)
	assert.Equal(t, "From Flag", cfg.Report.Group)
	assert.Equal(t, DefaultTitle, cfg.Report.Title)
}

func TestLoadFindsLocalFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("report:\n  group: Local\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "Local", cfg.Report.Group)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile),
		[]byte("ZBXREPORT_ZABBIX_TOKEN=dotenv-token\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ZBXREPORT_ZABBIX_TOKEN") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-token", cfg.Zabbix.Token)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load("/does/not/exist.yaml", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zabbix: [unclosed"), 0o600))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestWriteRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := validConfig()
	cfg.Zabbix.Password = ""
	require.NoError(t, Write(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# zbxreport configuration")
	assert.NotContains(t, string(data), "password")

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, cfg.Report.Group, decoded.Report.Group)

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
