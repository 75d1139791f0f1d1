package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"server":     "zabbix.url",
	"user":       "zabbix.user",
	"password":   "zabbix.password",
	"token":      "zabbix.token",
	"insecure":   "zabbix.skip_verify",
	"timeout":    "zabbix.timeout",
	"rate-limit": "zabbix.rate_limit",
	"ping-key":   "zabbix.ping_key",
	"group":      "report.group",
	"days":       "report.days",
	"output":     "report.output",
	"title":      "report.title",
	"chart":      "report.chart",
	"summary":    "report.summary",
	"history":    "history.enabled",
	"db":         "history.path",
	"resolve":    "resolver.enabled",
	"dns-server": "resolver.server",
	"port":       "server.port",
}

// AddConnectionFlags registers the Zabbix connection flags
func AddConnectionFlags(fs *pflag.FlagSet) {
	fs.String("server", "", "Zabbix server URL (e.g. https://zabbix.example.com)")
	fs.String("user", "", "Zabbix API user")
	fs.String("password", "", "Zabbix API password (prefer ZBXREPORT_ZABBIX_PASSWORD)")
	fs.String("token", "", "Zabbix API token, replaces user and password")
	fs.Bool("insecure", false, "skip TLS certificate verification")
	fs.Duration("timeout", DefaultTimeout, "API request timeout")
	fs.Float64("rate-limit", DefaultRateLimit, "max API requests per second (0 = unlimited)")
	fs.String("ping-key", DefaultPingKey, "item key of the ICMP ping check")
	fs.Bool("resolve", false, "resolve hosts that only have a DNS name")
	fs.String("dns-server", "", "DNS server for --resolve (default from resolv.conf)")
}

// AddReportFlags registers the report selection and rendering flags
func AddReportFlags(fs *pflag.FlagSet) {
	fs.String("group", "", "host group name")
	fs.Int("days", DefaultDays, "reporting period in days")
	fs.StringP("output", "o", "", "output PDF path")
	fs.String("title", DefaultTitle, "report title")
	fs.Bool("chart", true, "include the availability chart")
	fs.Bool("summary", false, "also write a plain-text summary next to the PDF")
}

// AddHistoryFlags registers the run history flags
func AddHistoryFlags(fs *pflag.FlagSet) {
	fs.Bool("history", false, "record the run in the history database")
	fs.String("db", DefaultHistoryPath, "history database path")
}

// AddServerFlags registers the serve command flags
func AddServerFlags(fs *pflag.FlagSet) {
	fs.Int("port", DefaultPort, "HTTP listen port")
}

// bindFlags binds every known flag present in fs to its config key
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
