package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/config"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/database"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/report"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/resolve"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/zabbix"
)

// app holds the components built from one configuration
type app struct {
	cfg     *config.Config
	client  *zabbix.Client
	history *database.DB
	runner  *job.Runner
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			logger.Warnf("Failed to close history database: %v", err)
		}
	}
}

// newApp builds the Zabbix client, collector, renderer, and runner.
// withHistory forces the history database open regardless of config;
// extra is appended to the runner options.
func newApp(cfg *config.Config, withHistory bool, extra ...job.Option) (*app, error) {
	z := cfg.Zabbix
	client, err := zabbix.New(z.URL,
		zabbix.WithTimeout(z.Timeout),
		zabbix.WithSkipVerify(z.SkipVerify),
		zabbix.WithRateLimit(z.RateLimit),
		zabbix.WithToken(z.Token),
		zabbix.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Invalid Zabbix connection settings",
			"Check zabbix.url in your config or --server")
	}
	if z.SkipVerify {
		logger.Warn("TLS certificate verification is disabled")
	}

	collectorOpts := []availability.CollectorOption{
		availability.WithCredentials(z.User, z.Password),
		availability.WithPingKey(z.PingKey),
		availability.WithLogger(logger),
	}
	if cfg.Resolver.Enabled {
		r, err := resolve.New(cfg.Resolver.Server, cfg.Resolver.Timeout)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig, "Could not set up the DNS resolver",
				"Set resolver.server to a reachable DNS server")
		}
		logger.Debugf("Resolving DNS-only interfaces via %s", r.Server())
		collectorOpts = append(collectorOpts, availability.WithResolver(r))
	}
	collector := availability.NewCollector(client, collectorOpts...)

	renderer := report.NewGenerator(
		report.WithTitle(cfg.Report.Title),
		report.WithChart(cfg.Report.Chart),
		report.WithLogger(logger),
	)

	a := &app{cfg: cfg, client: client}
	runnerOpts := []job.Option{
		job.WithServer(z.URL),
		job.WithLogger(logger),
	}
	if cfg.Report.Summary {
		runnerOpts = append(runnerOpts, job.WithSummary(report.NewSummary(cfg.Report.Title)))
	}
	if cfg.History.Enabled || withHistory {
		db, err := openHistory(cfg)
		if err != nil {
			return nil, err
		}
		a.history = db
		runnerOpts = append(runnerOpts, job.WithHistory(db, cfg.History.RetentionDays))
	}
	a.runner = job.New(collector, renderer, append(runnerOpts, extra...)...)

	return a, nil
}

func openHistory(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.History.Path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStorage, "Failed to open history database "+cfg.History.Path,
			"Check history.path points to a writable location")
	}
	return db, nil
}

// promptPassword asks for the API password on the terminal when it is
// missing and no token is set.
func promptPassword(cfg *config.Config) error {
	z := &cfg.Zabbix
	if z.Token != "" || z.Password != "" || z.User == "" || !isTerminal() {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", z.User)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Could not read password", "")
	}
	z.Password = strings.TrimRight(string(pw), "\r\n")
	return nil
}

// checkServer does a cheap apiinfo.version call so connection problems
// surface before the report starts.
func checkServer(ctx context.Context, client *zabbix.Client) error {
	v, err := client.Version(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI, "Cannot reach the Zabbix API at "+client.URL(),
			"Check the server URL and that the frontend is reachable from here")
	}
	logger.Debugf("Zabbix API version %s", v)
	return nil
}
