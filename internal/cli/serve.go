package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/config"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report generation over HTTP",
	Long: `Serve starts an HTTP API that generates reports on request and, when
history is enabled, exposes the recorded runs.

Endpoints:
  GET  /healthz
  POST /api/reports     {"group": "Linux servers", "days": 30}
  GET  /api/runs
  GET  /api/runs/{id}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		return serveCommand(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	config.AddConnectionFlags(serveCmd.Flags())
	config.AddHistoryFlags(serveCmd.Flags())
	config.AddServerFlags(serveCmd.Flags())
	serveCmd.Flags().String("title", config.DefaultTitle, "report title")
	serveCmd.Flags().Bool("chart", true, "include the availability chart")
}

func serveCommand(cfg *config.Config) error {
	if err := cfg.ValidateServer(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid configuration",
			"Check your flags or run 'zbxreport init' to create a config file")
	}

	// Nothing follows progress in the server; events only go to the log.
	a, err := newApp(cfg, false, job.WithoutEvents())
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []web.Option{
		web.WithDefaultDays(cfg.Report.Days),
		web.WithLogger(logger),
		web.WithAccessLog(os.Stdout),
	}
	if a.history != nil {
		opts = append(opts, web.WithHistory(a.history))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := checkServer(ctx, a.client); err != nil {
		logger.Warnf("%s", errors.Summary(err))
	}

	return web.New(a.runner, cfg.Server.Port, opts...).Start(ctx)
}
