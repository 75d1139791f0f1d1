package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/config"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/report"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an availability report without prompts",
	Long: `Generate fetches the ICMP ping trends of every host in a host group and
writes the availability report as a PDF.

Connection settings come from flags, ZBXREPORT_* environment variables, .env,
or the config file, in that order.

Examples:
  zbxreport generate --server https://zabbix.example.com --user Admin --group "Linux servers"
  zbxreport generate --group Routers --days 7 -o routers.pdf --summary
  ZBXREPORT_ZABBIX_TOKEN=... zbxreport generate --group Routers`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		return generateCommand(cfg)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	config.AddConnectionFlags(generateCmd.Flags())
	config.AddReportFlags(generateCmd.Flags())
	config.AddHistoryFlags(generateCmd.Flags())
}

func generateCommand(cfg *config.Config) error {
	if err := promptPassword(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid configuration",
			"Check your flags or run 'zbxreport init' to create a config file")
	}

	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := checkServer(ctx, a.client); err != nil {
		return err
	}

	output := cfg.Report.Output
	if output == "" {
		output = report.DefaultFilename(cfg.Report.Group)
	}

	res, err := runJob(ctx, stop, a.runner, job.Request{
		Group:  cfg.Report.Group,
		Days:   cfg.Report.Days,
		Output: output,
	})
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

// runJob starts req and follows its progress until it finishes
func runJob(ctx context.Context, cancel context.CancelFunc, runner *job.Runner, req job.Request) (job.Result, error) {
	if err := runner.Start(ctx, req); err != nil {
		return job.Result{}, err
	}
	res, err := ui.Follow(runner, cancel, os.Stdout, isTerminal())
	if err != nil {
		return res, err
	}
	return res, res.Err
}

func printResult(res job.Result) {
	if res.Cancelled || res.Report == nil {
		return
	}
	fmt.Println()
	fmt.Println(ui.RenderReportTable(res.Report))
	fmt.Println()
	fmt.Printf("%s Report saved to %s\n", ui.SymbolSuccess, res.Output)
	if res.SummaryPath != "" {
		fmt.Printf("%s Summary saved to %s\n", ui.SymbolSuccess, res.SummaryPath)
	}
}
