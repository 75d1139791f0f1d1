package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/config"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/ui"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill in the report form interactively",
	Long: `Form asks for the Zabbix connection, host group, and period, then
generates the report while showing its progress log. Values from the config
file and environment prefill the form.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return formCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(formCmd)
	config.AddHistoryFlags(formCmd.Flags())
}

func formCommand(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	values := formValues(cfg)
	for {
		err := runFormOnce(cfg, &values)
		if stderrors.Is(err, ui.ErrFormCancelled) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}

		again := true
		if err := ui.Confirm("Generate another report?", &again); err != nil || !again {
			return nil
		}
		values.Output = ""
	}
}

func formValues(cfg *config.Config) ui.FormValues {
	return ui.FormValues{
		URL:      cfg.Zabbix.URL,
		User:     cfg.Zabbix.User,
		Password: cfg.Zabbix.Password,
		Token:    cfg.Zabbix.Token != "",
		Group:    cfg.Report.Group,
		Days:     strconv.Itoa(cfg.Report.Days),
		Output:   cfg.Report.Output,
	}
}

// applyForm copies the form answers into cfg
func applyForm(cfg *config.Config, v ui.FormValues) error {
	days, err := v.PeriodDays()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid period", "")
	}
	cfg.Zabbix.URL = strings.TrimSpace(v.URL)
	cfg.Zabbix.User = strings.TrimSpace(v.User)
	cfg.Zabbix.Password = v.Password
	cfg.Report.Group = strings.TrimSpace(v.Group)
	cfg.Report.Days = days
	cfg.Report.Output = strings.TrimSpace(v.Output)
	return nil
}

func runFormOnce(cfg *config.Config, values *ui.FormValues) error {
	if err := ui.RunReportForm(values); err != nil {
		return err
	}
	if err := ui.RunOutputForm(values); err != nil {
		return err
	}
	if err := applyForm(cfg, *values); err != nil {
		return err
	}
	if err := cfg.ValidateConnection(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid connection settings", "")
	}

	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The path was asked up front; the runner still only creates the file
	// once data has been found.
	output := cfg.Report.Output
	res, err := runJob(ctx, stop, a.runner, job.Request{
		Group: cfg.Report.Group,
		Days:  cfg.Report.Days,
		ChooseOutput: func(string) (string, error) {
			return output, nil
		},
	})
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}
