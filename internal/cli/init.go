package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/config"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Global         bool // write to ~/.config/zbxreport instead of the current directory
	Overwrite      bool // replace an existing file
	NonInteractive bool // skip the form, use flags and defaults
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Init writes .zbxreport.yaml from a short form, prefilled with the
defaults and any flags given. Secrets are never written; set ZBXREPORT_ZABBIX_PASSWORD or
ZBXREPORT_ZABBIX_TOKEN instead.

Examples:
  zbxreport init --server https://zabbix.example.com --user reports
  zbxreport init --global --group "Linux servers"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load("", cmd.Flags())
		if err != nil {
			return err
		}
		if isTerminal() && !initOpts.NonInteractive {
			values := formValues(cfg)
			// Secrets are dropped before writing, so none are required here.
			values.Token = true
			if err := ui.RunReportForm(&values); err != nil {
				if stderrors.Is(err, ui.ErrFormCancelled) {
					fmt.Println("Cancelled.")
					return nil
				}
				return errors.WrapWithCode(err, errors.ErrConfig, "Failed to get user input",
					"Try running with --non-interactive")
			}
			if err := applyForm(cfg, values); err != nil {
				return err
			}
		}

		path, err := initPath(initOpts.Global)
		if err != nil {
			return err
		}
		if err := Init(path, cfg, initOpts); err != nil {
			return err
		}
		fmt.Printf("%s Wrote %s\n", ui.SymbolSuccess, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write the global config file")
	initCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing config file")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip the form")
	config.AddConnectionFlags(initCmd.Flags())
	config.AddReportFlags(initCmd.Flags())
	config.AddHistoryFlags(initCmd.Flags())
}

func initPath(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig, "Cannot find home directory", "Use init without --global")
	}
	return filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), nil
}

// Init writes cfg to path without its secrets
func Init(path string, cfg *config.Config, opts InitOptions) error {
	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite")
	}

	out := *cfg
	out.Zabbix.Password = ""
	out.Zabbix.Token = ""
	if err := config.Write(path, &out); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "")
	}
	return nil
}
