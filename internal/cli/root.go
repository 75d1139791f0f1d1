// Package cli wires the zbxreport commands together.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/logging"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/ui"
)

// Global flags
var (
	cfgFile     string
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
)

var logger = logrus.StandardLogger()

var rootCmd = &cobra.Command{
	Use:   "zbxreport",
	Short: "Generate host availability reports from Zabbix",
	Long: `zbxreport reads ICMP ping trends for every host of a Zabbix host group
and renders an availability report as a PDF.

Run without a subcommand on a terminal to open the interactive form.

Examples:
  zbxreport
  zbxreport generate --group "Linux servers" --days 30
  zbxreport history
  zbxreport serve --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Options{Verbose: verboseFlag, Quiet: quietFlag})
		if noColorFlag || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal() {
			return cmd.Help()
		}
		return formCommand(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .zbxreport.yaml or ~/.config/zbxreport/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
