package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/config"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/database"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded report runs",
	Long: `History lists the report runs recorded with --history or history.enabled,
newest first.

Examples:
  zbxreport history
  zbxreport history --limit 50
  zbxreport history show 12
  zbxreport history prune`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := historyDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(historyLimit)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrStorage, "Failed to list runs", "")
		}
		if len(runs) == 0 {
			fmt.Println("No report runs recorded yet.")
			return nil
		}
		fmt.Println(ui.RenderRunsTable(runs, time.Now()))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded run with its hosts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return errors.New(errors.ErrConfig, fmt.Sprintf("Invalid run id %q", args[0]),
				"Use an id from 'zbxreport history'")
		}

		db, err := historyDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.GetRun(id)
		if stderrors.Is(err, database.ErrRunNotFound) {
			return errors.New(errors.ErrData, fmt.Sprintf("Run %d not found", id),
				"Use an id from 'zbxreport history'")
		}
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrStorage, "Failed to load run", "")
		}
		fmt.Println(ui.RenderRunDetail(run, time.Now()))
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		deleted, err := db.PruneRuns(cfg.History.RetentionDays)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrStorage, "Failed to prune runs", "")
		}
		fmt.Printf("%s Deleted %d run(s) older than %d days\n", ui.SymbolSuccess, deleted, cfg.History.RetentionDays)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd, historyPruneCmd)
	historyCmd.PersistentFlags().String("db", config.DefaultHistoryPath, "history database path")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", database.DefaultListLimit, "number of runs to show")
}

func historyDB(cmd *cobra.Command) (*database.DB, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return openHistory(cfg)
}
