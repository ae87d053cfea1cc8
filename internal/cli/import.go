package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	applog "immichart/internal/log"
)

func newImportCommand(a *app) *cobra.Command {
	var sheet, dbPath string
	cmd := &cobra.Command{
		Use:   "import [file.csv|file.xlsx]",
		Short: "Load a wide table into the SQLite observations store",
		Long: `Import normalises the table exactly as the server does (month filtering,
calendar ordering, lenient numbers) and replaces the contents of the
observations table, so DATA_SOURCE=sqlite serves the same chart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.SQLiteDBPath
			}
			return a.importFile(cmd.Context(), args[0], sheet, dbPath)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name for XLSX input (default: first sheet)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: SQLITE_DB_PATH)")
	return cmd
}

func (a *app) importFile(ctx context.Context, path, sheet, dbPath string) error {
	records, err := a.loadRecords(ctx, path, sheet)
	if err != nil {
		return err
	}

	logger := a.logger.WithComponent(applog.ComponentStorage)
	repo, err := InitSQLite(logger, dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.ReplaceObservations(ctx, records); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	logger.Info("Observations imported",
		applog.FieldOperation, applog.OpImport,
		applog.FieldSource, path,
		applog.FieldRecords, n,
		"db_path", dbPath)
	fmt.Fprintf(a.out, "imported %d rows into %s\n", n, dbPath)
	return nil
}
