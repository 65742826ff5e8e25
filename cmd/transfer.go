package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/google"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/store"
)

var (
	exportFormat   string
	exportRange    string
	exportDate     string
	exportCategory string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import tasks from a JSON array or stream",
	Long: `Merge tasks from a file (or stdin when no file or "-" is given).

Derived fields are recomputed. Tasks that are invalid or overlap an
existing task are skipped and reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		tasks, err := store.DecodeTasks(in)
		if err != nil {
			return fmt.Errorf("error parsing tasks: %w", err)
		}

		return withApp(cmd, func(a *app) error {
			result, err := a.planner.Import(cmd.Context(), tasks)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "Imported %d tasks\n", len(result.Added))
			for _, s := range result.Skipped {
				fmt.Fprintf(out, "  skipped %q: %s\n", s.Task.Task, s.Reason)
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as JSON or Google Calendar events",
	Long: `Write tasks to stdout.

--format json writes the stored task records, --format gcal writes a
Google Calendar events document with one event per contiguous block.
Without --range every task is exported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format != "json" && format != "gcal" {
			return fmt.Errorf("unknown format %q: use json or gcal", exportFormat)
		}

		return withApp(cmd, func(a *app) error {
			ctx := cmd.Context()
			var tasks []model.Task
			if exportRange == "" {
				tasks = a.planner.All(ctx)
			} else {
				q, err := parseQuery(exportRange, exportDate)
				if err != nil {
					return err
				}
				tasks = a.planner.List(ctx, q, exportCategory)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return store.EncodeTasks(out, tasks)
			}
			exporter := google.NewExporter(a.categories.All(ctx), a.theme, a.dark)
			exporter.StartHour = a.cfg.StartHour
			return writeJSON(out, exporter.Export(tasks))
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or gcal")
	exportCmd.Flags().StringVarP(&exportRange, "range", "r", "", "day, week, month or year (default everything)")
	exportCmd.Flags().StringVarP(&exportDate, "date", "d", "", "anchor date of the range (default today)")
	exportCmd.Flags().StringVarP(&exportCategory, "category", "c", model.AllCategories, "category name or All")
}
