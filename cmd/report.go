package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/analytics"
	"github.com/harrisonrobin/dayplan/pkg/filter"
	"github.com/harrisonrobin/dayplan/pkg/model"
)

var (
	queryRange    string
	queryDate     string
	queryCategory string
	calendarMonth string
)

func addQueryFlags(cmd *cobra.Command, defaultRange string) {
	cmd.Flags().StringVarP(&queryRange, "range", "r", defaultRange, "day, week, month or year")
	cmd.Flags().StringVarP(&queryDate, "date", "d", "", "anchor date of the range (default today)")
	cmd.Flags().StringVarP(&queryCategory, "category", "c", model.AllCategories, "category name or All")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseQuery(queryRange, queryDate)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			tasks := a.planner.List(cmd.Context(), q, queryCategory)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			renderTasks(cmd.OutOrStdout(), tasks, a.categories.All(cmd.Context()), a.theme, a.dark)
			return nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize planned hours per category",
	Long: `Show summary cards, hours per category, task distribution, the month
heat-map and the first tasks of the selected range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := parseQuery(queryRange, queryDate)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			d := a.planner.Dashboard(cmd.Context(), q, queryCategory)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			renderDashboard(cmd.OutOrStdout(), d, a.theme, a.dark)
			return nil
		})
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month heat-map of planned days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := parseMonth(calendarMonth)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			ctx := cmd.Context()
			tasks := filter.FilterByCategory(a.planner.All(ctx), queryCategory)
			act := analytics.MonthActivity(tasks, month.Year(), int(month.Month())-1,
				a.categories.All(ctx), a.theme, a.dark)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), act)
			}
			renderActivity(cmd.OutOrStdout(), act, a.theme.Palette(a.dark)["textDisabled"])
			return nil
		})
	},
}

func init() {
	addQueryFlags(listCmd, string(filter.Week))
	addQueryFlags(reportCmd, string(filter.Week))

	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "month as YYYY-MM (default current)")
	calendarCmd.Flags().StringVarP(&queryCategory, "category", "c", model.AllCategories, "category name or All")
}
