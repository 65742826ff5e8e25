package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/timegrid"
)

var showFree bool

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the half-hour slots of a day",
	Long:  `Print the 48 slot ids and their labels in display order, starting at the configured start hour.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slots := timegrid.Generate(cfg.StartHour)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, slots)
		}
		for _, s := range slots {
			fmt.Fprintf(out, "%s %s\n", pad(s.ID, 12), s.DisplayText)
		}
		return nil
	},
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show the schedule of a day",
	Long: `Show every slot of a day with the task occupying it.

The date may be today (default), tomorrow, yesterday or YYYY-MM-DD.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := ""
		if len(args) == 1 {
			date = args[0]
		}
		day, err := parseDay(date)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			view := a.planner.Day(cmd.Context(), day)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			renderDay(cmd.OutOrStdout(), view, showFree)
			return nil
		})
	},
}

func init() {
	dayCmd.Flags().BoolVar(&showFree, "free", false, "also list empty slots")
}
