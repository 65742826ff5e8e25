package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/logging"
)

var (
	configPath string
	statePath  string
	backend    string
	darkMode   bool
	debugMode  bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "Plan your day in half-hour slots and review where the time goes",
	Long: `dayplan keeps a local planner of half-hour time slots.

Tasks occupy one or more slots of a day and carry a category. Reports
summarize planned hours per category over a day, week, month or year.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			logging.SetDebug(true)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/dayplan/config.yaml)")
	flags.StringVar(&statePath, "state", "", "directory holding planner state (overrides config)")
	flags.StringVar(&backend, "backend", "", "storage backend: file, sqlite or memory (overrides config)")
	flags.BoolVar(&darkMode, "dark", false, "use the dark palette")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flags.BoolVar(&jsonOutput, "json", false, "print JSON instead of formatted output")

	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
