package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/colors"
)

var categoryColor string

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category", "cat"},
	Short:   "List or add task categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List default and custom categories with their colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			all := a.categories.All(cmd.Context())
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			renderCategories(cmd.OutOrStdout(), all, a.theme, a.dark)
			return nil
		})
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom category",
	Long: `Add a custom category. Without --color an unused preset color is picked.

Names are unique regardless of case across default and custom categories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color := strings.TrimSpace(categoryColor)
		if color != "" && !strings.HasPrefix(color, "#") {
			color = "#" + color
		}
		return withApp(cmd, func(a *app) error {
			cat, err := a.categories.AddCustom(cmd.Context(), strings.Join(args, " "), color)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, cat)
			}
			fmt.Fprintf(out, "Added category %s %s\n", colored(colors.ResolveColor(&cat, a.theme, a.dark), "■"), cat.Name)
			return nil
		})
	},
}

func init() {
	categoriesAddCmd.Flags().StringVar(&categoryColor, "color", "", "hex color, e.g. #FF6B6B")

	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
}
