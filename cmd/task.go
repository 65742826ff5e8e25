package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/planner"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

var (
	addDate     string
	addCategory string
	addSlots    []string

	editText     string
	editCategory string
	editSlots    []string

	deleteDate  string
	deleteSlots []string
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Plan a task in one or more slots",
	Long: `Plan a task on a day.

Slots are given as slot ids, times or half-open ranges:
  dayplan add "Write report" -c Work -s 9:00-10:30
  dayplan add "Lunch" -c Personal -s 12:00,12:30 --date tomorrow`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDay(addDate)
		if err != nil {
			return err
		}
		ids, err := resolveSlots(addSlots)
		if err != nil {
			return err
		}
		payload := planner.Payload{Text: strings.Join(args, " "), Category: addCategory}

		return withApp(cmd, func(a *app) error {
			task, err := a.planner.Create(cmd.Context(), day, payload, ids)
			if err != nil {
				return explain(err)
			}
			return printTask(cmd, "Planned", task)
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the description, category or slots of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := resolveSlots(editSlots)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app) error {
			current, err := a.planner.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			payload := planner.Payload{Text: current.Task, Category: current.Category}
			if changed(cmd, "text") {
				payload.Text = editText
			}
			if changed(cmd, "category") {
				payload.Category = editCategory
			}

			task, err := a.planner.Update(cmd.Context(), args[0], payload, ids)
			if err != nil {
				return explain(err)
			}
			return printTask(cmd, "Updated", task)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task by id, or every task touching the given slots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && len(deleteSlots) == 0 {
			return errors.New("give a task id or --slots")
		}
		return withApp(cmd, func(a *app) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				if err := a.planner.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %s\n", args[0])
				return nil
			}

			day, err := parseDay(deleteDate)
			if err != nil {
				return err
			}
			ids, err := resolveSlots(deleteSlots)
			if err != nil {
				return err
			}
			removed, err := a.planner.DeleteInSlots(cmd.Context(), day, ids)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				fmt.Fprintln(out, "No tasks in those slots")
				return nil
			}
			for _, t := range removed {
				fmt.Fprintf(out, "Deleted %s (%s)\n", t.Task, t.ID)
			}
			return nil
		})
	},
}

func printTask(cmd *cobra.Command, verb string, task model.Task) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, task)
	}
	fmt.Fprintf(out, "%s %q (%s) on %s, %s, %s\n", verb, task.Task, task.Category, task.Date,
		timeRange(task), util.HumanHours(task.TotalTime))
	fmt.Fprintf(out, "id: %s\n", task.ID)
	return nil
}

// explain adds a next step to errors the user can act on.
func explain(err error) error {
	var conflict *planner.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("%w\nedit it instead: dayplan edit %s", err, conflict.Task.ID)
	}
	return err
}

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "day of the task (default today)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category name")
	addCmd.Flags().StringSliceVarP(&addSlots, "slots", "s", nil, "slots, times or ranges (e.g. 9:00-10:30)")

	editCmd.Flags().StringVarP(&editText, "text", "t", "", "new description")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category name")
	editCmd.Flags().StringSliceVarP(&editSlots, "slots", "s", nil, "new slots (default keep current)")

	deleteCmd.Flags().StringVarP(&deleteDate, "date", "d", "", "day to clear slots on (default today)")
	deleteCmd.Flags().StringSliceVarP(&deleteSlots, "slots", "s", nil, "slots whose tasks are deleted")
}
