package cli

import (
	"fmt"
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"

	"github.com/spf13/cobra"
)

func newWeekStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "week-start [YYYY-MM-DD]",
		Short: "Показать воскресенье, с которого начинается неделя даты",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if len(args) == 1 {
				parsed, err := task.ParseDate(args[0])
				if err != nil {
					return fmt.Errorf("дата %q: %w", args[0], err)
				}
				day = parsed
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.WeekStart(day).Format(task.DateLayout))
			return nil
		},
	}
}
