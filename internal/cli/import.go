package cli

import (
	"fmt"
	"os"

	"taskPlanner/internal/ical"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"

	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	var tasksPath string

	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Импортировать события календаря в файл задач",
		Long: `Разбирает файл iCalendar и дописывает события в файл задач в исходном
порядке. События без названия пропускаются.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("чтение календаря: %w", err)
			}

			records, err := ical.NewParser().Parse(string(content))
			if err != nil {
				return fmt.Errorf("разбор календаря %s: %w", args[0], err)
			}

			store := TaskFile{Path: tasksPath}
			tasks, err := store.Load()
			if err != nil {
				return err
			}

			imported, skipped := appendValid(tasks, records)
			if err := store.Save(imported); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range imported[len(tasks):] {
				fmt.Fprintf(out, "  + %s  %s %s  %s\n",
					t.Date, report.FormatTimeDisplay(t.StartTime), t.Event,
					report.FormatDuration(report.TaskDuration(t)))
			}
			fmt.Fprintf(out, "Импортировано: %d, пропущено: %d, всего задач: %d\n",
				len(imported)-len(tasks), skipped, len(imported))
			return nil
		},
	}

	cmd.Flags().StringVar(&tasksPath, "tasks", defaultTaskFile, "файл задач (.json, .yaml)")
	return cmd
}

// appendValid дописывает записи, прошедшие проверку, и считает пропущенные
func appendValid(tasks []task.Task, records []task.Task) ([]task.Task, int) {
	skipped := 0
	for _, record := range records {
		if err := record.Validate(); err != nil {
			skipped++
			continue
		}
		record.Flag = task.FlagActive
		tasks = append(tasks, record)
	}
	return tasks, skipped
}
