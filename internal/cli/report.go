package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type reportOptions struct {
	tasksPath string
	week      string
	date      string
	format    string
	now       func() time.Time
}

func newReportCommand() *cobra.Command {
	opts := reportOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Построить недельный отчёт по файлу задач",
		Long: `Строит отчёт за семь дней. --week задаёт первый день недели как есть,
--date выбирает неделю (с воскресенья), в которую попадает дата. Без флагов
берётся текущая неделя.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.tasksPath, "tasks", defaultTaskFile, "файл задач (.json, .yaml)")
	cmd.Flags().StringVar(&opts.week, "week", "", "первый день недели YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.date, "date", "", "любой день недели YYYY-MM-DD")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "формат вывода: text, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("week", "date")
	return cmd
}

func runReport(out io.Writer, opts reportOptions) error {
	weekStart, err := resolveWeek(opts)
	if err != nil {
		return err
	}

	tasks, err := TaskFile{Path: opts.tasksPath}.Load()
	if err != nil {
		return err
	}

	weekly := report.GenerateWeekly(activeOnly(tasks), weekStart)

	switch opts.format {
	case "text", "":
		_, err = io.WriteString(out, renderPrintView(weekly, opts.now()))
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(weekly)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		err = encoder.Encode(weekly)
		if closeErr := encoder.Close(); err == nil {
			err = closeErr
		}
	default:
		return fmt.Errorf("неизвестный формат %q: ожидается text, json или yaml", opts.format)
	}
	if err != nil {
		return fmt.Errorf("вывод отчёта: %w", err)
	}
	return nil
}

func resolveWeek(opts reportOptions) (time.Time, error) {
	switch {
	case opts.week != "":
		start, err := task.ParseDate(opts.week)
		if err != nil {
			return time.Time{}, fmt.Errorf("--week %q: %w", opts.week, err)
		}
		return start, nil
	case opts.date != "":
		day, err := task.ParseDate(opts.date)
		if err != nil {
			return time.Time{}, fmt.Errorf("--date %q: %w", opts.date, err)
		}
		return report.WeekStart(day), nil
	default:
		return report.WeekStart(opts.now()), nil
	}
}

func activeOnly(tasks []task.Task) []task.Task {
	active := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Flag != task.FlagDeleted {
			active = append(active, t)
		}
	}
	return active
}
