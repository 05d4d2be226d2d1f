package cli

import (
	"github.com/spf13/cobra"
)

const defaultTaskFile = "tasks.json"

// NewRootCommand собирает дерево команд planner
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Планировщик задач: импорт календарей и недельные отчёты",
		Long: `planner импортирует события из файлов iCalendar (.ics) в локальный
файл задач и строит по нему недельный отчёт. Команда serve запускает HTTP API.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newImportCommand(),
		newReportCommand(),
		newWeekStartCommand(),
		NewServeCommand(),
	)
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
