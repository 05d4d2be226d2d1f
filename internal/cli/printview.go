package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"taskPlanner/internal/report"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	summaryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)

	dayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	todoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(6)
	footStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const generatedLayout = "Monday, January 2, 2006 at 03:04 PM"

// renderPrintView выводит отчёт в виде печатной страницы
func renderPrintView(weekly report.WeeklyReport, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Weekly Schedule Report"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(report.DateRangeText(weekly.WeekStartDate, weekly.WeekEndDate)))
	b.WriteString("\n\n")

	summary := []string{
		fmt.Sprintf("Total Events: %d", weekly.TotalTasks),
		fmt.Sprintf("Completed: %d (%d%%)", weekly.CompletedTasks, weekly.CompletionRate),
		fmt.Sprintf("Total Time: %s", report.FormatDuration(weekly.TotalDuration)),
	}
	if weekly.BusiestDay != nil {
		summary = append(summary, fmt.Sprintf("Busiest Day: %s", weekly.BusiestDay.DayName))
	}
	b.WriteString(summaryStyle.Render(strings.Join(summary, "   ")))
	b.WriteString("\n\n")

	for _, day := range weekly.DaysOfWeek {
		header := fmt.Sprintf("%s · %s", day.DayName, day.FullDate.Format("Jan 2"))
		if day.TaskCount > 0 {
			header += fmt.Sprintf(" · %d events", day.TaskCount)
			if day.TotalDuration > 0 {
				header += " · " + report.FormatDuration(day.TotalDuration)
			}
		}
		b.WriteString(dayStyle.Render(header))
		b.WriteString("\n")

		if len(day.Tasks) == 0 {
			b.WriteString("  " + emptyStyle.Render("No events"))
			b.WriteString("\n\n")
			continue
		}

		for _, t := range day.Tasks {
			mark := todoStyle.Render("⏳")
			if t.Completed {
				mark = doneStyle.Render("✅")
			}
			fmt.Fprintf(&b, "  %s %s  %s - %s  %s\n",
				mark, t.Event,
				report.FormatTimeDisplay(t.StartTime), report.FormatTimeDisplay(t.EndTime),
				report.FormatDuration(report.TaskDuration(t)))
			if t.Description != "" {
				b.WriteString(noteStyle.Render(t.Description))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(dayStyle.Render("Weekly Insights"))
	b.WriteString("\n")
	for _, line := range insights(weekly) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(footStyle.Render("Report generated on " + generatedAt.Format(generatedLayout)))
	b.WriteString("\n")

	return b.String()
}

func insights(weekly report.WeeklyReport) []string {
	mostActive := "No events scheduled"
	if weekly.BusiestDay != nil {
		mostActive = fmt.Sprintf("%s with %d events", weekly.BusiestDay.DayName, weekly.BusiestDay.TaskCount)
	}

	daysWithEvents := 0
	for _, day := range weekly.DaysOfWeek {
		if day.TaskCount > 0 {
			daysWithEvents++
		}
	}

	avgEvents := math.Round(float64(weekly.TotalTasks)/report.DaysInWeek*10) / 10

	return []string{
		"Most Active Day: " + mostActive,
		fmt.Sprintf("Average Daily Events: %g", avgEvents),
		"Average Daily Duration: " + report.FormatDuration(int(math.Round(weekly.AverageDailyDuration))),
		fmt.Sprintf("Days with Events: %d out of %d", daysWithEvents, report.DaysInWeek),
	}
}
