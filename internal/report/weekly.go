// Package report aggregates tasks into a seven-day summary.
package report

import (
	"math"
	"slices"
	"strings"
	"time"

	"taskPlanner/internal/models/task"
)

const DaysInWeek = 7

type DayReport struct {
	DayName       string      `json:"dayName" yaml:"dayName"`
	Date          string      `json:"date" yaml:"date"`
	FullDate      time.Time   `json:"fullDate" yaml:"-"`
	Tasks         []task.Task `json:"tasks" yaml:"tasks"`
	TotalDuration int         `json:"totalDuration" yaml:"totalDuration"`
	TaskCount     int         `json:"taskCount" yaml:"taskCount"`
}

type WeeklyReport struct {
	WeekStart            string      `json:"weekStart" yaml:"weekStart"`
	WeekEnd              string      `json:"weekEnd" yaml:"weekEnd"`
	WeekStartDate        time.Time   `json:"weekStartDate" yaml:"-"`
	WeekEndDate          time.Time   `json:"weekEndDate" yaml:"-"`
	DaysOfWeek           []DayReport `json:"daysOfWeek" yaml:"daysOfWeek"`
	TotalTasks           int         `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks       int         `json:"completedTasks" yaml:"completedTasks"`
	CompletionRate       int         `json:"completionRate" yaml:"completionRate"`
	TotalDuration        int         `json:"totalDuration" yaml:"totalDuration"`
	AverageDailyDuration float64     `json:"averageDailyDuration" yaml:"averageDailyDuration"`
	BusiestDay           *DayReport  `json:"busiestDay" yaml:"busiestDay"`
	WeekTasks            []task.Task `json:"weekTasks" yaml:"weekTasks"`
}

type scheduled struct {
	task  task.Task
	day   time.Time
	start time.Time
}

// GenerateWeekly строит отчёт за семь дней начиная с weekStart.
//
// В окно попадают задачи, чей интервал [date, endDate] пересекается с
// [weekStart, weekStart+6]. В корзину дня задача попадает только по date,
// поэтому многодневная задача учитывается один раз, в день своего начала.
// Задачи с нераспознаваемой датой пропускаются.
func GenerateWeekly(tasks []task.Task, weekStart time.Time) WeeklyReport {
	start := truncateDay(weekStart)
	end := start.AddDate(0, 0, DaysInWeek-1)

	included := make([]scheduled, 0, len(tasks))
	for _, t := range tasks {
		from, to, err := t.Span()
		if err != nil {
			continue
		}
		if from.After(end) || to.Before(start) {
			continue
		}
		at, err := t.Start()
		if err != nil {
			at = from
		}
		included = append(included, scheduled{task: t, day: from, start: at})
	}

	slices.SortStableFunc(included, func(a, b scheduled) int {
		return a.start.Compare(b.start)
	})

	report := WeeklyReport{
		WeekStart:     start.Format(task.DateLayout),
		WeekEnd:       end.Format(task.DateLayout),
		WeekStartDate: start,
		WeekEndDate:   end,
		DaysOfWeek:    make([]DayReport, 0, DaysInWeek),
		WeekTasks:     make([]task.Task, 0, len(included)),
	}

	for _, s := range included {
		report.WeekTasks = append(report.WeekTasks, s.task)
		if s.task.Completed {
			report.CompletedTasks++
		}
		report.TotalDuration += TaskDuration(s.task)
	}
	report.TotalTasks = len(report.WeekTasks)

	for i := 0; i < DaysInWeek; i++ {
		day := start.AddDate(0, 0, i)
		bucket := DayReport{
			DayName:  day.Weekday().String(),
			Date:     day.Format(task.DateLayout),
			FullDate: day,
			Tasks:    []task.Task{},
		}

		for _, s := range included {
			if s.day.Equal(day) {
				bucket.Tasks = append(bucket.Tasks, s.task)
			}
		}
		// строковое сравнение HH:MM достаточно
		slices.SortStableFunc(bucket.Tasks, func(a, b task.Task) int {
			return strings.Compare(clockOrMidnight(a.StartTime), clockOrMidnight(b.StartTime))
		})

		for _, t := range bucket.Tasks {
			bucket.TotalDuration += TaskDuration(t)
		}
		bucket.TaskCount = len(bucket.Tasks)

		report.DaysOfWeek = append(report.DaysOfWeek, bucket)
	}

	if report.TotalTasks > 0 {
		report.CompletionRate = int(math.Round(float64(report.CompletedTasks) / float64(report.TotalTasks) * 100))
	}

	// всегда делится на 7: отчёт охватывает ровно семь календарных дней
	report.AverageDailyDuration = float64(report.TotalDuration) / DaysInWeek

	busiest := 0
	for i := 1; i < len(report.DaysOfWeek); i++ {
		if report.DaysOfWeek[i].TaskCount > report.DaysOfWeek[busiest].TaskCount {
			busiest = i
		}
	}
	if report.DaysOfWeek[busiest].TaskCount > 0 {
		day := report.DaysOfWeek[busiest]
		report.BusiestDay = &day
	}

	return report
}

// TaskDuration возвращает длительность задачи в минутах. Отрицательные и
// нераспознаваемые интервалы дают 0.
func TaskDuration(t task.Task) int {
	start, err := t.Start()
	if err != nil {
		return 0
	}
	end, err := t.End()
	if err != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// WeekStart возвращает воскресенье той же недели (или сам день, если это воскресенье).
func WeekStart(t time.Time) time.Time {
	day := truncateDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clockOrMidnight(clock string) string {
	if clock == "" {
		return task.MidnightTime
	}
	return clock
}
