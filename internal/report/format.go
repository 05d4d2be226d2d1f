package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const longDateLayout = "Monday, January 2, 2006"

// FormatDuration: 0 -> "0m", 60 -> "1h", 125 -> "2h 5m", 30 -> "30m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// FormatTimeDisplay переводит "HH:MM" в 12-часовой формат: "00:00" -> "12:00 AM",
// "13:30" -> "1:30 PM". Пустая строка остаётся пустой, нераспознанное значение
// возвращается без изменений.
func FormatTimeDisplay(time24 string) string {
	if time24 == "" {
		return ""
	}

	hoursPart, minutes, ok := strings.Cut(time24, ":")
	if !ok {
		return time24
	}
	hour, err := strconv.Atoi(hoursPart)
	if err != nil {
		return time24
	}

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	displayHour := hour
	switch {
	case hour == 0:
		displayHour = 12
	case hour > 12:
		displayHour = hour - 12
	}

	return fmt.Sprintf("%d:%s %s", displayHour, minutes, ampm)
}

// DateRangeText: "Sunday, December 1, 2024 - Saturday, December 7, 2024".
func DateRangeText(start, end time.Time) string {
	return start.Format(longDateLayout) + " - " + end.Format(longDateLayout)
}
