package ical

import (
	"regexp"
	"strings"
	"time"

	"taskPlanner/internal/models/task"
)

var (
	dateTimePattern = regexp.MustCompile(`^(\d{8})T(\d{6})Z?$`)
	datePattern     = regexp.MustCompile(`^\d{8}$`)
)

// instant: разложенное значение DTSTART/DTEND
type instant struct {
	Date  string
	Clock string
}

// parseInstant разбирает YYYYMMDDTHHMMSS[Z] или YYYYMMDD (VALUE=DATE).
// Маркер UTC и TZID игнорируются: сохраняются только поля настенного времени.
func parseInstant(p property) (instant, bool) {
	value := strings.TrimSpace(p.Value)

	if strings.EqualFold(p.param("VALUE"), "DATE") || datePattern.MatchString(value) {
		d, err := time.Parse("20060102", value)
		if err != nil {
			return instant{}, false
		}
		return instant{Date: d.Format(task.DateLayout), Clock: task.MidnightTime}, true
	}

	m := dateTimePattern.FindStringSubmatch(value)
	if m == nil {
		return instant{}, false
	}
	ts, err := time.Parse("20060102T150405", m[1]+"T"+m[2])
	if err != nil {
		return instant{}, false
	}
	return instant{Date: ts.Format(task.DateLayout), Clock: ts.Format(task.TimeLayout)}, true
}
