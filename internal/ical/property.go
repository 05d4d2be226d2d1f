package ical

import "strings"

const (
	propBegin       = "BEGIN"
	propEnd         = "END"
	propStart       = "DTSTART"
	propEndInstant  = "DTEND"
	propSummary     = "SUMMARY"
	propDescription = "DESCRIPTION"

	componentCalendar = "VCALENDAR"
	componentEvent    = "VEVENT"
)

type property struct {
	Name   string
	Params map[string]string
	Value  string
}

func (p property) param(name string) string {
	return p.Params[name]
}

// parseProperty разбирает логическую строку вида NAME[;PARAM=VALUE...]:VALUE.
// Двоеточия и точки с запятой внутри кавычек в параметрах не считаются
// разделителями.
func parseProperty(line string) (property, bool) {
	quoted := false
	valueAt := -1
	var segments []string
	segStart := 0

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				segments = append(segments, line[segStart:i])
				segStart = i + 1
			}
		case ':':
			if !quoted {
				valueAt = i
			}
		}
		if valueAt >= 0 {
			break
		}
	}
	if valueAt < 0 {
		return property{}, false
	}
	segments = append(segments, line[segStart:valueAt])

	name := strings.ToUpper(strings.TrimSpace(segments[0]))
	if name == "" {
		return property{}, false
	}

	prop := property{
		Name:   name,
		Params: make(map[string]string, len(segments)-1),
		Value:  line[valueAt+1:],
	}
	for _, seg := range segments[1:] {
		key, value, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		prop.Params[strings.ToUpper(strings.TrimSpace(key))] = strings.Trim(value, `"`)
	}
	return prop, true
}
