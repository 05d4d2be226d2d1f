// Package ical converts iCalendar (.ics) text into task records.
//
// Only the subset needed for task import is understood: VEVENT blocks with
// DTSTART, DTEND, SUMMARY and DESCRIPTION. Recurrence rules and time zones
// are not interpreted; timestamps keep their wall-clock fields.
package ical

import (
	"errors"
	"strings"

	"taskPlanner/internal/models/task"
)

var ErrNotCalendar = errors.New("не является файлом календаря")

// FormatError возвращается, когда во входном тексте нет ни одного маркера
// календаря (BEGIN:VCALENDAR или BEGIN:VEVENT).
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "ical: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return ErrNotCalendar
}

type Parser struct {
	newID task.IDGenerator
}

type Option func(*Parser)

func WithIDGenerator(gen task.IDGenerator) Option {
	return func(p *Parser) {
		if gen != nil {
			p.newID = gen
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{newID: task.NewID}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse разбирает файл целиком. gen может быть nil.
func Parse(text string, gen task.IDGenerator) ([]task.Task, error) {
	return NewParser(WithIDGenerator(gen)).Parse(text)
}

// Parse возвращает задачи для всех полных событий (есть и DTSTART, и DTEND)
// в порядке их появления в тексте. Неполные события пропускаются молча.
func (p *Parser) Parse(text string) ([]task.Task, error) {
	tasks := []task.Task{}
	sawContainer := false

	var current *eventBuilder
	depth := 0

	for _, line := range unfold(text) {
		prop, ok := parseProperty(line)
		if !ok {
			continue
		}

		switch prop.Name {
		case propBegin:
			component := strings.ToUpper(strings.TrimSpace(prop.Value))
			if component == componentCalendar || component == componentEvent {
				sawContainer = true
			}
			if current != nil {
				// вложенный компонент (VALARM и т.п.)
				depth++
				continue
			}
			if component == componentEvent {
				current = &eventBuilder{}
				depth = 1
			}
			continue

		case propEnd:
			if current == nil {
				continue
			}
			depth--
			if depth > 0 {
				continue
			}
			// END:VCALENDAR при открытом VEVENT: событие не закрыто и отбрасывается
			if strings.EqualFold(strings.TrimSpace(prop.Value), componentEvent) {
				if t, ok := current.build(p.newID); ok {
					tasks = append(tasks, t)
				}
			}
			current = nil
			continue
		}

		if current != nil && depth == 1 {
			current.set(prop)
		}
	}

	if !sawContainer {
		return nil, &FormatError{Reason: "нет маркеров BEGIN:VCALENDAR или BEGIN:VEVENT"}
	}
	return tasks, nil
}

type eventBuilder struct {
	start       *instant
	end         *instant
	summary     string
	description string
}

func (b *eventBuilder) set(prop property) {
	switch prop.Name {
	case propStart:
		if in, ok := parseInstant(prop); ok {
			b.start = &in
		}
	case propEndInstant:
		if in, ok := parseInstant(prop); ok {
			b.end = &in
		}
	case propSummary:
		b.summary = unescapeText(prop.Value)
	case propDescription:
		b.description = unescapeText(prop.Value)
	}
}

func (b *eventBuilder) build(newID task.IDGenerator) (task.Task, bool) {
	if b.start == nil || b.end == nil {
		return task.Task{}, false
	}
	return task.Task{
		ID:          newID(),
		Event:       b.summary,
		Description: b.description,
		Date:        b.start.Date,
		StartTime:   b.start.Clock,
		EndDate:     b.end.Date,
		EndTime:     b.end.Clock,
		Completed:   false,
	}, true
}
