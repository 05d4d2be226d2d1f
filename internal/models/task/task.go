package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// время по умолчанию для событий на весь день
	MidnightTime = "00:00"
)

type Task struct {
	ID          string     `json:"id" yaml:"id" db:"id"`
	Event       string     `json:"event" yaml:"event" db:"event"`
	Description string     `json:"description" yaml:"description,omitempty" db:"description"`
	Date        string     `json:"date" yaml:"date" db:"date"`
	StartTime   string     `json:"startTime" yaml:"startTime" db:"start_time"`
	EndDate     string     `json:"endDate" yaml:"endDate" db:"end_date"`
	EndTime     string     `json:"endTime" yaml:"endTime" db:"end_time"`
	Completed   bool       `json:"completed" yaml:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"createdAt,omitempty" yaml:"-" db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" yaml:"-" db:"updated_at,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" yaml:"-" db:"deleted_at,omitempty"`
	Version     int        `json:"version,omitempty" yaml:"-" db:"version"`
	Flag        Flag       `json:"flag,omitempty" yaml:"-" db:"flag"`
}

type Flag string

const FlagActive Flag = "active"
const FlagDeleted Flag = "deleted"

// IDGenerator выдаёт новый уникальный идентификатор задачи
type IDGenerator func() string

func NewID() string {
	return uuid.NewString()
}

var (
	ErrEmptyEvent  = errors.New("событие не может быть пустым")
	ErrInvalidDate = errors.New("неверный формат даты, ожидается YYYY-MM-DD")
	ErrInvalidTime = errors.New("неверный формат времени, ожидается HH:MM")

	ErrEndBeforeStart = errors.New("окончание раньше начала")
)

// Start возвращает момент начала (date + startTime).
func (t *Task) Start() (time.Time, error) {
	return combine(t.Date, t.StartTime)
}

// End возвращает момент окончания (endDate + endTime); пустая endDate
// заменяется на date.
func (t *Task) End() (time.Time, error) {
	return combine(t.EffectiveEndDate(), t.EndTime)
}

func (t *Task) EffectiveEndDate() string {
	if t.EndDate == "" {
		return t.Date
	}
	return t.EndDate
}

// Span возвращает календарный интервал задачи [date, endDate] без учёта времени.
func (t *Task) Span() (time.Time, time.Time, error) {
	from, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(t.EffectiveEndDate())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// FieldError указывает, какое поле не прошло проверку
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Event) == "" {
		return &FieldError{Field: "event", Err: ErrEmptyEvent}
	}
	if _, err := ParseDate(t.Date); err != nil {
		return &FieldError{Field: "date", Err: err}
	}
	if _, err := ParseDate(t.EffectiveEndDate()); err != nil {
		return &FieldError{Field: "endDate", Err: err}
	}
	if _, err := ParseClock(t.StartTime); err != nil {
		return &FieldError{Field: "startTime", Err: err}
	}
	if _, err := ParseClock(t.EndTime); err != nil {
		return &FieldError{Field: "endTime", Err: err}
	}
	return nil
}

// CheckOrder проверяет, что окончание не раньше начала. Для импортированных
// событий не вызывается: календарь может содержать такие записи.
func (t *Task) CheckOrder() error {
	start, err := t.Start()
	if err != nil {
		return err
	}
	end, err := t.End()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return &FieldError{Field: "endTime", Err: ErrEndBeforeStart}
	}
	return nil
}

func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ParseClock разбирает время HH:MM; пустое значение считается полуночью.
func ParseClock(value string) (time.Duration, error) {
	if value == "" {
		value = MidnightTime
	}
	c, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute, nil
}

func combine(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(offset), nil
}
