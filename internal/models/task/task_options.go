package task

type TaskOption func(*Task)

func WithEvent(event string) TaskOption {
	if event == "" {
		return nil
	}
	return func(task *Task) {
		task.Event = event
	}
}

// описание можно очистить, поэтому пустая строка тоже применяется
func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

// WithSchedule заменяет только непустые поля расписания
func WithSchedule(date, startTime, endDate, endTime string) TaskOption {
	if date == "" && startTime == "" && endDate == "" && endTime == "" {
		return nil
	}
	return func(task *Task) {
		if date != "" {
			task.Date = date
		}
		if startTime != "" {
			task.StartTime = startTime
		}
		if endDate != "" {
			task.EndDate = endDate
		}
		if endTime != "" {
			task.EndTime = endTime
		}
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}

// Apply применяет опции, пропуская пустые
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
