package dto

import (
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"
)

type CreateTaskRequest struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndDate     string `json:"endDate"`
	EndTime     string `json:"endTime"`
	Completed   bool   `json:"completed"`
}

type UpdateTaskRequest struct {
	Event       *string `json:"event,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	Event       string     `json:"event"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	StartTime   string     `json:"startTime"`
	EndDate     string     `json:"endDate"`
	EndTime     string     `json:"endTime"`
	Completed   bool       `json:"completed"`
	Duration    int        `json:"duration"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	Version     int        `json:"version"`
}

type ImportResponse struct {
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Tasks    []TaskResponse `json:"tasks"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Event:       t.Event,
		Description: t.Description,
		Date:        t.Date,
		StartTime:   t.StartTime,
		EndDate:     t.EndDate,
		EndTime:     t.EndTime,
		Completed:   t.Completed,
		Duration:    report.TaskDuration(*t),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
		Version:     t.Version,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// Schedule собирает задачу из полей формы для проверки порядка начала и окончания
func (r CreateTaskRequest) Schedule() task.Task {
	return task.Task{Date: r.Date, StartTime: r.StartTime, EndDate: r.EndDate, EndTime: r.EndTime}
}
