package handlers

import (
	"context"
	"io"
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"
	"taskPlanner/internal/service"
)

type Service interface {
	HealthCheck(ctx context.Context) error

	CreateTask(ctx context.Context, options ...task.TaskOption) (*task.Task, error)
	GetTaskByID(ctx context.Context, id string) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, options ...task.TaskOption) (*task.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error

	GetActiveTasks(ctx context.Context, page, limit int) ([]*task.Task, error)
	GetCompletedTasks(ctx context.Context, page, limit int) ([]*task.Task, error)
	GetDeletedTasks(ctx context.Context, page, limit int) ([]*task.Task, error)
	RestoreTask(ctx context.Context, id string) (*task.Task, error)
	PurgeTask(ctx context.Context, id string) error

	ImportCalendar(ctx context.Context, r io.Reader) (*service.ImportResult, error)
	WeeklyReport(ctx context.Context, weekStart time.Time) (*report.WeeklyReport, error)
}

var _ Service = (*service.TaskService)(nil)
