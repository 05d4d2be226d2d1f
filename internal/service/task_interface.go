package service

import (
	"context"
	"time"

	"taskPlanner/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id string) (*task.Task, error)
	DeleteSoft(ctx context.Context, t *task.Task) error
	DeleteFull(ctx context.Context, id string) error

	GetAllWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error)
	GetFlaggedWithLimit(ctx context.Context, page, limit int, flag task.Flag) ([]*task.Task, error)
	GetCompletedWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error)
	GetActiveInRange(ctx context.Context, from, to time.Time) ([]*task.Task, error)
}
