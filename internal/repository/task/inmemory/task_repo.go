package inmemory

import (
	"context"
	"sync"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	repo "taskPlanner/internal/repository"
)

type TaskStorage struct {
	storage map[string]*task.Task
	mtx     *sync.RWMutex
	ids     []string
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[string]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()
	taskToCreate.Flag = task.FlagActive
	taskToCreate.Version = 1

	stored := *taskToCreate
	s.storage[taskToCreate.ID] = &stored
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if existed.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++

	stored := *taskToUpdate
	s.storage[taskToUpdate.ID] = &stored
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id string) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *taskToGet
	return &found, nil
}

// мягкое удаление с изменением флага
func (s *TaskStorage) DeleteSoft(ctx context.Context, taskToDelete *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskToDelete.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if existed.Version != taskToDelete.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	existed.UpdatedAt = &now
	existed.DeletedAt = &now
	existed.Flag = task.FlagDeleted
	existed.Version++

	*taskToDelete = *existed
	return nil
}

// полное удаление
func (s *TaskStorage) DeleteFull(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// получение задач, кроме удалённых
func (s *TaskStorage) GetAllWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error) {
	return s.paginate(page, limit, func(t *task.Task) bool {
		return t.Flag != task.FlagDeleted
	}), nil
}

// получение задач с определённым флагом
func (s *TaskStorage) GetFlaggedWithLimit(ctx context.Context, page, limit int, flag task.Flag) ([]*task.Task, error) {
	return s.paginate(page, limit, func(t *task.Task) bool {
		return t.Flag == flag
	}), nil
}

// получение выполненных активных задач
func (s *TaskStorage) GetCompletedWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error) {
	return s.paginate(page, limit, func(t *task.Task) bool {
		return t.Flag == task.FlagActive && t.Completed
	}), nil
}

// GetActiveInRange возвращает активные задачи, чей интервал дат пересекается с [from, to],
// в порядке добавления
func (s *TaskStorage) GetActiveInRange(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.Flag != task.FlagActive {
			continue
		}
		start, end, err := t.Span()
		if err != nil {
			continue
		}
		if start.After(to) || end.Before(from) {
			continue
		}
		found := *t
		res = append(res, &found)
	}
	return res, nil
}

func (s *TaskStorage) paginate(page, limit int, match func(*task.Task) bool) []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	offset := (page - 1) * limit
	skipped := 0

	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}

		taskToGet := s.storage[id]
		if !match(taskToGet) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}

		found := *taskToGet
		res = append(res, &found)
	}

	return res
}
