package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"taskPlanner/internal/ical"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"
	repo "taskPlanner/internal/repository"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type RepoType string

const (
	DBType       RepoType = "DB"
	InMemoryType RepoType = "InMemory"
)

const (
	DefaultReportCacheSize = 16

	// сколько времени удалённую задачу ещё можно восстановить
	RestoreWindow = 30 * 24 * time.Hour
)

type TaskService struct {
	repo     TaskRepository
	RepoType RepoType

	newID   task.IDGenerator
	parser  *ical.Parser
	reports *reportCache
	now     func() time.Time
}

// reportCache хранит готовые отчёты по неделям. Поколение растёт при каждой
// записи, чтобы отчёт, посчитанный до неё, не попал в кэш.
type reportCache struct {
	mu         sync.Mutex
	generation uint64
	entries    *lru.Cache[string, report.WeeklyReport]
}

func newReportCache(size int) *reportCache {
	entries, err := lru.New[string, report.WeeklyReport](size)
	if err != nil {
		entries, _ = lru.New[string, report.WeeklyReport](DefaultReportCacheSize)
	}
	return &reportCache{entries: entries}
}

func (c *reportCache) get(key string) (report.WeeklyReport, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	weekly, ok := c.entries.Get(key)
	return weekly, c.generation, ok
}

func (c *reportCache) add(key string, weekly report.WeeklyReport, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == generation {
		c.entries.Add(key, weekly)
	}
}

func (c *reportCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries.Purge()
}

type Option func(*TaskService)

func WithIDGenerator(gen task.IDGenerator) Option {
	return func(s *TaskService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithReportCacheSize(size int) Option {
	return func(s *TaskService) {
		if size > 0 {
			s.reports = newReportCache(size)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTaskService(repository TaskRepository, repoType RepoType, opts ...Option) TaskService {
	s := TaskService{
		repo:     repository,
		RepoType: repoType,
		newID:    task.NewID,
		reports:  newReportCache(DefaultReportCacheSize),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.parser = ical.NewParser(ical.WithIDGenerator(s.newID))

	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, options ...task.TaskOption) (*task.Task, error) {
	newTask := &task.Task{ID: s.newID()}
	newTask.Apply(options...)

	if err := validate(newTask); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	s.invalidateReports()

	logger.Info("Service: Задача создана", zap.String("task_id", newTask.ID))
	return newTask, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	found, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if found.Flag == task.FlagDeleted {
		return nil, NewTaskDeleted(id)
	}
	return found, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, options ...task.TaskOption) (*task.Task, error) {
	found, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found.Apply(options...)
	if err := validate(found); err != nil {
		return nil, err
	}

	if err := s.update(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *TaskService) SetCompleted(ctx context.Context, id string, completed bool) (*task.Task, error) {
	return s.UpdateTask(ctx, id, task.WithCompleted(completed))
}

// DeleteTask помечает задачу удалённой, её можно восстановить в течение RestoreWindow
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	found, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSoft(ctx, found); err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return NewVersionConflict(id, found.Version)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound(id)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	s.invalidateReports()

	logger.Info("Service: Задача помечена удалённой", zap.String("task_id", id))
	return nil
}

func (s *TaskService) RestoreTask(ctx context.Context, id string) (*task.Task, error) {
	found, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if found.Flag != task.FlagDeleted {
		return nil, NewNotDeleted(id)
	}
	if found.DeletedAt != nil && s.now().Sub(*found.DeletedAt) > RestoreWindow {
		return nil, NewBusinessError(CodeRestoreExpired,
			"срок восстановления задачи истёк",
			ToDetail("id", id),
			ToDetail("deletedAt", found.DeletedAt))
	}

	found.Flag = task.FlagActive
	found.DeletedAt = nil
	if err := s.update(ctx, found); err != nil {
		return nil, err
	}

	logger.Info("Service: Задача восстановлена", zap.String("task_id", id))
	return found, nil
}

// PurgeTask окончательно удаляет задачу, ранее помеченную удалённой
func (s *TaskService) PurgeTask(ctx context.Context, id string) error {
	found, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if found.Flag != task.FlagDeleted {
		return NewNotDeleted(id)
	}

	if err := s.repo.DeleteFull(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound(id)
		}
		return fmt.Errorf("полное удаление задачи: %w", err)
	}
	s.invalidateReports()

	logger.Info("Service: Задача удалена окончательно", zap.String("task_id", id))
	return nil
}

func (s *TaskService) GetActiveTasks(ctx context.Context, page, limit int) ([]*task.Task, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	tasks, err := s.repo.GetAllWithLimit(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetCompletedTasks(ctx context.Context, page, limit int) ([]*task.Task, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	tasks, err := s.repo.GetCompletedWithLimit(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение выполненных задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetDeletedTasks(ctx context.Context, page, limit int) ([]*task.Task, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	tasks, err := s.repo.GetFlaggedWithLimit(ctx, page, limit, task.FlagDeleted)
	if err != nil {
		return nil, fmt.Errorf("получение удалённых задач: %w", err)
	}
	return tasks, nil
}

type ImportResult struct {
	Imported []*task.Task
	Skipped  int
}

// ImportCalendar разбирает .ics и сохраняет события в исходном порядке.
// Записи, не прошедшие проверку (например, без SUMMARY), пропускаются.
func (s *TaskService) ImportCalendar(ctx context.Context, r io.Reader) (*ImportResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("чтение календаря: %w", err)
	}

	records, err := s.parser.Parse(string(content))
	if err != nil {
		var formatErr *ical.FormatError
		if errors.As(err, &formatErr) {
			return nil, NewInvalidCalendar(formatErr)
		}
		return nil, fmt.Errorf("разбор календаря: %w", err)
	}

	result := &ImportResult{Imported: make([]*task.Task, 0, len(records))}
	defer func() {
		if len(result.Imported) > 0 {
			s.invalidateReports()
		}
	}()

	for i := range records {
		record := &records[i]
		if err := record.Validate(); err != nil {
			logger.Warn("Service: Событие календаря пропущено",
				zap.Int("index", i),
				zap.Error(err))
			result.Skipped++
			continue
		}

		if err := s.repo.Create(ctx, record); err != nil {
			return result, fmt.Errorf("сохранение события %d: %w", i, err)
		}
		result.Imported = append(result.Imported, record)
	}

	logger.Info("Service: Календарь импортирован",
		zap.Int("imported", len(result.Imported)),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// WeeklyReport строит отчёт по активным задачам недели, начинающейся с weekStart
func (s *TaskService) WeeklyReport(ctx context.Context, weekStart time.Time) (*report.WeeklyReport, error) {
	y, m, d := weekStart.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	key := start.Format(task.DateLayout)

	cached, generation, ok := s.reports.get(key)
	if ok {
		logger.Debug("Service: Отчёт взят из кэша", zap.String("week", key))
		return &cached, nil
	}

	stored, err := s.repo.GetActiveInRange(ctx, start, start.AddDate(0, 0, report.DaysInWeek-1))
	if err != nil {
		return nil, fmt.Errorf("получение задач недели: %w", err)
	}

	tasks := make([]task.Task, 0, len(stored))
	for _, t := range stored {
		tasks = append(tasks, *t)
	}

	weekly := report.GenerateWeekly(tasks, start)
	s.reports.add(key, weekly, generation)
	return &weekly, nil
}

func (s *TaskService) get(ctx context.Context, id string) (*task.Task, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id))
			return nil, NewNotFound(id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

func (s *TaskService) update(ctx context.Context, t *task.Task) error {
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			return NewVersionConflict(t.ID, t.Version)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound(t.ID)
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}
	s.invalidateReports()
	return nil
}

func (s *TaskService) invalidateReports() {
	s.reports.purge()
}

func validate(t *task.Task) error {
	err := t.Validate()
	if err == nil {
		return nil
	}
	var fieldErr *task.FieldError
	if errors.As(err, &fieldErr) {
		return NewValidationError(fieldErr.Field, fieldErr.Err.Error())
	}
	return NewValidationError("task", err.Error())
}

func checkPage(page, limit int) error {
	if page < 1 {
		return NewValidationError("page", "должна быть не меньше 1")
	}
	if limit < 1 {
		return NewValidationError("limit", "должен быть не меньше 1")
	}
	return nil
}
