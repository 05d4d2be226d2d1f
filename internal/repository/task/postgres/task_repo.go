package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	repo "taskPlanner/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const taskColumns = `id,
				event,
				description,
				to_char(date, 'YYYY-MM-DD'),
				start_time,
				COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''),
				end_time,
				completed,
				created_at,
				updated_at,
				deleted_at,
				version,
				flag`

const slowQuery = time.Millisecond * 100

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	if s.pool == nil {
		return
	}
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

// Migrate применяет встроенные миграции
func (s *Storage) Migrate() error {
	logger.Info("Repository: Применение миграций")

	m, closeDB, err := s.migrator()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

// Down откатывает все миграции
func (s *Storage) Down() error {
	logger.Info("Repository: Откат миграций")

	m, closeDB, err := s.migrator()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка отката миграций", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Repository: Миграции откачены")
	return nil
}

func (s *Storage) migrator() (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("чтение миграций: %w", err)
	}

	db, err := sql.Open("pgx", s.connString)
	if err != nil {
		return nil, nil, fmt.Errorf("подключение для миграций: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("инициализация миграций: %w", err)
	}

	return m, func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("Repository: Ошибка закрытия миграций", zap.NamedError("source", srcErr), zap.NamedError("db", dbErr))
		}
	}, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, event, description, date, start_time, end_date, end_time, completed, created_at, version, flag)
				VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::date, $7, $8, $9, 1, $10)
				RETURNING created_at, version, flag`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.Event,
		taskToCreate.Description,
		taskToCreate.Date,
		taskToCreate.StartTime,
		taskToCreate.EndDate,
		taskToCreate.EndTime,
		taskToCreate.Completed,
		time.Now(),
		task.FlagActive,
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.Version, &taskToCreate.Flag)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start, slowQuery)
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET event = $1,
				description = $2,
				date = $3,
				start_time = $4,
				end_date = NULLIF($5, '')::date,
				end_time = $6,
				completed = $7,
				flag = $8,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $9 AND version = $10
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Event,
		taskToUpdate.Description,
		taskToUpdate.Date,
		taskToUpdate.StartTime,
		taskToUpdate.EndDate,
		taskToUpdate.EndTime,
		taskToUpdate.Completed,
		taskToUpdate.Flag,
		taskToUpdate.ID,
		taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missingOrConflict(ctx, taskToUpdate, "Конфликт версий при обновлении задачи")
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow(start, slowQuery)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1`

	found, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start, slowQuery)
	return found, nil
}

// мягкое удаление задачи
func (s *Storage) DeleteSoft(ctx context.Context, taskToDelete *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
				SET deleted_at = NOW(),
				updated_at = NOW(),
				flag = $1,
				version = version + 1
			WHERE id = $2 AND version = $3
			RETURNING deleted_at, updated_at, version, flag`

	err := s.pool.QueryRow(ctx, query, task.FlagDeleted, taskToDelete.ID, taskToDelete.Version).
		Scan(&taskToDelete.DeletedAt, &taskToDelete.UpdatedAt, &taskToDelete.Version, &taskToDelete.Flag)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missingOrConflict(ctx, taskToDelete, "Конфликт версий при мягком удалении")
		}
		logger.Error("Repository: Мягкое удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("мягкое удаление: %w", err)
	}

	warnIfSlow(start, slowQuery)
	return nil
}

// полное удаление из БД
func (s *Storage) DeleteFull(ctx context.Context, id string) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Полное удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("полное удаление: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, slowQuery)
	return nil
}

// все задачи, кроме удалённых
func (s *Storage) GetAllWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE flag != $1
				ORDER BY created_at, id
				LIMIT $2 OFFSET $3`

	return s.queryPage(ctx, query, limit, task.FlagDeleted, limit, offset(page, limit))
}

// получение задач с определённым флагом
func (s *Storage) GetFlaggedWithLimit(ctx context.Context, page, limit int, flag task.Flag) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE flag = $1
				ORDER BY created_at, id
				LIMIT $2 OFFSET $3`

	return s.queryPage(ctx, query, limit, flag, limit, offset(page, limit))
}

// получение выполненных активных задач
func (s *Storage) GetCompletedWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE flag = $1 AND completed
				ORDER BY created_at, id
				LIMIT $2 OFFSET $3`

	return s.queryPage(ctx, query, limit, task.FlagActive, limit, offset(page, limit))
}

// GetActiveInRange возвращает активные задачи, чей интервал дат пересекается с [from, to]
func (s *Storage) GetActiveInRange(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE flag = $1
					AND date <= $3::date
					AND COALESCE(end_date, date) >= $2::date
				ORDER BY created_at, id`

	return s.queryPage(ctx, query, 0, task.FlagActive, from.Format(task.DateLayout), to.Format(task.DateLayout))
}

func (s *Storage) queryPage(ctx context.Context, query string, limit int, args ...any) ([]*task.Task, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		found, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, time.Millisecond*50+time.Millisecond*10*time.Duration(limit))
	return tasks, nil
}

// при пустом результате UPDATE отличаем отсутствие задачи от устаревшей версии
func (s *Storage) missingOrConflict(ctx context.Context, t *task.Task, msg string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, t.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("проверка существования задачи: %w", err)
	}
	if !exists {
		return repo.ErrNotFound
	}

	logger.Warn(msg,
		zap.String("task_id", t.ID),
		zap.Int("expected_version", t.Version))
	return repo.ErrVersionConflict
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Event,
		&t.Description,
		&t.Date,
		&t.StartTime,
		&t.EndDate,
		&t.EndTime,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DeletedAt,
		&t.Version,
		&t.Flag,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

func warnIfSlow(start time.Time, threshold time.Duration) {
	if time.Since(start) > threshold {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
