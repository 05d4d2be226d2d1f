package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskPlanner/internal/models/task"
	"taskPlanner/internal/repository"
	"taskPlanner/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(event, date string) *task.Task {
	return &task.Task{
		ID:        uuid.NewString(),
		Event:     event,
		Date:      date,
		StartTime: "09:00",
		EndDate:   date,
		EndTime:   "10:00",
	}
}

// TestTaskStorage_New тестирует создание хранилища
func TestTaskStorage_New(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NotNil(t, storage)
}

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	err := storage.HealthCheck(context.Background())
	assert.NoError(t, err)
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := newTask("Team standup", "2024-12-02")
	taskToCreate.Description = "daily"

	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)

	// Проверяем, что поля заполнены
	assert.False(t, taskToCreate.CreatedAt.IsZero())
	assert.Equal(t, task.FlagActive, taskToCreate.Flag)
	assert.Equal(t, 1, taskToCreate.Version)

	retrieved, err := storage.GetByID(ctx, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team standup", retrieved.Event)
	assert.Equal(t, "daily", retrieved.Description)
}

// TestTaskStorage_GetByID тестирует получение задачи по ID
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	t.Run("existing task", func(t *testing.T) {
		taskToCreate := newTask("Existing", "2024-12-02")
		require.NoError(t, storage.Create(ctx, taskToCreate))

		got, err := storage.GetByID(ctx, taskToCreate.ID)
		require.NoError(t, err)
		assert.Equal(t, taskToCreate.ID, got.ID)
	})

	t.Run("returned task is a copy", func(t *testing.T) {
		taskToCreate := newTask("Copy", "2024-12-02")
		require.NoError(t, storage.Create(ctx, taskToCreate))

		got, err := storage.GetByID(ctx, taskToCreate.ID)
		require.NoError(t, err)
		got.Event = "changed"

		again, err := storage.GetByID(ctx, taskToCreate.ID)
		require.NoError(t, err)
		assert.Equal(t, "Copy", again.Event)
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := storage.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

// TestTaskStorage_Update тестирует обновление задачи
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToCreate := newTask("Original", "2024-12-02")
	require.NoError(t, storage.Create(ctx, taskToCreate))

	t.Run("successful update", func(t *testing.T) {
		got, err := storage.GetByID(ctx, taskToCreate.ID)
		require.NoError(t, err)

		got.Event = "Updated"
		got.Completed = true
		require.NoError(t, storage.Update(ctx, got))

		assert.Equal(t, 2, got.Version)
		assert.NotNil(t, got.UpdatedAt)

		stored, err := storage.GetByID(ctx, taskToCreate.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", stored.Event)
		assert.True(t, stored.Completed)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		stale := *taskToCreate
		stale.Version = 1

		err := storage.Update(ctx, &stale)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
	})

	t.Run("non-existent task", func(t *testing.T) {
		err := storage.Update(ctx, newTask("Missing", "2024-12-02"))
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

// TestTaskStorage_DeleteSoft тестирует мягкое удаление
func TestTaskStorage_DeleteSoft(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToDelete := newTask("To delete", "2024-12-02")
	require.NoError(t, storage.Create(ctx, taskToDelete))

	require.NoError(t, storage.DeleteSoft(ctx, taskToDelete))
	assert.Equal(t, task.FlagDeleted, taskToDelete.Flag)
	assert.NotNil(t, taskToDelete.DeletedAt)
	assert.Equal(t, 2, taskToDelete.Version)

	// Задача остаётся доступной по ID
	got, err := storage.GetByID(ctx, taskToDelete.ID)
	require.NoError(t, err)
	assert.Equal(t, task.FlagDeleted, got.Flag)

	t.Run("stale version", func(t *testing.T) {
		stale := *taskToDelete
		stale.Version = 1
		assert.ErrorIs(t, storage.DeleteSoft(ctx, &stale), repository.ErrVersionConflict)
	})

	t.Run("non-existent task", func(t *testing.T) {
		err := storage.DeleteSoft(ctx, newTask("Missing", "2024-12-02"))
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

// TestTaskStorage_DeleteFull тестирует полное удаление
func TestTaskStorage_DeleteFull(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	taskToPurge := newTask("To purge", "2024-12-02")
	require.NoError(t, storage.Create(ctx, taskToPurge))

	require.NoError(t, storage.DeleteFull(ctx, taskToPurge.ID))

	_, err := storage.GetByID(ctx, taskToPurge.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tasks, err := storage.GetAllWithLimit(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, storage.DeleteFull(ctx, taskToPurge.ID), repository.ErrNotFound)
}

// TestTaskStorage_GetAllWithLimit тестирует получение всех задач с пагинацией
func TestTaskStorage_GetAllWithLimit(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	// Удалённая задача в начале не должна сдвигать страницы
	deleted := newTask("Deleted", "2024-12-01")
	require.NoError(t, storage.Create(ctx, deleted))
	require.NoError(t, storage.DeleteSoft(ctx, deleted))

	for i := 1; i <= 5; i++ {
		require.NoError(t, storage.Create(ctx, newTask(fmt.Sprintf("Task %d", i), "2024-12-02")))
	}

	tasks, err := storage.GetAllWithLimit(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, tasks, 5)

	tests := []struct {
		page   int
		limit  int
		events []string
	}{
		{page: 1, limit: 2, events: []string{"Task 1", "Task 2"}},
		{page: 2, limit: 2, events: []string{"Task 3", "Task 4"}},
		{page: 3, limit: 2, events: []string{"Task 5"}},
		{page: 4, limit: 2, events: []string{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page, err := storage.GetAllWithLimit(ctx, tt.page, tt.limit)
			require.NoError(t, err)

			events := make([]string, 0, len(page))
			for _, tk := range page {
				events = append(events, tk.Event)
			}
			assert.Equal(t, tt.events, events)
		})
	}
}

// TestTaskStorage_GetFlaggedWithLimit тестирует выборку по флагу
func TestTaskStorage_GetFlaggedWithLimit(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	active := newTask("Active", "2024-12-02")
	deleted := newTask("Deleted", "2024-12-02")
	require.NoError(t, storage.Create(ctx, active))
	require.NoError(t, storage.Create(ctx, deleted))
	require.NoError(t, storage.DeleteSoft(ctx, deleted))

	got, err := storage.GetFlaggedWithLimit(ctx, 1, 10, task.FlagDeleted)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, deleted.ID, got[0].ID)
}

// TestTaskStorage_GetCompletedWithLimit тестирует выборку выполненных задач
func TestTaskStorage_GetCompletedWithLimit(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	open := newTask("Open", "2024-12-02")
	done := newTask("Done", "2024-12-02")
	done.Completed = true
	doneDeleted := newTask("Done and deleted", "2024-12-02")
	doneDeleted.Completed = true

	for _, tk := range []*task.Task{open, done, doneDeleted} {
		require.NoError(t, storage.Create(ctx, tk))
	}
	require.NoError(t, storage.DeleteSoft(ctx, doneDeleted))

	got, err := storage.GetCompletedWithLimit(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Done", got[0].Event)
}

// TestTaskStorage_GetActiveInRange тестирует выборку задач, пересекающих окно дат
func TestTaskStorage_GetActiveInRange(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	from := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 7, 0, 0, 0, 0, time.UTC)

	inside := newTask("Inside", "2024-12-03")
	spanning := newTask("Spanning", "2024-11-29")
	spanning.EndDate = "2024-12-01"
	before := newTask("Before", "2024-11-30")
	after := newTask("After", "2024-12-08")
	broken := newTask("Broken", "not-a-date")
	deleted := newTask("Deleted", "2024-12-04")

	for _, tk := range []*task.Task{inside, spanning, before, after, broken, deleted} {
		require.NoError(t, storage.Create(ctx, tk))
	}
	require.NoError(t, storage.DeleteSoft(ctx, deleted))

	got, err := storage.GetActiveInRange(ctx, from, to)
	require.NoError(t, err)

	events := make([]string, 0, len(got))
	for _, tk := range got {
		events = append(events, tk.Event)
	}
	assert.Equal(t, []string{"Inside", "Spanning"}, events)
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентный доступ
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	taskCount := 100
	goroutines := 10

	var wg sync.WaitGroup
	errs := make(chan error, taskCount)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < taskCount/goroutines; j++ {
				if err := storage.Create(ctx, newTask(fmt.Sprintf("Task %d-%d", workerID, j), "2024-12-02")); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	tasks, err := storage.GetAllWithLimit(ctx, 1, taskCount*2)
	require.NoError(t, err)
	assert.Len(t, tasks, taskCount)
}

// TestTaskStorage_EdgeCases тестирует граничные случаи пагинации
func TestTaskStorage_EdgeCases(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	tasks, err := storage.GetAllWithLimit(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, storage.Create(ctx, newTask("Single", "2024-12-02")))

	// Страница за пределами данных
	tasks, err = storage.GetAllWithLimit(ctx, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// Нулевой лимит
	tasks, err = storage.GetAllWithLimit(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
