package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const serviceName = "task-planner"

type TaskHandler struct {
	TaskService Service
	now         func() time.Time
}

func NewTaskHandler(taskService Service) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
		now:         time.Now,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("error", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
		toPayload("time", s.now().UTC().Format(time.RFC3339)),
	)
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if strings.TrimSpace(request.Event) == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "event"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "событие не может быть пустым")
		return
	}

	schedule := request.Schedule()
	if rejectReversed(w, r, &schedule) {
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(),
		task.WithEvent(request.Event),
		task.WithDescription(request.Description),
		task.WithSchedule(request.Date, request.StartTime, request.EndDate, request.EndTime),
		task.WithCompleted(request.Completed),
	)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	found, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(found))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	options := updateOptions(request)

	if request.Date != nil || request.StartTime != nil || request.EndDate != nil || request.EndTime != nil {
		current, err := s.TaskService.GetTaskByID(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, err, "update_task")
			return
		}
		current.Apply(options...)
		if rejectReversed(w, r, current) {
			return
		}
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, options...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	s.setCompleted(w, r, true)
}

func (s *TaskHandler) UncompleteTask(w http.ResponseWriter, r *http.Request) {
	s.setCompleted(w, r, false)
}

func (s *TaskHandler) setCompleted(w http.ResponseWriter, r *http.Request, completed bool) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	updated, err := s.TaskService.SetCompleted(r.Context(), id, completed)
	if err != nil {
		handleServiceError(w, r, err, "set_completed")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) GetActiveTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "get_active_tasks", s.TaskService.GetActiveTasks)
}

func (s *TaskHandler) GetCompletedTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "get_completed_tasks", s.TaskService.GetCompletedTasks)
}

func (s *TaskHandler) GetDeletedTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "get_deleted_tasks", s.TaskService.GetDeletedTasks)
}

func (s *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request, operation string,
	list func(ctx context.Context, page, limit int) ([]*task.Task, error)) {
	start := time.Now()

	page, limit, field, ok := parsePagination(r)
	if !ok {
		logger.Warn("HTTP: Неверные параметры пагинации",
			zap.String("field", field),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное значение параметра "+field)
		return
	}

	tasks, err := list(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: Список задач",
		zap.String("operation", operation),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks)),
		toPayload("page", page),
		toPayload("limit", limit),
		toPayload("count", len(tasks)),
	)
}

func (s *TaskHandler) RestoreTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	restored, err := s.TaskService.RestoreTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "restore_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(restored))
}

func (s *TaskHandler) PurgeTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.PurgeTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "purge_task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func taskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return "", false
	}
	return id, true
}

// rejectReversed отклоняет форму, в которой окончание раньше начала.
// Ошибки формата дат оставляем сервису.
func rejectReversed(w http.ResponseWriter, r *http.Request, t *task.Task) bool {
	err := t.CheckOrder()
	if !errors.Is(err, task.ErrEndBeforeStart) {
		return false
	}

	logger.Warn("HTTP: Ошибка валидации",
		zap.String("field", "endTime"),
		zap.String("error", "end_before_start"),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusBadRequest, "окончание не может быть раньше начала")
	return true
}

func updateOptions(request dto.UpdateTaskRequest) []task.TaskOption {
	options := make([]task.TaskOption, 0, 4)
	if request.Event != nil {
		options = append(options, task.WithEvent(*request.Event))
	}
	if request.Description != nil {
		options = append(options, task.WithDescription(*request.Description))
	}
	options = append(options, task.WithSchedule(
		deref(request.Date), deref(request.StartTime), deref(request.EndDate), deref(request.EndTime)))
	if request.Completed != nil {
		options = append(options, task.WithCompleted(*request.Completed))
	}
	return options
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
