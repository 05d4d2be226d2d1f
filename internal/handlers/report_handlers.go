package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/report"

	"go.uber.org/zap"
)

const (
	maxCalendarSize = 5 << 20
	calendarField   = "file"
)

// ImportCalendar принимает .ics телом запроса (text/calendar) или полем file формы
func (s *TaskHandler) ImportCalendar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxCalendarSize)

	var body io.Reader
	switch {
	case checkContentType(r, "text/calendar", "text/plain"):
		body = r.Body
	case checkContentType(r, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxCalendarSize); err != nil {
			s.rejectCalendar(w, r, err)
			return
		}
		file, _, err := r.FormFile(calendarField)
		if err != nil {
			logger.Warn("HTTP: Нет файла календаря",
				zap.String("field", calendarField),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "ожидается файл в поле "+calendarField)
			return
		}
		defer file.Close()
		body = file
	default:
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "text/calendar"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть text/calendar или multipart/form-data")
		return
	}

	result, err := s.TaskService.ImportCalendar(r.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.rejectCalendar(w, r, err)
			return
		}
		handleServiceError(w, r, err, "import_calendar")
		return
	}

	logger.Info("HTTP_OUT: Календарь импортирован",
		zap.Int("imported", len(result.Imported)),
		zap.Int("skipped", result.Skipped),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.ImportResponse{
		Imported: len(result.Imported),
		Skipped:  result.Skipped,
		Tasks:    dto.FromTaskList(result.Imported),
	})
}

func (s *TaskHandler) rejectCalendar(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("HTTP: Слишком большой календарь",
			zap.Int64("limit", tooLarge.Limit),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusRequestEntityTooLarge, "файл календаря слишком большой")
		return
	}

	logger.Warn("HTTP: Ошибка чтения формы", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusBadRequest, "неверная форма: "+err.Error())
}

// WeeklyReport отдаёт отчёт за неделю. ?week= задаёт первый день недели как есть,
// ?date= выбирает неделю, в которую попадает дата; без параметров берётся текущая.
func (s *TaskHandler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	format := query.Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		responseWithError(w, http.StatusBadRequest, "format должен быть json или yaml")
		return
	}

	weekStart := report.WeekStart(s.now())
	for _, param := range []string{"week", "date"} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		parsed, err := task.ParseDate(raw)
		if err != nil {
			logger.Warn("HTTP: Неверная дата отчёта",
				zap.String("field", param),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение параметра "+param+": ожидается YYYY-MM-DD")
			return
		}
		if param == "date" {
			parsed = report.WeekStart(parsed)
		}
		weekStart = parsed
		break
	}

	weekly, err := s.TaskService.WeeklyReport(r.Context(), weekStart)
	if err != nil {
		handleServiceError(w, r, err, "weekly_report")
		return
	}

	logger.Info("HTTP_OUT: Недельный отчёт",
		zap.String("week", weekly.WeekStart),
		zap.Int("total_tasks", weekly.TotalTasks),
		zap.String("format", format),
		zap.Duration("ms", time.Since(start)))

	if format == "yaml" {
		writeYAML(w, http.StatusOK, weekly)
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}
