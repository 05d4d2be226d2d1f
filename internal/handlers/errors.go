package handlers

import (
	"errors"
	"net/http"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/service"

	"go.uber.org/zap"
)

// handleServiceError отвечает бизнес-ошибкой с её кодом или 500 для остальных
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return
	}

	logger.Error("HTTP: Ошибка в Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeVersionConflict, service.CodeNotDeleted:
		return http.StatusConflict
	case service.CodeTaskDeleted, service.CodeRestoreExpired:
		return http.StatusGone
	case service.CodeInvalidCalendar:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
