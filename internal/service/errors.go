package service

import "fmt"

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeTaskDeleted     = "TASK_DELETED"
	CodeNotDeleted      = "NOT_DELETED"
	CodeRestoreExpired  = "RESTORE_EXPIRED"
	CodeInvalidCalendar = "INVALID_CALENDAR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("задача %s не найдена", id),
		ToDetail("id", id))
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason))
}

func NewVersionConflict(id string, version int) *BusinessError {
	return NewBusinessError(CodeVersionConflict,
		"задача была изменена другим запросом",
		ToDetail("id", id),
		ToDetail("version", version))
}

func NewTaskDeleted(id string) *BusinessError {
	return NewBusinessError(CodeTaskDeleted,
		fmt.Sprintf("задача %s удалена", id),
		ToDetail("id", id))
}

func NewNotDeleted(id string) *BusinessError {
	return NewBusinessError(CodeNotDeleted,
		fmt.Sprintf("задача %s не удалена", id),
		ToDetail("id", id))
}

func NewInvalidCalendar(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeInvalidCalendar,
		Message: "файл не является календарём iCalendar",
		Details: map[string]any{},
		Err:     err,
	}
}
