package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrorCode identifies a failure class to callers and the transport layer.
type ErrorCode string

const (
	CodeInvalidTenantID          ErrorCode = "INVALID_TENANT_ID"
	CodeMissingTenantContext     ErrorCode = "MISSING_TENANT_CONTEXT"
	CodeInvalidAppointmentWindow ErrorCode = "INVALID_APPOINTMENT_WINDOW"
	CodeInvalidAppointmentState  ErrorCode = "INVALID_APPOINTMENT_STATE"
	CodeInvalidSortField         ErrorCode = "INVALID_SORT_FIELD"
	CodeInvalidSortOrder         ErrorCode = "INVALID_SORT_ORDER"
	CodeInvalidRange             ErrorCode = "INVALID_RANGE"
	CodeCustomerNotFound         ErrorCode = "CUSTOMER_NOT_FOUND"
	CodeServiceNotFound          ErrorCode = "SERVICE_NOT_FOUND"
	CodeServiceInactive          ErrorCode = "SERVICE_INACTIVE"
	CodeLocationNotFound         ErrorCode = "LOCATION_NOT_FOUND"
	CodeAppointmentNotFound      ErrorCode = "APPOINTMENT_NOT_FOUND"
	CodeAppointmentOverlap       ErrorCode = "APPOINTMENT_OVERLAP"
	CodeUnauthorized             ErrorCode = "UNAUTHORIZED"
	CodeInternal                 ErrorCode = "INTERNAL"
)

// Conflict is one already-booked interval blocking a candidate appointment.
type Conflict struct {
	ID       uuid.UUID `json:"id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// AppError is the structured failure every service operation returns.
type AppError struct {
	Code      ErrorCode  `json:"code"`
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Err       error      `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error class onto an HTTP status for the transport layer.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeAppointmentOverlap:
		return http.StatusConflict
	case CodeCustomerNotFound, CodeServiceNotFound, CodeLocationNotFound, CodeAppointmentNotFound:
		return http.StatusNotFound
	case CodeUnauthorized, CodeMissingTenantContext:
		return http.StatusUnauthorized
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// AsAppError unwraps err into an *AppError when it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func InvalidTenantID(id string) *AppError {
	return &AppError{Code: CodeInvalidTenantID, Message: fmt.Sprintf("invalid tenant id %q", id)}
}

func MissingTenantContext() *AppError {
	return &AppError{Code: CodeMissingTenantContext, Message: "no tenant in context"}
}

func InvalidAppointmentWindow(message string) *AppError {
	return &AppError{Code: CodeInvalidAppointmentWindow, Message: message}
}

func InvalidAppointmentState(message string) *AppError {
	return &AppError{Code: CodeInvalidAppointmentState, Message: message}
}

func InvalidSortField(field string) *AppError {
	return &AppError{Code: CodeInvalidSortField, Message: fmt.Sprintf("unsupported sort field %q", field)}
}

func InvalidSortOrder(order string) *AppError {
	return &AppError{Code: CodeInvalidSortOrder, Message: fmt.Sprintf("unsupported sort order %q", order)}
}

func InvalidRange(message string) *AppError {
	return &AppError{Code: CodeInvalidRange, Message: message}
}

func CustomerNotFound() *AppError {
	return &AppError{Code: CodeCustomerNotFound, Message: "customer not found"}
}

func ServiceNotFound() *AppError {
	return &AppError{Code: CodeServiceNotFound, Message: "service not found"}
}

func ServiceInactive() *AppError {
	return &AppError{Code: CodeServiceInactive, Message: "service is inactive"}
}

func LocationNotFound() *AppError {
	return &AppError{Code: CodeLocationNotFound, Message: "location not found"}
}

func AppointmentNotFound() *AppError {
	return &AppError{Code: CodeAppointmentNotFound, Message: "appointment not found"}
}

// AppointmentOverlap carries every conflicting interval so the caller can
// resolve all of them at once.
func AppointmentOverlap(conflicts []Conflict) *AppError {
	return &AppError{
		Code:      CodeAppointmentOverlap,
		Message:   fmt.Sprintf("appointment overlaps %d existing booking(s)", len(conflicts)),
		Conflicts: conflicts,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: "unauthorized", Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal error", Err: err}
}
