package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeCompanyNotFound      ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeNotAdministrator     ErrorCode = "NOT_COMPANY_ADMINISTRATOR"
	ErrCodeNotInvitedUser       ErrorCode = "NOT_INVITED_USER"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeGroupNotFound        ErrorCode = "GROUP_NOT_FOUND"
	ErrCodePermissionNotFound   ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodeStorageNotFound      ErrorCode = "STORAGE_NOT_FOUND"
	ErrCodeNoStorageSelected    ErrorCode = "NO_STORAGE_SELECTED"
	ErrCodeUnknownStorageType   ErrorCode = "UNKNOWN_STORAGE_TYPE"
	ErrCodeTemplateNotFound     ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeCategoryNotFound     ErrorCode = "TEMPLATE_CATEGORY_NOT_FOUND"
	ErrCodeBlogNotFound         ErrorCode = "BLOG_NOT_FOUND"
	ErrCodeUnknownExportType    ErrorCode = "UNKNOWN_EXPORT_TYPE"
	ErrCodeEmailTemplateMissing ErrorCode = "EMAIL_TEMPLATE_NOT_FOUND"
	ErrCodeConfigNotFound       ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeActionNotFound       ErrorCode = "CONVERT_ACTION_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeUploadFailed       ErrorCode = "UPLOAD_FAILED"
	ErrCodeConvertFailed      ErrorCode = "CONVERT_FAILED"
)

// AppError is the single error shape crossing service boundaries. Services
// return it instead of success payloads carrying failure strings, so callers
// branch on Type/Code rather than matching message text.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	ErrCompanyNotFound  = NewNotFoundError("Company does not exist.", ErrCodeCompanyNotFound)
	ErrUserNotFound     = NewNotFoundError("User not found.", ErrCodeUserNotFound)
	ErrGroupNotFound    = NewNotFoundError("Group not found.", ErrCodeGroupNotFound)
	ErrStorageNotFound  = NewNotFoundError("Storage not found.", ErrCodeStorageNotFound)
	ErrTemplateNotFound = NewNotFoundError("Template not found.", ErrCodeTemplateNotFound)
	ErrCategoryNotFound = NewNotFoundError("Template category not found.", ErrCodeCategoryNotFound)
	ErrBlogNotFound     = NewNotFoundError("Blog doesn't exist.", ErrCodeBlogNotFound)

	ErrEmailTemplateMissing = NewNotFoundError("Email template not found.", ErrCodeEmailTemplateMissing)
	ErrConfigNotFound       = NewNotFoundError("Config not found.", ErrCodeConfigNotFound)
	ErrActionNotFound       = NewNotFoundError("Convert action not found.", ErrCodeActionNotFound)

	ErrNotAdministrator = NewForbiddenError("You are not the company administrator.", ErrCodeNotAdministrator)
	ErrNotInvitedUser   = NewForbiddenError("You are not the company administrator or invited user.", ErrCodeNotInvitedUser)

	ErrNoStorageSelected = NewValidationError("No storage configured for this company.", ErrCodeNoStorageSelected)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid login credentials.", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("Your email is not verified.", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token.", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired.", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
