package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrFolderNotFound     = fmt.Errorf("folder not found: %w", ErrNotFound)
	ErrParentNotFound     = fmt.Errorf("parent folder not found: %w", ErrNotFound)
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("resource already exists")
	ErrDuplicateName      = fmt.Errorf("duplicate name: %w", ErrConflict)
	ErrDuplicateUsername  = fmt.Errorf("duplicate username: %w", ErrConflict)
	ErrHasChildren        = errors.New("folder has subfolders")
	ErrStorageIO          = errors.New("storage i/o error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPayloadTooLarge    = errors.New("payload too large")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func FolderNotFound(msg string) *AppError {
	return &AppError{Code: "FOLDER_NOT_FOUND", Message: msg, Err: ErrFolderNotFound}
}

func ParentNotFound(msg string) *AppError {
	return &AppError{Code: "PARENT_NOT_FOUND", Message: msg, Err: ErrParentNotFound}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Err: ErrValidation}
}

func DuplicateName(msg string) *AppError {
	return &AppError{Code: "DUPLICATE_NAME", Message: msg, Err: ErrDuplicateName}
}

func DuplicateUsername(msg string) *AppError {
	return &AppError{Code: "DUPLICATE_USERNAME", Message: msg, Err: ErrDuplicateUsername}
}

func HasChildren(msg string) *AppError {
	return &AppError{Code: "HAS_CHILDREN", Message: msg, Err: ErrHasChildren}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password", Err: ErrInvalidCredentials}
}

func PayloadTooLarge(msg string) *AppError {
	return &AppError{Code: "PAYLOAD_TOO_LARGE", Message: msg, Err: ErrPayloadTooLarge}
}

// StorageIO wraps a blob-store failure. The cause is kept for logging and
// never shown to clients.
func StorageIO(msg string, err error) *AppError {
	return &AppError{Code: "STORAGE_IO_ERROR", Message: msg, Err: errors.Join(ErrStorageIO, err)}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}
