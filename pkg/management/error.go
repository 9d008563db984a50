package management

import (
	"errors"
	"fmt"
	"net/http"
)

const codeResourceNotFound = "ResourceNotFound"

// Error is returned for any response outside the 2xx range.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (err *Error) Error() string {
	if len(err.Code) == 0 {
		return fmt.Sprintf("management API returned %d %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("management API returned %d: %s: %s", err.StatusCode, err.Code, err.Message)
}

// OperationError is the terminal error of an asynchronous operation that did not succeed.
type OperationError struct {
	Handle  OperationHandle
	Status  OperationStatus
	Code    string
	Message string
}

func (err *OperationError) Error() string {
	if len(err.Code) == 0 && len(err.Message) == 0 {
		return fmt.Sprintf("operation %s finished with status %s", err.Handle, err.Status)
	}
	return fmt.Sprintf("operation %s finished with status %s: %s: %s", err.Handle, err.Status, err.Code, err.Message)
}

func NewOperationError(handle OperationHandle, op *Operation) *OperationError {
	e := &OperationError{
		Handle: handle,
		Status: op.Status,
	}
	if op.Error != nil {
		e.Code = op.Error.Code
		e.Message = op.Error.Message
	}
	return e
}

// IsNotFound reports whether err means the requested resource does not exist.
func IsNotFound(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == codeResourceNotFound
}

// RemoteMessage extracts the platform-defined error message from err, if any.
func RemoteMessage(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
