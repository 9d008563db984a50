package publishclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/publish"
)

type ExitCode int

// Keep separate to avoid skewing exit codes
const (
	ExitSuccess ExitCode = iota
	ExitPublishFailure
	ExitDeploymentFailure
	ExitInstanceFailure
	ExitUnavailable
	ExitInvocationFailure
	ExitInternalError
	ExitPackagingFailure
	ExitUploadFailure
	ExitTimeout
)

type Error struct {
	Code ExitCode
	Err  error
}

func (err *Error) Error() string {
	return err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

func Errorf(exitCode ExitCode, format string, args ...interface{}) *Error {
	return &Error{
		Code: exitCode,
		Err:  fmt.Errorf(format, args...),
	}
}

func ErrorWrap(exitCode ExitCode, err error) *Error {
	return &Error{
		Code: exitCode,
		Err:  err,
	}
}

func ErrorExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if !errors.As(err, &e) {
		return ExitInternalError
	}
	return e.Code
}

// classify picks an exit code for an error coming out of the publish flow.
// fallback is used when nothing more specific applies.
func classify(err error, fallback ExitCode) ExitCode {
	var opErr *management.OperationError
	var apiErr *management.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, publish.ErrOperationTimeout),
		errors.Is(err, publish.ErrWatchTimeout):
		return ExitTimeout
	case errors.Is(err, publish.ErrInstanceFailed):
		return ExitInstanceFailure
	case errors.As(err, &opErr):
		return ExitDeploymentFailure
	case errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusInternalServerError:
		return ExitUnavailable
	}

	return fallback
}

func wrapStep(err error, fallback ExitCode, step string) error {
	if err == nil {
		return nil
	}
	return ErrorWrap(classify(err, fallback), fmt.Errorf("%s: %w", step, err))
}
