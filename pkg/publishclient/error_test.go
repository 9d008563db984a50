package publishclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/publish"
)

func TestErrorExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ErrorExitCode(nil))
	assert.Equal(t, ExitInternalError, ErrorExitCode(errors.New("plain")))
	assert.Equal(t, ExitUploadFailure, ErrorExitCode(Errorf(ExitUploadFailure, "upload: %s", "denied")))
	assert.Equal(t, ExitTimeout, ErrorExitCode(fmt.Errorf("outer: %w", ErrorWrap(ExitTimeout, context.DeadlineExceeded))))
}

func TestClassify(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		err      error
		expected ExitCode
	}{
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), ExitTimeout},
		{"operation timeout", publish.ErrOperationTimeout, ExitTimeout},
		{"watch timeout", publish.ErrWatchTimeout, ExitTimeout},
		{"instance failed", fmt.Errorf("%w (status FailedStartingVM)", publish.ErrInstanceFailed), ExitInstanceFailure},
		{"operation failed", &management.OperationError{Handle: "req-1", Message: "bad package"}, ExitDeploymentFailure},
		{"server error", &management.Error{StatusCode: http.StatusServiceUnavailable}, ExitUnavailable},
		{"client error", &management.Error{StatusCode: http.StatusBadRequest}, ExitPublishFailure},
		{"unknown", errors.New("something"), ExitPublishFailure},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, classify(testCase.err, ExitPublishFailure))
		})
	}
}

func TestWrapStep(t *testing.T) {
	assert.NoError(t, wrapStep(nil, ExitUploadFailure, "upload failed"))

	cause := errors.New("403 AuthenticationFailed")
	err := wrapStep(cause, ExitUploadFailure, "upload failed")
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "upload failed: 403 AuthenticationFailed")
	assert.Equal(t, ExitUploadFailure, ErrorExitCode(err))
}
