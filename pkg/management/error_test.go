package management_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nais/azpublish/pkg/management"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, management.IsNotFound(&management.Error{StatusCode: http.StatusNotFound}))
	assert.True(t, management.IsNotFound(&management.Error{StatusCode: http.StatusBadRequest, Code: "ResourceNotFound"}))
	assert.True(t, management.IsNotFound(fmt.Errorf("get deployment: %w", &management.Error{StatusCode: http.StatusNotFound})))
	assert.False(t, management.IsNotFound(&management.Error{StatusCode: http.StatusConflict}))
	assert.False(t, management.IsNotFound(errors.New("not found")))
	assert.False(t, management.IsNotFound(nil))
}

func TestRemoteMessage(t *testing.T) {
	op := &management.Operation{
		Status: management.OperationFailed,
		Error:  &management.ErrorDetail{Code: "BadRequest", Message: "remote says no"},
	}
	opErr := management.NewOperationError("req-1", op)

	assert.Equal(t, "remote says no", management.RemoteMessage(fmt.Errorf("deploy: %w", opErr)))
	assert.Equal(t, "api says no", management.RemoteMessage(&management.Error{StatusCode: 400, Message: "api says no"}))
	assert.Equal(t, "", management.RemoteMessage(errors.New("local")))

	assert.EqualError(t, opErr, "operation req-1 finished with status Failed: BadRequest: remote says no")
	assert.EqualError(t, management.NewOperationError("req-2", &management.Operation{Status: management.OperationFailed}), "operation req-2 finished with status Failed")
}

func TestParseSlot(t *testing.T) {
	for input, expected := range map[string]management.Slot{
		"stage":      management.SlotStaging,
		"Staging":    management.SlotStaging,
		"production": management.SlotProduction,
		"":           management.SlotProduction,
	} {
		slot, ok := management.ParseSlot(input)
		assert.True(t, ok, input)
		assert.Equal(t, expected, slot, input)
	}

	_, ok := management.ParseSlot("canary")
	assert.False(t, ok)
}
