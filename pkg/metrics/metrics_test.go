package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPublishCompleted(t *testing.T) {
	success := testutil.ToFloat64(publishes.With(prometheus.Labels{labelResult: resultSuccess}))
	failure := testutil.ToFloat64(publishes.With(prometheus.Labels{labelResult: resultFailure}))

	PublishCompleted(nil)
	PublishCompleted(errors.New("oops"))
	PublishCompleted(errors.New("oops again"))

	assert.Equal(t, success+1, testutil.ToFloat64(publishes.With(prometheus.Labels{labelResult: resultSuccess})))
	assert.Equal(t, failure+2, testutil.ToFloat64(publishes.With(prometheus.Labels{labelResult: resultFailure})))
}

func TestInstanceStatusChanged(t *testing.T) {
	before := testutil.ToFloat64(instanceStatusChanges.With(prometheus.Labels{labelStatus: "BusyRole"}))
	InstanceStatusChanged("BusyRole")
	assert.Equal(t, before+1, testutil.ToFloat64(instanceStatusChanges.With(prometheus.Labels{labelStatus: "BusyRole"})))
}

func TestWriteTextfile(t *testing.T) {
	StepFinished(StepDeploy, time.Now().Add(-3*time.Second), nil)

	path := filepath.Join(t.TempDir(), "azpublish.prom")
	err := WriteTextfile(path)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "azpublish_publish_step_duration_seconds")
	assert.Contains(t, string(data), `step="Deploy package"`)
}
