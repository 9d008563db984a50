package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "azpublish"
	subsystem = "publish"

	labelStep   = "step"
	labelResult = "result"
	labelStatus = "status"

	resultSuccess = "success"
	resultFailure = "failure"
)

// Step names, also used as span names.
const (
	StepEnsureService     = "Ensure hosted service"
	StepAttachCertificate = "Attach certificate"
	StepDeploy            = "Deploy package"
	StepWatchInstances    = "Watch role instances"
)

var (
	publishes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "publishes_total",
		Help:      "number of completed publish runs",
		Namespace: namespace,
		Subsystem: subsystem,
	},
		[]string{
			labelResult,
		},
	)

	stepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "step_duration_seconds",
		Help:      "time spent in each publish step",
		Namespace: namespace,
		Subsystem: subsystem,
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	},
		[]string{
			labelStep,
			labelResult,
		},
	)

	instanceStatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "instance_status_changes_total",
		Help:      "number of observed role instance status transitions",
		Namespace: namespace,
		Subsystem: subsystem,
	},
		[]string{
			labelStatus,
		},
	)
)

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}

func PublishCompleted(err error) {
	publishes.With(prometheus.Labels{labelResult: result(err)}).Inc()
}

func StepFinished(step string, started time.Time, err error) {
	labels := prometheus.Labels{
		labelStep:   step,
		labelResult: result(err),
	}
	stepDuration.With(labels).Observe(time.Since(started).Seconds())
}

func InstanceStatusChanged(status string) {
	instanceStatusChanges.With(prometheus.Labels{labelStatus: status}).Inc()
}

// WriteTextfile dumps all registered metrics in the text exposition format,
// suitable for the node exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func init() {
	prometheus.MustRegister(publishes)
	prometheus.MustRegister(stepDuration)
	prometheus.MustRegister(instanceStatusChanges)
}
