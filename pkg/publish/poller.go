package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/nais/azpublish/pkg/management"
)

const (
	DefaultPollInterval     = 1 * time.Second
	DefaultMaxPollInterval  = 10 * time.Second
	DefaultOperationTimeout = 15 * time.Minute
)

var (
	ErrMissingHandle    = errors.New("remote call did not return a request id")
	ErrOperationTimeout = errors.New("timed out waiting for operation to complete")

	errInProgress = errors.New("operation in progress")
)

// Poller waits for asynchronous management operations to reach a terminal state.
type Poller struct {
	Client      management.Client
	Logger      log.FieldLogger
	Interval    time.Duration
	MaxInterval time.Duration
	Timeout     time.Duration
}

func NewPoller(client management.Client) *Poller {
	return &Poller{
		Client:      client,
		Logger:      log.StandardLogger(),
		Interval:    DefaultPollInterval,
		MaxInterval: DefaultMaxPollInterval,
		Timeout:     DefaultOperationTimeout,
	}
}

func (p *Poller) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 1.5
	b.MaxElapsedTime = p.Timeout
	b.Reset()
	return b
}

// AwaitCompletion blocks until the operation identified by handle succeeds or fails.
// Transport errors end the wait immediately; only an in-progress status is retried.
func (p *Poller) AwaitCompletion(ctx context.Context, handle management.OperationHandle) error {
	if len(handle) == 0 {
		return ErrMissingHandle
	}

	logger := p.Logger.WithField("request_id", handle)

	check := func() error {
		operation, err := p.Client.GetOperationStatus(ctx, handle)
		if err != nil {
			return backoff.Permanent(err)
		}

		switch operation.Status {
		case management.OperationInProgress:
			logger.Tracef("Operation still in progress")
			return errInProgress
		case management.OperationSucceeded:
			logger.Debugf("Operation succeeded")
			return nil
		default:
			return backoff.Permanent(management.NewOperationError(handle, operation))
		}
	}

	err := backoff.Retry(check, backoff.WithContext(p.newBackOff(), ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errInProgress):
		return fmt.Errorf("%w: request id %s", ErrOperationTimeout, handle)
	default:
		return err
	}
}
