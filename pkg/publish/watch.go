package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/metrics"
	"github.com/nais/azpublish/pkg/telemetry"
)

type StatusChangeFunc func(status management.InstanceStatus)

// WaitForServiceStarted polls the deployment in the publisher's slot until its last role
// instance is ready, stopped or failed to start. The deployment URL is returned in every
// case where it is known, also alongside an error.
func (p *Publisher) WaitForServiceStarted(ctx context.Context, service string, onStatusChange StatusChangeFunc) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, metrics.StepWatchInstances)
	defer span.End()

	if p.WatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.WatchTimeout)
		defer cancel()
	}

	logger := p.Logger.WithField("service", service)
	lastStatus := management.InstanceStatus("")
	url := ""

	for {
		detail, err := p.Client.GetHostedServiceDetail(ctx, service)
		if err != nil {
			if ctx.Err() != nil {
				return url, fmt.Errorf("%w: %w", ErrWatchTimeout, ctx.Err())
			}
			return url, fmt.Errorf("get details of %s: %w", service, err)
		}

		deployments := detail.DeploymentsInSlot(p.Slot)
		if len(deployments) == 0 {
			return url, fmt.Errorf("%w: no deployment of %s in slot %s", ErrResourceDisappeared, service, p.Slot)
		}

		deployment := deployments[len(deployments)-1]
		url = deployment.URL

		if len(deployment.RoleInstances) == 0 {
			return url, fmt.Errorf("%w: deployment %s has no role instances", ErrResourceDisappeared, deployment.Name)
		}

		status := deployment.RoleInstances[len(deployment.RoleInstances)-1].InstanceStatus

		switch status {
		case management.ReadyRole:
			return url, nil
		case management.StoppedVM:
			logger.Warnf("Role instance is stopped; start it from the management portal")
			return url, nil
		case management.FailedStartingVM, management.FailedStartingRole:
			return url, fmt.Errorf("%w (status %s)", ErrInstanceFailed, status)
		}

		if status != lastStatus {
			logger.Debugf("Role instance status changed from %q to %q", lastStatus, status)
			metrics.InstanceStatusChanged(string(status))
			if onStatusChange != nil {
				onStatusChange(status)
			}
			lastStatus = status
		}

		select {
		case <-ctx.Done():
			return url, fmt.Errorf("%w: %w", ErrWatchTimeout, ctx.Err())
		case <-time.After(p.WatchInterval):
		}
	}
}
