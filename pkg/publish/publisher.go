package publish

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	ocodes "go.opentelemetry.io/otel/codes"

	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/metrics"
	"github.com/nais/azpublish/pkg/telemetry"
)

const (
	DefaultWatchInterval = 5 * time.Second
	DefaultWatchTimeout  = 30 * time.Minute

	// Certificates generated for remote desktop access are exported without a password.
	certificatePassword = ""
)

var (
	ErrResourceDisappeared = errors.New("deployment or its role instances disappeared")
	ErrInstanceFailed      = errors.New("starting the role instance failed; restart it from the management portal")
	ErrWatchTimeout        = errors.New("timed out waiting for the role instance to become ready")
)

// Publisher runs the end-to-end publish flow for a single slot.
type Publisher struct {
	Client        management.Client
	Slot          management.Slot
	Poller        *Poller
	Provisioner   *Provisioner
	Orchestrator  *Orchestrator
	WatchInterval time.Duration
	WatchTimeout  time.Duration
	Logger        log.FieldLogger
}

func NewPublisher(client management.Client, slot management.Slot, renderer *management.ConfigurationRenderer) *Publisher {
	poller := NewPoller(client)
	return &Publisher{
		Client:        client,
		Slot:          slot,
		Poller:        poller,
		Provisioner:   NewProvisioner(client, poller),
		Orchestrator:  NewOrchestrator(client, poller, renderer),
		WatchInterval: DefaultWatchInterval,
		WatchTimeout:  DefaultWatchTimeout,
		Logger:        log.StandardLogger(),
	}
}

// Publish deploys the package at packageURL to the service. When certificate is non-empty
// it is attached to the service before the deployment, which may reference its thumbprint.
// An invalid cfg is rejected before anything is sent. The first failing step ends the flow.
func (p *Publisher) Publish(ctx context.Context, packageURL, service string, cfg management.ServiceConfig, certificate []byte) error {
	ctx, span := telemetry.Tracer().Start(ctx, "Publish package")
	defer span.End()
	telemetry.AddPublishSpanAttributes(span, service, string(p.Slot))

	err := p.publish(ctx, packageURL, service, cfg, certificate)
	metrics.PublishCompleted(err)
	if err != nil {
		span.SetStatus(ocodes.Error, err.Error())
		span.RecordError(err)
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, packageURL, service string, cfg management.ServiceConfig, certificate []byte) error {
	err := cfg.WithDefaults().Validate()
	if err != nil {
		return err
	}

	err = step(ctx, metrics.StepEnsureService, func(ctx context.Context) error {
		return p.Provisioner.EnsureServiceExists(ctx, service, cfg)
	})
	if err != nil {
		return err
	}

	if len(certificate) > 0 {
		err = step(ctx, metrics.StepAttachCertificate, func(ctx context.Context) error {
			handle, err := p.Provisioner.AttachCertificate(ctx, service, certificate, certificatePassword)
			if err != nil {
				return err
			}
			return p.Poller.AwaitCompletion(ctx, handle)
		})
		if err != nil {
			return err
		}
	}

	return step(ctx, metrics.StepDeploy, func(ctx context.Context) error {
		return p.Orchestrator.Deploy(ctx, DeploymentDescriptor{
			ServiceName: service,
			Slot:        p.Slot,
			PackageURL:  packageURL,
			Config:      cfg,
		})
	})
}

func step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := telemetry.Tracer().Start(ctx, name)
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	metrics.StepFinished(name, started, err)

	if err != nil {
		span.SetStatus(ocodes.Error, err.Error())
	}
	return err
}
