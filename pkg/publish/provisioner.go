package publish

import (
	"context"
	"encoding/base64"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nais/azpublish/pkg/management"
)

const (
	DefaultLocation = "North Central US"

	certificateFormatPFX = "pfx"
)

// Provisioner makes sure the hosted service exists before anything is deployed to it.
// Not safe for concurrent use.
type Provisioner struct {
	Client  management.Client
	Poller  *Poller
	Logger  log.FieldLogger
	ensured map[string]struct{}
}

func NewProvisioner(client management.Client, poller *Poller) *Provisioner {
	return &Provisioner{
		Client: client,
		Poller: poller,
		Logger: log.StandardLogger(),
	}
}

func (p *Provisioner) EnsureServiceExists(ctx context.Context, service string, cfg management.ServiceConfig) error {
	if _, ok := p.ensured[service]; ok {
		return nil
	}

	logger := p.Logger.WithField("service", service)

	services, err := p.Client.ListHostedServices(ctx)
	if err != nil {
		return fmt.Errorf("list hosted services: %w", err)
	}

	for _, existing := range services {
		if existing.ServiceName == service {
			logger.Debugf("Hosted service already exists")
			p.remember(service)
			return nil
		}
	}

	location := cfg.Datacenter
	if len(location) == 0 {
		location = DefaultLocation
	}

	logger.Infof("Creating hosted service in %s", location)

	handle, err := p.Client.CreateHostedService(ctx, &management.CreateHostedServiceInput{
		ServiceName: service,
		Label:       base64.StdEncoding.EncodeToString([]byte(service)),
		Location:    location,
	})
	if err != nil {
		return fmt.Errorf("create hosted service %s: %w", service, err)
	}

	err = p.Poller.AwaitCompletion(ctx, handle)
	if err != nil {
		return fmt.Errorf("create hosted service %s: %w", service, err)
	}

	p.remember(service)
	return nil
}

// AttachCertificate uploads a PKCS#12 certificate to the hosted service. The returned
// handle must be awaited before a deployment references the certificate.
func (p *Provisioner) AttachCertificate(ctx context.Context, service string, pfx []byte, password string) (management.OperationHandle, error) {
	p.Logger.WithField("service", service).Infof("Adding certificate to hosted service")

	handle, err := p.Client.AddCertificate(ctx, service, &management.CertificateFile{
		Data:              base64.StdEncoding.EncodeToString(pfx),
		CertificateFormat: certificateFormatPFX,
		Password:          password,
	})
	if err != nil {
		return "", fmt.Errorf("add certificate to %s: %w", service, err)
	}

	return handle, nil
}

func (p *Provisioner) remember(service string) {
	if p.ensured == nil {
		p.ensured = make(map[string]struct{})
	}
	p.ensured[service] = struct{}{}
}
