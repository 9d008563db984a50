package publish

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nais/azpublish/pkg/management"
)

type ServiceSummary struct {
	Name            string `json:"name" yaml:"name"`
	Datacenter      string `json:"datacenter" yaml:"datacenter"`
	OperatingSystem int    `json:"operatingSystem" yaml:"operatingSystem"`
	InstanceCount   int    `json:"instanceCount" yaml:"instanceCount"`
}

// Inventory collects a summary of every hosted service in the subscription.
type Inventory struct {
	Client management.Client
	Logger log.FieldLogger
}

func NewInventory(client management.Client) *Inventory {
	return &Inventory{
		Client: client,
		Logger: log.StandardLogger(),
	}
}

// ListServices looks up the details of all services in parallel. The result keeps the
// order in which the platform listed the services.
func (inv *Inventory) ListServices(ctx context.Context, slot management.Slot) ([]ServiceSummary, error) {
	services, err := inv.Client.ListHostedServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hosted services: %w", err)
	}

	summaries := make([]ServiceSummary, len(services))
	group, ctx := errgroup.WithContext(ctx)

	for i, service := range services {
		group.Go(func() error {
			summary, err := inv.summarize(ctx, service.ServiceName, slot)
			if err != nil {
				return err
			}
			summaries[i] = *summary
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (inv *Inventory) summarize(ctx context.Context, service string, slot management.Slot) (*ServiceSummary, error) {
	detail, err := inv.Client.GetHostedServiceDetail(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("get details of %s: %w", service, err)
	}

	summary := &ServiceSummary{
		Name:            service,
		Datacenter:      detail.Properties.Location,
		OperatingSystem: management.OSWindows2008SP2,
		InstanceCount:   1,
	}

	deployments := detail.DeploymentsInSlot(slot)
	if len(deployments) == 0 || len(deployments[0].Configuration) == 0 {
		return summary, nil
	}

	cfg, err := management.ParseConfiguration(deployments[0].Configuration)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", service, err)
	}

	summary.OperatingSystem = cfg.OperatingSystem
	summary.InstanceCount = cfg.InstanceCount

	return summary, nil
}
