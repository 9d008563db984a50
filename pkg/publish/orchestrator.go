package publish

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nais/azpublish/pkg/management"
)

const (
	configurationStaleMessage = "configuration settings defined in the service definition file are not specified in the service configuration file"

	upgradeModeAuto = "auto"
)

type DeploymentDescriptor struct {
	ServiceName string
	Slot        management.Slot
	PackageURL  string
	Config      management.ServiceConfig
}

func (d DeploymentDescriptor) fields() log.Fields {
	return log.Fields{
		"service": d.ServiceName,
		"slot":    d.Slot,
	}
}

// IsConfigurationStaleError reports whether the platform rejected a deployment because
// the stored configuration no longer matches the service definition in the package.
func IsConfigurationStaleError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(management.RemoteMessage(err), configurationStaleMessage)
}

// Orchestrator creates new deployments or upgrades existing ones.
type Orchestrator struct {
	Client   management.Client
	Poller   *Poller
	Renderer *management.ConfigurationRenderer
	Logger   log.FieldLogger
}

func NewOrchestrator(client management.Client, poller *Poller, renderer *management.ConfigurationRenderer) *Orchestrator {
	return &Orchestrator{
		Client:   client,
		Poller:   poller,
		Renderer: renderer,
		Logger:   log.StandardLogger(),
	}
}

// Deploy submits the deployment and waits for it to finish. A stale configuration is
// refreshed from the caller's config and the upgrade resubmitted, at most once.
func (o *Orchestrator) Deploy(ctx context.Context, d DeploymentDescriptor) error {
	logger := o.Logger.WithFields(d.fields())
	forceRefresh := false

	for {
		logger.Debugf("Starting deployment with forced configuration refresh: %t", forceRefresh)

		handle, err := o.CreateOrUpdateDeployment(ctx, d, forceRefresh)
		if err == nil {
			logger.Debugf("Deployment started with request id %s", handle)
			err = o.Poller.AwaitCompletion(ctx, handle)
		}

		if err == nil {
			return nil
		}

		if forceRefresh || !IsConfigurationStaleError(err) {
			return err
		}

		logger.Warnf("Deployment rejected because of an out of date configuration; retrying with a regenerated configuration")
		forceRefresh = true
	}
}

// CreateOrUpdateDeployment submits a create request when the slot is empty and an
// upgrade request otherwise. Upgrades reuse the running configuration unless forceRefresh is set.
func (o *Orchestrator) CreateOrUpdateDeployment(ctx context.Context, d DeploymentDescriptor, forceRefresh bool) (management.OperationHandle, error) {
	err := d.Config.WithDefaults().Validate()
	if err != nil {
		return "", err
	}

	current, err := o.Client.GetDeployment(ctx, d.ServiceName, d.Slot)
	if management.IsNotFound(err) {
		return o.createDeployment(ctx, d)
	}
	if err != nil {
		return "", fmt.Errorf("look up deployment of %s in slot %s: %w", d.ServiceName, d.Slot, err)
	}

	return o.upgradeDeployment(ctx, d, current, forceRefresh)
}

// UpgradeConfiguration replaces the configuration of a running deployment.
func (o *Orchestrator) UpgradeConfiguration(ctx context.Context, service string, slot management.Slot, cfg management.ServiceConfig) error {
	err := cfg.WithDefaults().Validate()
	if err != nil {
		return err
	}

	configuration, err := o.Renderer.RenderEncoded(service, cfg)
	if err != nil {
		return err
	}

	handle, err := o.Client.ChangeConfiguration(ctx, service, slot, &management.ChangeConfigurationInput{
		Configuration:        configuration,
		TreatWarningsAsError: false,
		Mode:                 "Auto",
	})
	if err != nil {
		return fmt.Errorf("change configuration of %s in slot %s: %w", service, slot, err)
	}

	return o.Poller.AwaitCompletion(ctx, handle)
}

func (o *Orchestrator) createDeployment(ctx context.Context, d DeploymentDescriptor) (management.OperationHandle, error) {
	configuration, err := o.Renderer.RenderEncoded(d.ServiceName, d.Config)
	if err != nil {
		return "", err
	}

	input := &management.CreateDeploymentInput{
		Name:                 uuid.NewString(),
		PackageURL:           d.PackageURL,
		Label:                newLabel(),
		Configuration:        configuration,
		StartDeployment:      true,
		TreatWarningsAsError: false,
	}

	o.Logger.WithFields(d.fields()).Infof("Creating deployment %s", input.Name)

	handle, err := o.Client.CreateDeployment(ctx, d.ServiceName, d.Slot, input)
	if err != nil {
		return "", fmt.Errorf("create deployment of %s in slot %s: %w", d.ServiceName, d.Slot, err)
	}

	return handle, nil
}

func (o *Orchestrator) upgradeDeployment(ctx context.Context, d DeploymentDescriptor, current *management.Deployment, forceRefresh bool) (management.OperationHandle, error) {
	var configuration string
	var err error

	if forceRefresh {
		configuration, err = o.Renderer.RenderEncoded(d.ServiceName, d.Config)
		if err != nil {
			return "", err
		}
	} else {
		configuration, err = o.currentConfiguration(ctx, d, current)
		if err != nil {
			return "", err
		}
	}

	o.Logger.WithFields(d.fields()).Infof("Upgrading existing deployment")

	handle, err := o.Client.UpgradeDeployment(ctx, d.ServiceName, d.Slot, &management.UpgradeDeploymentInput{
		Mode:          upgradeModeAuto,
		PackageURL:    d.PackageURL,
		Configuration: configuration,
		Label:         newLabel(),
	})
	if err != nil {
		return "", fmt.Errorf("upgrade deployment of %s in slot %s: %w", d.ServiceName, d.Slot, err)
	}

	return handle, nil
}

// currentConfiguration returns the configuration blob of the most recent deployment in the slot.
func (o *Orchestrator) currentConfiguration(ctx context.Context, d DeploymentDescriptor, current *management.Deployment) (string, error) {
	detail, err := o.Client.GetHostedServiceDetail(ctx, d.ServiceName)
	if err != nil {
		return "", fmt.Errorf("get details of %s: %w", d.ServiceName, err)
	}

	deployments := detail.DeploymentsInSlot(d.Slot)
	if len(deployments) > 0 {
		return deployments[len(deployments)-1].Configuration, nil
	}

	if current != nil && len(current.Configuration) > 0 {
		return current.Configuration, nil
	}

	return "", fmt.Errorf("%w: no deployment of %s in slot %s", ErrResourceDisappeared, d.ServiceName, d.Slot)
}

func newLabel() string {
	return base64.StdEncoding.EncodeToString([]byte(uuid.NewString()))
}
