package publishclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"

	"github.com/nais/azpublish/pkg/blobstore"
	"github.com/nais/azpublish/pkg/credentials"
	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/packager"
	"github.com/nais/azpublish/pkg/publish"
	"github.com/nais/azpublish/pkg/settings"
)

const (
	PortalURL           = "http://windows.azure.com"
	PublishSettingsURL  = "https://windows.azure.com/download/publishprofile.aspx?client=nodejs&lang=en"
	buildDirectoryName  = "azpublish-build-"
	defaultSettingsPath = "."
)

var openURL = browser.OpenURL

type PackageFunc func(ctx context.Context, sourceDir, outputDir string) (string, error)

// Runner carries out the commands that talk to the management API.
type Runner struct {
	Config      *Config
	Client      management.Client
	Credentials *settings.Credentials
	Stores      blobstore.Factory
	Deriver     credentials.Deriver
	Package     PackageFunc
	Out         io.Writer

	// Zero values keep the defaults of the publish package.
	PollInterval  time.Duration
	WatchInterval time.Duration
}

// Connect loads the publish settings and sets up a management client for the selected subscription.
func Connect(cfg *Config) (*Runner, error) {
	path := cfg.Settings
	if len(path) == 0 {
		var err error
		path, err = settings.Discover(defaultSettingsPath)
		if err != nil {
			return nil, ErrorWrap(ExitInvocationFailure, err)
		}
	}

	s, err := settings.Load(path)
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	profile, err := s.Select(cfg.Subscription)
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	err = profile.Validate()
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	creds, err := profile.Credentials()
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	client, err := management.New(management.Config{
		Endpoint:       profile.Endpoint,
		SubscriptionID: profile.Subscription.ID,
		Certificate:    creds.TLSCertificate(),
	})
	if err != nil {
		return nil, ErrorWrap(ExitInternalError, err)
	}

	log.Infof("Using subscription '%s' (%s) from '%s'", profile.Subscription.Name, profile.Subscription.ID, path)

	return &Runner{
		Config:      cfg,
		Client:      client,
		Credentials: creds,
		Stores:      blobstore.NewAzureFactory(blobstore.DefaultDomain),
		Deriver:     credentials.NewDeriver(),
		Package:     packager.Package,
		Out:         os.Stdout,
	}, nil
}

func (r *Runner) poller() *publish.Poller {
	poller := publish.NewPoller(r.Client)
	r.tune(poller)
	return poller
}

func (r *Runner) tune(poller *publish.Poller) {
	if r.PollInterval > 0 {
		poller.Interval = r.PollInterval
		poller.MaxInterval = r.PollInterval
	}
}

// Publish packages the application directory, uploads it and deploys it to the service,
// then waits for the role instances to start.
func (r *Runner) Publish(ctx context.Context) error {
	cfg := r.Config

	err := cfg.ValidatePublish()
	if err != nil {
		return ErrorWrap(ExitInvocationFailure, err)
	}

	slot, _ := cfg.DeploymentSlot()

	renderer, err := cfg.Renderer()
	if err != nil {
		return err
	}

	serviceConfig, certificate, err := r.serviceConfig()
	if err != nil {
		return err
	}

	log.Infof("[1/6] Start packaging of '%s'", cfg.Location)

	buildDir, err := os.MkdirTemp("", buildDirectoryName)
	if err != nil {
		return ErrorWrap(ExitInternalError, err)
	}
	defer os.RemoveAll(buildDir)

	packagePath, err := r.Package(ctx, cfg.Location, buildDir)
	if err != nil {
		return wrapStep(err, ExitPackagingFailure, "packaging failed")
	}

	log.Infof("[2/6] Packaging succeeded, uploading to blob storage")

	uploader := publish.NewUploader(r.Client, r.poller(), r.Stores)
	packageURL, err := uploader.Upload(ctx, packagePath)
	if err != nil {
		return wrapStep(err, ExitUploadFailure, "upload failed")
	}

	log.Infof("[3/6] Package uploaded to %s; start publishing", packageURL)

	err = os.Remove(packagePath)
	if err != nil {
		log.Warnf("Remove local package: %s", err)
	}

	publisher := publish.NewPublisher(r.Client, slot, renderer)
	r.tune(publisher.Poller)
	if r.WatchInterval > 0 {
		publisher.WatchInterval = r.WatchInterval
	}

	err = publisher.Publish(ctx, packageURL, cfg.Service, serviceConfig, certificate)
	if err != nil {
		return wrapStep(err, ExitPublishFailure, "publish failed")
	}

	log.Infof("[4/6] Publish succeeded; waiting for role instances")

	url, err := publisher.WaitForServiceStarted(ctx, cfg.Service, func(status management.InstanceStatus) {
		log.Infof("[5/6] Role instance status is now %s", status)
	})
	if err != nil {
		if len(url) > 0 {
			log.Warnf("Service URL: %s", url)
		}
		return wrapStep(err, ExitInstanceFailure, "waiting for role instances")
	}

	log.Infof("[6/6] Service running and available on %s", url)

	return nil
}

// Configure replaces the configuration of the current deployment without uploading a new package.
func (r *Runner) Configure(ctx context.Context) error {
	cfg := r.Config

	err := cfg.ValidateConfigure()
	if err != nil {
		return ErrorWrap(ExitInvocationFailure, err)
	}

	slot, _ := cfg.DeploymentSlot()

	renderer, err := cfg.Renderer()
	if err != nil {
		return err
	}

	serviceConfig, _, err := r.serviceConfig()
	if err != nil {
		return err
	}

	orchestrator := publish.NewOrchestrator(r.Client, r.poller(), renderer)
	err = orchestrator.UpgradeConfiguration(ctx, cfg.Service, slot, serviceConfig)
	if err != nil {
		return wrapStep(err, ExitDeploymentFailure, "configuration change failed")
	}

	log.Infof("Configuration of '%s' in slot %s updated", cfg.Service, slot)
	return nil
}

func (r *Runner) Locations(ctx context.Context) error {
	err := r.Config.ValidateList()
	if err != nil {
		return ErrorWrap(ExitInvocationFailure, err)
	}

	locations, err := r.Client.ListLocations(ctx)
	if err != nil {
		return wrapStep(err, ExitUnavailable, "list locations")
	}

	return r.render(locations, locationsTable(locations))
}

func (r *Runner) Services(ctx context.Context) error {
	err := r.Config.ValidateList()
	if err != nil {
		return ErrorWrap(ExitInvocationFailure, err)
	}

	slot, _ := r.Config.DeploymentSlot()

	services, err := publish.NewInventory(r.Client).ListServices(ctx, slot)
	if err != nil {
		return wrapStep(err, ExitUnavailable, "list services")
	}

	return r.render(services, servicesTable(services))
}

func (r *Runner) render(value any, t table) error {
	err := render(r.Out, r.Config.Output, value, t)
	if err != nil {
		return ErrorWrap(ExitInternalError, err)
	}
	return nil
}

// serviceConfig builds the deployment configuration from the command line options. Remote desktop
// settings are always present; with remote desktop disabled they carry throwaway credentials.
func (r *Runner) serviceConfig() (management.ServiceConfig, []byte, error) {
	cfg := r.Config

	username, password := credentials.DefaultUsername, credentials.RandomPassword()
	if cfg.RDP {
		username, password = cfg.RDPUser, cfg.RDPPassword
	}

	rdp, err := r.Deriver.DeriveRDPCredentialPackage(username, password, r.Credentials.Key, r.Credentials.Certificate)
	if err != nil {
		return management.ServiceConfig{}, nil, ErrorWrap(ExitInternalError, fmt.Errorf("derive remote desktop credentials: %w", err))
	}

	serviceConfig := management.ServiceConfig{
		OperatingSystem: cfg.OperatingSystem,
		InstanceCount:   cfg.Instances,
		Datacenter:      cfg.Datacenter,
		RemoteDesktop: &management.RemoteDesktopSettings{
			Username:              rdp.Username,
			EncryptedPassword:     rdp.EncryptedPassword,
			CertificateThumbprint: rdp.Thumbprint,
			Enabled:               cfg.RDP,
		},
	}.WithDefaults()

	return serviceConfig, rdp.Certificate, nil
}

func OpenPortal() error {
	log.Infof("Opening %s", PortalURL)
	return openBrowser(PortalURL)
}

func DownloadSettings() error {
	log.Infof("Opening %s; save the file in the application directory", PublishSettingsURL)
	return openBrowser(PublishSettingsURL)
}

func openBrowser(url string) error {
	err := openURL(url)
	if err != nil {
		return Errorf(ExitInternalError, "open browser: %s", err)
	}
	return nil
}
