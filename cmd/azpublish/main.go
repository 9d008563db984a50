package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/nais/azpublish/pkg/conftools"
	"github.com/nais/azpublish/pkg/metrics"
	"github.com/nais/azpublish/pkg/publishclient"
	"github.com/nais/azpublish/pkg/telemetry"
	"github.com/nais/azpublish/pkg/version"
)

const serviceName = "azpublish"

func main() {
	cmd, err := newRootCommand().ExecuteC()
	if err == nil {
		return
	}
	code := publishclient.ErrorExitCode(err)
	if code == publishclient.ExitInvocationFailure {
		_ = cmd.Usage()
	}
	log.Errorf("fatal: %s", err)
	os.Exit(int(code))
}

type commandFunc func(ctx context.Context, cfg *publishclient.Config) error

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Package and publish applications to hosted services",
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	publishclient.GlobalFlags(root.PersistentFlags())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return publishclient.ErrorWrap(publishclient.ExitInvocationFailure, err)
	})

	root.AddCommand(
		command("publish", "Package, upload and deploy an application directory", publishclient.PublishFlags, connected((*publishclient.Runner).Publish)),
		command("configure", "Change the configuration of the current deployment", publishclient.ConfigureFlags, connected((*publishclient.Runner).Configure)),
		command("locations", "List datacenter locations", publishclient.LocationsFlags, connected((*publishclient.Runner).Locations)),
		command("services", "List hosted services with their instance counts", publishclient.ServicesFlags, connected((*publishclient.Runner).Services)),
		command("portal", "Open the management portal in a browser", nil, func(context.Context, *publishclient.Config) error {
			return publishclient.OpenPortal()
		}),
		command("download-settings", "Download a publish settings file using a browser", nil, func(context.Context, *publishclient.Config) error {
			return publishclient.DownloadSettings()
		}),
	)

	return root
}

func connected(fn func(*publishclient.Runner, context.Context) error) commandFunc {
	return func(ctx context.Context, cfg *publishclient.Config) error {
		runner, err := publishclient.Connect(cfg)
		if err != nil {
			return err
		}
		return fn(runner, ctx)
	}
}

func command(use, short string, flags func(*flag.FlagSet), fn commandFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, fn)
		},
	}
	if flags != nil {
		flags(cmd.Flags())
	}
	return cmd
}

func run(cmd *cobra.Command, fn commandFunc) error {
	// Configuration and context
	cfg := publishclient.NewConfig()
	v := conftools.New()

	configFile, _ := cmd.Flags().GetString("config")
	if len(configFile) == 0 {
		configFile = os.Getenv(conftools.EnvPrefix + "_CONFIG")
	}

	err := conftools.Load(v, cmd.Flags(), configFile, cfg)
	if err != nil {
		return publishclient.ErrorWrap(publishclient.ExitInvocationFailure, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := cfg.CommandContext(ctx)
	defer cancel()

	// Logging
	err = publishclient.SetupLogging(*cfg)
	if err != nil {
		return err
	}

	// Welcome
	log.Infof("azpublish %s", version.Version())
	for _, line := range conftools.Format(v, publishclient.SecretKeys) {
		log.Debugf("config: %s", line)
	}

	// Tracing
	if len(cfg.OpenTelemetryCollectorURL) > 0 {
		provider, err := telemetry.New(ctx, serviceName, cfg.OpenTelemetryCollectorURL)
		if err != nil {
			log.Warnf("Tracing disabled: %s", err)
		} else {
			defer func() {
				err := provider.Shutdown(context.Background())
				if err != nil {
					log.Errorf("Shut down tracing: %s", err)
				}
			}()
		}
	}

	err = fn(ctx, cfg)

	if len(cfg.MetricsFile) > 0 {
		metricsErr := metrics.WriteTextfile(cfg.MetricsFile)
		if metricsErr != nil {
			log.Errorf("Write metrics: %s", metricsErr)
		}
	}

	return err
}
