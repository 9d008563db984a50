package publishclient

import (
	"context"
	"errors"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/nais/azpublish/pkg/management"
)

const (
	DefaultTimeout   = 45 * time.Minute
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
	DefaultOutput    = OutputTable
	DefaultSlot      = string(management.SlotProduction)
	DefaultInstances = 1
	DefaultOS        = management.OSWindows2008SP2
)

var (
	ErrServiceRequired     = errors.New("service name is required; specify --service")
	ErrLocationRequired    = errors.New("no application specified; specify --location with the application directory")
	ErrRDPCredentials      = errors.New("no remote desktop user or password specified; add --rdp-user and --rdp-password")
	ErrInvalidSlot         = errors.New("slot must be either 'staging' or 'production'")
	ErrInvalidOutputFormat = errors.New("output must be one of 'table', 'json' or 'yaml'")
)

// Config holds every option of every command. Values are resolved with the following
// precedence: flags > environment variables (AZPUBLISH_*) > config file > defaults.
type Config struct {
	Actions                   bool          `json:"actions"`
	ConfigFile                string        `json:"config"`
	Datacenter                string        `json:"datacenter"`
	Instances                 int           `json:"instances"`
	Location                  string        `json:"location"`
	LogFormat                 string        `json:"log-format"`
	LogLevel                  string        `json:"log-level"`
	MetricsFile               string        `json:"metrics-file"`
	OpenTelemetryCollectorURL string        `json:"otel-collector-endpoint"`
	OperatingSystem           int           `json:"os"`
	Output                    string        `json:"output"`
	Quiet                     bool          `json:"quiet"`
	RDP                       bool          `json:"rdp"`
	RDPPassword               string        `json:"rdp-password"`
	RDPUser                   string        `json:"rdp-user"`
	Service                   string        `json:"service"`
	Settings                  string        `json:"settings"`
	Slot                      string        `json:"slot"`
	Subscription              string        `json:"subscription"`
	Template                  string        `json:"template"`
	Timeout                   time.Duration `json:"timeout"`
	Variables                 []string      `json:"var"`
	VariablesFile             string        `json:"vars"`
}

// Keys never printed in clear text.
var SecretKeys = []string{
	"rdp-password",
}

func NewConfig() *Config {
	return &Config{
		Instances:       DefaultInstances,
		LogFormat:       DefaultLogFormat,
		LogLevel:        DefaultLogLevel,
		OperatingSystem: DefaultOS,
		Output:          DefaultOutput,
		Slot:            DefaultSlot,
		Timeout:         DefaultTimeout,
	}
}

func GlobalFlags(flags *flag.FlagSet) {
	defaults := NewConfig()
	flags.Bool("actions", false, "Use GitHub Actions compatible error and warning messages. (env AZPUBLISH_ACTIONS)")
	flags.String("config", "", "Read options from this configuration file. (env AZPUBLISH_CONFIG)")
	flags.String("log-format", defaults.LogFormat, "Log format, 'text' or 'json'; ignored with --actions. (env AZPUBLISH_LOG_FORMAT)")
	flags.String("log-level", defaults.LogLevel, "Logging verbosity. (env AZPUBLISH_LOG_LEVEL)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file when done. (env AZPUBLISH_METRICS_FILE)")
	flags.String("otel-collector-endpoint", "", "OpenTelemetry collector endpoint; tracing is off when empty. (env AZPUBLISH_OTEL_COLLECTOR_ENDPOINT)")
	flags.Bool("quiet", false, "Suppress printing of informational messages except errors. (env AZPUBLISH_QUIET)")
	flags.String("settings", "", "Publish settings file; the first .publishsettings file in the working directory if not set. (env AZPUBLISH_SETTINGS)")
	flags.String("subscription", "", "Subscription ID; required if the publish settings define several. (env AZPUBLISH_SUBSCRIPTION)")
	flags.Duration("timeout", defaults.Timeout, "Time to wait for the whole command to complete; 0 waits indefinitely. (env AZPUBLISH_TIMEOUT)")
}

func serviceConfigFlags(flags *flag.FlagSet) {
	defaults := NewConfig()
	flags.String("service", "", "Name of the hosted service. (env AZPUBLISH_SERVICE)")
	flags.String("slot", defaults.Slot, "Deployment slot, 'staging' or 'production'. (env AZPUBLISH_SLOT)")
	flags.Int("instances", defaults.Instances, "Number of role instances. (env AZPUBLISH_INSTANCES)")
	flags.Int("os", defaults.OperatingSystem, "Operating system, 1=Windows Server 2008 SP2, 2=Windows Server 2008 R2. (env AZPUBLISH_OS)")
	flags.Bool("rdp", false, "Enable remote desktop access with --rdp-user and --rdp-password. (env AZPUBLISH_RDP)")
	flags.String("rdp-user", "", "Remote desktop username. (env AZPUBLISH_RDP_USER)")
	flags.String("rdp-password", "", "Remote desktop password. (env AZPUBLISH_RDP_PASSWORD)")
	flags.String("template", "", "Service configuration template; the built-in template if not set. (env AZPUBLISH_TEMPLATE)")
	flags.StringSlice("var", nil, "Template variable in the form KEY=VALUE. Can be specified multiple times. (env AZPUBLISH_VAR)")
	flags.String("vars", "", "File containing template variables. (env AZPUBLISH_VARS)")
}

func PublishFlags(flags *flag.FlagSet) {
	serviceConfigFlags(flags)
	flags.String("location", "", "Directory where the application is located. (env AZPUBLISH_LOCATION)")
	flags.String("datacenter", "", "Datacenter for new hosted services; see 'azpublish locations'. (env AZPUBLISH_DATACENTER)")
}

func ConfigureFlags(flags *flag.FlagSet) {
	serviceConfigFlags(flags)
}

func LocationsFlags(flags *flag.FlagSet) {
	flags.StringP("output", "o", DefaultOutput, "Output format: table, json or yaml. (env AZPUBLISH_OUTPUT)")
}

func ServicesFlags(flags *flag.FlagSet) {
	LocationsFlags(flags)
	flags.String("slot", DefaultSlot, "Deployment slot to summarize, 'staging' or 'production'. (env AZPUBLISH_SLOT)")
}

// CommandContext bounds ctx by the configured timeout. A zero or negative timeout means no deadline.
func (cfg *Config) CommandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}

func (cfg *Config) DeploymentSlot() (management.Slot, error) {
	slot, ok := management.ParseSlot(cfg.Slot)
	if !ok {
		return "", ErrInvalidSlot
	}
	return slot, nil
}

func (cfg *Config) validateServiceConfig() error {
	if len(cfg.Service) == 0 {
		return ErrServiceRequired
	}

	if cfg.RDP && (len(cfg.RDPUser) == 0 || len(cfg.RDPPassword) == 0) {
		return ErrRDPCredentials
	}

	if _, err := cfg.DeploymentSlot(); err != nil {
		return err
	}

	return management.ServiceConfig{
		OperatingSystem: cfg.OperatingSystem,
		InstanceCount:   cfg.Instances,
	}.Validate()
}

func (cfg *Config) ValidatePublish() error {
	err := cfg.validateServiceConfig()
	if err != nil {
		return err
	}

	if len(cfg.Location) == 0 {
		return ErrLocationRequired
	}

	return nil
}

func (cfg *Config) ValidateConfigure() error {
	return cfg.validateServiceConfig()
}

func (cfg *Config) ValidateList() error {
	switch cfg.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return ErrInvalidOutputFormat
	}

	_, err := cfg.DeploymentSlot()
	return err
}
