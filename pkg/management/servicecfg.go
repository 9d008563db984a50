package management

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aymerick/raymond"
)

const (
	OSWindows2008SP2 = 1
	OSWindows2008R2  = 2

	DefaultRoleName = "WebRole1"
)

var (
	ErrInvalidInstanceCount   = errors.New("instance count must be at least 1")
	ErrInvalidOperatingSystem = errors.New("operating system must be 1 (Windows Server 2008 SP2) or 2 (Windows Server 2008 R2)")
)

type RemoteDesktopSettings struct {
	Username              string
	EncryptedPassword     string
	CertificateThumbprint string
	Enabled               bool
	Expiration            time.Time
}

type ServiceConfig struct {
	OperatingSystem int
	InstanceCount   int
	Datacenter      string
	RoleName        string
	RemoteDesktop   *RemoteDesktopSettings
}

func (c ServiceConfig) WithDefaults() ServiceConfig {
	if c.OperatingSystem == 0 {
		c.OperatingSystem = OSWindows2008SP2
	}
	if c.InstanceCount == 0 {
		c.InstanceCount = 1
	}
	if len(c.RoleName) == 0 {
		c.RoleName = DefaultRoleName
	}
	return c
}

func (c ServiceConfig) Validate() error {
	if c.InstanceCount < 1 {
		return ErrInvalidInstanceCount
	}
	switch c.OperatingSystem {
	case OSWindows2008SP2, OSWindows2008R2:
	default:
		return ErrInvalidOperatingSystem
	}
	return nil
}

const defaultConfigurationTemplate = `<?xml version="1.0"?>
<ServiceConfiguration xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" serviceName="{{serviceName}}" osFamily="{{osFamily}}" osVersion="*" xmlns="http://schemas.microsoft.com/ServiceHosting/2008/10/ServiceConfiguration">
  <Role name="{{roleName}}">
    <Instances count="{{instanceCount}}" />
    <ConfigurationSettings>
{{#if remoteDesktop}}
      <Setting name="Microsoft.WindowsAzure.Plugins.RemoteAccess.Enabled" value="{{remoteDesktop.enabled}}" />
      <Setting name="Microsoft.WindowsAzure.Plugins.RemoteAccess.AccountUsername" value="{{remoteDesktop.username}}" />
      <Setting name="Microsoft.WindowsAzure.Plugins.RemoteAccess.AccountEncryptedPassword" value="{{remoteDesktop.encryptedPassword}}" />
      <Setting name="Microsoft.WindowsAzure.Plugins.RemoteAccess.AccountExpiration" value="{{remoteDesktop.expiration}}" />
      <Setting name="Microsoft.WindowsAzure.Plugins.RemoteForwarder.Enabled" value="{{remoteDesktop.enabled}}" />
{{/if}}
    </ConfigurationSettings>
    <Certificates>
{{#if remoteDesktop}}
      <Certificate name="Microsoft.WindowsAzure.Plugins.RemoteAccess.PasswordEncryption" thumbprint="{{remoteDesktop.thumbprint}}" thumbprintAlgorithm="sha1" />
{{/if}}
    </Certificates>
  </Role>
</ServiceConfiguration>
`

// ConfigurationRenderer produces service configuration documents (.cscfg) from a
// handlebars template. Extra template variables are available under "vars".
type ConfigurationRenderer struct {
	template  *raymond.Template
	variables map[string]any
}

func NewConfigurationRenderer(source string, variables map[string]any) (*ConfigurationRenderer, error) {
	if len(source) == 0 {
		source = defaultConfigurationTemplate
	}
	template, err := raymond.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse service configuration template: %s", err)
	}
	if variables == nil {
		variables = make(map[string]any)
	}
	return &ConfigurationRenderer{
		template:  template,
		variables: variables,
	}, nil
}

func (r *ConfigurationRenderer) Render(service string, cfg ServiceConfig) ([]byte, error) {
	cfg = cfg.WithDefaults()

	ctx := map[string]any{
		"serviceName":   service,
		"osFamily":      cfg.OperatingSystem,
		"instanceCount": cfg.InstanceCount,
		"roleName":      cfg.RoleName,
		"vars":          r.variables,
	}

	if rdp := cfg.RemoteDesktop; rdp != nil {
		expiration := rdp.Expiration
		if expiration.IsZero() {
			expiration = time.Now().AddDate(1, 0, 0)
		}
		ctx["remoteDesktop"] = map[string]any{
			"enabled":           strconv.FormatBool(rdp.Enabled),
			"username":          rdp.Username,
			"encryptedPassword": rdp.EncryptedPassword,
			"thumbprint":        rdp.CertificateThumbprint,
			"expiration":        expiration.Format("2006-01-02T15:04:05.0000000-07:00"),
		}
	}

	output, err := r.template.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("execute service configuration template: %s", err)
	}

	return []byte(output), nil
}

// RenderEncoded renders the configuration document in the base64 form the API expects.
func (r *ConfigurationRenderer) RenderEncoded(service string, cfg ServiceConfig) (string, error) {
	doc, err := r.Render(service, cfg)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(doc), nil
}

type ConfigurationSummary struct {
	OperatingSystem int
	InstanceCount   int
}

// ParseConfiguration reads the operating system and instance count of the first
// role from a base64 encoded service configuration document.
func ParseConfiguration(encoded string) (*ConfigurationSummary, error) {
	doc, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode service configuration: %w", err)
	}

	parsed := struct {
		OSFamily int `xml:"osFamily,attr"`
		Roles    []struct {
			Instances struct {
				Count int `xml:"count,attr"`
			} `xml:"Instances"`
		} `xml:"Role"`
	}{}

	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parse service configuration: %w", err)
	}

	summary := &ConfigurationSummary{
		OperatingSystem: parsed.OSFamily,
	}
	if len(parsed.Roles) > 0 {
		summary.InstanceCount = parsed.Roles[0].Instances.Count
	}

	return summary, nil
}
