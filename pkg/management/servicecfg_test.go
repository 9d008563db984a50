package management_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/azpublish/pkg/management"
)

func TestServiceConfigValidate(t *testing.T) {
	for _, testCase := range []struct {
		name string
		cfg  management.ServiceConfig
		err  error
	}{
		{"defaults are valid", management.ServiceConfig{}.WithDefaults(), nil},
		{"two instances on R2", management.ServiceConfig{InstanceCount: 2, OperatingSystem: management.OSWindows2008R2}, nil},
		{"zero instances", management.ServiceConfig{InstanceCount: 0, OperatingSystem: 1}, management.ErrInvalidInstanceCount},
		{"negative instances", management.ServiceConfig{InstanceCount: -1, OperatingSystem: 1}, management.ErrInvalidInstanceCount},
		{"unknown operating system", management.ServiceConfig{InstanceCount: 1, OperatingSystem: 3}, management.ErrInvalidOperatingSystem},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.cfg.Validate()
			if testCase.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, testCase.err)
			}
		})
	}
}

func TestRenderDefaultTemplate(t *testing.T) {
	renderer, err := management.NewConfigurationRenderer("", nil)
	require.NoError(t, err)

	doc, err := renderer.Render("myservice", management.ServiceConfig{
		OperatingSystem: management.OSWindows2008R2,
		InstanceCount:   3,
		RemoteDesktop: &management.RemoteDesktopSettings{
			Username:              "cloud9",
			EncryptedPassword:     "ZW5jcnlwdGVk",
			CertificateThumbprint: "ABCDEF0123",
			Enabled:               false,
			Expiration:            time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	output := string(doc)
	assert.Contains(t, output, `serviceName="myservice"`)
	assert.Contains(t, output, `osFamily="2"`)
	assert.Contains(t, output, `<Role name="WebRole1">`)
	assert.Contains(t, output, `<Instances count="3" />`)
	assert.Contains(t, output, `AccountUsername" value="cloud9"`)
	assert.Contains(t, output, `AccountEncryptedPassword" value="ZW5jcnlwdGVk"`)
	assert.Contains(t, output, `RemoteAccess.Enabled" value="false"`)
	assert.Contains(t, output, `AccountExpiration" value="2030-01-02T03:04:05.0000000+00:00"`)
	assert.Contains(t, output, `thumbprint="ABCDEF0123"`)
}

func TestRenderWithoutRemoteDesktop(t *testing.T) {
	renderer, err := management.NewConfigurationRenderer("", nil)
	require.NoError(t, err)

	doc, err := renderer.Render("myservice", management.ServiceConfig{})
	require.NoError(t, err)

	assert.NotContains(t, string(doc), "RemoteAccess")
	assert.Contains(t, string(doc), `osFamily="1"`)
	assert.Contains(t, string(doc), `<Instances count="1" />`)
}

func TestRenderCustomTemplateWithVariables(t *testing.T) {
	renderer, err := management.NewConfigurationRenderer(`{{serviceName}}:{{instanceCount}}:{{vars.tier}}`, map[string]any{"tier": "gold"})
	require.NoError(t, err)

	doc, err := renderer.Render("svc", management.ServiceConfig{InstanceCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "svc:2:gold", string(doc))

	encoded, err := renderer.RenderEncoded("svc", management.ServiceConfig{InstanceCount: 2})
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("svc:2:gold")), encoded)
}

func TestInvalidTemplate(t *testing.T) {
	_, err := management.NewConfigurationRenderer("{{#if remoteDesktop}}unterminated", nil)
	assert.Error(t, err)
}

func TestParseConfiguration(t *testing.T) {
	renderer, err := management.NewConfigurationRenderer("", nil)
	require.NoError(t, err)

	encoded, err := renderer.RenderEncoded("svc", management.ServiceConfig{
		OperatingSystem: management.OSWindows2008R2,
		InstanceCount:   4,
	})
	require.NoError(t, err)

	summary, err := management.ParseConfiguration(encoded)
	require.NoError(t, err)
	assert.Equal(t, &management.ConfigurationSummary{OperatingSystem: 2, InstanceCount: 4}, summary)

	_, err = management.ParseConfiguration("not base64!")
	assert.Error(t, err)
}
