package publish_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/publish"
)

func TestEnsureServiceExistsCreatesOnce(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("ListHostedServices", mock.Anything).Return([]management.HostedService{{ServiceName: "other"}}, nil).Once()
	client.On("CreateHostedService", mock.Anything, &management.CreateHostedServiceInput{
		ServiceName: "myservice",
		Label:       base64.StdEncoding.EncodeToString([]byte("myservice")),
		Location:    publish.DefaultLocation,
	}).Return(management.OperationHandle("create-1"), nil).Once()
	succeeds(client, "create-1")

	provisioner := publish.NewProvisioner(client, testPoller(client))

	err := provisioner.EnsureServiceExists(context.Background(), "myservice", management.ServiceConfig{})
	assert.NoError(t, err)

	err = provisioner.EnsureServiceExists(context.Background(), "myservice", management.ServiceConfig{})
	assert.NoError(t, err)

	client.AssertNumberOfCalls(t, "CreateHostedService", 1)
	client.AssertNumberOfCalls(t, "ListHostedServices", 1)
}

func TestEnsureServiceExistsSkipsExistingService(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("ListHostedServices", mock.Anything).Return([]management.HostedService{{ServiceName: "myservice"}}, nil).Once()

	err := publish.NewProvisioner(client, testPoller(client)).EnsureServiceExists(context.Background(), "myservice", management.ServiceConfig{})
	assert.NoError(t, err)
	client.AssertNotCalled(t, "CreateHostedService", mock.Anything, mock.Anything)
}

func TestEnsureServiceExistsUsesDatacenter(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("ListHostedServices", mock.Anything).Return(nil, nil).Once()
	client.On("CreateHostedService", mock.Anything, mock.MatchedBy(func(input *management.CreateHostedServiceInput) bool {
		return input.Location == "West Europe"
	})).Return(management.OperationHandle("create-1"), nil).Once()
	succeeds(client, "create-1")

	err := publish.NewProvisioner(client, testPoller(client)).EnsureServiceExists(context.Background(), "myservice", management.ServiceConfig{Datacenter: "West Europe"})
	assert.NoError(t, err)
}

func TestEnsureServiceExistsCreationFails(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("ListHostedServices", mock.Anything).Return(nil, nil).Twice()
	client.On("CreateHostedService", mock.Anything, mock.Anything).Return(management.OperationHandle("create-1"), nil).Once()
	client.On("GetOperationStatus", mock.Anything, management.OperationHandle("create-1")).Return(&management.Operation{
		Status: management.OperationFailed,
		Error:  &management.ErrorDetail{Code: "ConflictError", Message: "The specified DNS name is already taken."},
	}, nil).Once()
	client.On("CreateHostedService", mock.Anything, mock.Anything).Return(management.OperationHandle("create-2"), nil).Once()
	succeeds(client, "create-2")

	provisioner := publish.NewProvisioner(client, testPoller(client))

	err := provisioner.EnsureServiceExists(context.Background(), "myservice", management.ServiceConfig{})
	assert.ErrorContains(t, err, "DNS name is already taken")

	// failures are not remembered
	err = provisioner.EnsureServiceExists(context.Background(), "myservice", management.ServiceConfig{})
	assert.NoError(t, err)
}

func TestAttachCertificate(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("AddCertificate", mock.Anything, "myservice", &management.CertificateFile{
		Data:              base64.StdEncoding.EncodeToString([]byte("pfx")),
		CertificateFormat: "pfx",
		Password:          "",
	}).Return(management.OperationHandle("cert-1"), nil).Once()

	handle, err := publish.NewProvisioner(client, testPoller(client)).AttachCertificate(context.Background(), "myservice", []byte("pfx"), "")
	assert.NoError(t, err)
	assert.Equal(t, management.OperationHandle("cert-1"), handle)
}
