package publish_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nais/azpublish/pkg/management"
	"github.com/nais/azpublish/pkg/publish"
)

func encodedConfiguration(t *testing.T, service string, cfg management.ServiceConfig) string {
	t.Helper()
	encoded, err := testRenderer(t).RenderEncoded(service, cfg)
	require.NoError(t, err)
	return encoded
}

func TestListServices(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("ListHostedServices", mock.Anything).Return([]management.HostedService{
		{ServiceName: "alpha"},
		{ServiceName: "bravo"},
		{ServiceName: "charlie"},
	}, nil).Once()

	client.On("GetHostedServiceDetail", mock.Anything, "alpha").Return(&management.HostedServiceDetail{
		ServiceName: "alpha",
		Properties:  management.HostedServiceProperties{Location: "West Europe"},
		Deployments: []management.Deployment{
			{Slot: "Production", Configuration: encodedConfiguration(t, "alpha", management.ServiceConfig{OperatingSystem: 2, InstanceCount: 3})},
		},
	}, nil).Once()
	client.On("GetHostedServiceDetail", mock.Anything, "bravo").Return(&management.HostedServiceDetail{
		ServiceName: "bravo",
		Properties:  management.HostedServiceProperties{Location: "North Central US"},
	}, nil).Once()
	client.On("GetHostedServiceDetail", mock.Anything, "charlie").Return(&management.HostedServiceDetail{
		ServiceName: "charlie",
		Properties:  management.HostedServiceProperties{Location: "East Asia"},
		Deployments: []management.Deployment{
			{Slot: "Staging", Configuration: encodedConfiguration(t, "charlie", management.ServiceConfig{OperatingSystem: 2, InstanceCount: 4})},
		},
	}, nil).Once()

	summaries, err := publish.NewInventory(client).ListServices(context.Background(), management.SlotProduction)
	require.NoError(t, err)
	assert.Equal(t, []publish.ServiceSummary{
		{Name: "alpha", Datacenter: "West Europe", OperatingSystem: 2, InstanceCount: 3},
		{Name: "bravo", Datacenter: "North Central US", OperatingSystem: 1, InstanceCount: 1},
		{Name: "charlie", Datacenter: "East Asia", OperatingSystem: 1, InstanceCount: 1},
	}, summaries)
}

func TestListServicesEmptySubscription(t *testing.T) {
	client := management.NewMockClient(t)
	client.On("ListHostedServices", mock.Anything).Return(nil, nil).Once()

	summaries, err := publish.NewInventory(client).ListServices(context.Background(), management.SlotStaging)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestListServicesDetailFailure(t *testing.T) {
	client := management.NewMockClient(t)
	detailErr := errors.New("connection reset")
	client.On("ListHostedServices", mock.Anything).Return([]management.HostedService{{ServiceName: "alpha"}}, nil).Once()
	client.On("GetHostedServiceDetail", mock.Anything, "alpha").Return(nil, detailErr).Once()

	_, err := publish.NewInventory(client).ListServices(context.Background(), management.SlotProduction)
	assert.ErrorIs(t, err, detailErr)
}
