package management

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint = "https://management.core.windows.net"

	requestIDHeader = "x-ms-request-id"
	versionHeader   = "x-ms-version"

	version20091001 = "2009-10-01"
	version20101028 = "2010-10-28"
	version20110801 = "2011-08-01"
	version20111001 = "2011-10-01"

	defaultRequestTimeout = 2 * time.Minute
)

type Client interface {
	ListHostedServices(ctx context.Context) ([]HostedService, error)
	GetHostedServiceDetail(ctx context.Context, service string) (*HostedServiceDetail, error)
	GetDeployment(ctx context.Context, service string, slot Slot) (*Deployment, error)
	CreateDeployment(ctx context.Context, service string, slot Slot, input *CreateDeploymentInput) (OperationHandle, error)
	UpgradeDeployment(ctx context.Context, service string, slot Slot, input *UpgradeDeploymentInput) (OperationHandle, error)
	ChangeConfiguration(ctx context.Context, service string, slot Slot, input *ChangeConfigurationInput) (OperationHandle, error)
	CreateHostedService(ctx context.Context, input *CreateHostedServiceInput) (OperationHandle, error)
	AddCertificate(ctx context.Context, service string, certificate *CertificateFile) (OperationHandle, error)
	GetOperationStatus(ctx context.Context, handle OperationHandle) (*Operation, error)
	ListStorageServices(ctx context.Context) ([]StorageService, error)
	CreateStorageService(ctx context.Context, input *CreateStorageServiceInput) (OperationHandle, error)
	GetStorageKeys(ctx context.Context, account string) (*StorageKeys, error)
	ListLocations(ctx context.Context) ([]string, error)
}

type Config struct {
	Endpoint       string
	SubscriptionID string
	Certificate    tls.Certificate
	RequestTimeout time.Duration
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  log.FieldLogger
}

var _ Client = &HTTPClient{}

func New(cfg Config) (*HTTPClient, error) {
	if len(cfg.SubscriptionID) == 0 {
		return nil, fmt.Errorf("subscription id is required")
	}

	endpoint := cfg.Endpoint
	if len(endpoint) == 0 {
		endpoint = DefaultEndpoint
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			Certificates: []tls.Certificate{cfg.Certificate},
			MinVersion:   tls.VersionTLS12,
		},
		// The management endpoint drops reused connections mid-request.
		DisableKeepAlives: true,
	}

	return NewWithHTTPClient(endpoint, cfg.SubscriptionID, &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}), nil
}

func NewWithHTTPClient(endpoint, subscriptionID string, client *http.Client) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(endpoint, "/") + "/" + url.PathEscape(subscriptionID),
		client:  client,
		logger:  log.StandardLogger(),
	}
}

func (c *HTTPClient) ListHostedServices(ctx context.Context) ([]HostedService, error) {
	list := &hostedServiceList{}
	_, err := c.do(ctx, http.MethodGet, "/services/hostedservices", version20111001, nil, list)
	if err != nil {
		return nil, err
	}
	return list.HostedServices, nil
}

func (c *HTTPClient) GetHostedServiceDetail(ctx context.Context, service string) (*HostedServiceDetail, error) {
	detail := &HostedServiceDetail{}
	path := fmt.Sprintf("/services/hostedservices/%s?embed-detail=true", url.PathEscape(service))
	_, err := c.do(ctx, http.MethodGet, path, version20111001, nil, detail)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (c *HTTPClient) GetDeployment(ctx context.Context, service string, slot Slot) (*Deployment, error) {
	deployment := &Deployment{}
	_, err := c.do(ctx, http.MethodGet, deploymentSlotPath(service, slot), version20111001, nil, deployment)
	if err != nil {
		return nil, err
	}
	return deployment, nil
}

func (c *HTTPClient) CreateDeployment(ctx context.Context, service string, slot Slot, input *CreateDeploymentInput) (OperationHandle, error) {
	return c.do(ctx, http.MethodPost, deploymentSlotPath(service, slot), version20110801, input, nil)
}

func (c *HTTPClient) UpgradeDeployment(ctx context.Context, service string, slot Slot, input *UpgradeDeploymentInput) (OperationHandle, error) {
	return c.do(ctx, http.MethodPost, deploymentSlotPath(service, slot)+"/?comp=upgrade", version20091001, input, nil)
}

func (c *HTTPClient) ChangeConfiguration(ctx context.Context, service string, slot Slot, input *ChangeConfigurationInput) (OperationHandle, error) {
	return c.do(ctx, http.MethodPost, deploymentSlotPath(service, slot)+"/?comp=config", version20110801, input, nil)
}

func (c *HTTPClient) CreateHostedService(ctx context.Context, input *CreateHostedServiceInput) (OperationHandle, error) {
	return c.do(ctx, http.MethodPost, "/services/hostedservices", version20101028, input, nil)
}

func (c *HTTPClient) AddCertificate(ctx context.Context, service string, certificate *CertificateFile) (OperationHandle, error) {
	path := fmt.Sprintf("/services/hostedservices/%s/certificates", url.PathEscape(service))
	return c.do(ctx, http.MethodPost, path, version20091001, certificate, nil)
}

func (c *HTTPClient) GetOperationStatus(ctx context.Context, handle OperationHandle) (*Operation, error) {
	operation := &Operation{}
	path := fmt.Sprintf("/operations/%s", url.PathEscape(string(handle)))
	_, err := c.do(ctx, http.MethodGet, path, version20111001, nil, operation)
	if err != nil {
		return nil, err
	}
	return operation, nil
}

func (c *HTTPClient) ListStorageServices(ctx context.Context) ([]StorageService, error) {
	list := &storageServiceList{}
	_, err := c.do(ctx, http.MethodGet, "/services/storageservices", version20111001, nil, list)
	if err != nil {
		return nil, err
	}
	return list.StorageServices, nil
}

func (c *HTTPClient) CreateStorageService(ctx context.Context, input *CreateStorageServiceInput) (OperationHandle, error) {
	return c.do(ctx, http.MethodPost, "/services/storageservices", version20111001, input, nil)
}

func (c *HTTPClient) GetStorageKeys(ctx context.Context, account string) (*StorageKeys, error) {
	keys := &StorageKeys{}
	path := fmt.Sprintf("/services/storageservices/%s/keys", url.PathEscape(account))
	_, err := c.do(ctx, http.MethodGet, path, version20111001, nil, keys)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *HTTPClient) ListLocations(ctx context.Context) ([]string, error) {
	list := &locationList{}
	_, err := c.do(ctx, http.MethodGet, "/locations", version20101028, nil, list)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list.Locations))
	for _, location := range list.Locations {
		names = append(names, location.Name)
	}
	return names, nil
}

func deploymentSlotPath(service string, slot Slot) string {
	return fmt.Sprintf("/services/hostedservices/%s/deploymentslots/%s", url.PathEscape(service), url.PathEscape(string(slot)))
}

func (c *HTTPClient) do(ctx context.Context, method, path, apiVersion string, in, out any) (OperationHandle, error) {
	var body io.Reader
	if in != nil {
		payload, err := xml.Marshal(in)
		if err != nil {
			return "", fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(append([]byte(xml.Header), payload...))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set(versionHeader, apiVersion)
	req.Header.Set("Content-Type", "application/xml")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	handle := OperationHandle(resp.Header.Get(requestIDHeader))

	c.logger.WithFields(log.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": handle,
		"elapsed":    time.Since(started).Round(time.Millisecond),
	}).Debugf("Management API request completed")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return handle, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			RequestID:  string(handle),
		}
		detail := &ErrorDetail{}
		if len(data) > 0 && xml.Unmarshal(data, detail) == nil {
			apiErr.Code = detail.Code
			apiErr.Message = detail.Message
		}
		return handle, apiErr
	}

	if out != nil && len(data) > 0 {
		if err := xml.Unmarshal(data, out); err != nil {
			return handle, fmt.Errorf("decode response body: %w", err)
		}
	}

	return handle, nil
}
