package blobstore

import (
	"context"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultDomain = "core.windows.net"

	blockSize   = 4 * 1024 * 1024
	concurrency = 4
)

type Store interface {
	EnsureContainer(ctx context.Context, name string, publicBlobs bool) error
	UploadFile(ctx context.Context, container, blob, path string) error
}

// Factory opens a Store for a storage account using its access key.
type Factory func(account, key string) (Store, error)

type azureStore struct {
	account string
	client  *azblob.Client
}

// NewAzureFactory returns a Factory for accounts under the given storage domain.
func NewAzureFactory(domain string) Factory {
	if len(domain) == 0 {
		domain = DefaultDomain
	}
	return func(account, key string) (Store, error) {
		return NewAzureStore(account, key, domain)
	}
}

func NewAzureStore(account, key, domain string) (Store, error) {
	credential, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("set up storage credentials for %s: %w", account, err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.%s/", account, domain)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("set up blob client for %s: %w", account, err)
	}

	return &azureStore{
		account: account,
		client:  client,
	}, nil
}

func (s *azureStore) EnsureContainer(ctx context.Context, name string, publicBlobs bool) error {
	options := &azblob.CreateContainerOptions{}
	if publicBlobs {
		options.Access = to.Ptr(azblob.PublicAccessTypeBlob)
	}

	_, err := s.client.CreateContainer(ctx, name, options)
	if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create container %s in %s: %w", name, s.account, err)
	}

	log.Tracef("Blob storage: created container '%s' in account '%s'", name, s.account)
	return nil
}

func (s *azureStore) UploadFile(ctx context.Context, container, blob, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: open file: %w", path, err)
	}
	defer file.Close()

	_, err = s.client.UploadFile(ctx, container, blob, file, &azblob.UploadFileOptions{
		BlockSize:   blockSize,
		Concurrency: concurrency,
	})
	if err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", path, container, blob, err)
	}

	log.Tracef("Blob storage: uploaded '%s' to %s/%s", path, container, blob)
	return nil
}
