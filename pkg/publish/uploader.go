package publish

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nais/azpublish/pkg/blobstore"
	"github.com/nais/azpublish/pkg/management"
)

const (
	PackageContainer = "c9deploys"
	PackageExtension = ".cspkg"

	storageAccountNameLength  = 20
	storageAccountDescription = "Storage account created by azpublish"
)

var (
	ErrNoStorageKey = errors.New("storage account has no primary access key")

	nonWord = regexp.MustCompile(`[^\w]+`)
)

// Uploader pushes built packages to blob storage, creating a storage account if the
// subscription has none.
type Uploader struct {
	Client        management.Client
	Poller        *Poller
	Stores        blobstore.Factory
	StorageDomain string
	Location      string
	Logger        log.FieldLogger
}

func NewUploader(client management.Client, poller *Poller, stores blobstore.Factory) *Uploader {
	return &Uploader{
		Client:        client,
		Poller:        poller,
		Stores:        stores,
		StorageDomain: blobstore.DefaultDomain,
		Location:      DefaultLocation,
		Logger:        log.StandardLogger(),
	}
}

// Upload stores the file under a freshly generated blob name and returns its public URL.
// The local file is left in place.
func (u *Uploader) Upload(ctx context.Context, path string) (string, error) {
	account, err := u.storageAccount(ctx)
	if err != nil {
		return "", err
	}

	logger := u.Logger.WithField("storage_account", account)
	logger.Debugf("Using storage account")

	keys, err := u.Client.GetStorageKeys(ctx, account)
	if err != nil {
		return "", fmt.Errorf("get keys of storage account %s: %w", account, err)
	}
	if len(keys.Primary) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoStorageKey, account)
	}

	store, err := u.Stores(account, keys.Primary)
	if err != nil {
		return "", err
	}

	err = store.EnsureContainer(ctx, PackageContainer, true)
	if err != nil {
		return "", err
	}

	blob := uuid.NewString() + PackageExtension
	logger.Infof("Uploading '%s' as blob '%s'", path, blob)

	err = store.UploadFile(ctx, PackageContainer, blob, path)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s.blob.%s/%s/%s", account, u.StorageDomain, PackageContainer, blob), nil
}

func (u *Uploader) storageAccount(ctx context.Context) (string, error) {
	services, err := u.Client.ListStorageServices(ctx)
	if err != nil {
		return "", fmt.Errorf("list storage accounts: %w", err)
	}

	if len(services) > 0 {
		return services[0].ServiceName, nil
	}

	name := GenerateStorageAccountName()
	u.Logger.Infof("No storage account found; creating '%s' in %s", name, u.Location)

	handle, err := u.Client.CreateStorageService(ctx, &management.CreateStorageServiceInput{
		ServiceName: name,
		Description: storageAccountDescription,
		Label:       base64.StdEncoding.EncodeToString([]byte(name)),
		Location:    u.Location,
	})
	if err != nil {
		return "", fmt.Errorf("create storage account %s: %w", name, err)
	}

	err = u.Poller.AwaitCompletion(ctx, handle)
	if err != nil {
		return "", fmt.Errorf("create storage account %s: %w", name, err)
	}

	return name, nil
}

// GenerateStorageAccountName returns a random lower-case alphanumeric account name.
func GenerateStorageAccountName() string {
	name := nonWord.ReplaceAllString(uuid.NewString(), "")
	return strings.ToLower(name[:storageAccountNameLength])
}
