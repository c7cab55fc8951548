// Package azblob stores blobs in Azure Blob Storage. The locator bucket is
// used as the container name.
package azblob

import (
	"context"
	"errors"
	"io"

	"fileproc/blobstore"
	"fileproc/internal/logging"
	"fileproc/internal/model"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// API is the subset of *azblob.Client the driver uses.
type API interface {
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

type Store struct {
	api API
}

func New(api API) *Store { return &Store{api: api} }

// NewClient prefers a connection string and falls back to the default
// Azure credential chain against serviceURL.
func NewClient(o blobstore.AzureOptions) (*azblob.Client, error) {
	if o.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(o.ConnectionString, nil)
	}
	if o.ServiceURL == "" {
		return nil, errors.New("azblob: service_url or connection_string is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azblob.NewClient(o.ServiceURL, cred, nil)
}

func (s *Store) Download(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := s.api.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, model.NotFound("blob", container+"/"+name)
		}
		return nil, &model.TransferError{Op: "download", Bucket: container, Key: name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransferError{Op: "download", Bucket: container, Key: name, Err: err}
	}
	logging.L().Debug("azblob download", "container", container, "blob", name, "bytes", len(data))
	return data, nil
}

func (s *Store) Upload(ctx context.Context, container, name string, data []byte) error {
	if _, err := s.api.UploadBuffer(ctx, container, name, data, nil); err != nil {
		return &model.TransferError{Op: "upload", Bucket: container, Key: name, Err: err}
	}
	logging.L().Debug("azblob upload", "container", container, "blob", name, "bytes", len(data))
	return nil
}

func (s *Store) Close() error { return nil }

func init() {
	blobstore.Register("azblob", func(_ context.Context, o blobstore.Options) (blobstore.Store, error) {
		cli, err := NewClient(o.Azure)
		if err != nil {
			return nil, err
		}
		return New(cli), nil
	})
}
