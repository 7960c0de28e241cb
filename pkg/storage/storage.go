// Package storage stores export files in an Azure Blob Storage container.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/saksham0021/mira-astrology-review/pkg/lifecycle"
)

// System is a flat key space of blobs in one container. Keys are validated
// with ValidateKey before any call reaches the backend.
type System interface {
	// Start ensures the container exists once the coordinator starts.
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	// Download opens a blob; the caller closes Body. Missing blobs return ErrNotFound.
	Download(ctx context.Context, key string) (*Blob, error)
	// List returns one page of blobs under prefix, resuming after marker.
	List(ctx context.Context, prefix, marker string, maxResults int32) (*BlobList, error)
	Delete(ctx context.Context, key string) error
}

type Blob struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

type BlobItem struct {
	Key          string    `json:"key"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// BlobList is one page of a listing. NextMarker is empty on the last page.
type BlobList struct {
	Items      []BlobItem `json:"items"`
	NextMarker string     `json:"next_marker,omitempty"`
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New builds the client without contacting the service. A connection string
// wins over ServiceURL, which authenticates with the default Azure
// credential chain.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	var (
		client *azblob.Client
		err    error
	)
	if cfg.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	} else {
		var cred *azidentity.DefaultAzureCredential
		if cred, err = azidentity.NewDefaultAzureCredential(nil); err == nil {
			client, err = azblob.NewClient(cfg.ServiceURL, cred, nil)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("container unavailable", "error", err)
			return
		}
		a.logger.Info("container ready")
	})
	return nil
}

func (a *azure) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	_, err := a.client.UploadStream(ctx, a.container, key, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	a.logger.Debug("blob uploaded", "key", key)
	return nil
}

func (a *azure) Download(ctx context.Context, key string) (*Blob, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		return nil, blobError("download", key, err)
	}
	return &Blob{
		Body:          resp.Body,
		ContentType:   deref(resp.ContentType),
		ContentLength: deref(resp.ContentLength),
	}, nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*BlobList, error) {
	opts := &azblob.ListBlobsFlatOptions{MaxResults: to.Ptr(min(maxResults, MaxListCap))}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}

	list := &BlobList{Items: []BlobItem{}}
	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	if !pager.More() {
		return list, nil
	}

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	for _, item := range page.Segment.BlobItems {
		if item.Name == nil {
			continue
		}
		bi := BlobItem{Key: *item.Name}
		if p := item.Properties; p != nil {
			bi.ContentType = deref(p.ContentType)
			bi.Size = deref(p.ContentLength)
			bi.LastModified = deref(p.LastModified)
		}
		list.Items = append(list.Items, bi)
	}
	list.NextMarker = deref(page.NextMarker)
	return list, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		return blobError("delete", key, err)
	}
	return nil
}

func blobError(op, key string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
