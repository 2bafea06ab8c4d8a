package file

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// StorageClient stores uploaded bytes outside the database
type StorageClient interface {
	UploadFile(ctx context.Context, objectName string, fileData io.Reader) error
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, objectName string) error
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// ErrObjectNotExist is returned when the object is missing from the bucket
var ErrObjectNotExist = errors.New("storage object does not exist")

// CloudStorageClient is a StorageClient backed by a Google Cloud Storage bucket
type CloudStorageClient struct {
	BucketName string
	Client     *storage.Client
}

// NewCloudStorageClient uses application default credentials
func NewCloudStorageClient(ctx context.Context, bucketName string) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Client:     client,
	}, nil
}

func (c *CloudStorageClient) bucket() *storage.BucketHandle {
	return c.Client.Bucket(c.BucketName)
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, objectName string, fileData io.Reader) error {
	wc := c.bucket().Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to write data to object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %w", err)
	}
	return nil
}

func (c *CloudStorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	rc, err := c.bucket().Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, 0, ErrObjectNotExist
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object reader: %w", err)
	}
	return rc, rc.Attrs.Size, nil
}

// DeleteFile treats a missing object as deleted
func (c *CloudStorageClient) DeleteFile(ctx context.Context, objectName string) error {
	err := c.bucket().Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (c *CloudStorageClient) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	it := c.bucket().Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
}

// Close releases the underlying client
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}
