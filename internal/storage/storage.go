package storage

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

type Storage interface {
	// Put stores data with the given key and returns the storage URL
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get retrieves data from the given storage URL
	Get(ctx context.Context, url string) ([]byte, error)
	// Delete removes the object at the given storage URL
	Delete(ctx context.Context, url string) error
	// URL returns the storage URL Put reports for key
	URL(key string) string
}

type Config struct {
	// Kind selects the backend: "file" or "s3"
	Kind      string
	Directory string
	Bucket    string
}

func New(ctx context.Context, c Config) (Storage, error) {
	switch c.Kind {
	case "", "file":
		return NewFileStorage(ctx, FileConfig{
			Directory: c.Directory,
		})
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket: c.Bucket,
		})
	default:
		return nil, xerrors.Errorf("unknown storage backend: %s", c.Kind)
	}
}

// PutAll stores every object concurrently. Either all objects are stored and
// their URLs returned in key order, or the ones already stored are deleted
// again and the first error is returned.
func PutAll(ctx context.Context, s Storage, keys []string, data [][]byte) ([]string, error) {
	if len(keys) != len(data) {
		return nil, xerrors.Errorf("keys and data length mismatch: %d != %d", len(keys), len(data))
	}

	urls := make([]string, len(keys))

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range keys {
		eg.Go(func() error {
			url, err := s.Put(egCtx, keys[i], data[i])
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		for _, url := range urls {
			if url == "" {
				continue
			}
			// The context may already be cancelled by the failing Put.
			_ = s.Delete(context.WithoutCancel(ctx), url)
		}
		return nil, err
	}

	return urls, nil
}
