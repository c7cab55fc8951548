// Package localfs maps (bucket, key) onto root/bucket/key on the local disk.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fileproc/blobstore"
	"fileproc/internal/model"
)

type Store struct {
	root string
}

func New(root string) *Store { return &Store{root: root} }

func (s *Store) path(bucket, key string) (string, error) {
	p := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("localfs: %s/%s escapes root", bucket, key)
	}
	return p, nil
}

func (s *Store) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(bucket, key)
	if err != nil {
		return nil, &model.TransferError{Op: "download", Bucket: bucket, Key: key, Err: err}
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.NotFound("blob", bucket+"/"+key)
	}
	if err != nil {
		return nil, &model.TransferError{Op: "download", Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}

func (s *Store) Upload(ctx context.Context, bucket, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(bucket, key)
	if err == nil {
		err = writeAtomic(p, data)
	}
	if err != nil {
		return &model.TransferError{Op: "upload", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

func writeAtomic(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp := p + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *Store) Close() error { return nil }

func init() {
	blobstore.Register("localfs", func(_ context.Context, o blobstore.Options) (blobstore.Store, error) {
		if o.Root == "" {
			return nil, errors.New("localfs: blobs.root is required")
		}
		return New(o.Root), nil
	})
}
