package blobstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Store moves whole objects addressed by (bucket, key).
type Store interface {
	// Download returns a *model.NotFoundError for a missing object and a
	// *model.TransferError for any other failure.
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	// Upload always overwrites; failures are *model.TransferError.
	Upload(ctx context.Context, bucket, key string, data []byte) error
	Close() error
}

type AzureOptions struct {
	ServiceURL       string
	ConnectionString string
}

type Options struct {
	Root  string // localfs
	AWS   aws.Config
	Azure AzureOptions
}

type Factory func(ctx context.Context, opts Options) (Store, error)

var registry = map[string]Factory{}

func Register(name string, f Factory) { registry[name] = f }

func Open(ctx context.Context, name string, opts Options) (Store, error) {
	if f, ok := registry[name]; ok {
		return f(ctx, opts)
	}
	return nil, fmt.Errorf("blobstore: unsupported driver %q (have %v)", name, Drivers())
}

func Drivers() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
