package recordstore

import (
	"context"
	"fmt"
	"sort"

	"fileproc/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Store reads and upserts file records by id.
type Store interface {
	// Get returns a *model.NotFoundError when id has no record.
	Get(ctx context.Context, id string) (model.Record, error)
	// Put overwrites any record with the same id.
	Put(ctx context.Context, rec model.Record) error
	Close() error
}

// Options carries everything a driver may need; each driver reads its own fields.
type Options struct {
	Table string
	DSN   string // sqlite
	Path  string // yamlfile
	AWS   aws.Config
}

// Factory builds a Store (dynamodb, sqlite, yamlfile…).
type Factory func(ctx context.Context, opts Options) (Store, error)

var registry = map[string]Factory{}

// Register is called from each driver's init().
func Register(name string, f Factory) {
	registry[name] = f
}

// Open returns a configured driver by name.
func Open(ctx context.Context, name string, opts Options) (Store, error) {
	if f, ok := registry[name]; ok {
		return f(ctx, opts)
	}
	return nil, fmt.Errorf("recordstore: unsupported driver %q (have %v)", name, Drivers())
}

func Drivers() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
