// Package resolver decides which file record a run processes.
package resolver

import (
	"context"
	"errors"
)

// Identity is what a resolver learned about the run.
type Identity struct {
	RecordID string
	// InstanceID and Tags are only known to environment-aware resolvers.
	InstanceID string
	Tags       map[string]string
}

type Resolver interface {
	Resolve(ctx context.Context) (Identity, error)
}

// Constant always resolves to the same record.
type Constant string

func (c Constant) Resolve(context.Context) (Identity, error) {
	if c == "" {
		return Identity{}, errors.New("resolver: empty record id")
	}
	return Identity{RecordID: string(c)}, nil
}
