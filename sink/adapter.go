package sink

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Event announces a finished run.
type Event struct {
	RunID      string    `json:"run_id" msgpack:"run_id"`
	SourceID   string    `json:"source_id" msgpack:"source_id"`
	DerivedID  string    `json:"derived_id" msgpack:"derived_id"`
	Filepath   string    `json:"filepath" msgpack:"filepath"`
	Status     string    `json:"status,omitempty" msgpack:"status,omitempty"`
	BytesIn    int       `json:"bytes_in" msgpack:"bytes_in"`
	BytesOut   int       `json:"bytes_out" msgpack:"bytes_out"`
	InstanceID string    `json:"instance_id,omitempty" msgpack:"instance_id,omitempty"`
	FinishedAt time.Time `json:"finished_at" msgpack:"finished_at"`

	// Tags of the instance that ran the job; consulted by sinks, not published.
	Tags map[string]string `json:"-" msgpack:"-"`
}

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error // driver-specific config struct
	Push(context.Context, Event) error
	Close() error // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}

func Names() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
