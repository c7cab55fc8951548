package pipeline

import (
	"context"
	"errors"
	"sync"

	"fileproc/internal/model"
	"fileproc/resolver"
	"fileproc/sink"
)

type memRecords struct {
	mu     sync.Mutex
	rows   map[string]model.Record
	gets   int
	puts   int
	putErr error
	closed bool
}

func newMemRecords(rows ...model.Record) *memRecords {
	m := &memRecords{rows: map[string]model.Record{}}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memRecords) Get(_ context.Context, id string) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	r, ok := m.rows[id]
	if !ok {
		return model.Record{}, model.NotFound("record", id)
	}
	return r, nil
}

func (m *memRecords) Put(_ context.Context, r model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.rows[r.ID] = r
	return nil
}

func (m *memRecords) Close() error {
	m.closed = true
	return nil
}

type memBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	downloads int
	uploads   int
	upErr     error
	closed    bool
}

func newMemBlobs() *memBlobs { return &memBlobs{objects: map[string][]byte{}} }

func (m *memBlobs) Download(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads++
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, model.NotFound("blob", bucket+"/"+key)
	}
	return append([]byte(nil), b...), nil
}

func (m *memBlobs) Upload(_ context.Context, bucket, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.upErr != nil {
		return &model.TransferError{Op: "upload", Bucket: bucket, Key: key, Err: m.upErr}
	}
	m.objects[bucket+"/"+key] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobs) Close() error {
	m.closed = true
	return nil
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context) (resolver.Identity, error) {
	return resolver.Identity{}, f.err
}

type staticResolver resolver.Identity

func (s staticResolver) Resolve(context.Context) (resolver.Identity, error) {
	return resolver.Identity(s), nil
}

type captureSink struct {
	events []sink.Event
	err    error
	closed bool
}

func (c *captureSink) Configure(any) error { return nil }
func (c *captureSink) Push(_ context.Context, ev sink.Event) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, ev)
	return nil
}
func (c *captureSink) Close() error {
	c.closed = true
	return nil
}

var errBoom = errors.New("boom")
