// Package yamlfile keeps the file table in a single YAML document. It is
// meant for local runs against a localfs blob root.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"fileproc/internal/model"
	"fileproc/recordstore"
)

type document struct {
	Records []model.Record `yaml:"records"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store { return &Store{path: path} }

func (s *Store) load() (map[string]model.Record, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]model.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("yamlfile %s: %w", s.path, err)
	}
	out := make(map[string]model.Record, len(doc.Records))
	for _, r := range doc.Records {
		out[r.ID] = r
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return model.Record{}, err
	}
	rec, ok := recs[id]
	if !ok {
		return model.Record{}, model.NotFound("record", id)
	}
	return rec, nil
}

func (s *Store) Put(_ context.Context, rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return err
	}
	recs[rec.ID] = rec

	doc := document{Records: make([]model.Record, 0, len(recs))}
	for _, r := range recs {
		doc.Records = append(doc.Records, r)
	}
	sort.Slice(doc.Records, func(i, j int) bool { return doc.Records[i].ID < doc.Records[j].ID })

	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Close() error { return nil }

func init() {
	recordstore.Register("yamlfile", func(_ context.Context, o recordstore.Options) (recordstore.Store, error) {
		path := o.Path
		if path == "" {
			path = o.Table + ".yml"
		}
		return New(path), nil
	})
}
