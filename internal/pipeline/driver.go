package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fileproc/blobstore"
	"fileproc/internal/logging"
	"fileproc/internal/model"
	"fileproc/internal/telemetry"
	"fileproc/internal/transform"
	"fileproc/recordstore"
	"fileproc/resolver"
	"fileproc/sink"

	"github.com/google/uuid"
)

type Options struct {
	// DerivedPrefix is prepended to the source id and to the source file name.
	DerivedPrefix string
	// OutputBucket receives the derived blob; empty means the source bucket.
	OutputBucket string
	// Scheme of the derived locator; empty means the source scheme.
	Scheme string
	// Status is stored on the derived record when non-empty.
	Status string
	// WorkDir, when set, receives local copies of the source and derived content.
	WorkDir string
}

// Result describes a completed run.
type Result struct {
	RunID    string
	Identity resolver.Identity
	Source   model.Record
	Derived  model.Record
	BytesIn  int
	BytesOut int
}

// Driver runs resolve → fetch → parse → download → transform → upload →
// write once. Any failing stage aborts the run; nothing is retried or
// rolled back.
type Driver struct {
	resolver    resolver.Resolver
	records     recordstore.Store
	blobs       blobstore.Store
	transformer transform.Client
	sinks       []sink.Adapter
	metrics     *telemetry.Metrics
	opts        Options

	now   func() time.Time
	runID func() string
}

func NewDriver(r resolver.Resolver, records recordstore.Store, blobs blobstore.Store, t transform.Client, opts Options) *Driver {
	if opts.DerivedPrefix == "" {
		opts.DerivedPrefix = "modified_"
	}
	return &Driver{
		resolver:    r,
		records:     records,
		blobs:       blobs,
		transformer: t,
		metrics:     telemetry.New(),
		opts:        opts,
		now:         time.Now,
		runID:       func() string { return uuid.NewString() },
	}
}

func (d *Driver) AddSink(s sink.Adapter) { d.sinks = append(d.sinks, s) }

func (d *Driver) Metrics() *telemetry.Metrics { return d.metrics }

// DerivedID is the id of the record written for sourceID.
func (d *Driver) DerivedID(sourceID string) string { return d.opts.DerivedPrefix + sourceID }

// DerivedLocator is where the transformed copy of src is stored.
func (d *Driver) DerivedLocator(src model.Locator) model.Locator {
	out := model.Locator{
		Scheme: src.Scheme,
		Bucket: src.Bucket,
		Key:    d.opts.DerivedPrefix + src.Base(),
	}
	if d.opts.Scheme != "" {
		out.Scheme = d.opts.Scheme
	}
	if d.opts.OutputBucket != "" {
		out.Bucket = d.opts.OutputBucket
	}
	return out
}

func (d *Driver) Run(ctx context.Context) (res Result, err error) {
	res.RunID = d.runID()
	log := logging.ForRun(res.RunID)
	defer func() { d.metrics.RunFinished(err) }()

	if err = d.step(ctx, log, StageResolveID, func(ctx context.Context) (e error) {
		res.Identity, e = d.resolver.Resolve(ctx)
		return e
	}); err != nil {
		return res, err
	}
	sourceID := res.Identity.RecordID
	log = log.With("source_id", sourceID)

	if err = d.step(ctx, log, StageFetchRecord, func(ctx context.Context) (e error) {
		res.Source, e = d.records.Get(ctx, sourceID)
		return e
	}); err != nil {
		return res, err
	}

	var src model.Locator
	if err = d.step(ctx, log, StageParseLocator, func(context.Context) (e error) {
		src, e = model.ParseLocator(res.Source.Filepath)
		return e
	}); err != nil {
		return res, err
	}
	log = log.With("bucket", src.Bucket, "key", src.Key)

	var content []byte
	if err = d.step(ctx, log, StageDownloadBlob, func(ctx context.Context) (e error) {
		if content, e = d.blobs.Download(ctx, src.Bucket, src.Key); e != nil {
			return e
		}
		res.BytesIn = len(content)
		d.metrics.AddBytes("in", len(content))
		return d.keepLocal(src.Base(), content)
	}); err != nil {
		return res, err
	}

	var derivedText string
	if err = d.step(ctx, log, StageTransform, func(ctx context.Context) (e error) {
		derivedText, e = d.transformer.Transform(ctx, string(content))
		return e
	}); err != nil {
		return res, err
	}

	dst := d.DerivedLocator(src)
	if err = d.step(ctx, log, StageUploadBlob, func(ctx context.Context) error {
		res.BytesOut = len(derivedText)
		if e := d.keepLocal(dst.Base(), []byte(derivedText)); e != nil {
			return e
		}
		if e := d.blobs.Upload(ctx, dst.Bucket, dst.Key, []byte(derivedText)); e != nil {
			return e
		}
		d.metrics.AddBytes("out", len(derivedText))
		return nil
	}); err != nil {
		return res, err
	}

	res.Derived = model.Record{
		ID:       d.DerivedID(sourceID),
		Filepath: dst.String(),
		Text:     derivedText,
		Status:   d.opts.Status,
	}
	if err = d.step(ctx, log, StageWriteRecord, func(ctx context.Context) error {
		return d.records.Put(ctx, res.Derived)
	}); err != nil {
		return res, err
	}

	if len(d.sinks) > 0 {
		if err = d.step(ctx, log, StageNotify, func(ctx context.Context) error {
			return d.notify(ctx, res)
		}); err != nil {
			return res, err
		}
	}

	log.Info("run finished", "derived_id", res.Derived.ID, "filepath", res.Derived.Filepath)
	return res, nil
}

func (d *Driver) step(ctx context.Context, log *slog.Logger, stage Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	d.metrics.ObserveStage(string(stage), elapsed)
	if err != nil {
		log.Error("stage failed", "stage", stage, "err", err)
		return &StageError{Stage: stage, Err: err}
	}
	log.Info("stage done", "stage", stage, "elapsed", elapsed)
	return nil
}

func (d *Driver) notify(ctx context.Context, res Result) error {
	ev := sink.Event{
		RunID:      res.RunID,
		SourceID:   res.Source.ID,
		DerivedID:  res.Derived.ID,
		Filepath:   res.Derived.Filepath,
		Status:     res.Derived.Status,
		BytesIn:    res.BytesIn,
		BytesOut:   res.BytesOut,
		InstanceID: res.Identity.InstanceID,
		FinishedAt: d.now().UTC(),
		Tags:       res.Identity.Tags,
	}
	for _, s := range d.sinks {
		if err := s.Push(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) keepLocal(name string, data []byte) error {
	if d.opts.WorkDir == "" {
		return nil
	}
	if err := os.MkdirAll(d.opts.WorkDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.opts.WorkDir, filepath.Base(name)), data, 0o644)
}

// Close releases every client the driver owns.
func (d *Driver) Close() error {
	var errs []error
	for _, s := range d.sinks {
		errs = append(errs, s.Close())
	}
	if d.transformer != nil {
		errs = append(errs, d.transformer.Close())
	}
	if d.blobs != nil {
		errs = append(errs, d.blobs.Close())
	}
	if d.records != nil {
		errs = append(errs, d.records.Close())
	}
	return errors.Join(errs...)
}
