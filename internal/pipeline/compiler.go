package pipeline

import (
	"context"
	"fmt"
	"slices"

	"fileproc/blobstore"
	"fileproc/internal/awsconf"
	"fileproc/internal/config"
	"fileproc/internal/transform"
	"fileproc/recordstore"
	"fileproc/resolver"
	"fileproc/sink"
	"fileproc/sink/completion"
	"fileproc/sink/kafka"
	"fileproc/sink/stdout"

	_ "fileproc/blobstore/azblob"
	_ "fileproc/blobstore/localfs"
	_ "fileproc/blobstore/s3"
	_ "fileproc/recordstore/dynamo"
	_ "fileproc/recordstore/sqlite"
	_ "fileproc/recordstore/yamlfile"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Compile builds a Driver from configuration. AWS configuration is only
// loaded when some component talks to AWS.
func Compile(ctx context.Context, cfg config.Config) (d *Driver, err error) {
	needsAWS := cfg.Resolver.Kind == config.ResolverEC2Tag ||
		cfg.Records.Driver == "dynamodb" ||
		cfg.Blobs.Driver == "s3" ||
		slices.Contains(cfg.Notify.Sinks, "completion")
	var ac aws.Config
	if needsAWS {
		if ac, err = awsconf.Load(ctx, cfg.AWS.Region, cfg.AWS.Endpoint); err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
	}

	var res resolver.Resolver
	switch cfg.Resolver.Kind {
	case config.ResolverConstant:
		res = resolver.Constant(cfg.Resolver.RecordID)
	case config.ResolverEC2Tag:
		res = resolver.NewEC2Tag(ac, cfg.Resolver.TagKey)
	default:
		return nil, fmt.Errorf("unsupported resolver %q", cfg.Resolver.Kind)
	}

	records, err := recordstore.Open(ctx, cfg.Records.Driver, recordstore.Options{
		Table: cfg.Records.Table,
		DSN:   cfg.Records.DSN,
		Path:  cfg.Records.Path,
		AWS:   ac,
	})
	if err != nil {
		return nil, err
	}
	closeOnErr := []func() error{records.Close}
	defer func() {
		if err != nil {
			for _, c := range closeOnErr {
				_ = c()
			}
		}
	}()

	blobs, err := blobstore.Open(ctx, cfg.Blobs.Driver, blobstore.Options{
		Root: cfg.Blobs.Root,
		AWS:  ac,
		Azure: blobstore.AzureOptions{
			ServiceURL:       cfg.Blobs.Azure.ServiceURL,
			ConnectionString: cfg.Blobs.Azure.ConnectionString,
		},
	})
	if err != nil {
		return nil, err
	}
	closeOnErr = append(closeOnErr, blobs.Close)

	var tc transform.Client
	switch cfg.Transform.Type {
	case "inproc":
		tc = transform.NewInProcessClient(transform.LengthSuffix)
	case "grpc":
		gc, err := transform.NewGRPCClient(cfg.Transform.Address, cfg.Transform.Timeout)
		if err != nil {
			return nil, fmt.Errorf("transform: dial %s: %w", cfg.Transform.Address, err)
		}
		tc = gc
	default:
		return nil, fmt.Errorf("unsupported transformer type %q", cfg.Transform.Type)
	}
	closeOnErr = append(closeOnErr, tc.Close)

	d = NewDriver(res, records, blobs, tc, Options{
		DerivedPrefix: cfg.Pipeline.DerivedPrefix,
		OutputBucket:  cfg.Blobs.OutputBucket,
		Scheme:        cfg.Blobs.Scheme,
		Status:        cfg.Pipeline.Status,
		WorkDir:       cfg.Pipeline.WorkDir,
	})

	codec, err := sink.CodecByName(cfg.Notify.Codec)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.Notify.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return nil, err
		}
		switch name {
		case "stdout":
			err = sDrv.Configure(stdout.Config{Codec: codec})
		case "kafka":
			err = sDrv.Configure(kafka.Config{
				Brokers: cfg.Notify.Kafka.Brokers,
				Topic:   cfg.Notify.Kafka.Topic,
				Acks:    cfg.Notify.Kafka.RequiredAcks,
				Version: cfg.Notify.Kafka.Version,
				Codec:   codec,
			})
		case "completion":
			err = sDrv.Configure(completion.Config{
				API:      dynamodb.NewFromConfig(ac),
				Table:    cfg.Notify.Completion.Table,
				TableTag: cfg.Notify.Completion.TableTag,
			})
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("sink %s: %w", name, err)
		}
		closeOnErr = append(closeOnErr, sDrv.Close)
		d.AddSink(sDrv)
	}
	return d, nil
}
