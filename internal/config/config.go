package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	SupportedSchema = "v1"
	EnvPrefix       = "FILEPROC__"
)

// Values the job ran with before it became configurable.
const (
	DefaultRecordID = "BOzYHkeCsXHbSZ6k4SRI4"
	DefaultTable    = "fovus_table"
	DefaultBucket   = "nuufovus"
	DefaultTagKey   = "FileTableItemIndex"
	DefaultPrefix   = "modified_"
)

type ResolverKind string

const (
	ResolverConstant ResolverKind = "constant"
	ResolverEC2Tag   ResolverKind = "ec2_tag"
)

type AWS struct {
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"` // localstack & co.
}

type Resolver struct {
	Kind     ResolverKind `koanf:"kind"`
	RecordID string       `koanf:"record_id"`
	TagKey   string       `koanf:"tag_key"`
}

type Records struct {
	Driver string `koanf:"driver"` // dynamodb|sqlite|yamlfile
	Table  string `koanf:"table"`
	DSN    string `koanf:"dsn"`  // sqlite
	Path   string `koanf:"path"` // yamlfile
}

type Azure struct {
	ServiceURL       string `koanf:"service_url"`
	ConnectionString string `koanf:"connection_string"`
}

type Blobs struct {
	Driver       string `koanf:"driver"` // s3|azblob|localfs
	Scheme       string `koanf:"scheme"`
	OutputBucket string `koanf:"output_bucket"`
	Root         string `koanf:"root"` // localfs
	Azure        Azure  `koanf:"azure"`
}

type Transform struct {
	Type    string        `koanf:"type"` // inproc|grpc
	Address string        `koanf:"address"`
	Timeout time.Duration `koanf:"timeout"`
}

type Pipeline struct {
	DerivedPrefix string `koanf:"derived_prefix"`
	Status        string `koanf:"status"`
	WorkDir       string `koanf:"work_dir"`
}

type Kafka struct {
	Brokers      []string `koanf:"brokers"`
	Topic        string   `koanf:"topic"`
	RequiredAcks int16    `koanf:"required_acks"` // 0,1,-1
	Version      string   `koanf:"version"`
}

type Completion struct {
	Table    string `koanf:"table"`
	TableTag string `koanf:"table_tag"`
}

type Notify struct {
	Sinks      []string   `koanf:"sinks"`
	Codec      string     `koanf:"codec"` // json|msgpack
	Kafka      Kafka      `koanf:"kafka"`
	Completion Completion `koanf:"completion"`
}

type Telemetry struct {
	Pushgateway string `koanf:"pushgateway"`
	Job         string `koanf:"job"`
}

type Config struct {
	SchemaVersion string    `koanf:"schema_version"`
	AWS           AWS       `koanf:"aws"`
	Resolver      Resolver  `koanf:"resolver"`
	Records       Records   `koanf:"records"`
	Blobs         Blobs     `koanf:"blobs"`
	Transform     Transform `koanf:"transform"`
	Pipeline      Pipeline  `koanf:"pipeline"`
	Notify        Notify    `koanf:"notify"`
	Telemetry     Telemetry `koanf:"telemetry"`
}

// Load merges YAML (if present) with env-vars
// (prefix `FILEPROC__`, delimiter `__`), e.g.
// FILEPROC__RECORDS__TABLE=files overrides records.table.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	_ = k.Load(env.ProviderWithValue(EnvPrefix, "__", envValue), nil)

	// 0 is a valid ack mode, so only an absent key gets the default.
	if !k.Exists("notify.kafka.required_acks") {
		_ = k.Set("notify.kafka.required_acks", 1)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, cfg.Validate()
}

// listKeys hold comma-separated values when set from the environment.
var listKeys = map[string]bool{
	"notify.sinks":         true,
	"notify.kafka.brokers": true,
}

func envValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if !listKeys[strings.ReplaceAll(key, "__", ".")] {
		return key, value
	}
	var items []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	return key, items
}

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.Resolver.Kind == "" {
		c.Resolver.Kind = ResolverConstant
	}
	if c.Resolver.Kind == ResolverConstant && c.Resolver.RecordID == "" {
		c.Resolver.RecordID = DefaultRecordID
	}
	if c.Resolver.TagKey == "" {
		c.Resolver.TagKey = DefaultTagKey
	}
	if c.Records.Driver == "" {
		c.Records.Driver = "dynamodb"
	}
	if c.Records.Table == "" {
		c.Records.Table = DefaultTable
	}
	if c.Blobs.Driver == "" {
		c.Blobs.Driver = "s3"
	}
	if c.Blobs.Scheme == "" {
		c.Blobs.Scheme = "s3"
	}
	if c.Blobs.OutputBucket == "" {
		c.Blobs.OutputBucket = DefaultBucket
	}
	if c.Transform.Type == "" {
		c.Transform.Type = "inproc"
	}
	if c.Transform.Timeout == 0 {
		c.Transform.Timeout = 5 * time.Second
	}
	if c.Pipeline.DerivedPrefix == "" {
		c.Pipeline.DerivedPrefix = DefaultPrefix
	}
	if c.Pipeline.Status == "" && c.Resolver.Kind == ResolverEC2Tag {
		c.Pipeline.Status = "finished"
	}
	if c.Notify.Codec == "" {
		c.Notify.Codec = "json"
	}
	if c.Notify.Completion.TableTag == "" {
		c.Notify.Completion.TableTag = "CompletionTableName"
	}
	if c.Telemetry.Job == "" {
		c.Telemetry.Job = "fileproc"
	}
}

// Validate rejects combinations the compiler cannot build.
func (c Config) Validate() error {
	if c.SchemaVersion != SupportedSchema {
		return fmt.Errorf("config schema_version %q not supported (want %s)", c.SchemaVersion, SupportedSchema)
	}
	switch c.Resolver.Kind {
	case ResolverConstant:
		if c.Resolver.RecordID == "" {
			return errors.New("resolver.record_id is required for constant resolver")
		}
	case ResolverEC2Tag:
	default:
		return fmt.Errorf("unsupported resolver kind %q", c.Resolver.Kind)
	}
	switch c.Notify.Codec {
	case "json", "msgpack":
	default:
		return fmt.Errorf("unsupported notify codec %q", c.Notify.Codec)
	}
	if c.Transform.Type == "grpc" && c.Transform.Address == "" {
		return errors.New("transform.address is required for grpc transformer")
	}
	return nil
}
