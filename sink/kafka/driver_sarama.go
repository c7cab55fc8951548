package kafka

import (
	"context"
	"errors"
	"fmt"

	"fileproc/internal/logging"
	"fileproc/sink"

	"github.com/IBM/sarama"
)

type Config struct {
	Brokers []string
	Topic   string
	Acks    int16 // 0,1,-1
	Version string
	Codec   sink.Codec

	// Producer overrides the sarama producer built from Brokers (tests).
	Producer sarama.SyncProducer
}

type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if cfg.Topic == "" {
		return errors.New("kafka-sink: topic is required")
	}
	if cfg.Codec.Marshal == nil {
		cfg.Codec = sink.JSON
	}
	d.cfg = cfg
	if cfg.Producer != nil {
		d.p = cfg.Producer
		return nil
	}
	if len(cfg.Brokers) == 0 {
		return errors.New("kafka-sink: brokers are required")
	}

	sc := sarama.NewConfig()
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	var err error
	d.p, err = sarama.NewSyncProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) Push(_ context.Context, ev sink.Event) error {
	payload, err := d.cfg.Codec.Marshal(ev)
	if err != nil {
		return err
	}
	part, off, err := d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(ev.DerivedID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte(d.cfg.Codec.ContentType)},
			{Key: []byte("run-id"), Value: []byte(ev.RunID)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	logging.L().Debug("completion event published", "topic", d.cfg.Topic, "partition", part, "offset", off)
	return nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	err := d.p.Close()
	d.p = nil
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
