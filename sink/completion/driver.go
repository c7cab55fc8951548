// Package completion records finished runs in a DynamoDB completion table.
// The deployment watches that table's stream and terminates the worker
// instance named by InstanceId.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fileproc/internal/logging"
	"fileproc/sink"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type PutAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type Config struct {
	API PutAPI
	// Table wins over TableTag.
	Table    string
	TableTag string
}

type item struct {
	ID         string `dynamodbav:"id"`
	InstanceID string `dynamodbav:"InstanceId,omitempty"`
	RunID      string `dynamodbav:"run_id"`
	Filepath   string `dynamodbav:"filepath"`
	Status     string `dynamodbav:"status,omitempty"`
	FinishedAt string `dynamodbav:"finished_at"`
}

type driver struct {
	cfg Config
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("completion-sink: expected Config, got %T", raw)
	}
	if c.API == nil {
		return errors.New("completion-sink: dynamodb client is required")
	}
	if c.Table == "" && c.TableTag == "" {
		return errors.New("completion-sink: table or table_tag is required")
	}
	d.cfg = c
	return nil
}

func (d *driver) table(ev sink.Event) (string, error) {
	if d.cfg.Table != "" {
		return d.cfg.Table, nil
	}
	if t := ev.Tags[d.cfg.TableTag]; t != "" {
		return t, nil
	}
	return "", fmt.Errorf("completion-sink: no table configured and instance tag %q is absent", d.cfg.TableTag)
}

func (d *driver) Push(ctx context.Context, ev sink.Event) error {
	table, err := d.table(ev)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item{
		ID:         ev.DerivedID,
		InstanceID: ev.InstanceID,
		RunID:      ev.RunID,
		Filepath:   ev.Filepath,
		Status:     ev.Status,
		FinishedAt: ev.FinishedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if _, err := d.cfg.API.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("completion-sink: put %s: %w", table, err)
	}
	logging.L().Info("completion recorded", "table", table, "id", ev.DerivedID, "instance_id", ev.InstanceID)
	return nil
}

func (d *driver) Close() error { return nil }

func init() { sink.Register("completion", func() sink.Adapter { return &driver{} }) }
