// Package dynamo stores file records in a DynamoDB table keyed by "id".
package dynamo

import (
	"context"
	"fmt"

	"fileproc/internal/logging"
	"fileproc/internal/model"
	"fileproc/recordstore"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of *dynamodb.Client the driver uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type Store struct {
	api   API
	table string
}

func New(api API, table string) *Store {
	return &Store{api: api, table: table}
}

func (s *Store) Get(ctx context.Context, id string) (model.Record, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("dynamodb get %s/%s: %w", s.table, id, err)
	}
	if len(out.Item) == 0 {
		return model.Record{}, model.NotFound("record", id)
	}
	var rec model.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return model.Record{}, fmt.Errorf("dynamodb decode %s/%s: %w", s.table, id, err)
	}
	logging.L().Debug("dynamodb get", "table", s.table, "id", id)
	return rec, nil
}

func (s *Store) Put(ctx context.Context, rec model.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("dynamodb encode %s: %w", rec.ID, err)
	}
	if _, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb put %s/%s: %w", s.table, rec.ID, err)
	}
	logging.L().Debug("dynamodb put", "table", s.table, "id", rec.ID)
	return nil
}

func (s *Store) Close() error { return nil }

func init() {
	recordstore.Register("dynamodb", func(_ context.Context, o recordstore.Options) (recordstore.Store, error) {
		return New(dynamodb.NewFromConfig(o.AWS), o.Table), nil
	})
}
