package dynamo

import (
	"context"
	"errors"
	"testing"

	"fileproc/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	name  string
	items map[string]map[string]types.AttributeValue
	err   error
}

func newFakeTable(name string) *fakeTable {
	return &fakeTable{name: name, items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(t *testing.T, m map[string]types.AttributeValue) string {
	s, ok := m["id"].(*types.AttributeValueMemberS)
	require.True(t, ok, "id must be a string attribute")
	return s.Value
}

func (f *fakeTable) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if aws.ToString(in.TableName) != f.name {
		return nil, &types.ResourceNotFoundException{Message: aws.String("no table")}
	}
	id := in.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[id]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := in.Item["id"].(*types.AttributeValueMemberS).Value
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestStore_PutGet(t *testing.T) {
	tbl := newFakeTable("fovus_table")
	s := New(tbl, "fovus_table")
	ctx := context.Background()

	rec := model.Record{ID: "modified_X", Filepath: "s3://nuufovus/modified_a.txt", Text: "hello : 5", Status: "finished"}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "modified_X")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, "modified_X", keyOf(t, tbl.items["modified_X"]))
}

func TestStore_OmitsEmptyOptionalAttributes(t *testing.T) {
	tbl := newFakeTable("t")
	s := New(tbl, "t")
	require.NoError(t, s.Put(context.Background(), model.Record{ID: "X", Filepath: "s3://b/a.txt"}))

	item := tbl.items["X"]
	assert.Contains(t, item, "filepath")
	assert.NotContains(t, item, "text")
	assert.NotContains(t, item, "status")
}

func TestStore_PutOverwrites(t *testing.T) {
	s := New(newFakeTable("t"), "t")
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, model.Record{ID: "X", Filepath: "s3://b/1", Text: "one"}))
	require.NoError(t, s.Put(ctx, model.Record{ID: "X", Filepath: "s3://b/2"}))

	got, err := s.Get(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, model.Record{ID: "X", Filepath: "s3://b/2"}, got)
}

func TestStore_GetMissing(t *testing.T) {
	s := New(newFakeTable("t"), "t")
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_TransportError(t *testing.T) {
	tbl := newFakeTable("t")
	tbl.err = errors.New("throttled")
	s := New(tbl, "t")

	_, err := s.Get(context.Background(), "X")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.ErrorContains(t, err, "throttled")
	assert.Error(t, s.Put(context.Background(), model.Record{ID: "X"}))
}
