package resolver

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"fileproc/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIMDS struct {
	id  string
	err error
}

func (f fakeIMDS) GetMetadata(_ context.Context, in *imds.GetMetadataInput, _ ...func(*imds.Options)) (*imds.GetMetadataOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if in.Path != "instance-id" {
		return nil, errors.New("unexpected path " + in.Path)
	}
	return &imds.GetMetadataOutput{Content: io.NopCloser(strings.NewReader(f.id + "\n"))}, nil
}

// fakeTags serves one page per entry.
type fakeTags struct {
	pages [][]types.TagDescription
	calls int
}

func (f *fakeTags) DescribeTags(_ context.Context, in *ec2.DescribeTagsInput, _ ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error) {
	f.calls++
	page := 0
	if in.NextToken != nil {
		page = int(aws.ToString(in.NextToken)[0] - '0')
	}
	out := &ec2.DescribeTagsOutput{}
	if page < len(f.pages) {
		out.Tags = f.pages[page]
	}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String(string(rune('0' + page + 1)))
	}
	return out, nil
}

func tag(k, v string) types.TagDescription {
	return types.TagDescription{Key: aws.String(k), Value: aws.String(v), ResourceId: aws.String("i-0abc")}
}

func TestConstant(t *testing.T) {
	id, err := Constant("BOzYHkeCsXHbSZ6k4SRI4").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Identity{RecordID: "BOzYHkeCsXHbSZ6k4SRI4"}, id)

	_, err = Constant("").Resolve(context.Background())
	assert.Error(t, err)
}

func TestEC2Tag_Resolve(t *testing.T) {
	tags := &fakeTags{pages: [][]types.TagDescription{
		{tag("Name", "worker")},
		{tag("FileTableItemIndex", "X"), tag("CompletionTableName", "completion")},
	}}
	r := &EC2Tag{Metadata: fakeIMDS{id: "i-0abc"}, Tags: tags, Key: "FileTableItemIndex"}

	id, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "X", id.RecordID)
	assert.Equal(t, "i-0abc", id.InstanceID)
	assert.Equal(t, "completion", id.Tags["CompletionTableName"])
	assert.Equal(t, 2, tags.calls)
}

func TestEC2Tag_MissingTag(t *testing.T) {
	r := &EC2Tag{
		Metadata: fakeIMDS{id: "i-0abc"},
		Tags:     &fakeTags{pages: [][]types.TagDescription{{tag("Name", "worker")}}},
		Key:      "FileTableItemIndex",
	}
	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, model.ErrNotFound)

	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "tag", nf.Kind)
}

func TestEC2Tag_MetadataUnavailable(t *testing.T) {
	tags := &fakeTags{}
	r := &EC2Tag{Metadata: fakeIMDS{err: errors.New("no route to 169.254.169.254")}, Tags: tags, Key: "FileTableItemIndex"}
	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.Zero(t, tags.calls)
}
