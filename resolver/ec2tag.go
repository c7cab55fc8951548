package resolver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fileproc/internal/logging"
	"fileproc/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type MetadataAPI interface {
	GetMetadata(ctx context.Context, in *imds.GetMetadataInput, optFns ...func(*imds.Options)) (*imds.GetMetadataOutput, error)
}

type TagsAPI interface {
	DescribeTags(ctx context.Context, in *ec2.DescribeTagsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error)
}

// EC2Tag reads the record id from a tag on the running instance.
type EC2Tag struct {
	Metadata MetadataAPI
	Tags     TagsAPI
	Key      string
}

func NewEC2Tag(cfg aws.Config, key string) *EC2Tag {
	return &EC2Tag{
		Metadata: imds.NewFromConfig(cfg),
		Tags:     ec2.NewFromConfig(cfg),
		Key:      key,
	}
}

func (r *EC2Tag) Resolve(ctx context.Context) (Identity, error) {
	instanceID, err := r.instanceID(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("instance identity: %w", err)
	}
	tags, err := r.instanceTags(ctx, instanceID)
	if err != nil {
		return Identity{}, fmt.Errorf("describe tags %s: %w", instanceID, err)
	}
	id := tags[r.Key]
	if id == "" {
		return Identity{}, model.NotFound("tag", r.Key)
	}
	logging.L().Info("resolved record id from instance tag", "instance_id", instanceID, "tag", r.Key, "record_id", id)
	return Identity{RecordID: id, InstanceID: instanceID, Tags: tags}, nil
}

func (r *EC2Tag) instanceID(ctx context.Context) (string, error) {
	out, err := r.Metadata.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return "", err
	}
	defer out.Content.Close()
	b, err := io.ReadAll(out.Content)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(b))
	if id == "" {
		return "", fmt.Errorf("empty instance-id from metadata service")
	}
	return id, nil
}

func (r *EC2Tag) instanceTags(ctx context.Context, instanceID string) (map[string]string, error) {
	tags := map[string]string{}
	in := &ec2.DescribeTagsInput{
		Filters: []types.Filter{
			{Name: aws.String("resource-id"), Values: []string{instanceID}},
		},
	}
	for {
		out, err := r.Tags.DescribeTags(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, t := range out.Tags {
			tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
		if aws.ToString(out.NextToken) == "" {
			return tags, nil
		}
		in.NextToken = out.NextToken
	}
}
