// Package s3 reads and writes blobs in Amazon S3 (or an S3-compatible endpoint).
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"

	"fileproc/blobstore"
	"fileproc/internal/logging"
	"fileproc/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// API is the subset of *s3.Client the driver uses.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	api API
}

func New(api API) *Store { return &Store{api: api} }

func (s *Store) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, model.NotFound("blob", bucket+"/"+key)
		}
		return nil, &model.TransferError{Op: "download", Bucket: bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &model.TransferError{Op: "download", Bucket: bucket, Key: key, Err: err}
	}
	logging.L().Debug("s3 download", "bucket", bucket, "key", key, "bytes", len(data))
	return data, nil
}

func (s *Store) Upload(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return &model.TransferError{Op: "upload", Bucket: bucket, Key: key, Err: err}
	}
	logging.L().Debug("s3 upload", "bucket", bucket, "key", key, "bytes", len(data))
	return nil
}

func (s *Store) Close() error { return nil }

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}

func init() {
	blobstore.Register("s3", func(_ context.Context, o blobstore.Options) (blobstore.Store, error) {
		cli := s3.NewFromConfig(o.AWS, func(so *s3.Options) {
			// custom endpoints rarely support virtual-hosted buckets
			so.UsePathStyle = o.AWS.BaseEndpoint != nil
		})
		return New(cli), nil
	})
}
