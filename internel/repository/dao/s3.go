package dao

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config points the client at an S3-compatible endpoint. For R2 the
// endpoint is https://<account-id>.r2.cloudflarestorage.com and the region
// is "auto".
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Bucket implements Bucket over the S3 API. Custom metadata rides on
// x-amz-meta headers, which the protocol returns with lowercased keys.
type S3Bucket struct {
	client *s3.Client
	bucket string
}

func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Bucket{client: client, bucket: cfg.Bucket}, nil
}

func (b *S3Bucket) Put(ctx context.Context, in PutInput) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(in.Key),
		Body:        bytes.NewReader(in.Body),
		ContentType: aws.String(in.ContentType),
		Metadata:    in.Metadata,
	})
	return err
}

func (b *S3Bucket) Get(ctx context.Context, key string) (GetOutput, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return GetOutput{}, ErrObjectNotFound
		}
		return GetOutput{}, err
	}
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	if err != nil {
		return GetOutput{}, err
	}
	return GetOutput{
		Body:        body,
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:    out.Metadata,
	}, nil
}

func (b *S3Bucket) Head(ctx context.Context, key string) (HeadOutput, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return HeadOutput{}, ErrObjectNotFound
		}
		return HeadOutput{}, err
	}
	return HeadOutput{
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:    out.Metadata,
	}, nil
}

func (b *S3Bucket) List(ctx context.Context, in ListInput) (ListOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucket),
		Prefix:  aws.String(in.Prefix),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if in.Cursor != "" {
		input.ContinuationToken = aws.String(in.Cursor)
	}
	out, err := b.client.ListObjectsV2(ctx, input)
	if err != nil {
		return ListOutput{}, err
	}
	result := ListOutput{Keys: make([]string, 0, len(out.Contents))}
	for _, obj := range out.Contents {
		result.Keys = append(result.Keys, aws.ToString(obj.Key))
	}
	if aws.ToBool(out.IsTruncated) {
		result.Cursor = aws.ToString(out.NextContinuationToken)
	}
	return result, nil
}
