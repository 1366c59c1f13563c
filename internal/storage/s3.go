// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/samber/oops"
)

// keyPrefix namespaces image objects within the bucket.
const keyPrefix = "profile_pics/"

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes images to an S3 bucket.
type S3Store struct {
	client s3API
	bucket string
	region string
}

// NewS3Store builds an S3 client from the ambient AWS configuration.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, oops.Code("STORAGE_S3_CONFIG_FAILED").
			With("region", region).
			Wrap(err)
	}
	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Save uploads the image under the profile_pics/ prefix.
func (s *S3Store) Save(ctx context.Context, name string, content io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(keyPrefix + name),
		Body:        content,
		ContentType: aws.String(ContentType(name)),
	})
	if err != nil {
		return oops.Code("STORAGE_SAVE_FAILED").
			With("bucket", s.bucket).
			With("key", keyPrefix+name).
			Wrap(err)
	}
	return nil
}

// URL returns the public object URL.
func (s *S3Store) URL(name string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s%s", s.bucket, s.region, keyPrefix, name)
}

// Compile-time interface check.
var _ ImageStore = (*S3Store)(nil)
