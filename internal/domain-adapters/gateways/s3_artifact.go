// Package gateways implements the release backend contracts over the
// concrete vendor APIs.
package gateways

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/NillionNetwork/nilvm/internal/domain/entities"
	"github.com/NillionNetwork/nilvm/internal/domain/interfaces"
	domainGateways "github.com/NillionNetwork/nilvm/internal/domain/interfaces/gateways"
)

// S3 rejects delete batches above 1000 keys.
const deleteBatchSize = 1000

// S3API is the slice of the S3 client used by the artifact store.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3ArtifactStore works with release artifacts in one S3 bucket. A release
// lives under the key prefix "{version}/".
type S3ArtifactStore struct {
	client S3API
	bucket string
	log    interfaces.Logger
}

// NewS3ArtifactStore creates an artifact store over an S3 bucket.
func NewS3ArtifactStore(client S3API, bucket string, log interfaces.Logger) *S3ArtifactStore {
	return &S3ArtifactStore{client: client, bucket: bucket, log: log}
}

// NewS3Client loads the ambient AWS credential context and builds an S3
// client. A failure to load the context is a configuration error.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, entities.NewConfigError("failed to load AWS configuration: %v", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Bucket returns the bucket name.
func (s *S3ArtifactStore) Bucket() string { return s.bucket }

// Locate lists the objects stored under the version's prefix.
func (s *S3ArtifactStore) Locate(ctx context.Context, version string) ([]domainGateways.Object, error) {
	objects, err := s.list(ctx, version+"/")
	if err != nil {
		return nil, err
	}

	if len(objects) == 0 {
		return nil, entities.NewNotFoundError(
			"release '%s' not found or has no files in bucket '%s'", version, s.bucket)
	}

	return objects, nil
}

// Copy duplicates the release's objects under a new prefix in the same
// bucket, rewriting the version prefix of each key. The source objects are
// left untouched.
func (s *S3ArtifactStore) Copy(ctx context.Context, version, to string) error {
	objects, err := s.Locate(ctx, version)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		dest := strings.Replace(obj.Key, version, to, 1)
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			CopySource: aws.String(s.bucket + "/" + obj.Key),
			Key:        aws.String(dest),
		})
		if err != nil {
			return entities.WrapCommandError(err,
				"an error occurred copying object '%s' to '%s' in bucket '%s'", obj.Key, dest, s.bucket)
		}
		s.log.Debug("copied object",
			interfaces.F("bucket", s.bucket), interfaces.F("from", obj.Key), interfaces.F("to", dest))
	}

	return nil
}

// Sync mirrors the release to toPrefix: everything is copied, then objects
// under toPrefix with no corresponding source object are deleted, so the
// destination exactly matches the source afterwards.
func (s *S3ArtifactStore) Sync(ctx context.Context, version, toPrefix string) error {
	sourceObjects, err := s.Locate(ctx, version)
	if err != nil {
		return err
	}

	destObjects, err := s.list(ctx, toPrefix+"/")
	if err != nil {
		return err
	}

	sourceKeys := make(map[string]struct{}, len(sourceObjects))
	for _, obj := range sourceObjects {
		sourceKeys[strings.Replace(obj.Key, version, toPrefix, 1)] = struct{}{}
	}

	if err := s.Copy(ctx, version, toPrefix); err != nil {
		return err
	}

	var stale []string
	for _, obj := range destObjects {
		if _, ok := sourceKeys[obj.Key]; !ok {
			stale = append(stale, obj.Key)
		}
	}

	return s.deleteKeys(ctx, stale)
}

// Delete removes every object under the version's prefix. The preceding
// Locate makes deleting an absent release a NotFoundError, not a silent
// success.
func (s *S3ArtifactStore) Delete(ctx context.Context, version string) error {
	objects, err := s.Locate(ctx, version)
	if err != nil {
		return err
	}

	keys := make([]string, len(objects))
	for i, obj := range objects {
		keys[i] = obj.Key
	}

	return s.deleteKeys(ctx, keys)
}

// list pages through every object under a prefix. A missing bucket is
// structural absence, reported as NotFoundError.
func (s *S3ArtifactStore) list(ctx context.Context, prefix string) ([]domainGateways.Object, error) {
	var objects []domainGateways.Object
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			var noBucket *s3types.NoSuchBucket
			if errors.As(err, &noBucket) {
				return nil, entities.NewNotFoundError("bucket '%s' does not exist", s.bucket)
			}
			return nil, entities.WrapCommandError(err,
				"an error occurred listing objects under '%s' in bucket '%s'", prefix, s.bucket)
		}

		for _, obj := range out.Contents {
			objects = append(objects, domainGateways.Object{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			return objects, nil
		}
		continuation = out.NextContinuationToken
	}
}

func (s *S3ArtifactStore) deleteKeys(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		identifiers := make([]s3types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			identifiers = append(identifiers, s3types.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return entities.WrapCommandError(err,
				"an error occurred deleting objects from bucket '%s'", s.bucket)
		}
	}

	return nil
}
