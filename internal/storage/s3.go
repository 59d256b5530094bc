package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"path"

	"studyhub/classroom-app/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3BlobStore implements BlobStore on an S3-compatible backend. It is the
// opt-in alternative to the inline Mongo store (storage.backend: s3) for
// deployments that outgrow inline payloads.
type s3BlobStore struct {
	client     *s3.Client
	bucketName string
	keyPrefix  string
}

// NewS3BlobStore creates a BlobStore backed by an S3-compatible bucket.
func NewS3BlobStore(cfg config.S3Config) (BlobStore, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fall back to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Path-style addressing is required by most S3-compatible services (like MinIO)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Printf("S3 blob store initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3BlobStore{
		client:     s3Client,
		bucketName: cfg.BucketName,
		keyPrefix:  "attachments",
	}, nil
}

func (s *s3BlobStore) objectKey(contentID string) string {
	return path.Join(s.keyPrefix, contentID)
}

// Put stores the encoded payload as an object keyed by content id.
func (s *s3BlobStore) Put(ctx context.Context, contentID string, encoded string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(contentID)),
		Body:        bytes.NewReader([]byte(encoded)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		log.Printf("ERROR: Failed to put object '%s' into bucket '%s': %v", contentID, s.bucketName, err)
	}
	return err
}

// Get fetches the encoded payload for the content id.
func (s *s3BlobStore) Get(ctx context.Context, contentID string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(contentID)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", ErrBlobNotFound
		}
		log.Printf("ERROR: Failed to get object '%s' from bucket '%s': %v", contentID, s.bucketName, err)
		return "", err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Delete removes the payload object. A missing object is not an error for S3.
func (s *s3BlobStore) Delete(ctx context.Context, contentID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(contentID)),
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete object '%s' from bucket '%s': %v", contentID, s.bucketName, err)
	}
	return err
}
