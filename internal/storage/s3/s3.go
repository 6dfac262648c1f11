// Package s3 stores blobs in an S3 bucket under <prefix>/<folderId>/<key>.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"file-drive/internal/config"
	"file-drive/internal/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken  = ""
	deleteFolderBatchSize = 1000
	errCodeNotFound       = "NotFound"

	errFailedCreateAWSSessionFmt    = "failed to create AWS session: %w"
	errFailedReadUploadFmt          = "failed to read upload: %w"
	errFailedPutObjectFmt           = "failed to put object: %w"
	errFailedGetObjectFmt           = "failed to get object: %w"
	errFailedHeadObjectFmt          = "failed to head object: %w"
	errFailedDeleteObjectFmt        = "failed to delete object: %w"
	errFailedListObjectsFmt         = "failed to list objects: %w"
	errFailedDeleteFolderObjectsFmt = "failed to delete folder objects: %w"
	errInvalidKeyFmt                = "invalid blob key %q"
)

type Store struct {
	svc    s3iface.S3API
	bucket string
	prefix string
}

// NewClient opens an AWS session from cfg. A custom endpoint switches to
// path-style addressing so S3-compatible servers work.
func NewClient(cfg *config.S3Config) (s3iface.S3API, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		)
	}

	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return s3.New(sess), nil
}

func New(svc s3iface.S3API, bucket, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Store{svc: svc, bucket: bucket, prefix: prefix}
}

// Put buffers the upload so the size limit is enforced before anything
// reaches the bucket.
func (s *Store) Put(ctx context.Context, folderID uuid.UUID, key string, src io.Reader, maxSize int64) (int64, error) {
	if !storage.ValidKey(key) {
		return 0, fmt.Errorf(errInvalidKeyFmt, key)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(src, maxSize+1))
	if err != nil {
		return 0, fmt.Errorf(errFailedReadUploadFmt, err)
	}
	if n > maxSize {
		return 0, storage.ErrBlobTooLarge
	}

	_, err = s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(folderID, key)),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(n),
	})
	if err != nil {
		return 0, fmt.Errorf(errFailedPutObjectFmt, err)
	}

	return n, nil
}

func (s *Store) Open(ctx context.Context, folderID uuid.UUID, key string) (io.ReadCloser, error) {
	if !storage.ValidKey(key) {
		return nil, storage.ErrBlobNotFound
	}

	out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(folderID, key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrBlobNotFound
		}
		return nil, fmt.Errorf(errFailedGetObjectFmt, err)
	}

	return out.Body, nil
}

// Delete heads the object first because S3 deletes of missing keys succeed
// silently and callers need to tell the two apart.
func (s *Store) Delete(ctx context.Context, folderID uuid.UUID, key string) error {
	if !storage.ValidKey(key) {
		return fmt.Errorf(errInvalidKeyFmt, key)
	}

	objectKey := s.objectKey(folderID, key)

	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return storage.ErrBlobNotFound
		}
		return fmt.Errorf(errFailedHeadObjectFmt, err)
	}

	_, err = s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

func (s *Store) DeleteFolder(ctx context.Context, folderID uuid.UUID) error {
	prefix := s.prefix + storage.FolderPrefix(folderID)

	for {
		result, err := s.svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:  aws.String(s.bucket),
			Prefix:  aws.String(prefix),
			MaxKeys: aws.Int64(deleteFolderBatchSize),
		})
		if err != nil {
			return fmt.Errorf(errFailedListObjectsFmt, err)
		}

		if len(result.Contents) == 0 {
			return nil
		}

		objects := make([]*s3.ObjectIdentifier, 0, len(result.Contents))
		for _, obj := range result.Contents {
			objects = append(objects, &s3.ObjectIdentifier{Key: obj.Key})
		}

		_, err = s.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf(errFailedDeleteFolderObjectsFmt, err)
		}

		if !aws.BoolValue(result.IsTruncated) {
			return nil
		}
	}
}

func (s *Store) objectKey(folderID uuid.UUID, key string) string {
	return s.prefix + storage.ObjectPath(folderID, key)
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}

	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, errCodeNotFound:
		return true
	}
	return false
}
