package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	"raglite/raglite/config"
	"raglite/raglite/utils/apperrors"
	"raglite/raglite/utils/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOStorage keeps objects in a single bucket on a MinIO/S3 endpoint.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

func NewMinIOStorage(cfg config.Config) (*MinIOStorage, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, apperrors.Storage("connect", cfg.MinIOEndpoint, err)
	}

	// Create bucket if not exists
	bucket := cfg.MinIOBucket
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, apperrors.Storage("bucket-check", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, apperrors.Storage("bucket-create", bucket, err)
		}
		logging.AppLogger.Info("bucket created", zap.String("bucket", bucket))
	}
	return &MinIOStorage{client: client, bucket: bucket}, nil
}

func (m *MinIOStorage) Upload(ctx context.Context, path string, data []byte) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, path,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", apperrors.Storage("upload", path, err)
	}
	logging.AppLogger.Info("file uploaded", zap.String("path", path), zap.String("bucket", m.bucket))
	return path, nil
}

func (m *MinIOStorage) Download(ctx context.Context, path string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Storage("download", path, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy; a missing key only surfaces on first read.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperrors.NotFound(path)
		}
		return nil, apperrors.Storage("download", path, err)
	}
	return data, nil
}

func (m *MinIOStorage) Delete(ctx context.Context, path string) error {
	// RemoveObject on an absent key is a no-op, matching the contract.
	if err := m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Storage("delete", path, err)
	}
	return nil
}

func (m *MinIOStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, apperrors.Storage("stat", path, err)
	}
	return true, nil
}

func (m *MinIOStorage) URL(ctx context.Context, path string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, path, 15*time.Minute, nil)
	if err != nil {
		return "", apperrors.Storage("presign", path, err)
	}
	return u.String(), nil
}
