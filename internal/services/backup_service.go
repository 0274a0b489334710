package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"time"

	"steelstore/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BackupService stores database backups in object storage. Every upload is
// checksummed so a restore can verify the payload before applying it.
type BackupService interface {
	Upload(ctx context.Context, tenantID uuid.UUID, name string, reader io.Reader) (*models.BackupInfo, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.BackupInfo, error)
	Download(ctx context.Context, tenantID uuid.UUID, name string) (io.ReadCloser, *models.BackupInfo, error)
	Delete(ctx context.Context, tenantID uuid.UUID, name string) error
	PresignedURL(ctx context.Context, tenantID uuid.UUID, name string, expiry time.Duration) (string, error)
	EnsureBucket(ctx context.Context) error
}

type minioBackupService struct {
	client *minio.Client
	bucket string
}

func NewMinioBackupService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (BackupService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioBackupService{client: client, bucket: bucket}, nil
}

func (s *minioBackupService) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *minioBackupService) objectName(tenantID uuid.UUID, name string) string {
	return fmt.Sprintf("%s/%s", tenantID.String(), name)
}

// Upload reads the whole payload to compute its checksum, then stores it
// with the checksum in the object metadata.
func (s *minioBackupService) Upload(ctx context.Context, tenantID uuid.UUID, name string, reader io.Reader) (*models.BackupInfo, error) {
	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("backup payload is empty")
	}

	sum := sha256.Sum256(payload)
	checksum := hex.EncodeToString(sum[:])

	_, err = s.client.PutObject(ctx, s.bucket, s.objectName(tenantID, name), bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: map[string]string{"Checksum": checksum},
	})
	if err != nil {
		return nil, err
	}

	return &models.BackupInfo{
		Name:      name,
		Size:      int64(len(payload)),
		Checksum:  checksum,
		CreatedAt: time.Now(),
	}, nil
}

func (s *minioBackupService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.BackupInfo, error) {
	prefix := tenantID.String() + "/"
	var backups []*models.BackupInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		backups = append(backups, &models.BackupInfo{
			Name:      object.Key[len(prefix):],
			Size:      object.Size,
			CreatedAt: object.LastModified,
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Download streams a backup and verifies its stored checksum against the
// payload before handing anything back.
func (s *minioBackupService) Download(ctx context.Context, tenantID uuid.UUID, name string) (io.ReadCloser, *models.BackupInfo, error) {
	objectName := s.objectName(tenantID, name)

	stat, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	expected := stat.UserMetadata["Checksum"]

	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}

	payload, err := io.ReadAll(object)
	object.Close()
	if err != nil {
		return nil, nil, err
	}

	sum := sha256.Sum256(payload)
	actual := hex.EncodeToString(sum[:])
	if expected != "" && expected != actual {
		return nil, nil, fmt.Errorf("backup %s is corrupt: checksum mismatch", name)
	}

	info := &models.BackupInfo{
		Name:      name,
		Size:      int64(len(payload)),
		Checksum:  actual,
		CreatedAt: stat.LastModified,
	}
	return io.NopCloser(bytes.NewReader(payload)), info, nil
}

func (s *minioBackupService) Delete(ctx context.Context, tenantID uuid.UUID, name string) error {
	return s.client.RemoveObject(ctx, s.bucket, s.objectName(tenantID, name), minio.RemoveObjectOptions{})
}

func (s *minioBackupService) PresignedURL(ctx context.Context, tenantID uuid.UUID, name string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, s.objectName(tenantID, name), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}
