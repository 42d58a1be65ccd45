package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"fitquest_backend/internal/config"
	"fitquest_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageService 文件存储抽象，头像与体态照片通过它落盘
type StorageService interface {
	Upload(file *multipart.FileHeader, dir string) (string, error)
}

// NewStorageService 按配置选择本地或MinIO存储
func NewStorageService(cfg *config.Config) (StorageService, error) {
	switch cfg.Storage.Type {
	case "minio":
		return newMinioStorage(cfg)
	default:
		return &LocalStorage{BasePath: cfg.Storage.LocalPath}, nil
	}
}

func objectName(dir, original string) string {
	ext := filepath.Ext(original)
	return fmt.Sprintf("%s/%s%s", dir, uuid.New().String(), ext)
}

type LocalStorage struct {
	BasePath string
}

func (s *LocalStorage) Upload(file *multipart.FileHeader, dir string) (string, error) {
	name := objectName(dir, file.Filename)
	dst := filepath.Join(s.BasePath, name)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func newMinioStorage(cfg *config.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Storage.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.Log.Info("created storage bucket", zap.String("bucket", cfg.Storage.MinioBucket))
	}

	return &MinioStorage{client: client, bucket: cfg.Storage.MinioBucket}, nil
}

func (s *MinioStorage) Upload(file *multipart.FileHeader, dir string) (string, error) {
	name := objectName(dir, file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = s.client.PutObject(ctx, s.bucket, name, src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", s.bucket, name), nil
}
