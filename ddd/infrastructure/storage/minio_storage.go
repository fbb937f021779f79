package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"hls-service/ddd/domain/gateway"
	"hls-service/internal/resource"
	"hls-service/pkg/logger"
)

// MinioStorage MinIO存储实现
type MinioStorage struct {
	minioResource *resource.MinioResource
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource) gateway.StorageGateway {
	return &MinioStorage{
		minioResource: minioResource,
	}
}

// UploadObjects 批量上传对象，任一失败即返回
func (s *MinioStorage) UploadObjects(ctx context.Context, objects []gateway.UploadObject) error {
	if len(objects) == 0 {
		return nil
	}

	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	for _, obj := range objects {
		file, err := os.Open(obj.LocalPath)
		if err != nil {
			return fmt.Errorf("open local file failed: %w", err)
		}

		fileInfo, err := file.Stat()
		if err != nil {
			file.Close()
			return fmt.Errorf("get file info failed: %w", err)
		}

		_, err = client.PutObject(ctx, bucketName, obj.ObjectKey, file, fileInfo.Size(), minio.PutObjectOptions{
			ContentType: obj.ContentType,
		})
		file.Close()
		if err != nil {
			logger.Error("Failed to upload object during batch upload", map[string]interface{}{
				"local_path": obj.LocalPath,
				"object_key": obj.ObjectKey,
				"error":      err.Error(),
			})
			return fmt.Errorf("upload object to minio failed: %w", err)
		}
	}

	logger.Info("Batch upload finished", map[string]interface{}{
		"bucket":  bucketName,
		"objects": len(objects),
	})
	return nil
}

// DownloadFile 从MinIO下载文件到本地路径
func (s *MinioStorage) DownloadFile(ctx context.Context, objectKey, localPath string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory failed: %w", err)
	}

	object, err := client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object from minio failed: %w", err)
	}
	defer object.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local file failed: %w", err)
	}
	defer localFile.Close()

	if _, err := localFile.ReadFrom(object); err != nil {
		return fmt.Errorf("download file from minio failed: %w", err)
	}

	logger.Info("File downloaded successfully", map[string]interface{}{
		"object_key": objectKey,
		"local_path": localPath,
	})
	return nil
}
