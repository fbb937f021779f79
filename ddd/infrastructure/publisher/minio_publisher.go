package publisher

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/service"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

// MinioPublisher uploads the whole workspace to object storage under a
// {job_id}/ prefix, preserving the rendition directory layout. Any upload
// failure fails the publication as a whole; no partial success is reported.
type MinioPublisher struct {
	storage gateway.StorageGateway
	baseURL string
}

func NewMinioPublisher(storage gateway.StorageGateway, baseURL string) *MinioPublisher {
	return &MinioPublisher{storage: storage, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

func (p *MinioPublisher) Publish(ctx context.Context, jobID, workspace string) (string, error) {
	base := filepath.Clean(workspace)
	objects := make([]gateway.UploadObject, 0, 32)
	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		objects = append(objects, gateway.UploadObject{
			LocalPath:   path,
			ObjectKey:   jobID + "/" + filepath.ToSlash(rel),
			ContentType: hlsContentType(path),
		})
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("%w: walk workspace: %v", errno.ErrPublishFailed, walkErr)
	}
	if len(objects) == 0 {
		return "", fmt.Errorf("%w: no files to publish", errno.ErrPublishFailed)
	}

	if err := p.storage.UploadObjects(ctx, objects); err != nil {
		return "", fmt.Errorf("%w: %v", errno.ErrPublishFailed, err)
	}
	logger.Infof("published job to object storage job_id=%s objects=%d", jobID, len(objects))

	return p.baseURL + "/" + jobID + "/" + service.MasterPlaylistName, nil
}

func (p *MinioPublisher) KeepLocal() bool { return false }

func hlsContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
