package gateway

import "context"

// UploadObject 待上传的单个本地文件
type UploadObject struct {
	LocalPath   string
	ObjectKey   string
	ContentType string
}

// StorageGateway 对象存储网关
type StorageGateway interface {
	// UploadObjects 批量上传对象；任一失败即整体失败。
	UploadObjects(ctx context.Context, objects []UploadObject) error
	// DownloadFile 将对象下载到本地路径
	DownloadFile(ctx context.Context, objectKey, localPath string) error
}
