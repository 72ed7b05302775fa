package storage

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("object not found")

// FileInfo 对象元数据结构
type FileInfo struct {
	Key      string // 对象键（相对路径，使用'/'分隔）
	Size     int64  // 大小(字节)
	MimeType string // MIME类型
	Path     string // 内部存储路径(实现相关)
}

// Storage 键值对象存储接口
// 以固定的键读写产物，写入总是整体覆盖，可以有不同实现(本地文件系统、MinIO等)
type Storage interface {
	// Put 写入对象，覆盖同名对象
	Put(key string, reader io.Reader) (FileInfo, error)

	// Get 读取对象内容，不存在时返回ErrNotFound
	Get(key string) (io.ReadCloser, error)

	// Delete 删除对象
	Delete(key string) error

	// List 列出指定前缀下的对象
	List(prefix string) ([]FileInfo, error)

	// Exists 检查对象是否存在
	Exists(key string) (bool, error)
}

// Config 存储配置
type Config struct {
	Type  string      // 存储类型：local 或 minio
	Local LocalConfig // 本地存储配置
	Minio MinioConfig // MinIO存储配置
}

// New 根据配置创建存储实例
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.Local)
	case "minio":
		return NewMinioStorage(cfg.Minio)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// CleanKey 规范化对象键
// 统一使用'/'分隔，去掉开头的'/'和'./'，拒绝跳出根目录的键
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return cleaned, nil
}

// getMimeType 简单根据扩展名判断MIME类型
func getMimeType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
