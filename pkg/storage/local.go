package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage 本地文件存储实现
type LocalStorage struct {
	basePath string // 基础存储路径
}

// LocalConfig 本地存储配置
type LocalConfig struct {
	Path string // 本地存储根目录
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	base := cfg.Path
	if base == "" {
		base = "."
	}

	// 确保路径是绝对路径
	absPath, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %v", err)
	}

	// 确保目录存在
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %v", err)
	}

	return &LocalStorage{
		basePath: absPath,
	}, nil
}

// Put 写入对象
// 先写临时文件再重命名，避免读到写了一半的产物
func (s *LocalStorage) Put(key string, reader io.Reader) (FileInfo, error) {
	filePath, cleaned, err := s.resolve(key)
	if err != nil {
		return FileInfo{}, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return FileInfo{}, fmt.Errorf("failed to create directory: %v", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".tmp-"+filepath.Base(filePath)+"-*")
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create file: %v", err)
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return FileInfo{}, fmt.Errorf("failed to write file: %v", err)
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return FileInfo{}, fmt.Errorf("failed to replace file: %v", err)
	}

	return FileInfo{
		Key:      cleaned,
		Size:     size,
		MimeType: getMimeType(cleaned),
		Path:     filePath,
	}, nil
}

// Get 获取对象内容
func (s *LocalStorage) Get(key string) (io.ReadCloser, error) {
	filePath, _, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %v", err)
	}

	return file, nil
}

// Delete 删除对象，不存在时不报错
func (s *LocalStorage) Delete(key string) error {
	filePath, _, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

// List 列出前缀下的所有对象
func (s *LocalStorage) List(prefix string) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// 跳过目录和临时文件
		if info.IsDir() || strings.HasPrefix(info.Name(), ".tmp-") {
			return nil
		}

		relPath, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(relPath)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}

		files = append(files, FileInfo{
			Key:      key,
			Size:     info.Size(),
			MimeType: getMimeType(key),
			Path:     path,
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %v", err)
	}

	return files, nil
}

// Exists 检查对象是否存在
func (s *LocalStorage) Exists(key string) (bool, error) {
	filePath, _, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// resolve 将对象键转换为本地路径
func (s *LocalStorage) resolve(key string) (string, string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), cleaned, nil
}
