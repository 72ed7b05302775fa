package vectordb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// 常用错误定义
var (
	ErrEmptyVector      = errors.New("empty vector")
	ErrInvalidDimension = errors.New("vector dimension mismatch")
	ErrIndexNotFound    = errors.New("persisted index not found")
	ErrCorruptIndex     = errors.New("persisted index is inconsistent")
)

// MetaFile 索引目录中的文档元数据文件名
const MetaFile = "index.meta.json"

// Document 可检索文档
// 包含向量表示及其元数据
type Document struct {
	ID       string            `json:"id"`       // 唯一标识符
	Text     string            `json:"text"`     // 原始文本内容
	Vector   []float32         `json:"-"`        // 向量表示
	Metadata map[string]string `json:"metadata"` // 附加元数据
}

// SearchResult 搜索结果
type SearchResult struct {
	Document Document // 文档对象
	Score    float32  // 余弦相似度，越大越相似
}

// Repository 向量仓库接口
// 使用余弦相似度，构建完成后只读
type Repository interface {
	// AddBatch 按顺序批量添加文档
	AddBatch(docs []Document) error

	// Search 返回最多k个结果，按相似度降序排列
	Search(vector []float32, k int) ([]SearchResult, error)

	// Count 获取文档总数
	Count() int

	// Dimension 返回向量维数
	Dimension() int

	// Save 将索引和元数据写入目录
	Save(dir string) error

	// Close 释放资源
	Close() error
}

// Config 向量仓库配置
type Config struct {
	Type      string // 仓库类型: "faiss", "memory"
	Dir       string // 索引目录
	Dimension int    // 向量维度
}

// Backend 仓库实现
type Backend struct {
	IndexFile string                                  // 索引目录中的索引文件名，其存在与否决定加载或重建
	New       func(dimension int) (Repository, error) // 创建空仓库
	Load      func(dir string) (Repository, error)    // 从目录加载
}

// backends 注册可用的仓库实现
var backends = map[string]Backend{}

// RegisterBackend 注册仓库实现
func RegisterBackend(name string, backend Backend) {
	backends[name] = backend
}

func lookup(typ string) (Backend, error) {
	b, ok := backends[typ]
	if !ok {
		return Backend{}, fmt.Errorf("unsupported vector repository type: %s", typ)
	}
	return b, nil
}

// NewRepository 根据配置创建空仓库
func NewRepository(config Config) (Repository, error) {
	b, err := lookup(config.Type)
	if err != nil {
		return nil, err
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", config.Dimension)
	}
	return b.New(config.Dimension)
}

// LoadRepository 从配置的目录加载仓库
func LoadRepository(config Config) (Repository, error) {
	b, err := lookup(config.Type)
	if err != nil {
		return nil, err
	}
	if !fileExists(filepath.Join(config.Dir, b.IndexFile)) {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, config.Dir)
	}
	return b.Load(config.Dir)
}

// IndexPath 返回配置对应的索引文件路径
func IndexPath(config Config) (string, error) {
	b, err := lookup(config.Type)
	if err != nil {
		return "", err
	}
	return filepath.Join(config.Dir, b.IndexFile), nil
}

// Exists 判断目录中是否已有持久化的索引文件
func Exists(config Config) bool {
	path, err := IndexPath(config)
	if err != nil {
		return false
	}
	return fileExists(path)
}

// fileExists 检查文件是否存在
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
