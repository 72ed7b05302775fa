package vectordb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MemoryIndexFile 内存仓库的向量文件名
const MemoryIndexFile = "index.json"

// MemoryRepository 暴力检索的内存向量仓库
type MemoryRepository struct {
	mu        sync.RWMutex
	documents []Document // 文档，Vector为归一化后的向量
	dimension int
}

// NewMemoryRepository 创建空的内存向量仓库
func NewMemoryRepository(dimension int) (Repository, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}
	return &MemoryRepository{dimension: dimension}, nil
}

// LoadMemoryRepository 从目录加载内存向量仓库
func LoadMemoryRepository(dir string) (Repository, error) {
	meta, err := loadMeta(dir, "memory")
	if err != nil {
		return nil, err
	}

	var vectors [][]float32
	if err := readJSON(filepath.Join(dir, MemoryIndexFile), &vectors); err != nil {
		return nil, err
	}
	if len(vectors) != len(meta.Documents) {
		return nil, fmt.Errorf("%w: %d vectors for %d documents", ErrCorruptIndex, len(vectors), len(meta.Documents))
	}

	docs := meta.Documents
	for i := range docs {
		if err := ValidateVector(vectors[i], meta.Dimension); err != nil {
			return nil, fmt.Errorf("%w: document %s: %v", ErrCorruptIndex, docs[i].ID, err)
		}
		docs[i].Vector = vectors[i]
	}

	return &MemoryRepository{
		documents: docs,
		dimension: meta.Dimension,
	}, nil
}

// AddBatch 批量添加文档到仓库
func (r *MemoryRepository) AddBatch(docs []Document) error {
	prepared := make([]Document, len(docs))
	for i, doc := range docs {
		if err := ValidateVector(doc.Vector, r.dimension); err != nil {
			return fmt.Errorf("invalid vector for document %s: %w", doc.ID, err)
		}
		doc.Vector = normalizeVector(doc.Vector)
		prepared[i] = doc
	}

	r.mu.Lock()
	r.documents = append(r.documents, prepared...)
	r.mu.Unlock()
	return nil
}

// Search 计算与全部文档的余弦相似度，返回最相似的k个
func (r *MemoryRepository) Search(vector []float32, k int) ([]SearchResult, error) {
	if err := ValidateVector(vector, r.dimension); err != nil {
		return nil, err
	}
	query := normalizeVector(vector)

	r.mu.RLock()
	results := make([]SearchResult, len(r.documents))
	for i, doc := range r.documents {
		results[i] = SearchResult{
			Document: doc,
			Score:    dotProduct(query, doc.Vector),
		}
	}
	r.mu.RUnlock()

	SortSearchResults(results)
	if k < 0 {
		k = 0
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count 获取文档总数
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documents)
}

// Dimension 返回向量维数
func (r *MemoryRepository) Dimension() int {
	return r.dimension
}

// Save 保存向量和元数据
// 先写元数据，向量文件最后落盘
func (r *MemoryRepository) Save(dir string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %v", err)
	}

	if err := saveMeta(dir, indexMeta{
		Type:      "memory",
		Dimension: r.dimension,
		Documents: r.documents,
	}); err != nil {
		return err
	}

	vectors := make([][]float32, len(r.documents))
	for i, doc := range r.documents {
		vectors[i] = doc.Vector
	}
	return writeJSON(filepath.Join(dir, MemoryIndexFile), vectors)
}

// Close 关闭仓库
func (r *MemoryRepository) Close() error {
	return nil
}

func init() {
	RegisterBackend("memory", Backend{
		IndexFile: MemoryIndexFile,
		New:       NewMemoryRepository,
		Load:      LoadMemoryRepository,
	})
}
