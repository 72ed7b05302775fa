package vectordb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/DataIntelligenceCrew/go-faiss"
)

// FaissIndexFile FAISS索引文件名
const FaissIndexFile = "index.faiss"

// FaissRepository 基于Faiss平面内积索引的向量仓库
// 向量在写入和查询前做L2归一化，内积即余弦相似度
type FaissRepository struct {
	mu        sync.RWMutex
	index     faiss.Index
	documents []Document // 下标与索引中的位置一一对应
	dimension int
}

// NewFaissRepository 创建空的Faiss向量仓库
func NewFaissRepository(dimension int) (Repository, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}
	index, err := faiss.NewIndexFlat(dimension, faiss.MetricInnerProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to create Faiss index: %v", err)
	}
	return &FaissRepository{
		index:     index,
		dimension: dimension,
	}, nil
}

// LoadFaissRepository 从目录加载Faiss向量仓库
func LoadFaissRepository(dir string) (Repository, error) {
	meta, err := loadMeta(dir, "faiss")
	if err != nil {
		return nil, err
	}

	index, err := faiss.ReadIndex(filepath.Join(dir, FaissIndexFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %v", err)
	}

	if index.D() != meta.Dimension || int(index.Ntotal()) != len(meta.Documents) {
		index.Delete()
		return nil, fmt.Errorf("%w: index holds %d vectors of dimension %d, metadata lists %d documents of dimension %d",
			ErrCorruptIndex, index.Ntotal(), index.D(), len(meta.Documents), meta.Dimension)
	}

	return &FaissRepository{
		index:     index,
		documents: meta.Documents,
		dimension: meta.Dimension,
	}, nil
}

// AddBatch 批量添加文档到仓库
func (r *FaissRepository) AddBatch(docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	flat := make([]float32, 0, len(docs)*r.dimension)
	for _, doc := range docs {
		if err := ValidateVector(doc.Vector, r.dimension); err != nil {
			return fmt.Errorf("invalid vector for document %s: %w", doc.ID, err)
		}
		flat = append(flat, normalizeVector(doc.Vector)...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.index.Add(flat); err != nil {
		return fmt.Errorf("failed to add vectors to index: %v", err)
	}
	for _, doc := range docs {
		doc.Vector = nil
		r.documents = append(r.documents, doc)
	}
	return nil
}

// Search 相似度搜索
func (r *FaissRepository) Search(vector []float32, k int) ([]SearchResult, error) {
	if err := ValidateVector(vector, r.dimension); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.documents)
	if k > total {
		k = total
	}
	if k <= 0 {
		return []SearchResult{}, nil
	}

	distances, labels, err := r.index.Search(normalizeVector(vector), int64(k))
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %v", err)
	}

	results := make([]SearchResult, 0, k)
	for i, label := range labels {
		if label < 0 || int(label) >= total {
			continue
		}
		results = append(results, SearchResult{
			Document: r.documents[label],
			Score:    distances[i],
		})
	}
	SortSearchResults(results)
	return results, nil
}

// Count 获取文档总数
func (r *FaissRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documents)
}

// Dimension 返回向量维数
func (r *FaissRepository) Dimension() int {
	return r.dimension
}

// Save 保存索引和元数据
// 先写元数据，索引文件最后落盘
func (r *FaissRepository) Save(dir string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %v", err)
	}

	if err := saveMeta(dir, indexMeta{
		Type:      "faiss",
		Dimension: r.dimension,
		Documents: r.documents,
	}); err != nil {
		return err
	}

	path := filepath.Join(dir, FaissIndexFile)
	tmp := path + ".tmp"
	if err := faiss.WriteIndex(r.index, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write index to file: %v", err)
	}
	return os.Rename(tmp, path)
}

// Close 释放索引占用的内存
func (r *FaissRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index != nil {
		r.index.Delete()
		r.index = nil
	}
	return nil
}

func init() {
	RegisterBackend("faiss", Backend{
		IndexFile: FaissIndexFile,
		New:       NewFaissRepository,
		Load:      LoadFaissRepository,
	})
}
