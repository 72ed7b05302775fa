package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyerfyer/pec-qa/internal/document"
	"github.com/fyerfyer/pec-qa/internal/embedding"
	"github.com/fyerfyer/pec-qa/internal/vectordb"
	"github.com/sirupsen/logrus"
)

// Passage 检索到的段落
type Passage struct {
	ID       string            `json:"id"`       // 条款编号
	Content  string            `json:"content"`  // 段落正文
	Metadata document.Metadata `json:"metadata"` // 段落元数据
	Score    float32           `json:"score"`    // 相似度
}

// Searcher 语义检索接口
type Searcher interface {
	// Search 返回最多k个段落，按相似度降序排列
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// Config 检索索引配置
type Config struct {
	Type      string // 向量仓库类型: "faiss", "memory"
	Dir       string // 索引目录
	Dimension int    // 向量维度，0表示由嵌入结果决定
	BatchSize int    // 构建时每批嵌入的文本数
	Fallback  bool   // FAISS不可用时是否退回内存仓库
}

// Index 检索索引
// 构建或加载完成后只读，可并发检索
type Index struct {
	repo     vectordb.Repository
	embedder embedding.Client
	typ      string
}

// NewIndex 用已有的向量仓库创建检索索引
func NewIndex(repo vectordb.Repository, embedder embedding.Client, typ string) *Index {
	return &Index{
		repo:     repo,
		embedder: embedder,
		typ:      typ,
	}
}

// LoadOrBuild 加载已持久化的索引，不存在时从文本块构建并持久化
// 索引文件存在时不会读取文本块来源
func LoadOrBuild(ctx context.Context, cfg Config, embedder embedding.Client, source document.ChunkSource, logger *logrus.Logger) (*Index, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	for _, typ := range candidateTypes(cfg) {
		repoCfg := vectordb.Config{Type: typ, Dir: cfg.Dir}
		if !vectordb.Exists(repoCfg) {
			continue
		}

		repo, err := vectordb.LoadRepository(repoCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load index from %s: %w", cfg.Dir, err)
		}
		logger.WithFields(logrus.Fields{
			"dir":       cfg.Dir,
			"type":      typ,
			"documents": repo.Count(),
		}).Info("Loaded existing index")
		return NewIndex(repo, embedder, typ), nil
	}

	logger.WithField("dir", cfg.Dir).Info("No persisted index found, building from chunks")

	chunks, err := source.LoadChunks()
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	index, err := Build(ctx, cfg, embedder, chunks, logger)
	if err != nil {
		return nil, err
	}

	if err := index.repo.Save(cfg.Dir); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to persist index to %s: %w", cfg.Dir, err)
	}

	logger.WithFields(logrus.Fields{
		"dir":       cfg.Dir,
		"type":      index.typ,
		"documents": index.Count(),
	}).Info("Index built and saved")
	return index, nil
}

// candidateTypes 返回按优先级排列的可加载仓库类型
func candidateTypes(cfg Config) []string {
	types := []string{cfg.Type}
	if cfg.Fallback && cfg.Type == "faiss" {
		types = append(types, "memory")
	}
	return types
}

// Build 为每个文本块嵌入正文并构建内存中的索引
// 正文为空的文本块使用零向量，仍可被检索到
func Build(ctx context.Context, cfg Config, embedder embedding.Client, chunks []document.Chunk, logger *logrus.Logger) (*Index, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	processor := embedding.NewBatchProcessor(embedder, cfg.BatchSize, cfg.Dimension)
	vectors, err := processor.Process(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	dimension := cfg.Dimension
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	if dimension <= 0 {
		return nil, errors.New("cannot build an empty index without a configured dimension")
	}

	typ := cfg.Type
	repo, err := vectordb.NewRepository(vectordb.Config{Type: typ, Dimension: dimension})
	if err != nil && cfg.Fallback && typ == "faiss" {
		logger.WithError(err).Warn("FAISS unavailable, falling back to in-memory index")
		typ = "memory"
		repo, err = vectordb.NewRepository(vectordb.Config{Type: typ, Dimension: dimension})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create vector repository: %w", err)
	}

	docs := make([]vectordb.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = vectordb.Document{
			ID:       c.ID,
			Text:     c.Text,
			Vector:   vectors[i],
			Metadata: metadataToMap(c.Metadata),
		}
	}
	if err := repo.AddBatch(docs); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to add documents to index: %w", err)
	}

	return NewIndex(repo, embedder, typ), nil
}

// Search 嵌入查询文本并检索最相似的k个段落
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	vector, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := ix.repo.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	passages := make([]Passage, len(results))
	for i, r := range results {
		passages[i] = Passage{
			ID:       r.Document.ID,
			Content:  r.Document.Text,
			Metadata: mapToMetadata(r.Document.Metadata),
			Score:    r.Score,
		}
	}
	return passages, nil
}

// Count 返回索引中的文档数
func (ix *Index) Count() int {
	return ix.repo.Count()
}

// Type 返回实际使用的向量仓库类型
func (ix *Index) Type() string {
	return ix.typ
}

// Save 将索引持久化到目录
func (ix *Index) Save(dir string) error {
	return ix.repo.Save(dir)
}

// Close 释放索引资源
func (ix *Index) Close() error {
	return ix.repo.Close()
}

func metadataToMap(m document.Metadata) map[string]string {
	return map[string]string{
		"chapter":       m.Chapter,
		"article":       m.Article,
		"section_title": m.SectionTitle,
	}
}

func mapToMetadata(m map[string]string) document.Metadata {
	return document.Metadata{
		Chapter:      m["chapter"],
		Article:      m["article"],
		SectionTitle: m["section_title"],
	}
}
