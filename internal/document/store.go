package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fyerfyer/pec-qa/pkg/storage"
)

// ChunkSource 文本块来源
type ChunkSource interface {
	// LoadChunks 读取全部文本块
	LoadChunks() ([]Chunk, error)
}

// EncodeChunks 将文本块序列化为缩进两格的JSON列表
// 不转义HTML字符，保证产物可读；相同输入得到逐字节相同的输出
func EncodeChunks(w io.Writer, chunks []Chunk) error {
	if chunks == nil {
		chunks = []Chunk{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunks); err != nil {
		return fmt.Errorf("failed to encode chunks: %v", err)
	}
	return nil
}

// DecodeChunks 解析文本块列表
func DecodeChunks(r io.Reader) ([]Chunk, error) {
	var chunks []Chunk
	if err := json.NewDecoder(r).Decode(&chunks); err != nil {
		return nil, fmt.Errorf("failed to decode chunks: %v", err)
	}
	return chunks, nil
}

// ChunkStore 文本块产物存储
// 产物以单个对象保存在Storage中，每次构建整体覆盖
type ChunkStore struct {
	storage storage.Storage // 底层对象存储
	key     string          // 产物对象键
}

// NewChunkStore 创建文本块存储
func NewChunkStore(s storage.Storage, key string) *ChunkStore {
	return &ChunkStore{
		storage: s,
		key:     key,
	}
}

// Key 返回产物对象键
func (s *ChunkStore) Key() string {
	return s.key
}

// Save 写入全部文本块，覆盖已有产物
func (s *ChunkStore) Save(chunks []Chunk) error {
	var buf bytes.Buffer
	if err := EncodeChunks(&buf, chunks); err != nil {
		return err
	}
	if _, err := s.storage.Put(s.key, &buf); err != nil {
		return fmt.Errorf("failed to write chunk artifact %s: %w", s.key, err)
	}
	return nil
}

// LoadChunks 读取全部文本块
func (s *ChunkStore) LoadChunks() ([]Chunk, error) {
	r, err := s.storage.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk artifact %s: %w", s.key, err)
	}
	defer r.Close()
	return DecodeChunks(r)
}

// Builder 文本块构建器
// 从存储读取结构化文档，生成文本块并写入产物
type Builder struct {
	storage     storage.Storage // 对象存储
	documentKey string          // 结构化文档对象键
	store       *ChunkStore     // 文本块产物
}

// NewBuilder 创建文本块构建器
func NewBuilder(s storage.Storage, documentKey string, store *ChunkStore) *Builder {
	return &Builder{
		storage:     s,
		documentKey: documentKey,
		store:       store,
	}
}

// Run 执行一次完整的构建，返回生成的文本块
func (b *Builder) Run() ([]Chunk, error) {
	r, err := b.storage.Get(b.documentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open structured document %s: %w", b.documentKey, err)
	}
	defer r.Close()

	doc, err := LoadDocument(r)
	if err != nil {
		return nil, err
	}

	chunks := BuildChunks(doc)
	if err := b.store.Save(chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}
