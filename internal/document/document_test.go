package document

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fyerfyer/pec-qa/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `[
  {
    "sections": [
      {"section": "2.0.1.1", "title": "Scope", "text": "This article covers\nthe use of conductors\r\nin premises wiring."},
      {"section": " 2.0.1.2 ", "title": " Definitions ", "text": "  Grounded <conductor> & neutral.\n"}
    ]
  },
  {
    "sections": [
      {"section": "2.10.1.1", "title": "Branch Circuits", "text": ""},
      {"section": "2", "title": "Chapter"}
    ]
  }
]`

// TestParseSectionID 测试条款编号解析
func TestParseSectionID(t *testing.T) {
	tests := []struct {
		id      string
		chapter string
		article string
	}{
		{id: "2.0.1.1", chapter: "2", article: "2.0"},
		{id: "2.10.3", chapter: "2", article: "2.10"},
		{id: "2", chapter: "2", article: ""},
		{id: "", chapter: "", article: ""},
		{id: "2.", chapter: "2", article: "2."},
		{id: ".5", chapter: "", article: ".5"},
		{id: "abc", chapter: "abc", article: ""},
	}

	for _, tt := range tests {
		got := ParseSectionID(tt.id)
		assert.Equal(t, tt.chapter, got.Chapter, "chapter of %q", tt.id)
		assert.Equal(t, tt.article, got.Article, "article of %q", tt.id)
	}
}

// TestNormalizeText 测试换行归一化
func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b", NormalizeText("a\nb"))
	assert.Equal(t, "a b", NormalizeText("a\r\nb"))
	assert.Equal(t, "a b c", NormalizeText("a\rb c"))
	assert.Equal(t, "a  b", NormalizeText("a\n\nb"))
	assert.Equal(t, "text", NormalizeText("\n  text \n"))
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "", NormalizeText("\n\r\n"))
}

// TestBuildChunks 测试文本块构建
func TestBuildChunks(t *testing.T) {
	doc, err := LoadDocument(strings.NewReader(sampleDocument))
	require.NoError(t, err)
	require.Equal(t, 4, doc.SectionCount())

	chunks := BuildChunks(doc)
	require.Len(t, chunks, 4, "每个条款生成一个文本块")

	// 保持原文顺序
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"2.0.1.1", "2.0.1.2", "2.10.1.1", "2"}, ids)

	first := chunks[0]
	assert.Equal(t, "This article covers the use of conductors in premises wiring.", first.Text)
	assert.Equal(t, Metadata{Chapter: "2", Article: "2.0", SectionTitle: "Scope"}, first.Metadata)

	second := chunks[1]
	assert.Equal(t, "2.0.1.2", second.ID)
	assert.Equal(t, "Definitions", second.Metadata.SectionTitle)
	assert.Equal(t, "Grounded <conductor> & neutral.", second.Text)

	// 正文为空的条款保留
	assert.Equal(t, "", chunks[2].Text)
	assert.Equal(t, "2.10", chunks[2].Metadata.Article)

	// 单段编号没有article
	assert.Equal(t, "2", chunks[3].Metadata.Chapter)
	assert.Equal(t, "", chunks[3].Metadata.Article)

	for _, c := range chunks {
		assert.NotContains(t, c.Text, "\n")
		assert.NotContains(t, c.Text, "\r")
		assert.Equal(t, strings.TrimSpace(c.Text), c.Text)
	}
}

// TestBuildChunksEmptyDocument 测试空文档
func TestBuildChunksEmptyDocument(t *testing.T) {
	doc, err := LoadDocument(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, BuildChunks(doc))

	var buf bytes.Buffer
	require.NoError(t, EncodeChunks(&buf, BuildChunks(doc)))
	assert.Equal(t, "[]\n", buf.String())
}

// TestLoadDocumentInvalid 测试非法文档
func TestLoadDocumentInvalid(t *testing.T) {
	_, err := LoadDocument(strings.NewReader(`{"sections": []}`))
	assert.Error(t, err)
}

// TestEncodeChunks 测试产物序列化格式
func TestEncodeChunks(t *testing.T) {
	chunks := []Chunk{{
		ID:   "2.0.1.2",
		Text: "Grounded <conductor> & neutral — see 2.50",
		Metadata: Metadata{
			Chapter:      "2",
			Article:      "2.0",
			SectionTitle: "Definitions",
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, EncodeChunks(&buf, chunks))

	want := `[
  {
    "id": "2.0.1.2",
    "text": "Grounded <conductor> & neutral — see 2.50",
    "metadata": {
      "chapter": "2",
      "article": "2.0",
      "section_title": "Definitions"
    }
  }
]
`
	assert.Equal(t, want, buf.String())

	decoded, err := DecodeChunks(&buf)
	require.NoError(t, err)
	assert.Equal(t, chunks, decoded)
}

// TestBuilderRun 测试完整构建流程与幂等性
func TestBuilderRun(t *testing.T) {
	s, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Put("data_structured/chapter2_structured.json", strings.NewReader(sampleDocument))
	require.NoError(t, err)

	store := NewChunkStore(s, "data/pec_chunks_chapter2.json")
	builder := NewBuilder(s, "data_structured/chapter2_structured.json", store)

	chunks, err := builder.Run()
	require.NoError(t, err)
	assert.Len(t, chunks, 4)

	first := readObject(t, s, store.Key())

	// 再次运行得到逐字节相同的产物
	_, err = builder.Run()
	require.NoError(t, err)
	second := readObject(t, s, store.Key())
	assert.Equal(t, first, second)

	loaded, err := store.LoadChunks()
	require.NoError(t, err)
	assert.Equal(t, chunks, loaded)
}

// TestChunkStoreOverwrite 测试产物整体覆盖
func TestChunkStoreOverwrite(t *testing.T) {
	s, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	store := NewChunkStore(s, "chunks.json")
	require.NoError(t, store.Save([]Chunk{{ID: "2.0.1.1"}, {ID: "2.0.1.2"}}))
	require.NoError(t, store.Save([]Chunk{{ID: "2.0.1.3"}}))

	loaded, err := store.LoadChunks()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "2.0.1.3", loaded[0].ID)
}

// TestBuilderMissingDocument 测试源文档不存在
func TestBuilderMissingDocument(t *testing.T) {
	s, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	builder := NewBuilder(s, "missing.json", NewChunkStore(s, "chunks.json"))
	_, err = builder.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func readObject(t *testing.T, s storage.Storage, key string) []byte {
	t.Helper()
	r, err := s.Get(key)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
