package document

import (
	"encoding/json"
	"fmt"
	"io"
)

// Section 结构化文档中的条款
// 缺失的字段按空字符串处理
type Section struct {
	Section string `json:"section"` // 条款编号，如 "2.0.1.1"
	Title   string `json:"title"`   // 条款标题
	Text    string `json:"text"`    // 条款原文，可能包含换行
}

// Article 结构化文档中的章节
type Article struct {
	Sections []Section `json:"sections"` // 章节下的条款列表
}

// Document 结构化文档，按原文顺序排列的章节
type Document []Article

// Metadata 文本块元数据
type Metadata struct {
	Chapter      string `json:"chapter"`       // 编号第一段
	Article      string `json:"article"`       // 编号前两段
	SectionTitle string `json:"section_title"` // 条款标题
}

// Chunk 可独立检索的规范化文本块
type Chunk struct {
	ID       string   `json:"id"`       // 条款编号
	Text     string   `json:"text"`     // 规范化后的正文
	Metadata Metadata `json:"metadata"` // 元数据
}

// LoadDocument 从JSON读取结构化文档
func LoadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode structured document: %v", err)
	}
	return doc, nil
}

// SectionCount 返回文档中的条款总数
func (d Document) SectionCount() int {
	n := 0
	for _, article := range d {
		n += len(article.Sections)
	}
	return n
}
