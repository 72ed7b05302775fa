package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/pec-qa/internal/document"
	"github.com/fyerfyer/pec-qa/internal/llm"
	"github.com/fyerfyer/pec-qa/internal/retrieval"
	"github.com/sirupsen/logrus"
)

// DefaultTopK 每个问题检索的段落数
const DefaultTopK = 5

// Context 回答所依据的段落
type Context struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata document.Metadata `json:"metadata"`
}

// SectionLabel 返回引用条款的标题行
// 缺少编号时使用序号代替
func SectionLabel(i int, c Context) string {
	id := c.ID
	if id == "" {
		id = fmt.Sprintf("#%d", i+1)
	}
	return fmt.Sprintf("Section %s - %s", id, c.Metadata.SectionTitle)
}

// QueryResult 一次问答的结果
type QueryResult struct {
	Answer    string              `json:"answer"`
	Contexts  []Context           `json:"contexts"`
	Citations []document.Metadata `json:"citations"`
}

// QAService 问答服务
// 负责协调语义检索和大模型生成答案
type QAService struct {
	searcher retrieval.Searcher // 检索索引
	rag      *llm.RAGService    // RAG服务
	topK     int                // 检索段落数
	logger   *logrus.Logger
}

// QAOption 问答服务配置选项
type QAOption func(*QAService)

// NewQAService 创建问答服务实例
func NewQAService(searcher retrieval.Searcher, rag *llm.RAGService, opts ...QAOption) *QAService {
	service := &QAService{
		searcher: searcher,
		rag:      rag,
		topK:     DefaultTopK,
		logger:   logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// WithTopK 设置检索段落数
func WithTopK(k int) QAOption {
	return func(s *QAService) {
		s.topK = k
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) QAOption {
	return func(s *QAService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Answer 回答问题
// 检索最相关的段落，按检索顺序拼接后调用一次大模型
func (s *QAService) Answer(ctx context.Context, question string) (*QueryResult, error) {
	passages, err := s.searcher.Search(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve passages: %w", err)
	}

	contents := make([]string, len(passages))
	contexts := make([]Context, len(passages))
	citations := make([]document.Metadata, len(passages))
	for i, p := range passages {
		contents[i] = p.Content
		contexts[i] = Context{
			ID:       p.ID,
			Content:  p.Content,
			Metadata: p.Metadata,
		}
		citations[i] = p.Metadata
	}

	resp, err := s.rag.Answer(ctx, question, contents)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"passages": len(passages),
		"tokens":   resp.TokenCount,
	}).Debug("Question answered")

	return &QueryResult{
		Answer:    resp.Answer,
		Contexts:  contexts,
		Citations: citations,
	}, nil
}
