package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DefaultRAGTemplate 默认RAG提示词模板
// 包含变量：
// {{.Question}} - 用户问题
// {{.Context}} - 检索的上下文
const DefaultRAGTemplate = `You are an expert in the Philippine Electrical Code (PEC).
Answer the following question using the official code content below:

====
{{.Context}}
====

Question: {{.Question}}
Answer:`

// ContextSeparator 上下文段落之间的分隔符
const ContextSeparator = "\n\n"

// formatContext 按检索顺序拼接上下文，段落之间空一行
func formatContext(contexts []string) string {
	return strings.Join(contexts, ContextSeparator)
}

// RAGConfig 检索增强生成配置
// 生成参数由客户端配置决定
type RAGConfig struct {
	// 提示词模板
	Template string
}

// DefaultRAGConfig 默认RAG配置
func DefaultRAGConfig() *RAGConfig {
	return &RAGConfig{
		Template: DefaultRAGTemplate,
	}
}

// RAGService 实现检索增强生成服务
type RAGService struct {
	Client Client       // 大模型客户端
	config *RAGConfig   // 配置
	mu     sync.RWMutex // 配置互斥锁
}

// NewRAG 创建新的检索增强生成服务
func NewRAG(client Client, opts ...RAGOption) *RAGService {
	cfg := DefaultRAGConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &RAGService{
		Client: client,
		config: cfg,
	}
}

// RAGOption RAG配置选项函数类型
type RAGOption func(*RAGConfig)

// WithTemplate 设置提示词模板
func WithTemplate(template string) RAGOption {
	return func(c *RAGConfig) {
		c.Template = template
	}
}

// Answer 根据上下文和问题生成回答
// 只调用一次大模型，不校验问题内容，错误原样向上传递
func (r *RAGService) Answer(ctx context.Context, question string, contexts []string) (*RAGResponse, error) {
	r.mu.RLock()
	cfg := *r.config
	r.mu.RUnlock()

	prompt := BuildPrompt(cfg.Template, question, contexts)

	response, err := r.Client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	return &RAGResponse{
		Answer:     response.Text,
		Prompt:     prompt,
		TokenCount: response.TokenCount,
	}, nil
}

// BuildPrompt 用问题和上下文填充模板
func BuildPrompt(template, question string, contexts []string) string {
	return strings.NewReplacer(
		"{{.Context}}", formatContext(contexts),
		"{{.Question}}", question,
	).Replace(template)
}

// SetTemplate 设置自定义提示词模板
func (r *RAGService) SetTemplate(template string) *RAGService {
	r.mu.Lock()
	r.config.Template = template
	r.mu.Unlock()
	return r
}
