package llm

import "time"

// MessageRole 消息角色类型
type MessageRole string

const (
	// RoleSystem 系统角色
	RoleSystem MessageRole = "system"
	// RoleUser 用户角色
	RoleUser MessageRole = "user"
	// RoleAssistant 助手角色
	RoleAssistant MessageRole = "assistant"
)

// Message 对话消息结构
type Message struct {
	Role    MessageRole `json:"role"`           // 角色
	Content string      `json:"content"`        // 内容
	Name    string      `json:"name,omitempty"` // 可选名称标识
}

// Response 统一的响应结构
type Response struct {
	Text         string    // 生成的文本
	Messages     []Message // 消息列表（如果是对话）
	TokenCount   int       // 使用的token数
	ModelName    string    // 使用的模型名称
	FinishReason string    // 结束原因
	FinishTime   time.Time // 完成时间
}

// RAGResponse RAG响应结构
type RAGResponse struct {
	Answer     string // 回答内容
	Prompt     string // 实际发送的提示词
	TokenCount int    // 使用的token数
}

// 常用模型名称
const (
	ModelGPT35Turbo = "gpt-3.5-turbo" // 默认模型
	ModelGPT4oMini  = "gpt-4o-mini"
	ModelGPT4o      = "gpt-4o"
)
