package model

import (
	"encoding/json"
	"time"

	"github.com/fyerfyer/pec-qa/internal/document"
	"github.com/fyerfyer/pec-qa/internal/models"
	"github.com/fyerfyer/pec-qa/internal/services"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// QAResponse 问答响应
type QAResponse struct {
	Question  string              `json:"question"`
	Answer    string              `json:"answer"`
	Contexts  []services.Context  `json:"contexts"`
	Citations []document.Metadata `json:"citations"`
}

// NewQAResponse 由问答结果构造响应
func NewQAResponse(question string, result *services.QueryResult) QAResponse {
	return QAResponse{
		Question:  question,
		Answer:    result.Answer,
		Contexts:  result.Contexts,
		Citations: result.Citations,
	}
}

// ComputeResponse 电气计算响应
type ComputeResponse struct {
	Type   string  `json:"type"`
	Result *string `json:"result"`
}

// HistoryItem 一条问答历史
type HistoryItem struct {
	ID        string              `json:"id"`
	Question  string              `json:"question"`
	Answer    string              `json:"answer"`
	Citations []document.Metadata `json:"citations"`
	Source    string              `json:"source"`
	CreatedAt time.Time           `json:"created_at"`
}

// HistoryResponse 问答历史响应
type HistoryResponse struct {
	Total   int           `json:"total"`
	Records []HistoryItem `json:"records"`
}

// ConvertToHistory 将问答记录转换为响应
func ConvertToHistory(records []*models.QueryRecord) HistoryResponse {
	items := make([]HistoryItem, 0, len(records))
	for _, r := range records {
		item := HistoryItem{
			ID:        r.ID,
			Question:  r.Question,
			Answer:    r.Answer,
			Source:    r.Source,
			CreatedAt: r.CreatedAt,
		}
		if len(r.Citations) > 0 {
			// 无法解析的引用按空处理
			_ = json.Unmarshal(r.Citations, &item.Citations)
		}
		items = append(items, item)
	}
	return HistoryResponse{Total: len(items), Records: items}
}
