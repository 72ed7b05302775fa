package model

// QARequest 问答请求
type QARequest struct {
	Question string `json:"question" form:"question"` // 问题内容
}

// ComputeRequest 电气计算请求
type ComputeRequest struct {
	Question string `json:"question" binding:"required"` // 含数值的问题
}

// HistoryRequest 问答历史查询参数
type HistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"` // 返回的记录数
}

// GetLimit 获取记录数，默认为20
func (r *HistoryRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}
