package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexInfo 检索索引状态
type IndexInfo interface {
	Count() int
	Type() string
}

// HealthHandler 健康检查
type HealthHandler struct {
	index IndexInfo
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(index IndexInfo) *HealthHandler {
	return &HealthHandler{index: index}
}

// Health 返回服务和索引状态
// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.index != nil {
		resp["index_type"] = h.index.Type()
		resp["documents"] = h.index.Count()
	}
	c.JSON(http.StatusOK, resp)
}
