package handler

import (
	"net/http"

	"github.com/fyerfyer/pec-qa/api/middleware"
	"github.com/fyerfyer/pec-qa/api/model"
	"github.com/fyerfyer/pec-qa/internal/compute"
	"github.com/gin-gonic/gin"
)

// ComputeHandler 处理电气计算请求
type ComputeHandler struct{}

// NewComputeHandler 创建电气计算处理器
func NewComputeHandler() *ComputeHandler {
	return &ComputeHandler{}
}

// Compute 从问题中识别数值并计算
// POST /api/compute
func (h *ComputeHandler) Compute(c *gin.Context) {
	var req model.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("question is required", err.Error()))
		return
	}

	result := compute.Evaluate(req.Question)
	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ComputeResponse{
		Type:   result.Type,
		Result: result.Result,
	}))
}
