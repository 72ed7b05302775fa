package api

import (
	"github.com/fyerfyer/pec-qa/api/handler"
	"github.com/fyerfyer/pec-qa/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers 路由使用的处理器集合
type Handlers struct {
	QA      *handler.QAHandler
	Compute *handler.ComputeHandler
	Web     *handler.WebHandler
	Health  *handler.HealthHandler
}

// SetupRouter 设置网页和API路由
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.New()

	// 应用全局中间件
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(middleware.RequestBodyLog())

	// 网页表单
	if h.Web != nil {
		router.GET("/", h.Web.Index)
		router.POST("/ask", h.Web.Ask)
	}

	api := router.Group("/api")
	{
		if h.QA != nil {
			qaGroup := api.Group("/qa")
			{
				// 回答问题 - POST /api/qa
				qaGroup.POST("", h.QA.AnswerQuestion)

				// 问答历史 - GET /api/qa/history
				qaGroup.GET("/history", h.QA.History)

				// PDF报告 - POST /api/qa/report
				qaGroup.POST("/report", h.QA.Report)
			}
		}

		if h.Compute != nil {
			// 电气计算 - POST /api/compute
			api.POST("/compute", h.Compute.Compute)
		}

		health := h.Health
		if health == nil {
			health = handler.NewHealthHandler(nil)
		}
		api.GET("/health", health.Health)
	}

	return router
}
