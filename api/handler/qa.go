package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/fyerfyer/pec-qa/api/middleware"
	"github.com/fyerfyer/pec-qa/api/model"
	"github.com/fyerfyer/pec-qa/internal/report"
	"github.com/fyerfyer/pec-qa/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Answerer 回答问题的服务
type Answerer interface {
	Answer(ctx context.Context, question string) (*services.QueryResult, error)
}

// QAHandler 处理问答相关的API请求
type QAHandler struct {
	qaService Answerer                 // 问答服务
	history   *services.HistoryService // 问答历史，可为空
	renderer  *report.Renderer         // PDF报告生成器
	logger    *logrus.Logger           // 日志记录器
}

// NewQAHandler 创建新的问答处理器
func NewQAHandler(qaService Answerer, history *services.HistoryService, renderer *report.Renderer) *QAHandler {
	if renderer == nil {
		renderer = report.NewRenderer()
	}
	return &QAHandler{
		qaService: qaService,
		history:   history,
		renderer:  renderer,
		logger:    middleware.GetLogger(),
	}
}

// bindQuestion 读取并校验请求中的问题
func (h *QAHandler) bindQuestion(c *gin.Context) (string, bool) {
	var req model.QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid question request")
		middleware.HandleError(c, middleware.NewValidationError("invalid request body", err.Error()))
		return "", false
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		middleware.HandleError(c, middleware.NewValidationError("question cannot be empty"))
		return "", false
	}
	return question, true
}

// answer 调用问答服务并记录历史
func (h *QAHandler) answer(c *gin.Context, question string) (*services.QueryResult, bool) {
	result, err := h.qaService.Answer(c.Request.Context(), question)
	if err != nil {
		middleware.HandleError(c, err)
		return nil, false
	}
	recordHistory(c, h.history, h.logger, question, services.SourceAPI, result)
	return result, true
}

// AnswerQuestion 处理问答请求
// POST /api/qa
func (h *QAHandler) AnswerQuestion(c *gin.Context) {
	question, ok := h.bindQuestion(c)
	if !ok {
		return
	}

	h.logger.WithFields(logrus.Fields{
		middleware.FieldTraceID: middleware.TraceID(c),
		"question":              question,
	}).Info("Answering question")

	result, ok := h.answer(c, question)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewQAResponse(question, result)))
}

// Report 回答问题并返回PDF报告
// POST /api/qa/report
func (h *QAHandler) Report(c *gin.Context) {
	question, ok := h.bindQuestion(c)
	if !ok {
		return
	}

	result, ok := h.answer(c, question)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, question, result); err != nil {
		middleware.HandleError(c, middleware.NewInternalError("failed to render report", err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pec-answer.pdf"`)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

// History 列出最近的问答记录
// GET /api/qa/history?limit=n
func (h *QAHandler) History(c *gin.Context) {
	var req model.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("invalid limit", err.Error()))
		return
	}

	if h.history == nil {
		middleware.HandleError(c, middleware.NewNotFoundError("query history is disabled"))
		return
	}

	records, err := h.history.Recent(c.Request.Context(), req.GetLimit())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.ConvertToHistory(records)))
}

// recordHistory 保存问答记录，失败只记日志
func recordHistory(c *gin.Context, history *services.HistoryService, logger *logrus.Logger, question, source string, result *services.QueryResult) {
	if history == nil {
		return
	}
	if _, err := history.Record(c.Request.Context(), question, source, result); err != nil {
		logger.WithError(err).WithField(middleware.FieldTraceID, middleware.TraceID(c)).Warn("Failed to record query history")
	}
}
