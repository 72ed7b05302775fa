package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/fyerfyer/pec-qa/api/middleware"
	"github.com/fyerfyer/pec-qa/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/sirupsen/logrus"
)

// EmptyQuestionWarning 提交空问题时的提示
const EmptyQuestionWarning = "Please type a question before submitting."

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData 页面渲染数据
type pageData struct {
	Question string
	Warning  string
	Error    string
	Answer   template.HTML
	Sections []pageSection
}

type pageSection struct {
	Label   string
	Content string
}

// WebHandler 处理网页表单
type WebHandler struct {
	qaService Answerer
	history   *services.HistoryService
	logger    *logrus.Logger
}

// NewWebHandler 创建网页表单处理器
func NewWebHandler(qaService Answerer, history *services.HistoryService) *WebHandler {
	return &WebHandler{
		qaService: qaService,
		history:   history,
		logger:    middleware.GetLogger(),
	}
}

// Index 显示提问表单
// GET /
func (h *WebHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, pageData{})
}

// Ask 处理表单提交
// POST /ask
func (h *WebHandler) Ask(c *gin.Context) {
	question := strings.TrimSpace(c.PostForm("question"))
	if question == "" {
		h.render(c, http.StatusOK, pageData{Warning: EmptyQuestionWarning})
		return
	}

	result, err := h.qaService.Answer(c.Request.Context(), question)
	if err != nil {
		h.logger.WithError(err).WithField(middleware.FieldTraceID, middleware.TraceID(c)).Error("Failed to answer web question")
		h.render(c, http.StatusInternalServerError, pageData{
			Question: question,
			Error:    "The agent could not answer this question: " + err.Error(),
		})
		return
	}
	recordHistory(c, h.history, h.logger, question, services.SourceWeb, result)

	data := pageData{
		Question: question,
		Answer:   RenderMarkdown(result.Answer),
	}
	for i, ctx := range result.Contexts {
		data.Sections = append(data.Sections, pageSection{
			Label:   services.SectionLabel(i, ctx),
			Content: ctx.Content,
		})
	}
	h.render(c, http.StatusOK, data)
}

func (h *WebHandler) render(c *gin.Context, status int, data pageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(c.Writer, data); err != nil {
		h.logger.WithError(err).Error("Failed to render page")
	}
}

// RenderMarkdown 将回答的Markdown转换为HTML
// 回答中的原始HTML会被丢弃
func RenderMarkdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(text))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML,
	})
	return template.HTML(markdown.Render(doc, renderer))
}
