package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fyerfyer/pec-qa/internal/services"
	"github.com/jung-kurt/gofpdf"
)

// ContentType 报告的MIME类型
const ContentType = "application/pdf"

const (
	fontFamily = "Arial"
	lineHeight = 6.0
)

// Renderer 问答报告生成器
type Renderer struct {
	title string
	now   func() time.Time
}

// Option 报告生成器配置选项
type Option func(*Renderer)

// WithTitle 设置报告标题
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithClock 设置生成时间来源
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer 创建报告生成器
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		title: "PEC Chapter 2 Answer Report",
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render 将问题、回答和引用条款写成PDF
func (r *Renderer) Render(w io.Writer, question string, result *services.QueryResult) error {
	if result == nil {
		return fmt.Errorf("no answer to render")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("pecqa", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// 内置字体只支持cp1252，UTF-8文本需要转换
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(r.title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, lineHeight, r.now().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "Question")
	pdf.MultiCell(0, lineHeight, tr(question), "", "L", false)
	pdf.Ln(3)

	heading(pdf, "Answer")
	pdf.MultiCell(0, lineHeight, tr(result.Answer), "", "L", false)
	pdf.Ln(3)

	if len(result.Contexts) > 0 {
		heading(pdf, "Cited Sections")
		headings := sectionHeadings(result.Contexts)
		for i, c := range result.Contexts {
			pdf.SetFont(fontFamily, "B", 10)
			pdf.MultiCell(0, lineHeight, tr(headings[i]), "", "L", false)
			pdf.SetFont(fontFamily, "", 10)
			pdf.MultiCell(0, lineHeight, tr(c.Content), "", "L", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
}

// sectionHeadings 引用条款的标题行，与命令行和网页的标注一致
func sectionHeadings(contexts []services.Context) []string {
	headings := make([]string, len(contexts))
	for i, c := range contexts {
		headings[i] = services.SectionLabel(i, c)
	}
	return headings
}
