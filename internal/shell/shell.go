package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fyerfyer/pec-qa/internal/services"
	"github.com/sirupsen/logrus"
)

// Prompt 每轮提问前输出的提示
const Prompt = "Ask the PEC agent (type 'exit' to quit): "

// Answerer 回答问题的服务
type Answerer interface {
	Answer(ctx context.Context, question string) (*services.QueryResult, error)
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Shell 交互式问答循环
type Shell struct {
	answerer Answerer
	in       *bufio.Scanner
	out      io.Writer
	logger   *logrus.Logger
}

// New 创建交互式问答循环
func New(answerer Answerer, in io.Reader, out io.Writer, logger *logrus.Logger) *Shell {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Shell{
		answerer: answerer,
		in:       scanner,
		out:      out,
		logger:   logger,
	}
}

// IsExit 判断输入是否为退出命令，只忽略大小写
func IsExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}

// Run 循环读取问题并输出回答，输入结束或收到退出命令时返回
// 单轮失败只输出错误，不中断循环
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, "\n"+promptStyle.Render(Prompt))
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		line := s.in.Text()
		if IsExit(line) {
			return nil
		}
		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}

		result, err := s.answerer.Answer(ctx, question)
		if err != nil {
			s.logger.WithError(err).Error("Failed to answer question")
			fmt.Fprintln(s.out, errorStyle.Render("Error: "+err.Error()))
			continue
		}
		s.printResult(result)
	}
}

// printResult 输出回答和引用条款
func (s *Shell) printResult(result *services.QueryResult) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, headerStyle.Render("Answer:"))
	fmt.Fprintln(s.out, result.Answer)

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, headerStyle.Render("Cited Sections:"))
	for i, c := range result.Contexts {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, sectionStyle.Render(services.SectionLabel(i, c)))
		fmt.Fprintln(s.out, c.Content)
	}
}
