package compute

import (
	"regexp"
	"strconv"
	"strings"
)

// 结果类型
const (
	TypeNone            = "none"              // 无法计算
	TypeComputeAndQuery = "compute_and_query" // 计算结果并继续检索
	TypeComputeOnly     = "compute_only"      // 仅计算
)

const (
	// DefaultVoltage 未给出电压时假定的单相电压
	DefaultVoltage = 230.0
	// WattsPerHP 每马力对应的瓦特数
	WattsPerHP = 746.0
)

var (
	numberPattern  = regexp.MustCompile(`\d+\.?\d*`)
	ampereUnit     = regexp.MustCompile(`\d+(?:\.\d+)?\s*a\b`)
	horsepowerUnit = regexp.MustCompile(`^\s*(?:hp|horse)`)
)

// Result 计算结果
type Result struct {
	Type   string  `json:"type"`   // 结果类型
	Result *string `json:"result"` // 可读结果，无法计算时为nil
}

// Text 返回结果文本，无结果时返回空字符串
func (r Result) Text() string {
	if r.Result == nil {
		return ""
	}
	return *r.Result
}

// Quantities 从问题中识别出的电气量
// HasXxx 表示该量被关键词赋值过，零值同样视为已知
type Quantities struct {
	Voltage    float64
	Current    float64
	Power      float64
	HasVoltage bool
	HasCurrent bool
	HasPower   bool
}

// Question 预处理后的问题
type Question struct {
	Text       string    // 小写后的问题文本
	Numbers    []float64 // 按出现顺序提取的数字
	Quantities Quantities
}

// Contains 判断问题是否包含任一关键词
func (q Question) Contains(keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(q.Text, k) {
			return true
		}
	}
	return false
}

// Parse 预处理问题文本：小写、提取数字并识别电气量
func Parse(question string) Question {
	text := strings.ToLower(question)
	q := Question{Text: text}

	locs := numberPattern.FindAllStringIndex(text, -1)
	for _, loc := range locs {
		v, err := strconv.ParseFloat(text[loc[0]:loc[1]], 64)
		if err != nil {
			continue
		}
		q.Numbers = append(q.Numbers, v)
	}
	if len(q.Numbers) == 0 {
		return q
	}

	first := q.Numbers[0]
	last := q.Numbers[len(q.Numbers)-1]
	qty := &q.Quantities

	if strings.Contains(text, "volt") {
		qty.Voltage = first
		qty.HasVoltage = true
	}

	// "current"一词本身不表示给出了电流值
	if strings.Contains(text, "amp") || ampereUnit.MatchString(text) {
		if qty.HasVoltage {
			qty.Current = last
		} else {
			qty.Current = first
		}
		qty.HasCurrent = true
	}

	// 第一个数字本身带马力单位时不作为功率
	firstIsHP := horsepowerUnit.MatchString(text[locs[0][1]:])
	if q.Contains("watt", "kw") && !firstIsHP {
		qty.Power = first
		if strings.Contains(text, "kw") {
			qty.Power *= 1000
		}
		qty.HasPower = true
	}

	return q
}

// Evaluate 对问题执行计算
// 依次尝试Rules中的规则，第一个匹配的规则决定结果
func Evaluate(question string) Result {
	q := Parse(question)
	if len(q.Numbers) == 0 {
		return Result{Type: TypeNone}
	}

	for _, rule := range Rules {
		if rule.Match(q) {
			text := rule.Compute(q)
			return Result{Type: rule.Type, Result: &text}
		}
	}
	return Result{Type: TypeNone}
}
