package document

import "strings"

// SectionID 解析后的条款编号
type SectionID struct {
	Chapter string // 第一段，如 "2"
	Article string // 前两段，如 "2.0"，不足两段时为空
}

// ParseSectionID 按'.'拆分条款编号
// 不校验各段内容，任何输入都可以解析，结构不足时对应字段为空字符串
func ParseSectionID(id string) SectionID {
	parts := strings.Split(id, ".")

	var parsed SectionID
	if len(parts) > 0 {
		parsed.Chapter = parts[0]
	}
	if len(parts) >= 2 {
		parsed.Article = strings.Join(parts[:2], ".")
	}
	return parsed
}
