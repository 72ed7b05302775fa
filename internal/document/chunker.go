package document

import "strings"

// lineBreaks 视为换行的字符
var lineBreaks = map[rune]bool{
	'\n':     true,
	'\r':     true,
	'\v':     true,
	'\f':     true,
	'\x1c':   true,
	'\x1d':   true,
	'\x1e':   true,
	'\u0085': true,
	'\u2028': true,
	'\u2029': true,
}

// NormalizeText 将每个换行替换为一个空格并去掉首尾空白
// "\r\n" 视为一个换行
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Map(func(r rune) rune {
		if lineBreaks[r] {
			return ' '
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// BuildChunk 由单个条款生成文本块
func BuildChunk(section Section) Chunk {
	id := strings.TrimSpace(section.Section)
	parsed := ParseSectionID(id)

	return Chunk{
		ID:   id,
		Text: NormalizeText(section.Text),
		Metadata: Metadata{
			Chapter:      parsed.Chapter,
			Article:      parsed.Article,
			SectionTitle: strings.TrimSpace(section.Title),
		},
	}
}

// BuildChunks 按章节、条款的原文顺序生成文本块
// 每个条款恰好生成一个文本块，正文为空的条款也保留
func BuildChunks(doc Document) []Chunk {
	chunks := make([]Chunk, 0, doc.SectionCount())
	for _, article := range doc {
		for _, section := range article.Sections {
			chunks = append(chunks, BuildChunk(section))
		}
	}
	return chunks
}
