package text

import (
	"regexp"
	"strings"
)

var (
	// 某些查看器导出时注入的时间戳行，如 "6/1/23, 4:05 PM"
	timestampLine = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4},\s+\d{1,2}:\d{2}\s+(AM|PM)`)
	// 行首的畸形项目符号与 OCR 噪声标记，每行最多剥离一次
	leadingNoise = regexp.MustCompile(`^(e@|e\s+|@|-|\*|•)\s*`)
	// 连续空白折叠为单个空格
	multiSpace = regexp.MustCompile(`\s{2,}`)
)

// Clean 清洗单页 OCR 原始文本，逐行处理，确定且无 I/O
// 保留行维持原有相对顺序，以 \n 连接返回
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if timestampLine.MatchString(line) {
			continue
		}
		if strings.Contains(strings.ToLower(line), "file://") {
			continue
		}
		line = leadingNoise.ReplaceAllString(line, "")
		line = multiSpace.ReplaceAllString(line, " ")
		if line == "" {
			// 噪声标记剥离后只剩空串的行不保留
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}
