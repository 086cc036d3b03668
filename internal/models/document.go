package models

// DocumentFormat 输入文档格式
type DocumentFormat string

const (
	FormatPDF   DocumentFormat = "pdf"
	FormatWord  DocumentFormat = "word"
	FormatImage DocumentFormat = "image"
)

// InputDocument 输入文档，枚举后不再变更
type InputDocument struct {
	Path     string
	BaseName string // 不含扩展名，所有下游产物名都由它派生
	Format   DocumentFormat
}

// PageImage 单页图像产物
// 命名约定: {BaseName}_page{N}.png，直通图像保留原名且 Index 为 0
type PageImage struct {
	DocumentBase string
	Index        int
	Path         string
}

// PageText 单页 OCR 文本产物，与图像同 stem，扩展名为 .txt
type PageText struct {
	DocumentBase string
	Index        int
	Path         string
}

// Result 单个文档的处理结果统计
type Result struct {
	Document        string
	PagesRendered   int
	PagesRecognized int
	PagesMerged     int
	PageFailures    int
	OutputPath      string
	Skipped         bool
}
