package render

import (
	"fmt"
	"strings"

	"github.com/feichai0017/ocr-transcriber/config"
	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/render/image"
	"github.com/feichai0017/ocr-transcriber/internal/render/pdf"
	"github.com/feichai0017/ocr-transcriber/internal/render/word"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

// 扩展名到文档格式的映射，允许集之外的扩展名一律拒绝
var extToFormat = map[string]models.DocumentFormat{
	".pdf":  models.FormatPDF,
	".docx": models.FormatWord,
	".png":  models.FormatImage,
	".jpg":  models.FormatImage,
	".jpeg": models.FormatImage,
}

// FormatForExt 返回扩展名对应的文档格式
func FormatForExt(ext string) (models.DocumentFormat, bool) {
	format, ok := extToFormat[strings.ToLower(ext)]
	return format, ok
}

// Factory 按文档格式分发渲染器
type Factory struct {
	renderers map[models.DocumentFormat]Renderer
	logger    logger.Logger
}

func NewFactory(run runner.Runner, cfg *config.Config, log logger.Logger) *Factory {
	pdfRenderer := pdf.NewRenderer(run, cfg.Pdftoppm, cfg.DPI, log)

	return &Factory{
		renderers: map[models.DocumentFormat]Renderer{
			models.FormatPDF:   pdfRenderer,
			models.FormatWord:  word.NewRenderer(run, cfg.LibreOffice, pdfRenderer, log),
			models.FormatImage: image.NewRenderer(log),
		},
		logger: log,
	}
}

// ForFormat 获取格式对应的渲染器
func (f *Factory) ForFormat(format models.DocumentFormat) (Renderer, error) {
	renderer, ok := f.renderers[format]
	if !ok {
		return nil, fmt.Errorf("no renderer for format: %s", format)
	}
	return renderer, nil
}
