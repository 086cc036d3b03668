package word

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/render/pdf"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

// Renderer 文字处理文档渲染器
// 两步转换: 先在隔离的临时目录内转为分页中间格式，再按分页文档栅格化
// 临时中间产物无论成败都会被清理
type Renderer struct {
	runner runner.Runner
	binary string
	pdf    *pdf.Renderer
	logger logger.Logger
}

func NewRenderer(run runner.Runner, binary string, pdfRenderer *pdf.Renderer, log logger.Logger) *Renderer {
	if binary == "" {
		binary = "libreoffice"
	}
	return &Renderer{
		runner: run,
		binary: binary,
		pdf:    pdfRenderer,
		logger: log,
	}
}

func (r *Renderer) Render(ctx context.Context, doc models.InputDocument, workDir string) ([]models.PageImage, error) {
	tmpDir, err := os.MkdirTemp("", "convert-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// libreoffice --headless --convert-to pdf --outdir <tmp> <doc>
	_, errb, err := r.runner.Run(ctx, r.binary,
		"--headless", "--convert-to", "pdf", "--outdir", tmpDir, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("document conversion failed: %s: %w",
			runner.Truncate(string(errb), 2<<10), err)
	}

	intermediate, err := r.findConverted(tmpDir, doc)
	if err != nil {
		return nil, err
	}

	return r.pdf.Render(ctx, models.InputDocument{
		Path:     intermediate,
		BaseName: doc.BaseName,
		Format:   models.FormatPDF,
	}, workDir)
}

// findConverted 定位转换产物，转换器约定在输出目录内恰好产出一个分页文档
func (r *Renderer) findConverted(tmpDir string, doc models.InputDocument) (string, error) {
	converted := filepath.Join(tmpDir, doc.BaseName+".pdf")
	if _, err := os.Stat(converted); err == nil {
		return converted, nil
	}

	matches, err := filepath.Glob(filepath.Join(tmpDir, "*.pdf"))
	if err != nil || len(matches) != 1 {
		return "", fmt.Errorf("converter did not produce exactly one paged document for %s", doc.Path)
	}
	return matches[0], nil
}
