package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// Renderer 栅格图像直通渲染器
// 文件视为单页，按原名原样复制进工作目录，不加页号后缀
type Renderer struct {
	logger logger.Logger
}

func NewRenderer(log logger.Logger) *Renderer {
	return &Renderer{logger: log}
}

func (r *Renderer) Render(ctx context.Context, doc models.InputDocument, workDir string) ([]models.PageImage, error) {
	dst := filepath.Join(workDir, filepath.Base(doc.Path))
	if err := copyFile(doc.Path, dst); err != nil {
		return nil, fmt.Errorf("failed to copy image: %w", err)
	}

	return []models.PageImage{{
		DocumentBase: doc.BaseName,
		Index:        0,
		Path:         dst,
	}}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
