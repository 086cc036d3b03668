package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

// Renderer 分页文档渲染器，通过 pdftoppm 以固定 DPI 栅格化每一页
type Renderer struct {
	runner runner.Runner
	binary string
	dpi    int
	logger logger.Logger
}

func NewRenderer(run runner.Runner, binary string, dpi int, log logger.Logger) *Renderer {
	if binary == "" {
		binary = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Renderer{
		runner: run,
		binary: binary,
		dpi:    dpi,
		logger: log,
	}
}

func (r *Renderer) Render(ctx context.Context, doc models.InputDocument, workDir string) ([]models.PageImage, error) {
	// 先用 pdf 库探测预期页数，用于渲染后的完整性校验
	// 探测失败不中止渲染，以 pdftoppm 的结果为准
	expected := r.probePageCount(doc.Path)

	scratch, err := os.MkdirTemp("", "render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	prefix := filepath.Join(scratch, "page")

	// pdftoppm -r <dpi> -png <in.pdf> <scratch>/page
	_, errb, runErr := r.runner.Run(ctx, r.binary, "-r", strconv.Itoa(r.dpi), "-png", doc.Path, prefix)

	// 无论成败都收集已产出的页，部分渲染的页保留给后续阶段
	pages, moveErr := r.collectPages(doc, prefix, workDir)

	if runErr != nil {
		return pages, fmt.Errorf("pdftoppm failed: %s: %w", runner.Truncate(string(errb), 2<<10), runErr)
	}
	if moveErr != nil {
		return pages, moveErr
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", doc.Path)
	}

	r.verifyContiguity(doc, pages, expected)
	return pages, nil
}

func (r *Renderer) probePageCount(path string) (n int) {
	// pdf 库对损坏文件可能 panic，探测只是辅助信息，吞掉继续
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("PDF pre-parse panicked",
				logger.String("path", path),
				logger.Any("panic", rec),
			)
			n = 0
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		r.logger.Warn("Unable to pre-parse PDF",
			logger.String("path", path),
			logger.Error(err),
		)
		return 0
	}
	defer f.Close()
	return reader.NumPage()
}

// collectPages 把 scratch 目录中 pdftoppm 的输出移入工作目录
// 重命名为 {basename}_page{N}.png，N 为 1 起始的原生页号
func (r *Renderer) collectPages(doc models.InputDocument, prefix, workDir string) ([]models.PageImage, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to glob rendered pages: %w", err)
	}

	pages := make([]models.PageImage, 0, len(matches))
	for _, match := range matches {
		idx, ok := parsePageNumber(prefix, match)
		if !ok {
			r.logger.Warn("Unexpected rendered page name",
				logger.String("path", match),
			)
			continue
		}

		dst := filepath.Join(workDir, fmt.Sprintf("%s_page%d.png", doc.BaseName, idx))
		if err := moveFile(match, dst); err != nil {
			return pages, fmt.Errorf("failed to move rendered page: %w", err)
		}
		pages = append(pages, models.PageImage{
			DocumentBase: doc.BaseName,
			Index:        idx,
			Path:         dst,
		})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })
	return pages, nil
}

// parsePageNumber 解析 pdftoppm 输出名 page-01.png 中的页号
func parsePageNumber(prefix, path string) (int, bool) {
	suffix := strings.TrimPrefix(path, prefix+"-")
	suffix = strings.TrimSuffix(suffix, ".png")
	idx, err := strconv.Atoi(suffix)
	if err != nil || idx < 1 {
		return 0, false
	}
	return idx, true
}

// verifyContiguity 页号必须从 1 连续递增，缺页或重复视为数据完整性问题
func (r *Renderer) verifyContiguity(doc models.InputDocument, pages []models.PageImage, expected int) {
	for i, page := range pages {
		if page.Index != i+1 {
			r.logger.Warn("Non-contiguous page indices after rendering",
				logger.String("document", doc.BaseName),
				logger.Int("position", i+1),
				logger.Int("index", page.Index),
			)
			return
		}
	}
	if expected > 0 && len(pages) != expected {
		r.logger.Warn("Rendered page count differs from document page count",
			logger.String("document", doc.BaseName),
			logger.Int("expected", expected),
			logger.Int("rendered", len(pages)),
		)
	}
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// 跨文件系统时回退到复制
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
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
