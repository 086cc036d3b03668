package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/ocr-transcriber/config"
	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/internal/render"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

// fakeEngine 按图像名写出固定文本，指定名字的页失败
type fakeEngine struct {
	failing map[string]bool
	output  func(imageName string) string
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, imagePath, outputStem string) error {
	name := filepath.Base(imagePath)
	if e.failing[name] {
		return &engine.Error{Engine: e.Name(), Diagnostic: "simulated failure", Err: fmt.Errorf("exit status 1")}
	}
	content := "text from " + name
	if e.output != nil {
		content = e.output(name)
	}
	return os.WriteFile(outputStem+".txt", []byte(content), 0644)
}

// fakeRenderer 直接在工作目录落盘预设的页图像
type fakeRenderer struct {
	pageNames []string
	err       error
}

func (r *fakeRenderer) Render(ctx context.Context, doc models.InputDocument, workDir string) ([]models.PageImage, error) {
	pages := make([]models.PageImage, 0, len(r.pageNames))
	for _, name := range r.pageNames {
		path := filepath.Join(workDir, name)
		if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
			return nil, err
		}
		pages = append(pages, models.PageImage{DocumentBase: doc.BaseName, Path: path})
	}
	return pages, r.err
}

type fakeFactory struct {
	renderer render.Renderer
}

func (f *fakeFactory) ForFormat(models.DocumentFormat) (render.Renderer, error) {
	return f.renderer, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.WorkDir = t.TempDir()
	return cfg
}

func TestRunImagePassthrough(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "photo.jpg"), []byte("jpg"), 0644))

	eng := &fakeEngine{output: func(string) string {
		return "6/1/23, 4:05 PM\ne@ Hello   world\n"
	}}
	renderers := render.NewFactory(runner.NewFakeRunner(), cfg, log)
	p := New(cfg, renderers, eng, log)

	require.NoError(t, p.Run(context.Background()))

	// 转写稿以文档基名命名，不含页号
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "photo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n", string(data))

	// 中间产物全部清理
	workEntries, err := os.ReadDir(cfg.WorkDir)
	require.NoError(t, err)
	assert.Empty(t, workEntries)

	outEntries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Len(t, outEntries, 1)
}

func TestRunUnsupportedExtensionSkipped(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "a.png"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "b.jpeg"), []byte("jpg"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "report.xlsx"), []byte("xlsx"), 0644))

	eng := &fakeEngine{}
	renderers := render.NewFactory(runner.NewFakeRunner(), cfg, log)
	p := New(cfg, renderers, eng, log)

	require.NoError(t, p.Run(context.Background()))

	// 恰好两份转写稿，不支持的文件不产生任何产物，也不影响流水线
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "a.txt"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "b.txt"))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "report.txt"))
	assert.True(t, log.HasMessage("WARN", "Skipping input file"))
	assert.True(t, log.HasMessage("INFO", "OCR processing completed"))
}

func TestRunPartialPageFailure(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "doc.pdf"), []byte("pdf"), 0644))

	renderers := &fakeFactory{renderer: &fakeRenderer{
		pageNames: []string{"doc_page1.png", "doc_page2.png"},
	}}
	eng := &fakeEngine{failing: map[string]bool{"doc_page2.png": true}}
	p := New(cfg, renderers, eng, log)

	require.NoError(t, p.Run(context.Background()))

	// 失败页不贡献内容，也没有占位标记
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "text from doc_page1.png\n", string(data))

	// 成功页的图像已消费删除，失败页的图像保留以便诊断
	assert.NoFileExists(t, filepath.Join(cfg.WorkDir, "doc_page1.png"))
	assert.FileExists(t, filepath.Join(cfg.WorkDir, "doc_page2.png"))
	assert.True(t, log.HasMessage("ERROR", "Page OCR failed"))
}

func TestRunMergeFollowsPageOrder(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "doc.pdf"), []byte("pdf"), 0644))

	// 渲染器有意乱序返回
	renderers := &fakeFactory{renderer: &fakeRenderer{
		pageNames: []string{"doc_page10.png", "doc_page2.png", "doc_page1.png"},
	}}
	eng := &fakeEngine{}
	p := New(cfg, renderers, eng, log)

	require.NoError(t, p.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "doc.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"text from doc_page1.png\ntext from doc_page2.png\ntext from doc_page10.png\n",
		string(data))
}

func TestRunBoundedConcurrencyKeepsOrder(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxConcurrent = 4
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "doc.pdf"), []byte("pdf"), 0644))

	names := make([]string, 0, 8)
	want := ""
	for i := 8; i >= 1; i-- {
		names = append(names, fmt.Sprintf("doc_page%d.png", i))
	}
	for i := 1; i <= 8; i++ {
		want += fmt.Sprintf("text from doc_page%d.png\n", i)
	}

	renderers := &fakeFactory{renderer: &fakeRenderer{pageNames: names}}
	p := New(cfg, renderers, &fakeEngine{}, log)

	require.NoError(t, p.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestRunEmptyInputDir(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	p := New(cfg, &fakeFactory{renderer: &fakeRenderer{}}, &fakeEngine{}, log)
	require.NoError(t, p.Run(context.Background()))

	assert.True(t, log.HasMessage("WARN", "No input files found"))
	assert.True(t, log.HasMessage("INFO", "OCR processing completed"))
}

func TestRunRenderFailureDoesNotAbortRun(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "bad.pdf"), []byte("pdf"), 0644))

	renderers := &fakeFactory{renderer: &fakeRenderer{err: fmt.Errorf("render exploded")}}
	p := New(cfg, renderers, &fakeEngine{}, log)

	require.NoError(t, p.Run(context.Background()))
	assert.True(t, log.HasMessage("ERROR", "Rendering failed"))
	assert.True(t, log.HasMessage("INFO", "OCR processing completed"))
}

// 整体渲染失败时仍要写出（空）转写稿，并覆盖旧内容
func TestRunTotalRenderFailureWritesEmptyTranscript(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "bad.pdf"), []byte("pdf"), 0644))

	outPath := filepath.Join(cfg.OutputDir, "bad.txt")
	require.NoError(t, os.WriteFile(outPath, []byte("stale transcript"), 0644))

	renderers := &fakeFactory{renderer: &fakeRenderer{err: fmt.Errorf("render exploded")}}
	p := New(cfg, renderers, &fakeEngine{}, log)

	require.NoError(t, p.Run(context.Background()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}
