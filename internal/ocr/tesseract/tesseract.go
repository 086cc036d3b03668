package tesseract

import (
	"context"
	"errors"
	"path"
	"path/filepath"

	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

// Config 外部 tesseract CLI 引擎配置
type Config struct {
	Binary   string
	Language string
	// Container 非空时通过 docker exec 在该容器内调用引擎
	// 容器内路径由 ContainerWorkDir / ContainerOutputDir 映射
	Container          string
	ContainerWorkDir   string
	ContainerOutputDir string
}

// Engine 调用外部 tesseract 进程的 OCR 引擎
type Engine struct {
	runner runner.Runner
	cfg    Config
	logger logger.Logger
}

func NewEngine(run runner.Runner, cfg Config, log logger.Logger) *Engine {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{
		runner: run,
		cfg:    cfg,
		logger: log,
	}
}

func (e *Engine) Name() string {
	return "tesseract"
}

func (e *Engine) Recognize(ctx context.Context, imagePath, outputStem string) error {
	name, args := e.command(imagePath, outputStem)

	_, errb, err := e.runner.Run(ctx, name, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return engine.ErrTimeout
		}
		return &engine.Error{
			Engine:     e.Name(),
			Diagnostic: runner.Truncate(string(errb), 4<<10),
			Err:        err,
		}
	}
	return nil
}

// command 组装调用参数
// tesseract <image> <outputStem> -l <lang>，引擎自行写出 {outputStem}.txt
func (e *Engine) command(imagePath, outputStem string) (string, []string) {
	if e.cfg.Container != "" {
		img := path.Join(e.cfg.ContainerWorkDir, filepath.Base(imagePath))
		stem := path.Join(e.cfg.ContainerOutputDir, filepath.Base(outputStem))
		return "docker", []string{
			"exec", e.cfg.Container,
			"tesseract", img, stem, "-l", e.cfg.Language,
		}
	}
	return e.cfg.Binary, []string{imagePath, outputStem, "-l", e.cfg.Language}
}
