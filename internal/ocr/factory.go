package ocr

import (
	"context"
	"fmt"

	"github.com/feichai0017/ocr-transcriber/config"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/gosseract"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/tesseract"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/textract"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

// NewEngine 按配置构建 OCR 引擎
func NewEngine(ctx context.Context, cfg *config.Config, run runner.Runner, log logger.Logger) (engine.Engine, error) {
	switch cfg.Engine {
	case config.EngineTesseract:
		return tesseract.NewEngine(run, tesseract.Config{
			Binary:             cfg.Tesseract.Binary,
			Language:           cfg.Language,
			Container:          cfg.Tesseract.Container,
			ContainerWorkDir:   cfg.Tesseract.ContainerWorkDir,
			ContainerOutputDir: cfg.Tesseract.ContainerOutputDir,
		}, log), nil

	case config.EngineGosseract:
		return gosseract.NewEngine(gosseract.Config{
			Language:   cfg.Language,
			Preprocess: true,
		}, log), nil

	case config.EngineTextract:
		eng, err := textract.NewEngine(ctx, textract.Config{
			Region:    cfg.Textract.Region,
			AccessKey: cfg.Textract.AccessKey,
			SecretKey: cfg.Textract.SecretKey,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create textract engine: %w", err)
		}
		return eng, nil

	default:
		return nil, fmt.Errorf("unknown ocr engine: %q", cfg.Engine)
	}
}
