package gosseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	tess "github.com/otiai10/gosseract/v2"

	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// Config 进程内 tesseract 绑定引擎配置
type Config struct {
	Language string
	// Preprocess 识别前对解码后的副本做灰度/对比度/锐化预处理
	// 磁盘上的页图像产物不会被修改
	Preprocess bool
}

// Engine 基于 gosseract 的进程内 OCR 引擎
type Engine struct {
	cfg    Config
	logger logger.Logger
}

func NewEngine(cfg Config, log logger.Logger) *Engine {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{
		cfg:    cfg,
		logger: log,
	}
}

func (e *Engine) Name() string {
	return "gosseract"
}

func (e *Engine) Recognize(ctx context.Context, imagePath, outputStem string) error {
	// 进程内识别无法被抢占，入口处检查取消状态
	if err := ctx.Err(); err != nil {
		return engine.ErrTimeout
	}

	client := tess.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.cfg.Language); err != nil {
		return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to set language: %w", err)}
	}

	if e.cfg.Preprocess {
		data, err := e.preprocess(imagePath)
		if err != nil {
			return &engine.Error{Engine: e.Name(), Err: err}
		}
		if err := client.SetImageFromBytes(data); err != nil {
			return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to set image: %w", err)}
		}
	} else {
		if err := client.SetImage(imagePath); err != nil {
			return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to set image: %w", err)}
		}
	}

	recognized, err := client.Text()
	if err != nil {
		return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to get text: %w", err)}
	}

	if err := os.WriteFile(outputStem+".txt", []byte(recognized), 0644); err != nil {
		return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to write page text: %w", err)}
	}
	return nil
}

// preprocess 在内存副本上应用预处理管道后重新编码为 PNG
func (e *Engine) preprocess(imagePath string) ([]byte, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	processed := imaging.Grayscale(img)
	processed = imaging.AdjustContrast(processed, 10)
	processed = imaging.Sharpen(processed, 0.5)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, processed); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
