package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/feichai0017/ocr-transcriber/config"
	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/internal/render"
	"github.com/feichai0017/ocr-transcriber/internal/utils/validator"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// RendererFactory 渲染器分发接口
type RendererFactory interface {
	ForFormat(format models.DocumentFormat) (render.Renderer, error)
}

// Pipeline 文档转写流水线
// 文档逐个顺序处理，单个文档的失败不影响后续文档
type Pipeline struct {
	cfg       *config.Config
	renderers RendererFactory
	engine    engine.Engine
	validator *validator.DocumentValidator
	logger    logger.Logger
}

func New(cfg *config.Config, renderers RendererFactory, eng engine.Engine, log logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		renderers: renderers,
		engine:    eng,
		validator: validator.NewDocumentValidator(log, nil),
		logger:    log,
	}
}

// Run 处理输入目录中的全部文档
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()[:8]
	log := p.logger.With(logger.String("runId", runID))

	docs, err := p.enumerate(log)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		log.Warn("No input files found", logger.String("inputDir", p.cfg.InputDir))
	}

	for _, doc := range docs {
		res := p.processDocument(ctx, log, doc)
		log.Info("Document finished",
			logger.String("document", res.Document),
			logger.Int("pagesRendered", res.PagesRendered),
			logger.Int("pagesRecognized", res.PagesRecognized),
			logger.Int("pagesMerged", res.PagesMerged),
			logger.Int("pageFailures", res.PageFailures),
			logger.String("output", res.OutputPath),
		)
	}

	// 无论各文档结果如何都报告完成
	log.Info("OCR processing completed", logger.Int("documents", len(docs)))
	return nil
}

// enumerate 枚举输入目录，允许集之外的扩展名直接跳过
func (p *Pipeline) enumerate(log logger.Logger) ([]models.InputDocument, error) {
	entries, err := os.ReadDir(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	docs := make([]models.InputDocument, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(p.cfg.InputDir, entry.Name())

		result, err := p.validator.ValidateFile(path)
		if err != nil {
			log.Error("Failed to validate input file",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}
		if !result.IsValid {
			log.Warn("Skipping input file",
				logger.String("file", entry.Name()),
				logger.String("reason", result.Errors[0].Message),
			)
			continue
		}

		ext := filepath.Ext(entry.Name())
		docs = append(docs, models.InputDocument{
			Path:     path,
			BaseName: strings.TrimSuffix(entry.Name(), ext),
			Format:   result.FileInfo.Format,
		})
	}
	return docs, nil
}

// processDocument 单文档全流程: 渲染 -> 排序 -> OCR -> 合并
func (p *Pipeline) processDocument(ctx context.Context, log logger.Logger, doc models.InputDocument) models.Result {
	log = log.With(logger.String("document", doc.BaseName))
	log.Info("Processing document",
		logger.String("path", doc.Path),
		logger.String("format", string(doc.Format)),
	)

	res := models.Result{Document: doc.BaseName}

	renderer, err := p.renderers.ForFormat(doc.Format)
	if err != nil {
		log.Error("No renderer available", logger.Error(err))
		res.Skipped = true
		return res
	}

	pages, err := renderer.Render(ctx, doc, p.cfg.WorkDir)
	if err != nil {
		// 已渲染的部分页继续走 OCR
		log.Error("Rendering failed", logger.Error(err))
	}
	res.PagesRendered = len(pages)

	pages = p.sortPages(log, pages)

	recognized, failed := p.recognizePages(ctx, log, pages)
	res.PagesRecognized = recognized
	res.PageFailures = failed

	outPath, merged, err := p.mergePages(log, doc, pages)
	if err != nil {
		log.Error("Merge failed", logger.Error(err))
		return res
	}
	res.PagesMerged = merged
	res.OutputPath = outPath
	return res
}
