package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// recognizePages 对每个页图像调用 OCR 引擎，失败按页隔离
// MaxConcurrent 大于 1 时在文档内做受限并发，合并顺序始终由页序决定
func (p *Pipeline) recognizePages(ctx context.Context, log logger.Logger, pages []models.PageImage) (recognized, failed int) {
	if p.cfg.MaxConcurrent <= 1 {
		for _, page := range pages {
			if p.recognizePage(ctx, log, page) {
				recognized++
			} else {
				failed++
			}
		}
		return recognized, failed
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, p.cfg.MaxConcurrent)

	for _, page := range pages {
		page := page
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return nil
			}

			ok := p.recognizePage(gctx, log, page)

			mu.Lock()
			if ok {
				recognized++
			} else {
				failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return recognized, failed
}

// recognizePage 单页同步识别
// 输出 stem 由图像名去扩展名派生，引擎写出 {stem}.txt 到输出目录
func (p *Pipeline) recognizePage(ctx context.Context, log logger.Logger, page models.PageImage) bool {
	imageName := filepath.Base(page.Path)
	stem := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	outputStem := filepath.Join(p.cfg.OutputDir, stem)

	pageCtx := ctx
	if p.cfg.PageTimeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(ctx, p.cfg.PageTimeout.Std())
		defer cancel()
	}

	err := p.engine.Recognize(pageCtx, page.Path, outputStem)
	if err == nil {
		log.Info("Page OCR done", logger.String("image", imageName))
		return true
	}

	// 超时与引擎报告的失败是不同的错误种类，分开记录
	if errors.Is(err, engine.ErrTimeout) {
		log.Error("Page OCR timed out",
			logger.String("image", imageName),
			logger.Duration("timeout", p.cfg.PageTimeout.Std()),
		)
		return false
	}

	var engErr *engine.Error
	if errors.As(err, &engErr) {
		log.Error("Page OCR failed",
			logger.String("image", imageName),
			logger.String("engine", engErr.Engine),
			logger.String("diagnostic", engErr.Diagnostic),
			logger.Error(engErr.Err),
		)
		return false
	}

	log.Error("Page OCR failed",
		logger.String("image", imageName),
		logger.Error(err),
	)
	return false
}
