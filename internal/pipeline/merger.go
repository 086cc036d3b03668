package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/text"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// mergePages 依页序读取各页文本，清洗后拼接为单一转写稿
// 文本产物缺失的页静默跳过（尽力而为，不视为文档级错误）
// 页文本与对应的页图像在合并后删除；失败页的图像保留以便诊断
func (p *Pipeline) mergePages(log logger.Logger, doc models.InputDocument, pages []models.PageImage) (string, int, error) {
	var buf strings.Builder
	merged := 0

	for _, page := range pages {
		imageName := filepath.Base(page.Path)
		stem := strings.TrimSuffix(imageName, filepath.Ext(imageName))
		pageText := models.PageText{
			DocumentBase: page.DocumentBase,
			Index:        page.Index,
			Path:         filepath.Join(p.cfg.OutputDir, stem+".txt"),
		}

		data, err := os.ReadFile(pageText.Path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debug("Page text missing, skipping",
					logger.String("image", imageName),
				)
				continue
			}
			return "", merged, fmt.Errorf("failed to read page text: %w", err)
		}

		buf.WriteString(text.Clean(string(data)))
		buf.WriteString("\n")
		merged++

		// 中间产物读取后随即删除
		if err := os.Remove(pageText.Path); err != nil {
			log.Warn("Failed to remove page text",
				logger.String("path", pageText.Path),
				logger.Error(err),
			)
		}
		if err := os.Remove(page.Path); err != nil {
			log.Warn("Failed to remove page image",
				logger.String("path", page.Path),
				logger.Error(err),
			)
		}
	}

	outPath := filepath.Join(p.cfg.OutputDir, doc.BaseName+".txt")
	if err := os.WriteFile(outPath, []byte(buf.String()), 0644); err != nil {
		return "", merged, fmt.Errorf("failed to write transcript: %w", err)
	}
	return outPath, merged, nil
}
