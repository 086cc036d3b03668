package pipeline

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

var pageIndexPattern = regexp.MustCompile(`page(\d+)`)

// pageIndex 从产物名提取页号
// 无 page<digits> 模式的名字（单页直通图像）记 0，排在最前
func pageIndex(name string) int {
	m := pageIndexPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// sortPages 施加权威页序，绝不依赖文件系统枚举顺序
// 同一文档内页号应当唯一，重复页号按数据完整性问题告警后照常排序
func (p *Pipeline) sortPages(log logger.Logger, pages []models.PageImage) []models.PageImage {
	sorted := make([]models.PageImage, len(pages))
	copy(sorted, pages)

	for i := range sorted {
		sorted[i].Index = pageIndex(filepath.Base(sorted[i].Path))
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	seen := make(map[int]bool, len(sorted))
	for _, page := range sorted {
		if seen[page.Index] {
			log.Warn("Duplicate page index detected",
				logger.Int("index", page.Index),
				logger.String("image", filepath.Base(page.Path)),
			)
		}
		seen[page.Index] = true
	}
	return sorted
}
