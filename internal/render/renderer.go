package render

import (
	"context"

	"github.com/feichai0017/ocr-transcriber/internal/models"
)

// Renderer 格式适配器接口: 将一个输入文档渲染为按页图像产物
type Renderer interface {
	// Render 把文档的每一页落盘为图像，返回产物列表
	// 渲染中途失败时返回已产出的部分页集合和错误，由调用方决定是否继续
	Render(ctx context.Context, doc models.InputDocument, workDir string) ([]models.PageImage, error)
}
