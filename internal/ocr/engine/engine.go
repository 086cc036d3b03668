package engine

import (
	"context"
	"errors"
	"fmt"
)

// Engine OCR 引擎能力接口
// 给定图像绝对路径与不带扩展名的输出 stem，引擎须写出 {outputStem}.txt
// 失败只影响当页，由调用方决定是否继续
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath, outputStem string) error
}

// ErrTimeout 单页识别超时，与引擎自身报告的失败是不同的错误种类
var ErrTimeout = errors.New("ocr: page recognition timed out")

// Error 引擎报告的识别失败，携带诊断输出
type Error struct {
	Engine     string
	Diagnostic string
	Err        error
}

func (e *Error) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("%s engine failed: %s: %v", e.Engine, e.Diagnostic, e.Err)
	}
	return fmt.Sprintf("%s engine failed: %v", e.Engine, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
