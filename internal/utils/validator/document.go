// internal/utils/validator/document.go
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/internal/render"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// DocumentValidator 输入文档验证器
type DocumentValidator struct {
	logger logger.Logger
	config *ValidatorConfig
}

// ValidatorConfig 验证器配置
type ValidatorConfig struct {
	MaxFileSize int64 // 最大文件大小（字节），0 表示不限制
}

// ValidationResult 验证结果
type ValidationResult struct {
	IsValid  bool
	Errors   []ValidationError
	FileInfo FileInfo
}

// ValidationError 验证错误
type ValidationError struct {
	Code    string
	Message string
}

// FileInfo 文件信息
type FileInfo struct {
	Filename  string
	Size      int64
	Extension string
	Format    models.DocumentFormat
}

// NewDocumentValidator 创建新的文档验证器
func NewDocumentValidator(log logger.Logger, config *ValidatorConfig) *DocumentValidator {
	if config == nil {
		config = &ValidatorConfig{
			MaxFileSize: 0,
		}
	}
	return &DocumentValidator{
		logger: log,
		config: config,
	}
}

// ValidateFile 验证单个输入文件
func (v *DocumentValidator) ValidateFile(path string) (*ValidationResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	result := &ValidationResult{
		IsValid: true,
		Errors:  make([]ValidationError, 0),
		FileInfo: FileInfo{
			Filename:  filepath.Base(path),
			Size:      info.Size(),
			Extension: strings.ToLower(filepath.Ext(path)),
		},
	}

	if !info.Mode().IsRegular() {
		result.fail("NOT_A_FILE", "input is not a regular file")
		return result, nil
	}

	// 扩展名允许集之外的文件一律拒绝
	format, ok := render.FormatForExt(result.FileInfo.Extension)
	if !ok {
		result.fail("INVALID_FILE_TYPE",
			fmt.Sprintf("file type %s is not allowed", result.FileInfo.Extension))
		return result, nil
	}
	result.FileInfo.Format = format

	if info.Size() == 0 {
		result.fail("EMPTY_FILE", "file is empty")
	}
	if v.config.MaxFileSize > 0 && info.Size() > v.config.MaxFileSize {
		result.fail("FILE_TOO_LARGE",
			fmt.Sprintf("file size exceeds maximum limit of %d bytes", v.config.MaxFileSize))
	}

	return result, nil
}

func (r *ValidationResult) fail(code, message string) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{Code: code, Message: message})
}
