package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/ocr-transcriber/internal/models"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateFileFormats(t *testing.T) {
	dir := t.TempDir()
	v := NewDocumentValidator(logger.NewTestLogger(), nil)

	tests := []struct {
		name   string
		format models.DocumentFormat
	}{
		{"scan.pdf", models.FormatPDF},
		{"memo.DOCX", models.FormatWord},
		{"photo.PNG", models.FormatImage},
		{"photo.jpg", models.FormatImage},
		{"photo.jpeg", models.FormatImage},
	}

	for _, tt := range tests {
		path := writeFile(t, dir, tt.name, "content")
		result, err := v.ValidateFile(path)
		require.NoError(t, err, tt.name)
		assert.True(t, result.IsValid, tt.name)
		assert.Equal(t, tt.format, result.FileInfo.Format, tt.name)
	}
}

func TestValidateFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	v := NewDocumentValidator(logger.NewTestLogger(), nil)

	path := writeFile(t, dir, "report.xlsx", "content")
	result, err := v.ValidateFile(path)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "INVALID_FILE_TYPE", result.Errors[0].Code)
}

func TestValidateFileEmpty(t *testing.T) {
	dir := t.TempDir()
	v := NewDocumentValidator(logger.NewTestLogger(), nil)

	path := writeFile(t, dir, "empty.pdf", "")
	result, err := v.ValidateFile(path)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, "EMPTY_FILE", result.Errors[0].Code)
}

func TestValidateFileTooLarge(t *testing.T) {
	dir := t.TempDir()
	v := NewDocumentValidator(logger.NewTestLogger(), &ValidatorConfig{MaxFileSize: 4})

	path := writeFile(t, dir, "big.pdf", "more than four bytes")
	result, err := v.ValidateFile(path)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, "FILE_TOO_LARGE", result.Errors[0].Code)
}

func TestValidateFileMissing(t *testing.T) {
	v := NewDocumentValidator(logger.NewTestLogger(), nil)
	_, err := v.ValidateFile(filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
}
