package textract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awstextract "github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/feichai0017/ocr-transcriber/internal/ocr/engine"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// Config AWS Textract 引擎配置
type Config struct {
	Region    string
	AccessKey string
	SecretKey string
}

// Engine 基于 AWS Textract 的 OCR 引擎，遵循相同的文件输出契约
type Engine struct {
	client *awstextract.Client
	logger logger.Logger
}

func NewEngine(ctx context.Context, cfg Config, log logger.Logger) (*Engine, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Engine{
		client: awstextract.NewFromConfig(awsCfg),
		logger: log,
	}, nil
}

func (e *Engine) Name() string {
	return "textract"
}

func (e *Engine) Recognize(ctx context.Context, imagePath, outputStem string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to read image: %w", err)}
	}

	out, err := e.client.DetectDocumentText(ctx, &awstextract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return engine.ErrTimeout
		}
		return &engine.Error{Engine: e.Name(), Diagnostic: err.Error(), Err: err}
	}

	// 按行拼接识别结果
	var b strings.Builder
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			b.WriteString(*block.Text)
			b.WriteByte('\n')
		}
	}

	if err := os.WriteFile(outputStem+".txt", []byte(b.String()), 0644); err != nil {
		return &engine.Error{Engine: e.Name(), Err: fmt.Errorf("failed to write page text: %w", err)}
	}
	return nil
}
