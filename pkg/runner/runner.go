package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/feichai0017/ocr-transcriber/pkg/logger"
)

// Runner 外部命令执行接口，渲染和 OCR 的外部依赖都通过它调用
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner 基于 os/exec 的默认实现
type ExecRunner struct {
	logger logger.Logger
}

func NewExecRunner(log logger.Logger) *ExecRunner {
	return &ExecRunner{logger: log}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		r.logger.Error("External command failed",
			logger.String("cmd", name),
			logger.String("args", strings.Join(args, " ")),
			logger.Duration("duration", dur),
			logger.String("stderr", Truncate(errb.String(), 8<<10)),
			logger.Error(err),
		)
	} else {
		r.logger.Debug("External command ok",
			logger.String("cmd", name),
			logger.String("args", strings.Join(args, " ")),
			logger.Duration("duration", dur),
			logger.Int("stdoutBytes", out.Len()),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

// Truncate 截断过长的诊断输出
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
