package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/feichai0017/ocr-transcriber/config"
	"github.com/feichai0017/ocr-transcriber/internal/ocr"
	"github.com/feichai0017/ocr-transcriber/internal/pipeline"
	"github.com/feichai0017/ocr-transcriber/internal/render"
	"github.com/feichai0017/ocr-transcriber/pkg/logger"
	"github.com/feichai0017/ocr-transcriber/pkg/runner"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 初始化日志
	log, err := logger.NewLogger(
		logger.WithLevel(cfg.LogLevel),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", cfg.LogPath}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.EnsureDirs(); err != nil {
		log.Error("Failed to create directories", logger.Error(err))
		os.Exit(1)
	}

	// 外部进程停止前允许跑完当前文档
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := runner.NewExecRunner(log)
	renderers := render.NewFactory(run, cfg, log)

	eng, err := ocr.NewEngine(ctx, cfg, run, log)
	if err != nil {
		log.Error("Failed to create OCR engine", logger.Error(err))
		os.Exit(1)
	}
	log.Info("OCR engine ready", logger.String("engine", eng.Name()))

	p := pipeline.New(cfg, renderers, eng, log)
	if err := p.Run(ctx); err != nil {
		log.Error("Pipeline run failed", logger.Error(err))
		os.Exit(1)
	}
}
