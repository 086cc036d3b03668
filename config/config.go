package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration 支持 "30s" 形式 yaml 字面量的时长
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// EngineName OCR 引擎种类
type EngineName string

const (
	EngineTesseract EngineName = "tesseract" // 外部 tesseract CLI（默认）
	EngineGosseract EngineName = "gosseract" // 进程内 tesseract 绑定
	EngineTextract  EngineName = "textract"  // AWS Textract
)

// Config 全局配置，启动时构建一次并按引用传递
type Config struct {
	InputDir  string `yaml:"inputDir"`
	OutputDir string `yaml:"outputDir"`
	WorkDir   string `yaml:"workDir"`

	Engine   EngineName `yaml:"engine"`
	Language string     `yaml:"language"`
	DPI      int        `yaml:"dpi"`

	// MaxConcurrent 单文档内页级 OCR 的并发上限，1 为严格顺序执行
	MaxConcurrent int `yaml:"maxConcurrent"`
	// PageTimeout 单页 OCR 超时，0 表示不限制
	PageTimeout Duration `yaml:"pageTimeout"`

	Pdftoppm    string `yaml:"pdftoppm"`
	LibreOffice string `yaml:"libreoffice"`

	Tesseract TesseractConfig `yaml:"tesseract"`
	Textract  TextractConfig  `yaml:"textract"`

	LogLevel string `yaml:"logLevel"`
	LogPath  string `yaml:"logPath"`
}

// TesseractConfig 外部 tesseract CLI 配置
type TesseractConfig struct {
	Binary string `yaml:"binary"`
	// Container 非空时通过 docker exec 在容器内调用引擎
	Container string `yaml:"container"`
	// 容器内与宿主机 WorkDir / OutputDir 对应的挂载路径
	ContainerWorkDir   string `yaml:"containerWorkDir"`
	ContainerOutputDir string `yaml:"containerOutputDir"`
}

// TextractConfig AWS Textract 配置
type TextractConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		InputDir:  "./input",
		OutputDir: "./output",
		WorkDir:   "./temp_images",

		Engine:        EngineTesseract,
		Language:      "eng",
		DPI:           300,
		MaxConcurrent: 1,
		PageTimeout:   0,

		Pdftoppm:    "pdftoppm",
		LibreOffice: "libreoffice",

		Tesseract: TesseractConfig{
			Binary:             "tesseract",
			ContainerWorkDir:   "/app/temp_images",
			ContainerOutputDir: "/app/output",
		},

		LogLevel: "info",
		LogPath:  "logs/transcriber.log",
	}
}

// Load 构建配置: 默认值 <- yaml 文件(可选) <- 环境变量
func Load(path string) (*Config, error) {
	// 加载 .env 文件，不存在则回退到环境变量
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.InputDir, "TRANSCRIBER_INPUT_DIR")
	setString(&cfg.OutputDir, "TRANSCRIBER_OUTPUT_DIR")
	setString(&cfg.WorkDir, "TRANSCRIBER_WORK_DIR")
	if v := os.Getenv("TRANSCRIBER_ENGINE"); v != "" {
		cfg.Engine = EngineName(v)
	}
	setString(&cfg.Language, "TRANSCRIBER_LANGUAGE")
	setInt(&cfg.DPI, "TRANSCRIBER_DPI")
	setInt(&cfg.MaxConcurrent, "TRANSCRIBER_MAX_CONCURRENT")
	if v := os.Getenv("TRANSCRIBER_PAGE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PageTimeout = Duration(d)
		}
	}
	setString(&cfg.Tesseract.Binary, "TRANSCRIBER_TESSERACT_BINARY")
	setString(&cfg.Tesseract.Container, "TRANSCRIBER_TESSERACT_CONTAINER")
	setString(&cfg.Textract.Region, "AWS_REGION")
	setString(&cfg.Textract.AccessKey, "AWS_ACCESS_KEY")
	setString(&cfg.Textract.SecretKey, "AWS_SECRET_KEY")
	setString(&cfg.LogLevel, "TRANSCRIBER_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Engine {
	case EngineTesseract, EngineGosseract, EngineTextract:
	default:
		return fmt.Errorf("unknown ocr engine: %q", c.Engine)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 1
	}
	return nil
}

// EnsureDirs 创建输入/输出/工作目录
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.InputDir, c.OutputDir, c.WorkDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
