package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"salesdash/internal/model"
)

// EnvPrefix 环境变量前缀，如 SALESDASH_PORT
const EnvPrefix = "SALESDASH"

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Ingest    IngestConfig    `toml:"ingest"`
	Insights  InsightsConfig  `toml:"insights"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port" validate:"min=1,max=65535"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir" validate:"required"`
}

// IngestConfig 上传相关配置
type IngestConfig struct {
	MaxUploadMB     int    `toml:"max_upload_mb" validate:"min=1,max=512"`
	ErrorTTLSeconds int    `toml:"error_ttl_seconds" validate:"min=1,max=3600"`
	DefaultLanguage string `toml:"default_language" validate:"oneof=ru en"`
}

// InsightsConfig 文案生成配置；api_key 为空时关闭
type InsightsConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model" validate:"required"`
	PerMinute int    `toml:"per_minute" validate:"min=0"`
}

// TelemetryConfig 追踪配置
type TelemetryConfig struct {
	TraceStdout bool `toml:"trace_stdout"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// envOverrides 仅覆盖已设置的环境变量
type envOverrides struct {
	Port              *int    `envconfig:"PORT"`
	DevMode           *bool   `envconfig:"DEV_MODE"`
	DataDir           *string `envconfig:"DATA_DIR"`
	MaxUploadMB       *int    `envconfig:"MAX_UPLOAD_MB"`
	ErrorTTLSeconds   *int    `envconfig:"ERROR_TTL_SECONDS"`
	DefaultLanguage   *string `envconfig:"DEFAULT_LANGUAGE"`
	GeminiAPIKey      *string `envconfig:"GEMINI_API_KEY"`
	GeminiModel       *string `envconfig:"GEMINI_MODEL"`
	InsightsPerMinute *int    `envconfig:"INSIGHTS_PER_MINUTE"`
	TraceStdout       *bool   `envconfig:"TRACE_STDOUT"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Ingest: IngestConfig{
			MaxUploadMB:     20,
			ErrorTTLSeconds: 5,
			DefaultLanguage: string(model.LanguageRU),
		},
		Insights: InsightsConfig{
			Model:     "gemini-3-flash-preview",
			PerMinute: 10,
		},
	}
}

// ErrorTTL 错误提示显示时长
func (c *AppConfig) ErrorTTL() time.Duration {
	return time.Duration(c.Ingest.ErrorTTLSeconds) * time.Second
}

// MaxUploadBytes 上传大小上限
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Ingest.MaxUploadMB) << 20
}

// Language 默认界面语言
func (c *AppConfig) Language() model.Language {
	return model.ParseLanguage(c.Ingest.DefaultLanguage)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置
func Validate(c *AppConfig) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadFrom(filepath.Join(exeDir, "config.toml"))
}

// LoadFrom 加载指定路径的配置：默认值 <- 文件 <- 环境变量，最后校验
func LoadFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, info, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.Port != nil {
		info.PortSpecified = true
	}
	applyEnv(config, env)

	if err := Validate(config); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func applyEnv(c *AppConfig, env envOverrides) {
	setInt(&c.Server.Port, env.Port)
	setBool(&c.Server.DevMode, env.DevMode)
	setString(&c.Data.DataDir, env.DataDir)
	setInt(&c.Ingest.MaxUploadMB, env.MaxUploadMB)
	setInt(&c.Ingest.ErrorTTLSeconds, env.ErrorTTLSeconds)
	setString(&c.Ingest.DefaultLanguage, env.DefaultLanguage)
	setString(&c.Insights.APIKey, env.GeminiAPIKey)
	setString(&c.Insights.Model, env.GeminiModel)
	setInt(&c.Insights.PerMinute, env.InsightsPerMinute)
	setBool(&c.Telemetry.TraceStdout, env.TraceStdout)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ResolveDataDir 相对路径基于可执行文件所在目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在（只存放 sqlite 数据库）
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
