package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Source   SourceConfig   `mapstructure:"source"`
	Storage  StorageConfig  `mapstructure:"storage"`
	VectorDB VectorDBConfig `mapstructure:"vectordb"`
	Embed    EmbedConfig    `mapstructure:"embed"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`                                               // 服务器主机
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`                    // 服务器端口
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"` // gin运行模式
}

// Addr 返回监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	File       string `mapstructure:"file"`         // 日志文件，为空时只输出到标准错误
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单个日志文件大小
	MaxBackups int    `mapstructure:"max_backups"`  // 保留的旧文件数
	MaxAgeDays int    `mapstructure:"max_age_days"` // 旧文件保留天数
}

// SourceConfig 结构化文档与文本块的存储键
type SourceConfig struct {
	DocumentKey string `mapstructure:"document_key" validate:"required"` // 结构化文档
	ChunksKey   string `mapstructure:"chunks_key" validate:"required"`   // 文本块产物
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type" validate:"oneof=local minio"` // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`                              // 本地存储路径
	Bucket    string `mapstructure:"bucket"`                            // MinIO桶名称
	Endpoint  string `mapstructure:"endpoint"`                          // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`                           // 是否使用SSL
}

// VectorDBConfig 向量索引配置
type VectorDBConfig struct {
	Type     string `mapstructure:"type" validate:"oneof=faiss memory"` // 向量仓库类型
	Path     string `mapstructure:"path" validate:"required"`           // 索引目录
	Dim      int    `mapstructure:"dim" validate:"min=0"`               // 向量维度，0表示由嵌入结果决定
	Fallback bool   `mapstructure:"fallback"`                           // FAISS不可用时退回内存仓库
}

// EmbedConfig 向量嵌入模型配置
type EmbedConfig struct {
	Provider   string        `mapstructure:"provider" validate:"required"` // 提供商
	Model      string        `mapstructure:"model" validate:"required"`    // 模型名称
	APIKey     string        `mapstructure:"api_key"`                      // API密钥
	Endpoint   string        `mapstructure:"endpoint"`                     // API端点
	BatchSize  int           `mapstructure:"batch_size" validate:"min=1"`  // 批处理大小
	Dimensions int           `mapstructure:"dimensions" validate:"min=0"`  // 请求的向量维度
	Timeout    time.Duration `mapstructure:"timeout"`                      // 请求超时
}

// LLMConfig 大语言模型配置
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"required"`       // 提供商
	Model       string        `mapstructure:"model" validate:"required"`          // 模型名称
	APIKey      string        `mapstructure:"api_key"`                            // API密钥
	Endpoint    string        `mapstructure:"endpoint"`                           // API端点
	MaxTokens   int           `mapstructure:"max_tokens" validate:"min=0"`        // 最大生成token数量，0表示模型默认
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"` // 采样温度，0表示模型默认
	TopP        float32       `mapstructure:"top_p" validate:"min=0,max=1"`       // 核采样概率阈值，0表示模型默认
	Timeout     time.Duration `mapstructure:"timeout"`                            // 请求超时
}

// CacheConfig 嵌入缓存配置
type CacheConfig struct {
	Enable   bool   `mapstructure:"enable"`                             // 是否启用缓存
	Type     string `mapstructure:"type" validate:"oneof=memory redis"` // 缓存类型
	Address  string `mapstructure:"address"`                            // Redis地址
	Password string `mapstructure:"password"`                           // Redis密码
	DB       int    `mapstructure:"db"`                                 // Redis数据库
	Prefix   string `mapstructure:"prefix"`                             // 键前缀
	TTL      int    `mapstructure:"ttl" validate:"min=0"`               // 缓存TTL（秒）
}

// DatabaseConfig 问答历史数据库配置
type DatabaseConfig struct {
	Enable bool   `mapstructure:"enable"`                       // 是否记录问答历史
	Type   string `mapstructure:"type" validate:"oneof=sqlite"` // 数据库类型
	DSN    string `mapstructure:"dsn"`                          // 数据源名称
}

// SearchConfig 检索配置
type SearchConfig struct {
	TopK int `mapstructure:"top_k" validate:"min=1"` // 每个问题检索的段落数
}

// Load 从文件和环境变量加载配置
// 配置文件不存在时使用默认值
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 支持环境变量覆盖
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("embed.api_key", "EMBED_API_KEY", "OPENAI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	processEnvironmentVariables(&cfg)
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Storage.Type == "minio" && (c.Storage.Endpoint == "" || c.Storage.Bucket == "") {
		return errors.New("invalid config: minio storage requires endpoint and bucket")
	}
	if c.Cache.Enable && c.Cache.Type == "redis" && c.Cache.Address == "" {
		return errors.New("invalid config: redis cache requires address")
	}
	return nil
}

// processEnvironmentVariables 展开形如${NAME}的配置值
func processEnvironmentVariables(cfg *Config) {
	for _, field := range []*string{
		&cfg.Embed.APIKey,
		&cfg.LLM.APIKey,
		&cfg.Storage.AccessKey,
		&cfg.Storage.SecretKey,
		&cfg.Cache.Password,
	} {
		*field = expandEnv(*field)
	}
}

func expandEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return os.Getenv(value[2 : len(value)-1])
	}
	return value
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// 源文件默认配置
	v.SetDefault("source.document_key", "chapter2_structured.json")
	v.SetDefault("source.chunks_key", "pec_chunks_chapter2.json")

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.bucket", "pecqa")
	v.SetDefault("storage.use_ssl", false)

	// 向量索引默认配置
	v.SetDefault("vectordb.type", "faiss")
	v.SetDefault("vectordb.path", "faiss_index")
	v.SetDefault("vectordb.dim", 0)
	v.SetDefault("vectordb.fallback", true)

	// Embedding默认配置
	v.SetDefault("embed.provider", "openai")
	v.SetDefault("embed.model", "text-embedding-ada-002")
	v.SetDefault("embed.endpoint", "https://api.openai.com/v1")
	v.SetDefault("embed.batch_size", 64)
	v.SetDefault("embed.dimensions", 0)
	v.SetDefault("embed.timeout", "60s")

	// LLM默认配置
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.endpoint", "https://api.openai.com/v1")
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.top_p", 0)
	v.SetDefault("llm.timeout", "120s")

	// 缓存默认配置
	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.prefix", "pecqa")
	v.SetDefault("cache.ttl", 7*24*3600)

	// 数据库默认配置
	v.SetDefault("database.enable", true)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/pecqa.db")

	// 检索默认配置
	v.SetDefault("search.top_k", 5)
}
