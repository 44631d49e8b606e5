package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	Redis RedisConfig `yaml:"redis"` // Redis 数据库配置
	MySQL MySQLConfig `yaml:"mysql"` // MySQL 数据库配置
}

// AuthConfig 用于配置认证相关设置。
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"` // JWT 密钥
	TokenTTL  int    `yaml:"tokenTTL"`  // JWT 令牌的有效期（秒）
}

// LLMConfig 包含了生成模型的提供商与各模式对应的模型档位。
//
// Models 的 key 是处理模式 ("primary", "academic", "reasoning", "teaching")
// 以及意图路由使用的 "router" 档位；value 是提供商侧的模型名称。
type LLMConfig struct {
	Provider string            `yaml:"provider"` // LLM提供商 (例如: "gemini", "openai")
	APIKey   string            `yaml:"apiKey"`   // API 密钥
	BaseURL  string            `yaml:"baseURL"`  // OpenAI 兼容端点的基准 URL (例如 Groq)
	Models   map[string]string `yaml:"models"`   // 模式 -> 模型名称
}

// ModelFor 返回指定档位的模型名称，缺失时回退到 "primary" 档位。
func (c LLMConfig) ModelFor(tier string) string {
	if m, ok := c.Models[tier]; ok && m != "" {
		return m
	}
	return c.Models["primary"]
}

// SentimentConfig 定义了情绪分类服务 (Hugging Face Inference API) 的配置。
type SentimentConfig struct {
	Model            string `yaml:"model"`            // 情绪分类模型名称
	APIKey           string `yaml:"apiKey"`           // API 密钥
	BaseURL          string `yaml:"baseURL"`          // Inference API 基准 URL，为空时使用默认值
	FailureThreshold uint32 `yaml:"failureThreshold"` // 熔断器连续失败阈值
	SuccessThreshold uint32 `yaml:"successThreshold"` // 半开状态下恢复所需的连续成功次数
	BreakerTimeout   string `yaml:"breakerTimeout"`   // 熔断后进入半开状态的等待时间 (例如: "30s")
}

// RateLimiterConfig 定义了对话接口限流器 (令牌桶) 的配置。
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"`     // 每秒生成的令牌数
	Capacity int     `yaml:"capacity"` // 桶容量 (突发大小)
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter RateLimiterConfig `yaml:"rateLimiter"`
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
	Address     string `yaml:"address"`     // HTTP 监听地址 (例如: ":8000")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Auth       AuthConfig       `yaml:"auth"`       // 认证配置
	LLM        LLMConfig        `yaml:"llm"`        // LLM 配置部分
	Sentiment  SentimentConfig  `yaml:"sentiment"`  // 情绪分类配置
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	Databases  DatabaseConfigs  `yaml:"databases"`  // 数据库配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
}

// LoadConfig 从指定路径加载并解析 YAML 配置文件。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	return &cfg, nil
}
