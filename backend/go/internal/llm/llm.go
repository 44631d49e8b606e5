package llm

import (
	"context"
	"fmt"

	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/internal/models"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
//
// 模型名称由每次请求携带，客户端本身只持有提供商级别的凭证，
// 这样同一个客户端可以服务多个模型档位。
type LLM interface {
	GenerateContent(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error)
}

// NewClient 是一个工厂函数，根据提供的配置创建并返回一个实现了 LLM 接口的客户端。
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.APIKey)
	case "openai":
		// OpenAI 兼容端点 (例如 Groq) 通过 baseURL 区分。
		return NewOpenAI(cfg.APIKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
