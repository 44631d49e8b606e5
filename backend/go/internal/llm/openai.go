package llm

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"Lumina_AI/backend/go/internal/models"
)

// OpenAI 是一个用于 OpenAI 兼容 API 的 LLM 客户端。
// 通过 baseURL 可以指向任何兼容端点，例如 Groq。
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI 创建一个新的 OpenAI 兼容客户端。baseURL 为空时使用官方端点。
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

// GenerateContent 使用 Chat Completions API 生成内容。
func (o *OpenAI) GenerateContent(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	openaiReq := toOpenAIRequest(req)

	resp, err := o.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &models.GenerateResponse{Text: resp.Choices[0].Message.Content}, nil
}

// toOpenAIRequest 将内部请求格式转换为 OpenAI 格式。
// 系统指令放在首条 system 消息中，历史按原顺序展开。
func toOpenAIRequest(req *models.GenerateRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, msg := range req.History {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	// 该 fork 的 Temperature 是 *float32，用以区分 "未设置" 和 0。
	temperature := req.Temperature
	openaiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: &temperature,
	}
	if req.JSONOnly {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return openaiReq
}
