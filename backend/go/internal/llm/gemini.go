package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"Lumina_AI/backend/go/internal/models"
)

// Gemini 是一个实现了 LLM 接口的结构体，用于与 Gemini API 交互。
type Gemini struct {
	client *genai.Client
}

// NewGemini 创建一个新的 Gemini 客户端。
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("创建 GenAI 客户端失败: %w", err)
	}
	return &Gemini{client: client}, nil
}

// GenerateContent 向 Gemini API 发送请求并返回响应。
//
// 每次请求单独构建模型与会话：系统指令和历史都来自请求本身，
// 客户端不保留跨请求状态。
func (g *Gemini) GenerateContent(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	model := g.client.GenerativeModel(req.Model)
	model.SetTemperature(req.Temperature)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	if req.JSONOnly {
		model.ResponseMIMEType = "application/json"
	}

	cs := model.StartChat()
	cs.History = toGenaiHistory(req.History)

	resp, err := cs.SendMessage(ctx, genai.Text(req.Message))
	if err != nil {
		return nil, err
	}

	return &models.GenerateResponse{Text: textFromResponse(resp)}, nil
}

// Close 释放底层客户端资源。
func (g *Gemini) Close() error {
	return g.client.Close()
}

// toGenaiHistory 将内部消息格式转换为 GenAI 的会话历史。
// Gemini 侧的助手角色叫 "model"。
func toGenaiHistory(history []models.ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

// textFromResponse 拼接响应候选中的全部文本部分。
func textFromResponse(resp *genai.GenerateContentResponse) string {
	var text string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
	}
	return text
}
