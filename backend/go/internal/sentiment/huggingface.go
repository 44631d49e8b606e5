package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/pkg/circuitbreaker"
)

// Classifier 是情绪分类能力的抽象：输入一段文本，返回最显著的情绪
// 标签及其置信度。分类失败时返回空标签和 0 分。
type Classifier interface {
	Classify(ctx context.Context, text string) (label string, score float64, err error)
}

// HuggingFace 通过 Hugging Face Inference API 实现 Classifier。
//
// 情绪分类只是上下文的辅助信号，端点不稳定时不应拖垮对话主链路，
// 因此所有请求都经过熔断器。
type HuggingFace struct {
	client  *http.Client
	model   string
	apiKey  string
	baseURL string
	breaker *circuitbreaker.Breaker
}

// NewHuggingFace 创建一个新的 HuggingFace 情绪分类客户端。
func NewHuggingFace(cfg config.SentimentConfig) *HuggingFace {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models/"
	}
	timeout, err := time.ParseDuration(cfg.BreakerTimeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	failureThreshold := cfg.FailureThreshold
	if failureThreshold == 0 {
		failureThreshold = 3
	}
	successThreshold := cfg.SuccessThreshold
	if successThreshold == 0 {
		successThreshold = 1
	}
	return &HuggingFace{
		client:  &http.Client{Timeout: 10 * time.Second},
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		breaker: circuitbreaker.New(failureThreshold, successThreshold, timeout),
	}
}

// scoredLabel 是 Inference API 返回的单个分类结果。
type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify 返回文本最显著的情绪标签。空白文本直接返回空结果。
func (h *HuggingFace) Classify(ctx context.Context, text string) (string, float64, error) {
	if strings.TrimSpace(text) == "" {
		return "", 0, nil
	}

	var label string
	var score float64
	err := h.breaker.Do(func() error {
		var innerErr error
		label, score, innerErr = h.classifyOnce(ctx, text)
		return innerErr
	})
	if err != nil {
		return "", 0, err
	}
	return label, score, nil
}

func (h *HuggingFace) classifyOnce(ctx context.Context, text string) (string, float64, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.model, bytes.NewBuffer(payload))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("inference api returned status %d", resp.StatusCode)
	}

	// return_all_scores 模式下响应是嵌套数组；兼容两种形状。
	var nested [][]scoredLabel
	if err := json.NewDecoder(resp.Body).Decode(&nested); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return "", 0, nil
	}

	top := nested[0][0]
	for _, s := range nested[0][1:] {
		if s.Score > top.Score {
			top = s
		}
	}
	return top.Label, top.Score, nil
}
