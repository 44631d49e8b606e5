package service

import (
	"context"
	"encoding/json"

	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/internal/llm"
	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/pkg/logger"
)

// Router classifies a single user message into a processing mode. It is
// memoryless: classification never inspects conversation history, and any
// failure degrades to ModePrimary without a retry.
type Router struct {
	llm llm.LLM
	cfg config.LLMConfig
	log *logger.Logger
}

// NewRouter creates a Router backed by the lightweight routing model tier.
func NewRouter(client llm.LLM, cfg config.LLMConfig, log *logger.Logger) *Router {
	return &Router{llm: client, cfg: cfg, log: log}
}

// Classify invokes the classification call with the fixed taxonomy prompt
// and returns the detected mode. Malformed output, unknown labels and
// upstream failures all resolve to ModePrimary.
func (r *Router) Classify(ctx context.Context, message string) models.Mode {
	resp, err := r.llm.GenerateContent(ctx, &models.GenerateRequest{
		Model:             r.cfg.ModelFor("router"),
		SystemInstruction: classifierInstruction,
		Message:           message,
		JSONOnly:          true,
		Temperature:       0.3,
	})
	if err != nil {
		r.log.WithError(err).Warn("intent classification failed, defaulting to primary")
		return models.ModePrimary
	}

	var result struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &result); err != nil {
		r.log.WithError(err).Warn("classifier returned malformed output, defaulting to primary")
		return models.ModePrimary
	}
	return models.ParseMode(result.Mode)
}
