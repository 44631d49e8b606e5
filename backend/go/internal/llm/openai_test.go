package llm

import (
	"testing"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"Lumina_AI/backend/go/internal/models"
)

func TestToOpenAIRequestMapping(t *testing.T) {
	req := &models.GenerateRequest{
		Model:             "llama-3.3-70b",
		SystemInstruction: "You are a helpful assistant.",
		History: []models.ChatMessage{
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleAssistant, Content: "hello"},
		},
		Message:     "how are you?",
		JSONOnly:    true,
		Temperature: 0.7,
	}

	out := toOpenAIRequest(req)

	if out.Model != "llama-3.3-70b" {
		t.Errorf("Model = %q", out.Model)
	}
	if out.Temperature == nil || *out.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want pointer to 0.7", out.Temperature)
	}
	if out.ResponseFormat == nil || out.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("ResponseFormat = %+v, want JSON object mode", out.ResponseFormat)
	}

	if len(out.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(out.Messages))
	}
	if out.Messages[0].Role != openai.ChatMessageRoleSystem || out.Messages[0].Content != "You are a helpful assistant." {
		t.Errorf("messages[0] = %+v", out.Messages[0])
	}
	if out.Messages[1].Role != openai.ChatMessageRoleUser || out.Messages[2].Role != openai.ChatMessageRoleAssistant {
		t.Errorf("history roles = %q, %q", out.Messages[1].Role, out.Messages[2].Role)
	}
	if out.Messages[3].Role != openai.ChatMessageRoleUser || out.Messages[3].Content != "how are you?" {
		t.Errorf("messages[3] = %+v", out.Messages[3])
	}
}

func TestToOpenAIRequestWithoutSystemOrJSON(t *testing.T) {
	req := &models.GenerateRequest{
		Model:       "llama-3.3-70b",
		Message:     "hi",
		Temperature: 0,
	}

	out := toOpenAIRequest(req)

	if len(out.Messages) != 1 || out.Messages[0].Role != openai.ChatMessageRoleUser {
		t.Errorf("messages = %+v", out.Messages)
	}
	if out.ResponseFormat != nil {
		t.Errorf("ResponseFormat = %+v, want nil", out.ResponseFormat)
	}
	if out.Temperature == nil || *out.Temperature != 0 {
		t.Errorf("Temperature = %v, want pointer to 0", out.Temperature)
	}
}
