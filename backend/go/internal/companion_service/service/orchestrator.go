package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"gorm.io/datatypes"

	"Lumina_AI/backend/go/internal/companion_service/store"
	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/internal/llm"
	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/pkg/logger"
)

const (
	// historyLimit bounds the conversation context to the last 10 messages
	// (5 turns).
	historyLimit = 10
	// titleMaxRunes bounds the fallback title derived from the first user
	// message.
	titleMaxRunes = 30
)

// Orchestrator coordinates one conversational turn: context assembly, mode
// routing, the generation call with its single fallback retry, defensive
// envelope parsing, and idempotent application of the derived side effects.
type Orchestrator struct {
	sessions store.SessionStore
	facts    store.FactStore
	goals    store.GoalStore
	affect   *AffectService
	router   *Router
	llm      llm.LLM
	llmCfg   config.LLMConfig
	log      *logger.Logger
}

// NewOrchestrator wires the orchestrator with its collaborators.
func NewOrchestrator(
	sessions store.SessionStore,
	facts store.FactStore,
	goals store.GoalStore,
	affect *AffectService,
	router *Router,
	client llm.LLM,
	llmCfg config.LLMConfig,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		facts:    facts,
		goals:    goals,
		affect:   affect,
		router:   router,
		llm:      client,
		llmCfg:   llmCfg,
		log:      log,
	}
}

// Respond handles one turn of a conversation. It never fails: when both
// generation attempts error out, the result carries the fixed apology with
// every derived field empty, and neither the session log nor the fact/goal
// stores are touched for that turn.
func (o *Orchestrator) Respond(ctx context.Context, userID uint, chatID, message, userName string) *models.TurnResult {
	uid := strconv.FormatUint(uint64(userID), 10)

	// Opportunistic expiry sweep ahead of the turn.
	o.facts.SweepExpired(ctx, uid)

	// The profile read and the affect log+summary are read-independent;
	// fetch them concurrently ahead of the generation call.
	var profile, affectSummary string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile = o.facts.ReadContext(ctx, uid)
	}()
	go func() {
		defer wg.Done()
		o.affect.Record(ctx, userID, message)
		affectSummary = o.affect.RecentSummary(ctx, userID)
	}()
	wg.Wait()

	history := o.sessions.History(ctx, chatID)
	firstTurn := len(history) == 0
	trimmed := history
	if len(trimmed) > historyLimit {
		trimmed = trimmed[len(trimmed)-historyLimit:]
	}

	mode := o.router.Classify(ctx, message)

	req := &models.GenerateRequest{
		Model:             o.llmCfg.ModelFor(string(mode)),
		SystemInstruction: instructionFor(mode, userName),
		History:           trimmed,
		Message:           composeMessage(profile, affectSummary, userName, message, firstTurn),
		JSONOnly:          true,
		Temperature:       0.7,
	}

	resp, err := o.generateWithFallback(ctx, req, mode)
	if err != nil {
		o.log.WithUser(uid).WithError(err).Error("generation failed on both tiers")
		return &models.TurnResult{Response: apologyResponse, Mode: mode}
	}

	env, parsed := parseEnvelope(resp.Text)
	if !parsed {
		o.log.WithUser(uid).Warn("envelope parse failed, using raw text as response")
	}

	result := &models.TurnResult{Response: env.Response, Mode: mode}

	// Side effects are each guarded independently; a failure in one never
	// blocks the others. Both sides of the turn are appended exactly once,
	// user message first.
	o.sessions.AppendMessage(ctx, chatID, models.RoleUser, message)
	o.sessions.AppendMessage(ctx, chatID, models.RoleAssistant, env.Response)

	result.MemoryUpdated = o.applyFacts(ctx, uid, profile, env.NewUserFacts)

	if firstTurn {
		title := fallbackTitle(message)
		if env.Title != nil && strings.TrimSpace(*env.Title) != "" {
			title = strings.TrimSpace(*env.Title)
		}
		o.sessions.RenameChat(ctx, uid, chatID, title)
		result.Title = title
	}

	if env.SuggestedGoal != nil {
		result.CreatedGoal = o.applyGoal(ctx, userID, env.SuggestedGoal)
	}

	return result
}

// generateWithFallback runs the generation call on the selected tier and, on
// failure, retries exactly once on the reasoning tier. The reasoning tier is
// itself the fallback: when the turn already selected it, a failure
// propagates directly.
func (o *Orchestrator) generateWithFallback(ctx context.Context, req *models.GenerateRequest, mode models.Mode) (*models.GenerateResponse, error) {
	resp, err := o.llm.GenerateContent(ctx, req)
	if err == nil {
		return resp, nil
	}

	if mode == models.ModeReasoning {
		return nil, err
	}
	fallbackModel := o.llmCfg.ModelFor(string(models.ModeReasoning))
	if fallbackModel == req.Model {
		return nil, err
	}

	o.log.WithError(err).WithPayload(map[string]interface{}{
		"model":    req.Model,
		"fallback": fallbackModel,
	}).Warn("generation failed, retrying on fallback tier")

	retry := *req
	retry.Model = fallbackModel
	return o.llm.GenerateContent(ctx, &retry)
}

// applyFacts appends novel fact text to the profile and reconciles the fact
// store. Facts already contained in the profile are skipped, which keeps the
// operation idempotent across repeated envelopes.
func (o *Orchestrator) applyFacts(ctx context.Context, uid, profile string, facts factsValue) bool {
	if !facts.Present {
		return false
	}
	if profile != "" && strings.Contains(profile, facts.Text) {
		return false
	}

	newProfile := facts.Text
	if profile != "" {
		newProfile = profile + "\n" + facts.Text
	}
	o.facts.Upsert(ctx, uid, newProfile)
	return true
}

// applyGoal creates the suggested goal with empty subtasks. Failures are
// logged and swallowed; they never fail the turn.
func (o *Orchestrator) applyGoal(ctx context.Context, userID uint, suggestion *models.GoalSuggestion) string {
	goal := &models.Goal{
		UserID:       userID,
		Title:        suggestion.Title,
		Description:  "Auto-generated from conversation",
		Duration:     suggestion.Duration,
		DurationUnit: suggestion.DurationUnit,
		Priority:     suggestion.Priority,
		Status:       models.StatusNotStarted,
		Subtasks:     datatypes.JSON([]byte("[]")),
	}
	if err := o.goals.Create(ctx, goal); err != nil {
		o.log.WithError(err).Warn("failed to create suggested goal")
		return ""
	}
	return goal.Title
}

// composeMessage injects the profile-context and affect-summary blocks ahead
// of the live user message, and requests a title on the first turn.
func composeMessage(profile, affectSummary, userName, message string, firstTurn bool) string {
	var blocks []string
	if profile != "" {
		blocks = append(blocks, "User Profile Context:\n"+profile)
	}
	if affectSummary != "" {
		blocks = append(blocks, affectSummary)
	}
	if userName != "" {
		blocks = append(blocks, "User Name: "+userName)
	}

	composed := message
	if len(blocks) > 0 {
		composed = strings.Join(blocks, "\n\n") + "\n\nUser Query:\n" + message
	}
	if firstTurn {
		composed += titleRequest
	}
	return composed
}

// fallbackTitle truncates the first user message to 30 characters with an
// ellipsis suffix.
func fallbackTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return message
}
