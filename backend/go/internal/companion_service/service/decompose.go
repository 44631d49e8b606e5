package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/internal/llm"
	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/pkg/logger"
)

// Decomposition granularities.
const (
	GranularityDaily  = "daily"
	GranularityWeekly = "weekly"
)

// decomposePlaceholder is the single subtask returned when the generation
// call fails entirely.
const decomposePlaceholder = "Could not decompose goal - add subtasks manually"

// Decomposer turns a goal's title and duration into an ordered, time-bounded
// subtask list. The count invariant is enforced post-hoc: for a normalized
// duration of N units the result has exactly one labeled subtask per unit,
// regardless of what the model returned.
type Decomposer struct {
	llm llm.LLM
	cfg config.LLMConfig
	log *logger.Logger
}

// NewDecomposer creates a Decomposer.
func NewDecomposer(client llm.LLM, cfg config.LLMConfig, log *logger.Logger) *Decomposer {
	return &Decomposer{llm: client, cfg: cfg, log: log}
}

// Decompose produces the subtask schedule for a goal. A normalized duration
// of exactly one day is special-cased into a same-day schedule of 4-6
// duration-labeled study sessions instead of a single "Day 1" task.
func (d *Decomposer) Decompose(ctx context.Context, title string, duration int, durationUnit, granularity string) []models.Subtask {
	if granularity != GranularityWeekly {
		granularity = GranularityDaily
	}
	units := normalizeDuration(duration, durationUnit, granularity)

	if units == 1 && granularity == GranularityDaily {
		return d.sameDaySchedule(ctx, title)
	}
	return d.unitSchedule(ctx, title, units, granularity)
}

// normalizeDuration converts a duration into units of the requested
// granularity. Day counts below one week floor-divide to a minimum of one
// week; the precision loss is long-standing behavior callers rely on.
func normalizeDuration(duration int, unit, granularity string) int {
	if duration < 1 {
		duration = 1
	}
	if granularity == GranularityWeekly {
		switch unit {
		case models.UnitMonths:
			return duration * 4
		case models.UnitDays:
			weeks := duration / 7
			if weeks < 1 {
				weeks = 1
			}
			return weeks
		default:
			return duration
		}
	}
	switch unit {
	case models.UnitWeeks:
		return duration * 7
	case models.UnitMonths:
		return duration * 30
	default:
		return duration
	}
}

// subtaskListPrompt asks for a bare JSON object so the reply can be decoded
// directly.
const subtaskListPrompt = `You are a study planner. Respond with strictly valid JSON: {"subtasks": ["...", "..."]} and nothing else. Each subtask is one short actionable sentence without any numbering or day labels.`

func (d *Decomposer) unitSchedule(ctx context.Context, title string, units int, granularity string) []models.Subtask {
	label := "Day"
	if granularity == GranularityWeekly {
		label = "Week"
	}

	msg := fmt.Sprintf(
		"Break the goal %q into exactly %d sequential subtasks, one per %s, ordered from fundamentals to mastery.",
		title, units, strings.ToLower(label),
	)
	texts := d.generateSubtaskTexts(ctx, msg)
	if texts == nil {
		return placeholderSubtasks()
	}

	// Exactly one subtask per unit, no gaps: trim extras, pad shortfalls.
	subtasks := make([]models.Subtask, 0, units)
	for i := 1; i <= units; i++ {
		text := fmt.Sprintf("Work on %s", title)
		if i-1 < len(texts) {
			text = stripUnitLabel(texts[i-1])
		}
		subtasks = append(subtasks, models.Subtask{
			Text: fmt.Sprintf("%s %d: %s", label, i, text),
		})
	}
	return subtasks
}

// defaultSessions pads a same-day schedule when the model returns too few
// entries.
var defaultSessions = []string{
	"1 Hr: Learn the fundamentals",
	"2 Hrs: Hands-on practice",
	"1 Hr: Review and take notes",
	"1 Hr: Self-test and recap",
}

func (d *Decomposer) sameDaySchedule(ctx context.Context, title string) []models.Subtask {
	msg := fmt.Sprintf(
		"Break the one-day goal %q into 4 to 6 study sessions for a single day. Prefix every session with its duration, e.g. \"1 Hr: ...\" or \"30 Min: ...\".",
		title,
	)
	texts := d.generateSubtaskTexts(ctx, msg)
	if texts == nil {
		return placeholderSubtasks()
	}

	if len(texts) > 6 {
		texts = texts[:6]
	}
	for i := 0; len(texts) < 4; i++ {
		texts = append(texts, defaultSessions[i%len(defaultSessions)])
	}

	subtasks := make([]models.Subtask, 0, len(texts))
	for _, text := range texts {
		subtasks = append(subtasks, models.Subtask{Text: text})
	}
	return subtasks
}

// generateSubtaskTexts runs the planning call and decodes the subtask list.
// A nil return means the generation failed entirely.
func (d *Decomposer) generateSubtaskTexts(ctx context.Context, message string) []string {
	resp, err := d.llm.GenerateContent(ctx, &models.GenerateRequest{
		Model:             d.cfg.ModelFor("reasoning"),
		SystemInstruction: subtaskListPrompt,
		Message:           message,
		JSONOnly:          true,
		Temperature:       0.7,
	})
	if err != nil {
		d.log.WithError(err).Warn("goal decomposition call failed")
		return nil
	}

	var wire struct {
		Subtasks []string `json:"subtasks"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &wire); err != nil {
		d.log.WithError(err).Warn("goal decomposition returned malformed output")
		return nil
	}

	texts := make([]string, 0, len(wire.Subtasks))
	for _, t := range wire.Subtasks {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	return texts
}

func placeholderSubtasks() []models.Subtask {
	return []models.Subtask{{Text: decomposePlaceholder}}
}

// unitLabelRe matches a leading "Day 3:" / "Week 1 -" style label the model
// may have added despite instructions.
var unitLabelRe = regexp.MustCompile(`(?i)^(?:day|week)\s*\d+\s*[:.\-]\s*`)

func stripUnitLabel(text string) string {
	return strings.TrimSpace(unitLabelRe.ReplaceAllString(text, ""))
}
