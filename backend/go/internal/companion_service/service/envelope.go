package service

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"Lumina_AI/backend/go/internal/models"
)

// envelope is the parsed form of the structured generation result. Parsing is
// defensive: a raw text that cannot be decoded is folded into the Response
// field with every other field absent, never surfaced as an error.
type envelope struct {
	Title         *string
	Response      string
	NewUserFacts  factsValue
	SuggestedGoal *models.GoalSuggestion
}

// stripFences removes a markdown code-fence wrapper ahead of structured
// parsing. The opening and closing fences are stripped independently: models
// routinely drop the closing fence when they run out of tokens, and the
// payload must still parse. Unfenced text is returned unchanged.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimPrefix(trimmed, "json")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// parseEnvelope decodes the generation output. The second return value
// reports whether structured parsing succeeded; on failure the envelope
// carries the raw text as the response.
func parseEnvelope(raw string) (envelope, bool) {
	var wire struct {
		Title         *string         `json:"title"`
		Response      string          `json:"response"`
		NewUserFacts  factsValue      `json:"new_user_facts"`
		SuggestedGoal json.RawMessage `json:"suggested_goal"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &wire); err != nil {
		return envelope{Response: raw}, false
	}

	env := envelope{
		Title:        wire.Title,
		Response:     wire.Response,
		NewUserFacts: wire.NewUserFacts,
	}
	// A parseable object without a response field still falls back to the
	// raw text so the user always gets something readable.
	if env.Response == "" {
		env.Response = raw
	}
	env.SuggestedGoal = normalizeGoal(wire.SuggestedGoal)
	return env, true
}

// factsValue is the tagged variant behind "new_user_facts": the model may
// send a string, a list, or an object. It is normalized to one canonical
// joined string at this boundary so downstream logic only sees text.
type factsValue struct {
	Text    string
	Present bool
}

func (f *factsValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.set(s)
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, rawToText(item))
		}
		f.set(strings.Join(parts, "\n"))
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, rawToText(obj[k]))
		}
		f.set(strings.Join(parts, "\n"))
		return nil
	}

	// Unrecognized shape: treat as absent rather than failing the envelope.
	return nil
}

func (f *factsValue) set(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	f.Text = text
	f.Present = true
}

// rawToText renders a JSON value as plain text: strings verbatim, anything
// else as its compact JSON encoding.
func rawToText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// durationRe best-effort extracts an embedded duration phrase from a
// free-text goal suggestion, e.g. "Learn Python in 2 weeks".
var durationRe = regexp.MustCompile(`(?i)\b(\d+)\s*(day|week|month)s?\b`)

// inClauseRe strips a trailing "in N days/weeks/months" clause from a
// free-text goal title.
var inClauseRe = regexp.MustCompile(`(?i)\s*\bin\s+\d+\s*(day|week|month)s?\b\.?\s*$`)

// normalizeGoal coerces the duck-typed "suggested_goal" field into a
// canonical suggestion: a well-formed object is used directly, a bare string
// goes through regex extraction, anything else is discarded.
func normalizeGoal(raw json.RawMessage) *models.GoalSuggestion {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var obj struct {
		Title        string          `json:"title"`
		Duration     json.RawMessage `json:"duration"`
		DurationUnit string          `json:"duration_unit"`
		Priority     string          `json:"priority"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Title != "" {
		goal := &models.GoalSuggestion{
			Title:        obj.Title,
			Duration:     coerceDuration(obj.Duration),
			DurationUnit: normalizeUnit(obj.DurationUnit),
			Priority:     normalizePriority(obj.Priority),
		}
		if goal.Duration <= 0 {
			goal.Duration = 7
			goal.DurationUnit = models.UnitDays
		}
		return goal
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return nil
	}
	return goalFromText(s)
}

// goalFromText parses a bare-string suggestion like "Learn Python in 2 weeks".
// Without a recognizable duration phrase the goal defaults to one week.
func goalFromText(text string) *models.GoalSuggestion {
	goal := &models.GoalSuggestion{
		Title:        strings.TrimSpace(inClauseRe.ReplaceAllString(text, "")),
		Duration:     7,
		DurationUnit: models.UnitDays,
		Priority:     models.PriorityMedium,
	}
	if goal.Title == "" {
		goal.Title = strings.TrimSpace(text)
	}
	if m := durationRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			goal.Duration = n
			goal.DurationUnit = normalizeUnit(m[2])
		}
	}
	return goal
}

func coerceDuration(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

func normalizeUnit(unit string) string {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "s") {
	case "week":
		return models.UnitWeeks
	case "month":
		return models.UnitMonths
	default:
		return models.UnitDays
	}
}

func normalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return models.PriorityHigh
	case "low":
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}
