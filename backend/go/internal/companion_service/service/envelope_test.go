package service

import (
	"testing"

	"Lumina_AI/backend/go/internal/models"
)

func TestParseEnvelopeFenced(t *testing.T) {
	raw := "```json\n{\"title\": \"Trip planning\", \"response\": \"Sounds fun!\", \"new_user_facts\": \"Is planning a trip to Japan\"}\n```"

	env, ok := parseEnvelope(raw)
	if !ok {
		t.Fatalf("structured parse failed")
	}
	if env.Title == nil || *env.Title != "Trip planning" {
		t.Errorf("Title = %v", env.Title)
	}
	if env.Response != "Sounds fun!" {
		t.Errorf("Response = %q", env.Response)
	}
	if !env.NewUserFacts.Present || env.NewUserFacts.Text != "Is planning a trip to Japan" {
		t.Errorf("NewUserFacts = %+v", env.NewUserFacts)
	}
}

func TestParseEnvelopeUnclosedFence(t *testing.T) {
	raw := "```json\n{\"title\": \"Trip planning\", \"response\": \"Sounds fun!\"}"

	env, ok := parseEnvelope(raw)
	if !ok {
		t.Fatalf("fenced payload without a closing fence did not parse")
	}
	if env.Response != "Sounds fun!" {
		t.Errorf("Response = %q", env.Response)
	}
	if env.Title == nil || *env.Title != "Trip planning" {
		t.Errorf("Title = %v", env.Title)
	}
}

func TestParseEnvelopeNonJSONFallsBackToRaw(t *testing.T) {
	raw := "Just a plain conversational reply."

	env, ok := parseEnvelope(raw)
	if ok {
		t.Errorf("plain text reported as structured")
	}
	if env.Response != raw {
		t.Errorf("Response = %q, want raw text", env.Response)
	}
	if env.Title != nil || env.NewUserFacts.Present || env.SuggestedGoal != nil {
		t.Errorf("non-response fields populated from plain text: %+v", env)
	}
}

func TestParseEnvelopeMissingResponseUsesRaw(t *testing.T) {
	raw := `{"title": "Oops"}`

	env, ok := parseEnvelope(raw)
	if !ok {
		t.Fatalf("structured parse failed")
	}
	if env.Response != raw {
		t.Errorf("Response = %q, want raw text", env.Response)
	}
}

func TestFactsValueShapes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		present bool
	}{
		{"string", `{"response":"r","new_user_facts":"likes tea"}`, "likes tea", true},
		{"list", `{"response":"r","new_user_facts":["likes tea","plays chess"]}`, "likes tea\nplays chess", true},
		{"object", `{"response":"r","new_user_facts":{"hobby":"chess","drink":"tea"}}`, "tea\nchess", true},
		{"null", `{"response":"r","new_user_facts":null}`, "", false},
		{"absent", `{"response":"r"}`, "", false},
		{"empty string", `{"response":"r","new_user_facts":"  "}`, "", false},
		{"number ignored", `{"response":"r","new_user_facts":7}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok := parseEnvelope(tt.raw)
			if !ok {
				t.Fatalf("structured parse failed")
			}
			if env.NewUserFacts.Present != tt.present || env.NewUserFacts.Text != tt.want {
				t.Errorf("NewUserFacts = %+v, want text %q present %v", env.NewUserFacts, tt.want, tt.present)
			}
		})
	}
}

func TestNormalizeGoalObject(t *testing.T) {
	raw := `{"response":"r","suggested_goal":{"title":"Learn Python","duration":"2","duration_unit":"Weeks","priority":"high"}}`

	env, _ := parseEnvelope(raw)
	goal := env.SuggestedGoal
	if goal == nil {
		t.Fatalf("goal discarded")
	}
	if goal.Title != "Learn Python" || goal.Duration != 2 || goal.DurationUnit != models.UnitWeeks || goal.Priority != models.PriorityHigh {
		t.Errorf("goal = %+v", goal)
	}
}

func TestNormalizeGoalObjectDefaultsDuration(t *testing.T) {
	raw := `{"response":"r","suggested_goal":{"title":"Sleep better"}}`

	env, _ := parseEnvelope(raw)
	goal := env.SuggestedGoal
	if goal == nil {
		t.Fatalf("goal discarded")
	}
	if goal.Duration != 7 || goal.DurationUnit != models.UnitDays {
		t.Errorf("defaulted goal = %+v", goal)
	}
}

func TestNormalizeGoalBareString(t *testing.T) {
	raw := `{"response":"r","suggested_goal":"Learn Python in 2 weeks"}`

	env, _ := parseEnvelope(raw)
	goal := env.SuggestedGoal
	if goal == nil {
		t.Fatalf("goal discarded")
	}
	if goal.Title != "Learn Python" {
		t.Errorf("Title = %q", goal.Title)
	}
	if goal.Duration != 2 || goal.DurationUnit != models.UnitWeeks {
		t.Errorf("duration = %d %s", goal.Duration, goal.DurationUnit)
	}
	if goal.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q", goal.Priority)
	}
}

func TestNormalizeGoalBareStringWithoutDuration(t *testing.T) {
	raw := `{"response":"r","suggested_goal":"Start journaling"}`

	env, _ := parseEnvelope(raw)
	goal := env.SuggestedGoal
	if goal == nil {
		t.Fatalf("goal discarded")
	}
	if goal.Title != "Start journaling" || goal.Duration != 7 || goal.DurationUnit != models.UnitDays {
		t.Errorf("goal = %+v", goal)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json\n{\"a\":1}", `{"a":1}`}, // truncated output drops the closing fence
		{"```\n{\"a\":1}", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  plain text  ", "plain text"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
