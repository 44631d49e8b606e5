package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Lumina_AI/backend/go/internal/companion_service/store"
	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/internal/sentiment"
	"Lumina_AI/backend/go/pkg/logger"
)

// Fixed policy constants of the affect summary; not configurable per call.
const (
	affectWindow    = 15 * time.Minute
	affectThreshold = 0.5
	affectCap       = 5
	affectPrefix    = "Recent User Emotions: "
)

// AffectService feeds message text through the black-box emotion classifier,
// persists the results, and exposes a recency-windowed summary for context
// injection. Affect is an auxiliary signal: every failure here degrades to
// "no summary" and never blocks a turn.
type AffectService struct {
	classifier sentiment.Classifier
	store      store.EmotionStore
	log        *logger.Logger
}

// NewAffectService creates an AffectService.
func NewAffectService(classifier sentiment.Classifier, emotions store.EmotionStore, log *logger.Logger) *AffectService {
	return &AffectService{classifier: classifier, store: emotions, log: log}
}

// Record classifies the text and appends an emotion record. An absent label
// (blank text, classifier failure) is a no-op.
func (a *AffectService) Record(ctx context.Context, userID uint, text string) {
	label, score, err := a.classifier.Classify(ctx, text)
	if err != nil {
		a.log.WithError(err).Debug("emotion classification unavailable")
		return
	}
	if label == "" {
		return
	}

	entry := &models.EmotionLog{
		UserID:    userID,
		Emotion:   label,
		Score:     score,
		Timestamp: time.Now(),
	}
	if err := a.store.Insert(ctx, entry); err != nil {
		a.log.WithError(err).Warn("failed to persist emotion record")
	}
}

// RecentSummary returns a textual summary of significant emotions within the
// trailing window: score > 0.5, the 5 most recent first, formatted as
// "label (NN%)". An empty string means no qualifying records.
func (a *AffectService) RecentSummary(ctx context.Context, userID uint) string {
	logs, err := a.store.RecentSince(ctx, userID, time.Now().Add(-affectWindow))
	if err != nil {
		a.log.WithError(err).Warn("failed to query recent emotions")
		return ""
	}

	var parts []string
	for _, entry := range logs {
		if entry.Score <= affectThreshold {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d%%)", entry.Emotion, int(entry.Score*100)))
		if len(parts) == affectCap {
			break
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return affectPrefix + strings.Join(parts, ", ")
}
