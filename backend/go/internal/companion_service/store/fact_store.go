package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/pkg/logger"
)

// FactStore 维护每个用户去重、带时间戳、可选过期的事实集合。
//
// 去重按文本精确匹配，事实以换行分隔的自由文本行表示，调用方依赖
// 这套语义。后端不可用时读返回空、写静默跳过，对话以无记忆方式继续。
type FactStore interface {
	// ReadContext 返回所有未过期事实文本的换行拼接，按存储顺序。
	ReadContext(ctx context.Context, userID string) string
	// ReadStructured 返回完整的未过期事实记录。存量的纯文本画像会
	// 被即时迁移为结构化表示，但直到下一次写入才持久化。
	ReadStructured(ctx context.Context, userID string) []models.Fact
	// Upsert 接收完整的画像文本 (而非增量)，逐行与现有事实做集合
	// 调和：文本完全匹配的行保留原有元数据，新行以当前时间创建。
	Upsert(ctx context.Context, userID, fullProfileText string)
	// SweepExpired 从持久存储中删除所有已过期的事实，并同步重写
	// 派生的纯文本投影。
	SweepExpired(ctx context.Context, userID string)
}

// 新事实的短时效启发式：文本中包含 "in N week(s)" 一类措辞时，
// 赋予 14 天过期时间；其余事实永久保留。
var shortLivedRe = regexp.MustCompile(`(?i)\bin \d+ weeks?\b`)

const factTTL = 14 * 24 * 3600 // 秒

type redisFactStore struct {
	kv  KV
	log *logger.Logger
}

// NewFactStore 创建一个由 KV 后端支撑的 FactStore。kv 为 nil 时
// 所有操作按降级契约执行。
func NewFactStore(kv KV, log *logger.Logger) FactStore {
	return &redisFactStore{kv: kv, log: log}
}

func profileKey(userID string) string {
	return fmt.Sprintf("user:%s:profile", userID)
}

func structuredKey(userID string) string {
	return fmt.Sprintf("user:%s:profile_structured", userID)
}

func profileMetaKey(userID string) string {
	return fmt.Sprintf("user:%s:profile_meta", userID)
}

func (s *redisFactStore) ReadContext(ctx context.Context, userID string) string {
	facts := s.ReadStructured(ctx, userID)
	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, f.Text)
	}
	return strings.Join(lines, "\n")
}

func (s *redisFactStore) ReadStructured(ctx context.Context, userID string) []models.Fact {
	raw := s.readRaw(ctx, userID)
	now := unixNow()
	valid := make([]models.Fact, 0, len(raw))
	for _, f := range raw {
		if !f.Expired(now) {
			valid = append(valid, f)
		}
	}
	return valid
}

// readRaw 返回不过滤过期项的完整事实集合，供调和与清扫使用。
func (s *redisFactStore) readRaw(ctx context.Context, userID string) []models.Fact {
	if s.kv == nil {
		return nil
	}

	data, err := s.kv.Get(ctx, structuredKey(userID))
	if err == nil {
		var facts []models.Fact
		if jsonErr := json.Unmarshal([]byte(data), &facts); jsonErr != nil {
			s.log.WithError(jsonErr).Warn("结构化画像损坏，按空集合处理")
			return nil
		}
		return facts
	}
	if err != ErrKeyMissing {
		s.log.WithError(err).Warn("读取结构化画像失败，降级为空")
		return nil
	}

	// 迁移路径：存量的纯文本画像按每行一条事实即时转换。
	old, err := s.kv.Get(ctx, profileKey(userID))
	if err != nil {
		return nil
	}
	now := unixNow()
	var facts []models.Fact
	for _, line := range splitProfileLines(old) {
		facts = append(facts, models.Fact{Text: line, CreatedAt: now})
	}
	return facts
}

func (s *redisFactStore) Upsert(ctx context.Context, userID, fullProfileText string) {
	if s.kv == nil {
		return
	}

	// 1. 先对写入前的集合做快照。快照必须发生在投影更新之前，否则
	// 无结构化键时的迁移回退会把刚写入的新行误认为存量事实。
	existing := make(map[string]models.Fact)
	for _, f := range s.readRaw(ctx, userID) {
		existing[f.Text] = f
	}

	if err := s.kv.Set(ctx, profileKey(userID), fullProfileText); err != nil {
		s.log.WithError(err).Warn("写入画像文本失败")
		return
	}

	lines := splitProfileLines(fullProfileText)
	s.writeMeta(ctx, userID, len(lines))

	// 2. 对结构化集合做调和：命中快照中文本的行保留原有元数据。
	now := unixNow()
	reconciled := make([]models.Fact, 0, len(lines))
	for _, line := range lines {
		if f, ok := existing[line]; ok {
			reconciled = append(reconciled, f)
			continue
		}
		fact := models.Fact{Text: line, CreatedAt: now}
		if shortLivedRe.MatchString(line) {
			expiry := now + factTTL
			fact.Expiry = &expiry
		}
		reconciled = append(reconciled, fact)
	}

	s.writeStructured(ctx, userID, reconciled)
}

func (s *redisFactStore) SweepExpired(ctx context.Context, userID string) {
	if s.kv == nil {
		return
	}

	raw := s.readRaw(ctx, userID)
	now := unixNow()
	valid := make([]models.Fact, 0, len(raw))
	for _, f := range raw {
		if !f.Expired(now) {
			valid = append(valid, f)
		}
	}
	if len(valid) == len(raw) {
		return
	}

	s.log.WithUser(userID).WithPayload(map[string]interface{}{
		"removed": len(raw) - len(valid),
	}).Info("清理过期记忆")

	s.writeStructured(ctx, userID, valid)

	lines := make([]string, 0, len(valid))
	for _, f := range valid {
		lines = append(lines, f.Text)
	}
	if err := s.kv.Set(ctx, profileKey(userID), strings.Join(lines, "\n")); err != nil {
		s.log.WithError(err).Warn("同步画像文本失败")
	}
	s.writeMeta(ctx, userID, len(lines))
}

func (s *redisFactStore) writeStructured(ctx context.Context, userID string, facts []models.Fact) {
	data, err := json.Marshal(facts)
	if err != nil {
		s.log.WithError(err).Warn("序列化结构化画像失败")
		return
	}
	if err := s.kv.Set(ctx, structuredKey(userID), string(data)); err != nil {
		s.log.WithError(err).Warn("写入结构化画像失败")
	}
}

func (s *redisFactStore) writeMeta(ctx context.Context, userID string, itemCount int) {
	meta, err := json.Marshal(map[string]interface{}{
		"last_updated": unixNow(),
		"item_count":   itemCount,
	})
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, profileMetaKey(userID), string(meta)); err != nil {
		s.log.WithError(err).Warn("写入画像元数据失败")
	}
}

// splitProfileLines 把画像文本拆成非空的候选事实行。
func splitProfileLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
