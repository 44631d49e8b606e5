package models

// Fact 代表关于用户的一条长期记忆。
//
// 事实以纯文本行为单位存储，按文本精确匹配去重。这是一个有意为之的
// 取舍：契约简单，代价是字符串相等的脆弱去重。时间戳使用 Unix 秒，
// 以便与存量数据的 JSON 表示保持兼容。
type Fact struct {
	Text      string   `json:"text"`
	CreatedAt float64  `json:"created_at"`
	Expiry    *float64 `json:"expiry"` // nil 表示永久事实
}

// Expired 判断事实在给定的 Unix 秒时间点是否已过期。
func (f Fact) Expired(now float64) bool {
	return f.Expiry != nil && *f.Expiry < now
}
