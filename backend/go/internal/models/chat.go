package models

// 会话消息的两个合法角色。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMetadata 是用户会话索引中的一条元数据。
type ChatMetadata struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CreatedAt float64 `json:"created_at"`
}

// ChatMessage 是会话日志中的一条消息。日志只追加，不做原地修改。
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
