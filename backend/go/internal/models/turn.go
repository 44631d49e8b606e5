package models

// GoalSuggestion 是生成结果中建议创建的目标，已经过归一化。
type GoalSuggestion struct {
	Title        string `json:"title"`
	Duration     int    `json:"duration"`
	DurationUnit string `json:"duration_unit"`
	Priority     string `json:"priority"`
}

// TurnResult 是一轮对话返回给调用方的全部内容。
type TurnResult struct {
	Response      string `json:"response"`                 // 助手的自然语言回复
	Mode          Mode   `json:"mode"`                     // 路由器选定的处理模式
	Title         string `json:"title,omitempty"`          // 首轮新设置的标题，其余轮为空
	MemoryUpdated bool   `json:"memory_updated"`           // 本轮是否写入了新的用户事实
	CreatedGoal   string `json:"created_goal,omitempty"`   // 本轮自动创建的目标标题
}
