package models

// GenerateRequest 是一次生成调用的内部表示，与具体提供商无关。
type GenerateRequest struct {
	Model             string        // 提供商侧的模型名称
	SystemInstruction string        // 系统指令 (模式对应的指令模板)
	History           []ChatMessage // 裁剪后的会话历史，最旧在前
	Message           string        // 本次提交的用户消息 (已注入上下文块)
	JSONOnly          bool          // 要求提供商强制输出 JSON 对象
	Temperature       float32
}

// GenerateResponse 是生成调用返回的原始文本。
type GenerateResponse struct {
	Text string
}
