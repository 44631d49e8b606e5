package models

// Mode 是消息的处理模式，决定使用哪套指令模板和模型档位。
type Mode string

const (
	ModePrimary   Mode = "primary"   // 默认模式：闲聊、情绪支持、宽泛兴趣
	ModeAcademic  Mode = "academic"  // 深度研究、引用、历史分析
	ModeReasoning Mode = "reasoning" // 数学、编码、逻辑问题
	ModeTeaching  Mode = "teaching"  // 显式的循序渐进学习请求
)

// ParseMode 将分类器输出解析为 Mode。任何未知值都强制回落到 primary。
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeAcademic, ModeReasoning, ModeTeaching, ModePrimary:
		return Mode(s)
	default:
		return ModePrimary
	}
}
