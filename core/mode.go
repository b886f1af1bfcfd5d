package core

// Mode 是推荐策略的封闭枚举。Facade 按 Mode 做静态分发，
// 三种策略各自实现同一个召回能力，不做运行时鸭子类型分发。
type Mode string

const (
	// ModeUnknown 是零值：请求未显式指定模式时，facade 使用进程级当前模式。
	ModeUnknown Mode = ""

	ModeContentBased  Mode = "content_based"
	ModeCollaborative Mode = "collaborative"
	ModeHybrid        Mode = "hybrid"
)

// ParseMode 解析模式字符串；未知字符串返回 (ModeUnknown, false)。
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeContentBased:
		return ModeContentBased, true
	case ModeCollaborative:
		return ModeCollaborative, true
	case ModeHybrid:
		return ModeHybrid, true
	default:
		return ModeUnknown, false
	}
}

// Valid 判断是否为已知模式。
func (m Mode) Valid() bool {
	switch m {
	case ModeContentBased, ModeCollaborative, ModeHybrid:
		return true
	default:
		return false
	}
}
