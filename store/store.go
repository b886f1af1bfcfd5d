// Package store 提供 core.PreferenceStore 的各种后端实现。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var prefs core.PreferenceStore = store.NewMemoryStore()
package store
