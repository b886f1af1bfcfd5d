package core

import "context"

// PreferenceStore 是用户偏好存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 每个 (user, movie) 至多一条记录：后写覆盖先写，不保留历史
//   - movie ID 不做目录校验：未知 ID 照常接受，校验是调用方的责任
//
// 实现：
//   - store.MemoryStore（内存，测试/开发/原型）
//   - store.RedisStore（Redis，多进程共享）
//   - store.SQLiteStore（SQLite，单机持久化）
type PreferenceStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Record 写入一条偏好；覆盖该 (user, movie) 的历史值。
	Record(ctx context.Context, userID string, movieID int64, liked bool) error

	// Preferences 返回用户的喜欢/不喜欢电影 ID 列表（按 ID 升序）。
	// 未知用户返回两个空列表，不报错。
	Preferences(ctx context.Context, userID string) (liked []int64, disliked []int64, err error)

	// Snapshot 返回全量偏好的一致性快照：user -> movie -> liked。
	// 返回值是深拷贝，推荐计算期间的并发写入不会产生半更新的矩阵。
	Snapshot(ctx context.Context) (map[string]map[int64]bool, error)

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
