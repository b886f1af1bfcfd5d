package core

// Catalog 是电影目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（catalog）实现
//   - 加载后不可变：All 返回的切片在进程生命周期内不会变化，可跨请求共享
//   - 目录位置（Index）是排序打分的确定性依据：分数相同时按目录位置升序
type Catalog interface {
	// All 按加载顺序返回全部电影。调用方不得修改返回的切片。
	All() []Movie

	// Get 按 ID 取电影记录。
	Get(id int64) (Movie, bool)

	// Index 返回电影在目录中的位置（加载顺序）。
	Index(id int64) (int, bool)

	// Len 返回目录大小。
	Len() int
}
