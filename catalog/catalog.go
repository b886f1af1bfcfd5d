// Package catalog 提供电影目录的加载与不可变内存实现。
package catalog

import "github.com/cinekit/cinekit/core"

// Catalog 是 core.Catalog 的内存实现：构造后不可变，可跨并发请求共享。
// 目录位置 = 加载顺序，是排序打分的确定性依据。
type Catalog struct {
	movies []core.Movie
	index  map[int64]int
}

// New 从电影列表构造目录。重复 ID 保留先出现的一条。
func New(movies []core.Movie) *Catalog {
	index := make(map[int64]int, len(movies))
	kept := make([]core.Movie, 0, len(movies))
	for _, m := range movies {
		if _, dup := index[m.ID]; dup {
			continue
		}
		index[m.ID] = len(kept)
		kept = append(kept, m)
	}
	return &Catalog{movies: kept, index: index}
}

func (c *Catalog) All() []core.Movie { return c.movies }

func (c *Catalog) Get(id int64) (core.Movie, bool) {
	i, ok := c.index[id]
	if !ok {
		return core.Movie{}, false
	}
	return c.movies[i], true
}

func (c *Catalog) Index(id int64) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

func (c *Catalog) Len() int { return len(c.movies) }

var _ core.Catalog = (*Catalog)(nil)
