package rerank

import (
	"context"
	"sort"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/pipeline"
)

// SortNode 按分数降序排序候选集。
// 分数相同的按目录位置升序；不在目录中的候选排在最后，按 ID 升序。
// 同一输入永远产出同一顺序，保证推荐结果可复现。
type SortNode struct {
	// Catalog 提供目录位置用于平局裁决；为 nil 时退化为按 ID 升序裁决。
	Catalog core.Catalog
}

func (n *SortNode) Name() string {
	return "rerank.sort"
}

func (n *SortNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *SortNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return n.less(items[i].ID, items[j].ID)
	})
	return items, nil
}

func (n *SortNode) less(a, b int64) bool {
	if n.Catalog == nil {
		return a < b
	}
	ia, oka := n.Catalog.Index(a)
	ib, okb := n.Catalog.Index(b)
	switch {
	case oka && okb:
		return ia < ib
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}
