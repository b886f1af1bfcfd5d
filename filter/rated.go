package filter

import (
	"context"

	"github.com/cinekit/cinekit/core"
)

// RatedFilter 过滤掉请求用户已经评价过（喜欢或不喜欢）的电影。
//
// 这是“推荐结果绝不包含已评价物品”的结构化保证：
// 策略内部对已评价物品使用 -1 哨兵分数只是打分细节，
// 即使某种权重组合让哨兵分数高于真实低分，该物品也会在这里被剔除。
type RatedFilter struct{}

func NewRatedFilter() *RatedFilter { return &RatedFilter{} }

func (f *RatedFilter) Name() string { return "filter.rated" }

func (f *RatedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil {
		return false, nil
	}
	return rctx.IsRated(item.ID), nil
}
