package filter

import (
	"context"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/pkg/dsl"
)

// DSLFilter 是表达式过滤器：Expr（CEL 语法）命中（求值为 true）的物品会被过滤掉。
//
// 示例：
//   - "item.score < 0.0"                      → 剔除负分候选
//   - "label.recall_source == \"toprated\""   → 剔除兜底召回的候选
type DSLFilter struct {
	Expr string
}

func NewDSLFilter(expr string) *DSLFilter {
	return &DSLFilter{Expr: expr}
}

func (f *DSLFilter) Name() string { return "filter.dsl" }

func (f *DSLFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
