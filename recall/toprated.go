package recall

import (
	"context"
	"sort"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/pipeline"
	"github.com/cinekit/cinekit/pkg/utils"
)

// TopRated 是评分兜底召回源：按目录评分降序返回电影，
// 分数相同的保持目录顺序（稳定排序）。
//
// 相似度信号不足时（新用户、用户数不足、无候选分数），
// content / collaborative 都会退化到这条路径。
// TopRated 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type TopRated struct {
	Catalog core.Catalog

	// TopK 返回 TopK 个物品；<= 0 表示不截断（交给下游 TopNNode）。
	TopK int
}

func (r *TopRated) Name() string        { return "recall.toprated" }
func (r *TopRated) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *TopRated) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *TopRated) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	var exclude map[int64]bool
	if rctx != nil {
		exclude = rctx.Rated()
	}

	out := rankByRating(r.Catalog.All(), exclude)
	for _, it := range out {
		it.PutLabel("recall_source", utils.Label{Value: "toprated", Source: "recall"})
	}
	if r.TopK > 0 && len(out) > r.TopK {
		out = out[:r.TopK]
	}
	return out, nil
}

// rankByRating 按评分降序排列电影（稳定，平局保持目录顺序），剔除 exclude 中的 ID。
// content / collaborative 的兜底路径共用此函数。
func rankByRating(movies []core.Movie, exclude map[int64]bool) []*core.Item {
	type ranked struct {
		movie core.Movie
		pos   int
	}
	candidates := make([]ranked, 0, len(movies))
	for i, m := range movies {
		if exclude[m.ID] {
			continue
		}
		candidates = append(candidates, ranked{movie: m, pos: i})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].movie.Rating > candidates[j].movie.Rating
	})

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(c.movie.ID)
		it.Score = c.movie.Rating
		out = append(out, it)
	}
	return out
}
