package recall

import (
	"context"
	"sort"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/model"
	"github.com/cinekit/cinekit/pipeline"
	"github.com/cinekit/cinekit/pkg/utils"
)

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些特征的电影，推荐具有相似特征的其他电影"
//
// 算法流程：
//  1. 取每部喜欢电影的相似度矩阵行
//  2. 按元素求平均，得到每部目录电影的分数
//  3. 分数降序排列（平局按目录位置升序，保证确定性）
//
// 边界行为：
//  - liked 为空（或全是未知 ID）→ 退化为评分兜底
//  - liked/disliked 中的未知 ID 静默跳过，不参与求平均也不报错
type Content struct {
	Model *model.ContentModel

	// TopK 返回 TopK 个物品；<= 0 表示不截断。
	TopK int
}

func (r *Content) Name() string        { return "recall.content" }
func (r *Content) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Content) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。模型未 fit 时返回 core.ErrNotFitted。
func (r *Content) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Model == nil || !r.Model.Fitted() {
		return nil, core.ErrNotFitted
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}

	rated := rctx.Rated()

	// 喜欢电影的矩阵行（未知 ID 跳过）
	rows := make([][]float64, 0, len(rctx.Liked))
	for _, movieID := range rctx.Liked {
		if row, ok := r.Model.SimilarityRow(movieID); ok {
			rows = append(rows, row)
		}
	}

	// 无内容信号 → 评分兜底
	if len(rows) == 0 {
		out := rankByRating(r.Model.Movies(), rated)
		for _, it := range out {
			it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
			it.PutLabel("fallback", utils.Label{Value: "toprated", Source: "recall"})
		}
		return r.truncate(out), nil
	}

	// 平均相似度：score[i] = Σ sim[liked][i] / |liked|
	scores := make([]float64, r.Model.Len())
	for _, row := range rows {
		for i, s := range row {
			scores[i] += s
		}
	}
	for i := range scores {
		scores[i] /= float64(len(rows))
	}

	// 目录顺序构建候选，稳定排序保证平局按目录位置
	movies := r.Model.Movies()
	out := make([]*core.Item, 0, len(movies))
	for i, m := range movies {
		if rated[m.ID] {
			continue
		}
		it := core.NewItem(m.ID)
		it.Score = scores[i]
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return r.truncate(out), nil
}

func (r *Content) truncate(items []*core.Item) []*core.Item {
	if r.TopK > 0 && len(items) > r.TopK {
		return items[:r.TopK]
	}
	return items
}
