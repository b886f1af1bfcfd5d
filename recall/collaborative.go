package recall

import (
	"context"
	"sort"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/pipeline"
	"github.com/cinekit/cinekit/pkg/utils"
	"github.com/cinekit/cinekit/pkg/vecmath"
)

// DefaultCFNeighbors 是协同过滤考虑的相似用户数。
const DefaultCFNeighbors = 5

// Collaborative 是基于用户的协同过滤召回源（User-based Collaborative Filtering）。
//
// 核心思想："兴趣相似的用户，喜欢相似的电影"
//
// 算法流程：
//  1. 从 PreferenceStore 快照重建 用户×电影 矩阵（喜欢 +1 / 不喜欢 -1 / 无观点 0）
//  2. 目标用户行与其他每个用户行算余弦相似度
//  3. 取相似度 > 0 的 Top 5 邻居（相似度 <= 0 的用户不贡献任何信号）
//  4. 邻居喜欢且目标用户未评价过的电影：score[movie] += 邻居相似度
//
// 矩阵每次请求都从快照重建，保证反映最新偏好；
// 快照隔离使并发写入不会产生半更新的矩阵。
//
// 兜底：目标用户无行、用户总数 < 2、或没有产出任何候选分数时，退化为评分兜底。
type Collaborative struct {
	Catalog core.Catalog
	Store   core.PreferenceStore

	// TopKNeighbors 考虑的相似用户数；<= 0 时使用 DefaultCFNeighbors。
	TopKNeighbors int

	// TopK 返回 TopK 个物品；<= 0 表示不截断。
	TopK int
}

func (r *Collaborative) Name() string        { return "recall.collaborative" }
func (r *Collaborative) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Collaborative) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.Store == nil {
		return nil, core.ErrNotFitted
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}

	snap, err := r.Store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rated := rctx.Rated()

	// 用户×电影 矩阵的稀疏行形式
	matrix := make(map[string]map[int64]float64, len(snap))
	for user, prefs := range snap {
		if len(prefs) == 0 {
			continue
		}
		row := make(map[int64]float64, len(prefs))
		for movieID, liked := range prefs {
			if liked {
				row[movieID] = 1
			} else {
				row[movieID] = -1
			}
		}
		matrix[user] = row
	}

	targetRow, hasRow := matrix[rctx.UserID]
	if !hasRow || len(matrix) < 2 {
		return r.fallback(rated), nil
	}

	// 目标用户与其他用户的余弦相似度；只保留正相似度
	type userSim struct {
		userID string
		sim    float64
	}
	sims := make([]userSim, 0, len(matrix)-1)
	for user, row := range matrix {
		if user == rctx.UserID {
			continue
		}
		if sim := vecmath.CosineSparse(targetRow, row); sim > 0 {
			sims = append(sims, userSim{userID: user, sim: sim})
		}
	}
	// 相似度降序，平局按用户 ID 升序，保证确定性
	sort.Slice(sims, func(i, j int) bool {
		if sims[i].sim != sims[j].sim {
			return sims[i].sim > sims[j].sim
		}
		return sims[i].userID < sims[j].userID
	})
	topK := r.TopKNeighbors
	if topK <= 0 {
		topK = DefaultCFNeighbors
	}
	if len(sims) > topK {
		sims = sims[:topK]
	}

	// 邻居喜欢的电影加权累加：score[movie] += 邻居相似度
	scores := make(map[int64]float64)
	for _, s := range sims {
		for movieID, liked := range snap[s.userID] {
			if !liked || rated[movieID] {
				continue
			}
			scores[movieID] += s.sim
		}
	}

	if len(scores) == 0 {
		return r.fallback(rated), nil
	}

	ids := make([]int64, 0, len(scores))
	for movieID := range scores {
		ids = append(ids, movieID)
	}
	// 分数降序，平局按目录位置升序；不在目录中的候选最后按 ID 升序
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return r.catalogLess(ids[i], ids[j])
	})

	out := make([]*core.Item, 0, len(ids))
	for _, movieID := range ids {
		it := core.NewItem(movieID)
		it.Score = scores[movieID]
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}
	if r.TopK > 0 && len(out) > r.TopK {
		out = out[:r.TopK]
	}
	return out, nil
}

func (r *Collaborative) fallback(rated map[int64]bool) []*core.Item {
	out := rankByRating(r.Catalog.All(), rated)
	for _, it := range out {
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		it.PutLabel("fallback", utils.Label{Value: "toprated", Source: "recall"})
	}
	if r.TopK > 0 && len(out) > r.TopK {
		out = out[:r.TopK]
	}
	return out
}

func (r *Collaborative) catalogLess(a, b int64) bool {
	ia, oka := r.Catalog.Index(a)
	ib, okb := r.Catalog.Index(b)
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
