package recall

import (
	"context"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/feature"
	"github.com/cinekit/cinekit/pipeline"
	"github.com/cinekit/cinekit/pkg/utils"
	"github.com/cinekit/cinekit/pkg/vecmath"
)

// 混合召回的默认配置。
const (
	DefaultHybridContentWeight       = 0.6
	DefaultHybridCollaborativeWeight = 0.4
	DefaultHybridMaxFeatures         = 1000
	DefaultHybridNeighbors           = 10

	// 邻居发现要求两个用户至少共同评价过的电影数
	hybridMinCommonMovies = 2

	// ratedSentinel 是已评价电影的内部哨兵分数。
	// 仅用于打分阶段，不承担排除职责：排除由 filter.RatedFilter 结构化保证。
	ratedSentinel = -1.0
)

// Hybrid 是加权混合召回源：独立维护自己的内容向量与协同信号，线性融合两路分数。
//
//   - 内容分数：profile = Σ喜欢向量 − Σ不喜欢向量，L2 归一化后与每部电影向量算余弦
//   - 协同分数：按 |皮尔逊相关系数| 取 Top 10 邻居（共同评价 >= 2 部，NaN 丢弃），
//     预测分 = Σ sim·rating / Σ|sim|
//   - 融合：combined = ContentWeight·content + CollaborativeWeight·collaborative
//
// 与 Collaborative 每次重建矩阵不同，Hybrid 的 用户×电影 表通过
// ObservePreference 以 O(1) 增量更新；每用户的邻居缓存在该用户偏好变化时失效。
type Hybrid struct {
	ContentWeight       float64
	CollaborativeWeight float64

	// MaxFeatures 是混合内容向量的词表上限；<= 0 时使用 DefaultHybridMaxFeatures。
	MaxFeatures int

	// TopKNeighbors 考虑的邻居数；<= 0 时使用 DefaultHybridNeighbors。
	TopKNeighbors int

	// TopK 返回 TopK 个物品；<= 0 表示不截断。
	TopK int

	mu       sync.Mutex
	movies   []core.Movie
	index    map[int64]int
	rows     [][]float64 // 每部电影的 L2 归一化 TF-IDF 向量
	dim      int
	prefs    map[string]map[int64]float64 // user -> movie -> ±1（增量维护）
	simCache map[string][]neighbor        // user -> 邻居缓存
	fitted   bool
}

type neighbor struct {
	userID string
	sim    float64
}

// NewHybrid 创建混合召回源。负数权重返回 core.ErrInvalidWeights：
// 负权重会把 -1 哨兵分数翻成正分，破坏融合排序的单调性。
func NewHybrid(contentWeight, collaborativeWeight float64) (*Hybrid, error) {
	if contentWeight < 0 || collaborativeWeight < 0 {
		return nil, core.ErrInvalidWeights
	}
	return &Hybrid{
		ContentWeight:       contentWeight,
		CollaborativeWeight: collaborativeWeight,
		prefs:               make(map[string]map[int64]float64),
		simCache:            make(map[string][]neighbor),
	}, nil
}

func (r *Hybrid) Name() string        { return "recall.hybrid" }
func (r *Hybrid) Kind() pipeline.Kind { return pipeline.KindRecall }

// Fit 在电影目录上训练内容向量。目录为空时返回 core.ErrEmptyCorpus。
// 幂等：重新 fit 完全替换内容侧状态；偏好表与 fit 无关，保持不变。
func (r *Hybrid) Fit(movies []core.Movie) error {
	if len(movies) == 0 {
		return core.ErrEmptyCorpus
	}

	maxFeatures := r.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultHybridMaxFeatures
	}

	// 混合策略的特征文本额外包含片名
	docs := make([]string, len(movies))
	for i, m := range movies {
		docs[i] = m.Title + " " + m.FeatureText()
	}
	vec := feature.NewVectorizer(maxFeatures)
	rows := vec.FitTransform(docs)

	index := make(map[int64]int, len(movies))
	for i, m := range movies {
		index[m.ID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.movies = append([]core.Movie(nil), movies...)
	r.index = index
	r.rows = rows
	r.dim = vec.VocabSize()
	r.fitted = true
	return nil
}

// Fitted 返回是否已完成 fit。
func (r *Hybrid) Fitted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fitted
}

// ObservePreference 增量更新 用户×电影 表（O(1)），并失效该用户的邻居缓存。
// 后写覆盖先写；未知 movie ID 照常接受。
func (r *Hybrid) ObservePreference(userID string, movieID int64, liked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prefs[userID] == nil {
		r.prefs[userID] = make(map[int64]float64)
	}
	if liked {
		r.prefs[userID][movieID] = 1
	} else {
		r.prefs[userID][movieID] = -1
	}
	delete(r.simCache, userID)
}

// Process 实现 Node 接口，直接调用 Recall
func (r *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。未 fit 时返回 core.ErrNotFitted。
// 两路分数向量并发计算后线性融合；已评价电影不进入候选集。
func (r *Hybrid) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if !r.Fitted() {
		return nil, core.ErrNotFitted
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}

	var contentScores, collabScores []float64
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		contentScores = r.contentScores(rctx.Liked, rctx.Disliked)
		return nil
	})
	eg.Go(func() error {
		collabScores = r.collaborativeScores(rctx.UserID, rctx.Liked, rctx.Disliked)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	rated := rctx.Rated()
	out := make([]*core.Item, 0, len(r.movies))
	for i, m := range r.movies {
		if rated[m.ID] {
			continue
		}
		it := core.NewItem(m.ID)
		it.Score = r.ContentWeight*contentScores[i] + r.CollaborativeWeight*collabScores[i]
		it.PutLabel("recall_source", utils.Label{Value: "hybrid", Source: "recall"})
		out = append(out, it)
	}
	// 分数降序，平局保持目录顺序
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if r.TopK > 0 && len(out) > r.TopK {
		out = out[:r.TopK]
	}
	return out, nil
}

// contentScores 计算每部电影（按目录位置）的内容分数。
// 无任何偏好时全 0；已评价电影为哨兵分数 -1。
func (r *Hybrid) contentScores(liked, disliked []int64) []float64 {
	scores := make([]float64, len(r.movies))
	if len(liked) == 0 && len(disliked) == 0 {
		return scores
	}

	// profile = Σ喜欢向量 − Σ不喜欢向量（未知 ID 静默跳过）
	profile := make([]float64, r.dim)
	for _, movieID := range liked {
		if i, ok := r.index[movieID]; ok {
			for j, v := range r.rows[i] {
				profile[j] += v
			}
		}
	}
	for _, movieID := range disliked {
		if i, ok := r.index[movieID]; ok {
			for j, v := range r.rows[i] {
				profile[j] -= v
			}
		}
	}
	vecmath.Normalize(profile)

	rated := make(map[int64]bool, len(liked)+len(disliked))
	for _, id := range liked {
		rated[id] = true
	}
	for _, id := range disliked {
		rated[id] = true
	}

	for i, m := range r.movies {
		if rated[m.ID] {
			scores[i] = ratedSentinel
			continue
		}
		// 行已归一化，profile 已归一化，余弦退化为点积
		scores[i] = vecmath.Dot(profile, r.rows[i])
	}
	return scores
}

// collaborativeScores 计算每部电影（按目录位置）的协同预测分数。
// 用户不在表中、用户总数 < 2 或邻居池为空时全 0；已评价电影为哨兵分数 -1。
func (r *Hybrid) collaborativeScores(userID string, liked, disliked []int64) []float64 {
	scores := make([]float64, len(r.movies))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[userID]; !ok || len(r.prefs) < 2 {
		return scores
	}

	neighbors := r.neighborsLocked(userID)
	if len(neighbors) == 0 {
		return scores
	}

	rated := make(map[int64]bool, len(liked)+len(disliked))
	for _, id := range liked {
		rated[id] = true
	}
	for _, id := range disliked {
		rated[id] = true
	}

	for i, m := range r.movies {
		if rated[m.ID] {
			scores[i] = ratedSentinel
			continue
		}
		// 相似度加权平均：Σ sim·rating / Σ|sim|
		var numerator, denominator float64
		for _, nb := range neighbors {
			if rating, ok := r.prefs[nb.userID][m.ID]; ok {
				numerator += nb.sim * rating
				denominator += math.Abs(nb.sim)
			}
		}
		if denominator > 0 {
			scores[i] = numerator / denominator
		}
	}
	return scores
}

// neighborsLocked 返回用户的邻居列表（按 |皮尔逊相关系数| 降序的 Top K）。
// 结果按用户缓存，该用户偏好变化时失效。调用方必须持有 r.mu。
func (r *Hybrid) neighborsLocked(userID string) []neighbor {
	if cached, ok := r.simCache[userID]; ok {
		return cached
	}

	userPrefs, ok := r.prefs[userID]
	if !ok {
		return nil
	}

	neighbors := make([]neighbor, 0, len(r.prefs)-1)
	for other, otherPrefs := range r.prefs {
		if other == userID {
			continue
		}

		// 共同评价过的电影
		var x, y []float64
		for movieID, rating := range userPrefs {
			if otherRating, ok := otherPrefs[movieID]; ok {
				x = append(x, rating)
				y = append(y, otherRating)
			}
		}
		if len(x) < hybridMinCommonMovies {
			continue
		}

		// 方差为 0 时相关系数无定义（NaN），丢弃
		corr := vecmath.Pearson(x, y)
		if math.IsNaN(corr) {
			continue
		}
		neighbors = append(neighbors, neighbor{userID: other, sim: corr})
	}

	// |相关系数| 降序，平局按用户 ID 升序，保证确定性
	sort.Slice(neighbors, func(i, j int) bool {
		ai, aj := math.Abs(neighbors[i].sim), math.Abs(neighbors[j].sim)
		if ai != aj {
			return ai > aj
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	topK := r.TopKNeighbors
	if topK <= 0 {
		topK = DefaultHybridNeighbors
	}
	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}

	r.simCache[userID] = neighbors
	return neighbors
}
