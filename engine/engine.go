// Package engine 提供电影推荐的门面（facade）：
// 组装目录、内容模型、偏好存储与三种召回策略，
// 对外暴露 Fit / RecordPreference / Recommend / Explain 等少量入口。
package engine

import (
	"context"
	"sync"

	"github.com/cinekit/cinekit/catalog"
	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/filter"
	"github.com/cinekit/cinekit/model"
	"github.com/cinekit/cinekit/pipeline"
	"github.com/cinekit/cinekit/recall"
	"github.com/cinekit/cinekit/rerank"
)

// DefaultLimit 是 Recommend 未指定（limit <= 0）时返回的电影数。
const DefaultLimit = 10

// Engine 是推荐引擎门面。所有状态都挂在实例上（无包级全局变量），
// 同一进程可以组装多个互不影响的 Engine。
//
// 并发模型：
//   - Fit 与 Recommend/Explain 互斥（训练期间替换整套模型状态）
//   - RecordPreference 走 store 与 hybrid 各自的内部锁，不与推荐互斥
type Engine struct {
	store core.PreferenceStore

	mu      sync.RWMutex
	mode    core.Mode
	catalog *catalog.Catalog
	content *model.ContentModel
	hybrid  *recall.Hybrid
	fitted  bool

	hybridContentWeight float64
	hybridCollabWeight  float64
}

// Option 配置 Engine。
type Option func(*Engine)

// WithMode 设置初始推荐模式（默认 hybrid）。
func WithMode(mode core.Mode) Option {
	return func(e *Engine) {
		if mode.Valid() {
			e.mode = mode
		}
	}
}

// WithHybridWeights 设置混合策略的内容/协同权重
// （默认 0.6 / 0.4；负数权重在 Fit 时报 core.ErrInvalidWeights）。
func WithHybridWeights(contentWeight, collaborativeWeight float64) Option {
	return func(e *Engine) {
		e.hybridContentWeight = contentWeight
		e.hybridCollabWeight = collaborativeWeight
	}
}

// New 创建推荐引擎。store 为 nil 时使用进程内存存储的语义由调用方决定，
// 这里要求显式传入（store.NewMemoryStore() 即可）。
func New(store core.PreferenceStore, opts ...Option) *Engine {
	e := &Engine{
		store:               store,
		mode:                core.ModeHybrid,
		hybridContentWeight: recall.DefaultHybridContentWeight,
		hybridCollabWeight:  recall.DefaultHybridCollaborativeWeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fit 在电影目录上训练所有策略。目录为空时返回 core.ErrEmptyCorpus。
// 幂等：重新 Fit 完全替换目录与模型状态，旧目录不残留；
// hybrid 的偏好表会从 store 快照重新灌入，预先写入 store 的偏好也能生效。
func (e *Engine) Fit(ctx context.Context, movies []core.Movie) error {
	if len(movies) == 0 {
		return core.ErrEmptyCorpus
	}

	cat := catalog.New(movies)

	content := model.NewContentModel()
	if err := content.Fit(cat.All()); err != nil {
		return err
	}

	hybrid, err := recall.NewHybrid(e.hybridContentWeight, e.hybridCollabWeight)
	if err != nil {
		return err
	}
	if err := hybrid.Fit(cat.All()); err != nil {
		return err
	}

	// 从 store 快照灌入 hybrid 的增量偏好表
	if e.store != nil {
		snap, err := e.store.Snapshot(ctx)
		if err != nil {
			return err
		}
		for userID, prefs := range snap {
			for movieID, liked := range prefs {
				hybrid.ObservePreference(userID, movieID, liked)
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = cat
	e.content = content
	e.hybrid = hybrid
	e.fitted = true
	return nil
}

// Fitted 返回引擎是否已完成 Fit。
func (e *Engine) Fitted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fitted
}

// SetMode 切换进程级当前推荐模式；未知模式返回 core.ErrInvalidMode。
func (e *Engine) SetMode(mode core.Mode) error {
	if !mode.Valid() {
		return core.ErrInvalidMode
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
	return nil
}

// Mode 返回进程级当前推荐模式。
func (e *Engine) Mode() core.Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// RecordPreference 记录一条用户偏好（后写覆盖先写），
// 并同步更新 hybrid 的增量偏好表。未知 movie ID 照常接受。
func (e *Engine) RecordPreference(
	ctx context.Context,
	userID string,
	movieID int64,
	liked bool,
) error {
	if e.store != nil {
		if err := e.store.Record(ctx, userID, movieID, liked); err != nil {
			return err
		}
	}

	e.mu.RLock()
	hybrid := e.hybrid
	e.mu.RUnlock()
	if hybrid != nil {
		hybrid.ObservePreference(userID, movieID, liked)
	}
	return nil
}

// Preferences 返回用户的喜欢/不喜欢电影 ID 列表（按 ID 升序）。
// 未知用户返回两个空列表。
func (e *Engine) Preferences(
	ctx context.Context,
	userID string,
) (liked, disliked []int64, err error) {
	if e.store == nil {
		return nil, nil, nil
	}
	return e.store.Preferences(ctx, userID)
}

// Movie 按 ID 查询目录电影；不存在时返回 core.ErrMovieNotFound。
func (e *Engine) Movie(movieID int64) (core.Movie, error) {
	e.mu.RLock()
	cat := e.catalog
	e.mu.RUnlock()
	if cat == nil {
		return core.Movie{}, core.ErrNotFitted
	}
	m, ok := cat.Get(movieID)
	if !ok {
		return core.Movie{}, core.ErrMovieNotFound
	}
	return m, nil
}

// Movies 返回目录中的全部电影（目录顺序）。
func (e *Engine) Movies() []core.Movie {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.catalog == nil {
		return nil
	}
	return e.catalog.All()
}

// Recommend 为用户生成推荐。
//
//   - mode 为 ModeUnknown 时使用进程级当前模式，未知模式返回 core.ErrInvalidMode
//   - limit <= 0 时使用 DefaultLimit
//   - 结果只含该用户未评价过的电影，分数降序，平局按目录位置
//
// 内部以 Pipeline 形式执行：召回源 → RatedFilter → Sort → TopN。
func (e *Engine) Recommend(
	ctx context.Context,
	mode core.Mode,
	userID string,
	limit int,
) ([]core.Movie, error) {
	e.mu.RLock()
	if !e.fitted {
		e.mu.RUnlock()
		return nil, core.ErrNotFitted
	}
	if mode == core.ModeUnknown {
		mode = e.mode
	}
	cat, content, hybrid := e.catalog, e.content, e.hybrid
	e.mu.RUnlock()

	if !mode.Valid() {
		return nil, core.ErrInvalidMode
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var source pipeline.Node
	switch mode {
	case core.ModeContentBased:
		source = &recall.Content{Model: content}
	case core.ModeCollaborative:
		source = &recall.Collaborative{Catalog: cat, Store: e.store}
	case core.ModeHybrid:
		source = hybrid
	}

	rctx, err := e.buildContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		source,
		&filter.FilterNode{Filters: []filter.Filter{filter.NewRatedFilter()}},
		&rerank.SortNode{Catalog: cat},
		&rerank.TopNNode{N: limit},
	}}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]core.Movie, 0, len(items))
	for _, it := range items {
		if m, ok := cat.Get(it.ID); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// Explain 解释混合策略对某部电影的打分。
// 未 Fit 时返回 core.ErrNotFitted；电影不在目录中返回 core.ErrMovieNotFound。
func (e *Engine) Explain(
	ctx context.Context,
	userID string,
	movieID int64,
) (recall.Explanation, error) {
	e.mu.RLock()
	hybrid := e.hybrid
	e.mu.RUnlock()
	if hybrid == nil || !hybrid.Fitted() {
		return recall.Explanation{}, core.ErrNotFitted
	}

	liked, disliked, err := e.Preferences(ctx, userID)
	if err != nil {
		return recall.Explanation{}, err
	}

	exp, ok := hybrid.Explain(userID, movieID, liked, disliked)
	if !ok {
		return recall.Explanation{}, core.ErrMovieNotFound
	}
	return exp, nil
}

// buildContext 取用户偏好快照并组装 RecommendContext。
func (e *Engine) buildContext(
	ctx context.Context,
	userID string,
) (*core.RecommendContext, error) {
	rctx := &core.RecommendContext{UserID: userID}
	if e.store == nil {
		return rctx, nil
	}
	liked, disliked, err := e.store.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	rctx.Liked = liked
	rctx.Disliked = disliked
	return rctx, nil
}
