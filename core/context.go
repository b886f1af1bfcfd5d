package core

import "github.com/cinekit/cinekit/pkg/utils"

// RecommendContext 承载一次推荐请求的用户信息，贯穿整个 Pipeline 透传。
//
// Liked / Disliked 是请求开始时从 PreferenceStore 取出的快照：
// 推荐计算过程中并发写入的偏好不会影响本次请求看到的矩阵。
type RecommendContext struct {
	UserID string

	// Liked / Disliked 是用户的喜欢/不喜欢电影 ID 快照，互不相交。
	Liked    []int64
	Disliked []int64

	// Labels 是用户级标签，可驱动 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（场景、实验分组等）。
	Params map[string]any
}

// IsRated 判断电影是否已被该用户评价过（喜欢或不喜欢）。
func (rctx *RecommendContext) IsRated(movieID int64) bool {
	for _, id := range rctx.Liked {
		if id == movieID {
			return true
		}
	}
	for _, id := range rctx.Disliked {
		if id == movieID {
			return true
		}
	}
	return false
}

// Rated 返回已评价电影 ID 的集合（liked ∪ disliked）。
func (rctx *RecommendContext) Rated() map[int64]bool {
	rated := make(map[int64]bool, len(rctx.Liked)+len(rctx.Disliked))
	for _, id := range rctx.Liked {
		rated[id] = true
	}
	for _, id := range rctx.Disliked {
		rated[id] = true
	}
	return rated
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
