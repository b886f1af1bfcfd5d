package recall

import (
	"sort"

	"github.com/cinekit/cinekit/pkg/vecmath"
)

// Explanation 解释混合策略对某部电影的打分：两路分数、权重、融合分，
// 以及支撑证据（最相似的已喜欢电影、喜欢过该电影的邻居）。
// 所有分数保留 3 位小数，且 CombinedScore 恒等于
// Round3(ContentWeight·ContentScore + CollaborativeWeight·CollaborativeScore)。
type Explanation struct {
	MovieID             int64           `json:"movie_id"`
	MovieTitle          string          `json:"movie_title"`
	ContentScore        float64         `json:"content_score"`
	CollaborativeScore  float64         `json:"collaborative_score"`
	CombinedScore       float64         `json:"combined_score"`
	ContentWeight       float64         `json:"content_weight"`
	CollaborativeWeight float64         `json:"collaborative_weight"`
	SimilarLiked        []SimilarMovie `json:"similar_liked_movies"`
	SimilarUsers        []NeighborVote `json:"similar_users_who_liked"`
}

// SimilarMovie 是解释中的一条内容证据：用户喜欢过的、与目标电影相似的电影。
type SimilarMovie struct {
	MovieID    int64   `json:"movie_id"`
	MovieTitle string  `json:"movie_title"`
	Similarity float64 `json:"similarity"`
}

// NeighborVote 是解释中的一条协同证据：喜欢过目标电影的相似用户。
type NeighborVote struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
	Rating     float64 `json:"rating"`
}

// 每类证据最多展示的条数
const maxEvidence = 3

// Explain 解释混合策略对目标电影的打分。
// 未 fit 或电影不在目录中时返回 (零值, false)。
func (r *Hybrid) Explain(
	userID string,
	movieID int64,
	liked, disliked []int64,
) (Explanation, bool) {
	r.mu.Lock()
	fitted := r.fitted
	idx, known := r.index[movieID]
	r.mu.Unlock()
	if !fitted || !known {
		return Explanation{}, false
	}

	contentScore := r.contentScores(liked, disliked)[idx]
	collabScore := r.collaborativeScores(userID, liked, disliked)[idx]

	// 融合分从已取整的两路分数计算，保证文档化的恒等式精确成立
	roundedContent := vecmath.Round3(contentScore)
	roundedCollab := vecmath.Round3(collabScore)
	combined := vecmath.Round3(
		r.ContentWeight*roundedContent + r.CollaborativeWeight*roundedCollab,
	)

	exp := Explanation{
		MovieID:             movieID,
		MovieTitle:          r.movies[idx].Title,
		ContentScore:        roundedContent,
		CollaborativeScore:  roundedCollab,
		CombinedScore:       combined,
		ContentWeight:       r.ContentWeight,
		CollaborativeWeight: r.CollaborativeWeight,
		SimilarLiked:        r.similarLiked(idx, liked),
		SimilarUsers:        r.similarUsers(userID, movieID),
	}
	return exp, true
}

// similarLiked 返回与目标电影最相似的、用户喜欢过的电影（最多 3 条）。
func (r *Hybrid) similarLiked(targetIdx int, liked []int64) []SimilarMovie {
	evidence := make([]SimilarMovie, 0, len(liked))
	for _, movieID := range liked {
		i, ok := r.index[movieID]
		if !ok || i == targetIdx {
			continue
		}
		// 行已归一化，余弦退化为点积
		sim := vecmath.Dot(r.rows[targetIdx], r.rows[i])
		evidence = append(evidence, SimilarMovie{
			MovieID:    movieID,
			MovieTitle: r.movies[i].Title,
			Similarity: vecmath.Round3(sim),
		})
	}
	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].Similarity > evidence[j].Similarity
	})
	if len(evidence) > maxEvidence {
		evidence = evidence[:maxEvidence]
	}
	return evidence
}

// similarUsers 返回喜欢过目标电影的邻居（按相似度降序，最多 3 条）。
func (r *Hybrid) similarUsers(userID string, movieID int64) []NeighborVote {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[userID]; !ok || len(r.prefs) < 2 {
		return nil
	}

	votes := make([]NeighborVote, 0, maxEvidence)
	for _, nb := range r.neighborsLocked(userID) {
		rating, ok := r.prefs[nb.userID][movieID]
		if !ok || rating <= 0 {
			continue
		}
		votes = append(votes, NeighborVote{
			UserID:     nb.userID,
			Similarity: vecmath.Round3(nb.sim),
			Rating:     rating,
		})
	}
	// 邻居列表已按 |相关系数| 降序；证据按带符号相似度重排
	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].Similarity > votes[j].Similarity
	})
	if len(votes) > maxEvidence {
		votes = votes[:maxEvidence]
	}
	return votes
}
