// Package model 提供推荐策略依赖的本地模型。
package model

import (
	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/feature"
	"github.com/cinekit/cinekit/pkg/vecmath"
)

// DefaultContentMaxFeatures 是内容模型 TF-IDF 词表上限。
const DefaultContentMaxFeatures = 5000

// ContentModel 是基于内容的相似度模型：
// fit 时把每部电影的 类别+导演+简介 拼成特征文本，做 TF-IDF 向量化，
// 再计算完整的 物品×物品 余弦相似度矩阵。
//
// Fit 幂等：重新 fit 会完全替换先前状态（目录变更后必须 refit，无增量更新）。
// fit 完成后矩阵只读，可跨并发请求共享。
type ContentModel struct {
	// MaxFeatures 是词表上限，<= 0 时使用 DefaultContentMaxFeatures。
	MaxFeatures int

	movies []core.Movie
	index  map[int64]int
	sim    [][]float64
	fitted bool
}

// NewContentModel 创建内容模型。
func NewContentModel() *ContentModel {
	return &ContentModel{MaxFeatures: DefaultContentMaxFeatures}
}

// Fit 在电影目录上训练模型。目录为空时返回 core.ErrEmptyCorpus。
func (m *ContentModel) Fit(movies []core.Movie) error {
	if len(movies) == 0 {
		return core.ErrEmptyCorpus
	}

	maxFeatures := m.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultContentMaxFeatures
	}

	docs := make([]string, len(movies))
	for i, mv := range movies {
		docs[i] = mv.FeatureText()
	}

	vec := feature.NewVectorizer(maxFeatures)
	rows := vec.FitTransform(docs)

	// 行已 L2 归一化，余弦相似度退化为点积
	sim := make([][]float64, len(rows))
	for i := range rows {
		sim[i] = make([]float64, len(rows))
		sim[i][i] = 1
	}
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			s := vecmath.Dot(rows[i], rows[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}

	index := make(map[int64]int, len(movies))
	for i, mv := range movies {
		index[mv.ID] = i
	}

	// 全部状态整体替换，旧矩阵不残留
	m.movies = append([]core.Movie(nil), movies...)
	m.index = index
	m.sim = sim
	m.fitted = true
	return nil
}

// Fitted 返回模型是否已完成 fit。
func (m *ContentModel) Fitted() bool { return m.fitted }

// Movies 按目录顺序返回 fit 时的电影列表（只读）。
func (m *ContentModel) Movies() []core.Movie { return m.movies }

// Len 返回 fit 时的目录大小。
func (m *ContentModel) Len() int { return len(m.movies) }

// Index 返回电影在相似度矩阵中的行号。
func (m *ContentModel) Index(movieID int64) (int, bool) {
	i, ok := m.index[movieID]
	return i, ok
}

// SimilarityRow 返回电影对应的相似度矩阵行（只读）。未知 ID 返回 (nil, false)。
func (m *ContentModel) SimilarityRow(movieID int64) ([]float64, bool) {
	i, ok := m.index[movieID]
	if !ok {
		return nil, false
	}
	return m.sim[i], true
}

// Similarity 返回两个矩阵位置之间的相似度。
func (m *ContentModel) Similarity(i, j int) float64 {
	return m.sim[i][j]
}
