// Package feature 提供从电影文本元数据提取 TF-IDF 特征向量的能力。
package feature

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Vectorizer 是 TF-IDF 向量化器：
//   - 分词：小写化，按非字母数字切分，丢弃单字符 token
//   - 停用词：英文停用词表剔除
//   - n-gram：unigram + bigram（bigram 在停用词剔除后相邻拼接）
//   - 词表：总词频 Top MaxFeatures（并列时按字典序），索引按字典序分配
//   - idf：平滑公式 ln((1+n)/(1+df)) + 1
//   - 输出：每行 L2 归一化的稠密向量
//
// FitTransform 幂等：重复调用会完全替换词表与 idf，不残留旧状态。
type Vectorizer struct {
	// MaxFeatures 是词表上限；<= 0 表示不设上限。
	MaxFeatures int

	vocab  map[string]int
	terms  []string
	idf    []float64
	fitted bool
}

// NewVectorizer 创建向量化器。
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Fitted 返回是否已完成一次 FitTransform。
func (v *Vectorizer) Fitted() bool { return v.fitted }

// VocabSize 返回词表大小（向量维度）。
func (v *Vectorizer) VocabSize() int { return len(v.terms) }

// Vocabulary 返回 term -> 向量下标 的词表（只读）。
func (v *Vectorizer) Vocabulary() map[string]int { return v.vocab }

// FitTransform 在语料上学习词表与 idf，并返回每篇文档的 TF-IDF 向量。
// 行与 docs 一一对应；语料为空时返回 nil。
func (v *Vectorizer) FitTransform(docs []string) [][]float64 {
	// 重置全部状态，保证幂等
	v.vocab = nil
	v.terms = nil
	v.idf = nil
	v.fitted = false

	if len(docs) == 0 {
		return nil
	}

	// 每篇文档的词频 + 语料总词频 + 文档频率
	docCounts := make([]map[string]int, len(docs))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		counts := make(map[string]int)
		for _, tok := range Tokenize(doc) {
			counts[tok]++
		}
		docCounts[i] = counts
		for term, c := range counts {
			corpusFreq[term] += c
			docFreq[term]++
		}
	}

	// 词表截断：按总词频降序，并列按字典序，取前 MaxFeatures
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	// 向量下标按字典序分配，保证确定性
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}

	// 平滑 idf：ln((1+n)/(1+df)) + 1
	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	v.vocab = vocab
	v.terms = terms
	v.idf = idf
	v.fitted = true

	// tf * idf，行 L2 归一化
	rows := make([][]float64, len(docs))
	for i, counts := range docCounts {
		row := make([]float64, len(terms))
		for term, c := range counts {
			if j, ok := vocab[term]; ok {
				row[j] = float64(c) * idf[j]
			}
		}
		l2normalize(row)
		rows[i] = row
	}
	return rows
}

// Tokenize 分词：小写化，按非字母数字切分，丢弃单字符与停用词，
// 再在剩余 token 序列上拼接 bigram。
func Tokenize(s string) []string {
	raw := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	kept := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	out := make([]string, 0, 2*len(kept))
	out = append(out, kept...)
	for i := 0; i+1 < len(kept); i++ {
		out = append(out, kept[i]+" "+kept[i+1])
	}
	return out
}

func l2normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}
