// Package vecmath 提供召回打分共用的向量数学：点积、范数、余弦相似度、皮尔逊相关系数。
package vecmath

import "math"

// Dot 计算两个等长向量的点积。长度不一致时按较短的一方截断。
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	return dot
}

// Norm 计算向量的 L2 范数。
func Norm(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize 将向量原地 L2 归一化；零向量保持不变。
func Normalize(a []float64) {
	n := Norm(a)
	if n == 0 {
		return
	}
	for i := range a {
		a[i] /= n
	}
}

// Cosine 计算余弦相似度，范围 [-1, 1]。任一向量为零向量时返回 0。
func Cosine(a, b []float64) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// CosineSparse 计算稀疏向量（map 形式）的余弦相似度。
// 未出现的 key 视为 0。任一向量为零向量时返回 0。
func CosineSparse(a, b map[int64]float64) float64 {
	var dot, normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Pearson 计算皮尔逊相关系数，范围 [-1, 1]。
// 任一序列方差为 0 或长度不足 2 时相关系数无定义，返回 NaN；
// 调用方应按需丢弃 NaN（邻居发现即如此处理）。
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}

	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(len(x))
	meanY /= float64(len(y))

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// Round3 四舍五入到 3 位小数（explain 输出的统一精度）。
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
