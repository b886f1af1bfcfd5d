package core

// Movie 是目录中的一条电影记录。
// 加载完成后不可变；目录（Catalog）是电影存在性的唯一事实来源。
type Movie struct {
	ID          int64
	Title       string
	Genre       string
	Year        int
	Director    string
	Description string
	Rating      float64
}

// FeatureText 返回用于内容向量化的特征文本（类别 + 导演 + 简介）。
func (m Movie) FeatureText() string {
	return m.Genre + " " + m.Director + " " + m.Description
}
