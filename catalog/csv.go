package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cinekit/cinekit/core"
)

// CSV 表头：id,title,genre,year,director,description,rating
const (
	colID = iota
	colTitle
	colGenre
	colYear
	colDirector
	colDescription
	colRating
	numCols
)

// LoadFile 从 CSV 文件加载目录。
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load 从 CSV 数据流加载目录。第一行是表头，行序即目录顺序。
func Load(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numCols

	// 表头
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	var movies []core.Movie
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		m, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("parse catalog line %d: %w", line, err)
		}
		movies = append(movies, m)
	}
	return New(movies), nil
}

func parseRow(rec []string) (core.Movie, error) {
	id, err := strconv.ParseInt(rec[colID], 10, 64)
	if err != nil {
		return core.Movie{}, fmt.Errorf("id %q: %w", rec[colID], err)
	}
	year, err := strconv.Atoi(rec[colYear])
	if err != nil {
		return core.Movie{}, fmt.Errorf("year %q: %w", rec[colYear], err)
	}
	rating, err := strconv.ParseFloat(rec[colRating], 64)
	if err != nil {
		return core.Movie{}, fmt.Errorf("rating %q: %w", rec[colRating], err)
	}
	return core.Movie{
		ID:          id,
		Title:       rec[colTitle],
		Genre:       rec[colGenre],
		Year:        year,
		Director:    rec[colDirector],
		Description: rec[colDescription],
		Rating:      rating,
	}, nil
}
