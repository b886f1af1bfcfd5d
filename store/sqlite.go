package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cinekit/cinekit/core"
)

// SQLiteStore 是 SQLite 实现的 PreferenceStore，用于单机持久化。
// (user_id, movie_id) 为主键，UPSERT 实现覆盖语义。
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	user_id  TEXT    NOT NULL,
	movie_id INTEGER NOT NULL,
	liked    INTEGER NOT NULL,
	PRIMARY KEY (user_id, movie_id)
);
`

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Record(ctx context.Context, userID string, movieID int64, liked bool) error {
	value := 0
	if liked {
		value = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, movie_id, liked) VALUES (?, ?, ?)
		ON CONFLICT(user_id, movie_id) DO UPDATE SET liked = excluded.liked`,
		userID, movieID, value)
	return err
}

func (s *SQLiteStore) Preferences(ctx context.Context, userID string) ([]int64, []int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT movie_id, liked FROM preferences WHERE user_id = ? ORDER BY movie_id`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	liked := []int64{}
	disliked := []int64{}
	for rows.Next() {
		var movieID int64
		var l int
		if err := rows.Scan(&movieID, &l); err != nil {
			return nil, nil, err
		}
		if l != 0 {
			liked = append(liked, movieID)
		} else {
			disliked = append(disliked, movieID)
		}
	}
	return liked, disliked, rows.Err()
}

func (s *SQLiteStore) Snapshot(ctx context.Context) (map[string]map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, movie_id, liked FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := make(map[string]map[int64]bool)
	for rows.Next() {
		var user string
		var movieID int64
		var l int
		if err := rows.Scan(&user, &movieID, &l); err != nil {
			return nil, err
		}
		if snap[user] == nil {
			snap[user] = make(map[int64]bool)
		}
		snap[user][movieID] = l != 0
	}
	return snap, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sortInt64s(s []int64) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

var _ core.PreferenceStore = (*SQLiteStore)(nil)
