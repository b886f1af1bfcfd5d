package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cinekit/cinekit/core"
)

// MemoryStore 是内存实现的 PreferenceStore，用于测试/开发/原型。
// 写入以 RWMutex 串行化；Snapshot 返回深拷贝，
// 推荐计算期间的并发写入不会产生半更新的矩阵。
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]map[int64]bool // user -> movie -> liked
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefs: make(map[string]map[int64]bool),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Record(ctx context.Context, userID string, movieID int64, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs[userID] == nil {
		m.prefs[userID] = make(map[int64]bool)
	}
	// 后写覆盖先写，无历史
	m.prefs[userID][movieID] = liked
	return nil
}

func (m *MemoryStore) Preferences(ctx context.Context, userID string) ([]int64, []int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	liked := []int64{}
	disliked := []int64{}
	for movieID, l := range m.prefs[userID] {
		if l {
			liked = append(liked, movieID)
		} else {
			disliked = append(disliked, movieID)
		}
	}
	sort.Slice(liked, func(i, j int) bool { return liked[i] < liked[j] })
	sort.Slice(disliked, func(i, j int) bool { return disliked[i] < disliked[j] })
	return liked, disliked, nil
}

func (m *MemoryStore) Snapshot(ctx context.Context) (map[string]map[int64]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := make(map[string]map[int64]bool, len(m.prefs))
	for user, prefs := range m.prefs {
		row := make(map[int64]bool, len(prefs))
		for movieID, liked := range prefs {
			row[movieID] = liked
		}
		snap[user] = row
	}
	return snap, nil
}

func (m *MemoryStore) Close() error { return nil }

var _ core.PreferenceStore = (*MemoryStore)(nil)
