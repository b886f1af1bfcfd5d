package store

import (
	"context"
	"reflect"
	"testing"
)

func TestMemoryStoreRecordAndPreferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, p := range []struct {
		movie int64
		liked bool
	}{
		{3, true},
		{1, true},
		{2, false},
	} {
		if err := s.Record(ctx, "alice", p.movie, p.liked); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	liked, disliked, err := s.Preferences(ctx, "alice")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if !reflect.DeepEqual(liked, []int64{1, 3}) {
		t.Errorf("liked = %v, want [1 3] (sorted)", liked)
	}
	if !reflect.DeepEqual(disliked, []int64{2}) {
		t.Errorf("disliked = %v, want [2]", disliked)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Record(ctx, "alice", 1, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, "alice", 1, false); err != nil {
		t.Fatal(err)
	}

	liked, disliked, err := s.Preferences(ctx, "alice")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if len(liked) != 0 {
		t.Errorf("liked = %v, want empty after overwrite", liked)
	}
	if !reflect.DeepEqual(disliked, []int64{1}) {
		t.Errorf("disliked = %v, want [1]", disliked)
	}
}

func TestMemoryStoreUnknownUser(t *testing.T) {
	s := NewMemoryStore()
	liked, disliked, err := s.Preferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if len(liked) != 0 || len(disliked) != 0 {
		t.Errorf("unknown user prefs = %v / %v, want empty lists", liked, disliked)
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Record(ctx, "alice", 1, true); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// a write after the snapshot must not leak into it
	if err := s.Record(ctx, "alice", 2, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := snap["alice"][2]; ok {
		t.Error("snapshot should not see writes made after it was taken")
	}

	// mutating the snapshot must not affect the store
	snap["alice"][1] = false
	liked, _, err := s.Preferences(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(liked, []int64{1}) {
		t.Errorf("store was mutated through the snapshot: liked = %v, want [1]", liked)
	}
}
