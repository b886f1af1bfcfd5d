package recall

import (
	"context"
	"testing"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/pkg/vecmath"
)

func fittedHybrid(t *testing.T) *Hybrid {
	t.Helper()
	h, err := NewHybrid(DefaultHybridContentWeight, DefaultHybridCollaborativeWeight)
	if err != nil {
		t.Fatalf("NewHybrid() error = %v", err)
	}
	if err := h.Fit(contentTestMovies()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return h
}

func TestNewHybridRejectsNegativeWeights(t *testing.T) {
	tests := []struct {
		name   string
		wc, wf float64
		wantOK bool
	}{
		{name: "defaults", wc: 0.6, wf: 0.4, wantOK: true},
		{name: "zero weights allowed", wc: 0, wf: 0, wantOK: true},
		{name: "negative content weight", wc: -0.1, wf: 0.4},
		{name: "negative collaborative weight", wc: 0.6, wf: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHybrid(tt.wc, tt.wf)
			if tt.wantOK {
				if err != nil {
					t.Errorf("NewHybrid() error = %v, want nil", err)
				}
				return
			}
			if !core.IsInvalidInput(err) {
				t.Errorf("NewHybrid() error = %v, want invalid input", err)
			}
		})
	}
}

func TestHybridNotFitted(t *testing.T) {
	h, err := NewHybrid(0.6, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Recall(context.Background(), &core.RecommendContext{UserID: "alice"}); !core.IsNotFitted(err) {
		t.Errorf("Recall() error = %v, want not fitted", err)
	}
	if _, ok := h.Explain("alice", 1, nil, nil); ok {
		t.Error("Explain() should report false before Fit")
	}
}

func TestHybridFitEmptyCorpus(t *testing.T) {
	h, err := NewHybrid(0.6, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Fit(nil); !core.IsEmptyCorpus(err) {
		t.Errorf("Fit(nil) error = %v, want empty corpus", err)
	}
}

func TestHybridExcludesRated(t *testing.T) {
	h := fittedHybrid(t)
	h.ObservePreference("alice", 1, true)

	items, err := h.Recall(context.Background(), &core.RecommendContext{
		UserID: "alice",
		Liked:  []int64{1},
	})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	for _, it := range items {
		if it.ID == 1 {
			t.Fatal("rated movie 1 must not appear in candidates")
		}
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestHybridContentSignalRanksSimilarFirst(t *testing.T) {
	h := fittedHybrid(t)
	// single user: collaborative side contributes zeros
	h.ObservePreference("alice", 1, true)

	items, err := h.Recall(context.Background(), &core.RecommendContext{
		UserID: "alice",
		Liked:  []int64{1},
	})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	got := itemIDs(items)
	if len(got) != 2 || got[0] != 3 {
		t.Fatalf("order = %v, want movie 3 (similar content) first", got)
	}
}

func TestHybridCollaborativePrediction(t *testing.T) {
	h := fittedHybrid(t)
	// alice and bob agree perfectly on movies 1 and 2; bob also likes 3
	h.ObservePreference("alice", 1, true)
	h.ObservePreference("alice", 2, false)
	h.ObservePreference("bob", 1, true)
	h.ObservePreference("bob", 2, false)
	h.ObservePreference("bob", 3, true)

	exp, ok := h.Explain("alice", 3, []int64{1}, []int64{2})
	if !ok {
		t.Fatal("Explain() reported not found")
	}

	// pearson(alice, bob) over common movies is exactly 1,
	// so the prediction for movie 3 is bob's rating: +1
	if exp.CollaborativeScore != 1 {
		t.Errorf("CollaborativeScore = %v, want 1", exp.CollaborativeScore)
	}
	if len(exp.SimilarUsers) != 1 || exp.SimilarUsers[0].UserID != "bob" {
		t.Fatalf("SimilarUsers = %+v, want bob", exp.SimilarUsers)
	}
	if exp.SimilarUsers[0].Rating != 1 {
		t.Errorf("neighbor rating = %v, want 1", exp.SimilarUsers[0].Rating)
	}
}

func TestHybridCollaborativeZeroWithoutNeighbors(t *testing.T) {
	h := fittedHybrid(t)
	// single user: no neighbor pool
	h.ObservePreference("alice", 1, true)
	h.ObservePreference("alice", 2, true)

	exp, ok := h.Explain("alice", 3, []int64{1, 2}, nil)
	if !ok {
		t.Fatal("Explain() reported not found")
	}
	if exp.CollaborativeScore != 0 {
		t.Errorf("CollaborativeScore = %v, want 0 without neighbors", exp.CollaborativeScore)
	}
	if len(exp.SimilarUsers) != 0 {
		t.Errorf("SimilarUsers = %+v, want empty", exp.SimilarUsers)
	}
}

func TestHybridNeighborCacheInvalidation(t *testing.T) {
	h := fittedHybrid(t)
	// alice's ratings are constant (+1, +1): correlation with anyone is NaN
	h.ObservePreference("alice", 1, true)
	h.ObservePreference("alice", 2, true)
	h.ObservePreference("bob", 1, true)
	h.ObservePreference("bob", 2, false)
	h.ObservePreference("bob", 3, true)

	exp, ok := h.Explain("alice", 3, []int64{1, 2}, nil)
	if !ok {
		t.Fatal("Explain() reported not found")
	}
	if exp.CollaborativeScore != 0 {
		t.Fatalf("CollaborativeScore = %v, want 0 while correlation is undefined", exp.CollaborativeScore)
	}

	// flipping movie 2 gives alice variance and must invalidate her cached
	// (empty) neighbor list
	h.ObservePreference("alice", 2, false)
	exp, ok = h.Explain("alice", 3, []int64{1}, []int64{2})
	if !ok {
		t.Fatal("Explain() reported not found")
	}
	if exp.CollaborativeScore != 1 {
		t.Errorf("CollaborativeScore = %v after preference change, want 1", exp.CollaborativeScore)
	}
}

func TestHybridExplain(t *testing.T) {
	h := fittedHybrid(t)
	h.ObservePreference("alice", 1, true)

	exp, ok := h.Explain("alice", 3, []int64{1}, nil)
	if !ok {
		t.Fatal("Explain() reported not found")
	}

	if exp.MovieID != 3 || exp.MovieTitle != "Galaxy Quest" {
		t.Errorf("movie = %d %q", exp.MovieID, exp.MovieTitle)
	}
	if exp.ContentWeight != DefaultHybridContentWeight ||
		exp.CollaborativeWeight != DefaultHybridCollaborativeWeight {
		t.Errorf("weights = %v/%v", exp.ContentWeight, exp.CollaborativeWeight)
	}

	// combined score is derived from the rounded component scores
	want := vecmath.Round3(exp.ContentWeight*exp.ContentScore +
		exp.CollaborativeWeight*exp.CollaborativeScore)
	if exp.CombinedScore != want {
		t.Errorf("CombinedScore = %v, want %v", exp.CombinedScore, want)
	}

	// liked movie 1 is content evidence for the similar movie 3
	if len(exp.SimilarLiked) != 1 || exp.SimilarLiked[0].MovieID != 1 {
		t.Fatalf("SimilarLiked = %+v, want movie 1", exp.SimilarLiked)
	}
	if exp.SimilarLiked[0].Similarity <= 0 {
		t.Errorf("similarity = %v, want positive", exp.SimilarLiked[0].Similarity)
	}

	// unknown movie
	if _, ok := h.Explain("alice", 999, []int64{1}, nil); ok {
		t.Error("Explain() should report false for an unknown movie")
	}
}

func TestHybridRefitKeepsPreferences(t *testing.T) {
	h := fittedHybrid(t)
	h.ObservePreference("alice", 1, true)
	h.ObservePreference("alice", 2, false)
	h.ObservePreference("bob", 1, true)
	h.ObservePreference("bob", 2, false)
	h.ObservePreference("bob", 3, true)

	// refit on the same catalog: preference table survives
	if err := h.Fit(contentTestMovies()); err != nil {
		t.Fatalf("refit error = %v", err)
	}

	exp, ok := h.Explain("alice", 3, []int64{1}, []int64{2})
	if !ok {
		t.Fatal("Explain() reported not found")
	}
	if exp.CollaborativeScore != 1 {
		t.Errorf("CollaborativeScore = %v after refit, want 1", exp.CollaborativeScore)
	}
}
