package recall

import (
	"context"
	"testing"

	"github.com/cinekit/cinekit/core"
	"github.com/cinekit/cinekit/model"
)

// three movies: 1 and 3 are close in content, 2 is unrelated
func contentTestMovies() []core.Movie {
	return []core.Movie{
		{ID: 1, Title: "Deep Space", Genre: "Sci-Fi Adventure", Year: 2010, Director: "Rivera", Description: "Astronauts explore a distant galaxy", Rating: 9.0},
		{ID: 2, Title: "Quiet Garden", Genre: "Romance Drama", Year: 2015, Director: "Okafor", Description: "Two gardeners fall in love in spring", Rating: 7.0},
		{ID: 3, Title: "Galaxy Quest", Genre: "Sci-Fi Adventure", Year: 2012, Director: "Rivera", Description: "Astronauts explore strange new worlds", Rating: 8.5},
	}
}

func fittedContentModel(t *testing.T) *model.ContentModel {
	t.Helper()
	m := model.NewContentModel()
	if err := m.Fit(contentTestMovies()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return m
}

func TestContentNotFitted(t *testing.T) {
	r := &Content{Model: model.NewContentModel()}
	_, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "alice"})
	if !core.IsNotFitted(err) {
		t.Fatalf("Recall() error = %v, want not fitted", err)
	}
}

func TestContentRecommendsSimilar(t *testing.T) {
	r := &Content{Model: fittedContentModel(t)}
	items, err := r.Recall(context.Background(), &core.RecommendContext{
		UserID: "alice",
		Liked:  []int64{1},
	})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// movie 1 is rated and must be gone; 3 beats 2 on similarity
	got := itemIDs(items)
	if len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Fatalf("order = %v, want [3 2]", got)
	}
	if items[0].Score <= items[1].Score {
		t.Errorf("similar movie score %v should beat unrelated %v",
			items[0].Score, items[1].Score)
	}
}

func TestContentUnknownLikedSkipped(t *testing.T) {
	r := &Content{Model: fittedContentModel(t)}
	items, err := r.Recall(context.Background(), &core.RecommendContext{
		UserID: "alice",
		Liked:  []int64{1, 999},
	})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// unknown id contributes nothing; result matches liked=[1]
	got := itemIDs(items)
	if len(got) != 2 || got[0] != 3 {
		t.Fatalf("order = %v, want movie 3 first", got)
	}
}

func TestContentFallbackForNewUser(t *testing.T) {
	r := &Content{Model: fittedContentModel(t)}
	items, err := r.Recall(context.Background(), &core.RecommendContext{UserID: "newcomer"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// no liked movies: fall back to rating order 1(9.0), 3(8.5), 2(7.0)
	got := itemIDs(items)
	want := []int64{1, 3, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fallback order = %v, want %v", got, want)
		}
	}
	if lbl, ok := items[0].Labels["fallback"]; !ok || lbl.Value != "toprated" {
		t.Error("fallback items should carry the fallback label")
	}
}

func TestContentFallbackWhenAllLikedUnknown(t *testing.T) {
	r := &Content{Model: fittedContentModel(t)}
	items, err := r.Recall(context.Background(), &core.RecommendContext{
		UserID: "alice",
		Liked:  []int64{777, 888},
	})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want full fallback list", len(items))
	}
	if _, ok := items[0].Labels["fallback"]; !ok {
		t.Error("fallback items should carry the fallback label")
	}
}

func TestContentTruncation(t *testing.T) {
	r := &Content{Model: fittedContentModel(t), TopK: 1}
	items, err := r.Recall(context.Background(), &core.RecommendContext{
		UserID: "alice",
		Liked:  []int64{1},
	})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != 3 {
		t.Fatalf("items = %v, want just movie 3", itemIDs(items))
	}
}
