package filter

import (
	"context"
	"testing"

	"github.com/cinekit/cinekit/core"
)

func TestRatedFilter(t *testing.T) {
	f := NewRatedFilter()
	rctx := &core.RecommendContext{
		UserID:   "alice",
		Liked:    []int64{1},
		Disliked: []int64{2},
	}

	tests := []struct {
		name string
		item *core.Item
		want bool
	}{
		{name: "liked movie filtered", item: core.NewItem(1), want: true},
		{name: "disliked movie filtered", item: core.NewItem(2), want: true},
		{name: "unrated movie kept", item: core.NewItem(3), want: false},
		{name: "nil item filtered", item: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), rctx, tt.item)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDSLFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "alice"}

	tests := []struct {
		name  string
		expr  string
		score float64
		want  bool
	}{
		{name: "negative score filtered", expr: "item.score < 0.0", score: -1, want: true},
		{name: "positive score kept", expr: "item.score < 0.0", score: 0.5, want: false},
		{name: "empty expression keeps everything", expr: "", score: -1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := core.NewItem(1)
			it.Score = tt.score

			got, err := NewDSLFilter(tt.expr).ShouldFilter(context.Background(), rctx, it)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNodeCombines(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		NewRatedFilter(),
		NewDSLFilter("item.score < 0.0"),
	}}
	rctx := &core.RecommendContext{UserID: "alice", Liked: []int64{1}}

	neg := core.NewItem(3)
	neg.Score = -0.5
	keep := core.NewItem(2)
	keep.Score = 0.9

	out, err := node.Process(context.Background(), rctx, []*core.Item{
		core.NewItem(1), // rated
		neg,             // negative score
		keep,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("Process() kept %v, want only movie 2", out)
	}
}
