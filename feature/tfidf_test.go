package feature

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercase and split on non-alphanumeric",
			in:   "Sci-Fi Action!",
			want: []string{"sci", "fi", "action", "sci fi", "fi action"},
		},
		{
			name: "stop words removed before bigrams",
			in:   "the matrix of dreams",
			want: []string{"matrix", "dreams", "matrix dreams"},
		},
		{
			name: "single characters dropped",
			in:   "a b matrix",
			want: []string{"matrix"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVectorizerFitTransform(t *testing.T) {
	v := NewVectorizer(0)
	rows := v.FitTransform([]string{
		"space adventure",
		"space drama",
	})

	if !v.Fitted() {
		t.Fatal("Fitted() = false after FitTransform")
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if len(rows[0]) != v.VocabSize() {
		t.Fatalf("row dim = %d, want vocab size %d", len(rows[0]), v.VocabSize())
	}

	// vocabulary: adventure, drama, space, space adventure, space drama (sorted)
	wantTerms := []string{"adventure", "drama", "space", "space adventure", "space drama"}
	if v.VocabSize() != len(wantTerms) {
		t.Fatalf("vocab size = %d, want %d", v.VocabSize(), len(wantTerms))
	}
	for i, term := range wantTerms {
		if idx, ok := v.Vocabulary()[term]; !ok || idx != i {
			t.Errorf("vocab[%q] = %d (ok=%v), want %d", term, idx, ok, i)
		}
	}

	// every row is L2-normalized
	for i, row := range rows {
		var sum float64
		for _, x := range row {
			sum += x * x
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-9 {
			t.Errorf("row %d norm = %v, want 1", i, math.Sqrt(sum))
		}
	}

	// "space" appears in both docs, so its idf is lower than "adventure"'s;
	// within row 0 the shared term must get less weight than the unique one
	vocab := v.Vocabulary()
	if rows[0][vocab["space"]] >= rows[0][vocab["adventure"]] {
		t.Errorf("shared term weight %v should be below unique term weight %v",
			rows[0][vocab["space"]], rows[0][vocab["adventure"]])
	}
}

func TestVectorizerMaxFeatures(t *testing.T) {
	v := NewVectorizer(2)
	v.FitTransform([]string{
		"alpha alpha alpha beta beta gamma",
	})

	// cap keeps highest corpus frequency first: alpha (3), then the tie at
	// frequency 2 between "alpha alpha" and "beta" resolves lexicographically
	if v.VocabSize() != 2 {
		t.Fatalf("vocab size = %d, want 2", v.VocabSize())
	}
	if _, ok := v.Vocabulary()["alpha"]; !ok {
		t.Error("vocab should keep alpha")
	}
	if _, ok := v.Vocabulary()["alpha alpha"]; !ok {
		t.Error("vocab should keep the bigram over beta on the frequency tie")
	}
}

func TestVectorizerRefitReplacesState(t *testing.T) {
	v := NewVectorizer(0)
	v.FitTransform([]string{"alpha beta"})
	first := v.VocabSize()

	v.FitTransform([]string{"gamma delta epsilon"})
	if _, ok := v.Vocabulary()["alpha"]; ok {
		t.Error("old vocabulary should not survive a refit")
	}
	if v.VocabSize() == first {
		t.Error("vocab size should reflect the new corpus only")
	}

	// empty corpus resets to unfitted
	if got := v.FitTransform(nil); got != nil {
		t.Errorf("FitTransform(nil) = %v, want nil", got)
	}
	if v.Fitted() {
		t.Error("Fitted() = true after fitting an empty corpus")
	}
}
