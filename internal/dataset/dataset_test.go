package dataset

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/bft-labs/speechprep/internal/domain"
)

// mkSplit builds n examples with identifiable sentences.
func mkSplit(prefix string, n int) Split {
	s := make(Split, n)
	for i := range s {
		s[i] = domain.Example{
			Audio:    domain.Audio{Samples: []float64{float64(i)}, SamplingRate: 16000},
			Sentence: fmt.Sprintf("%s-%d", prefix, i),
		}
	}
	return s
}

func sentences(s Split) []string {
	out := make([]string, len(s))
	for i, ex := range s {
		out[i] = ex.Sentence
	}
	return out
}

func TestSplit_Select(t *testing.T) {
	s := mkSplit("a", 5)

	got, err := s.Select([]int{4, 0, 2})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	want := []string{"a-4", "a-0", "a-2"}
	if !reflect.DeepEqual(sentences(got), want) {
		t.Errorf("Select() = %v, want %v", sentences(got), want)
	}
}

func TestSplit_SelectOutOfRange(t *testing.T) {
	s := mkSplit("a", 3)
	if _, err := s.Select([]int{3}); err == nil {
		t.Error("Select() with out-of-range index should fail")
	}
	if _, err := s.Select([]int{-1}); err == nil {
		t.Error("Select() with negative index should fail")
	}
}

func TestConcatenate(t *testing.T) {
	got := Concatenate(mkSplit("a", 2), nil, mkSplit("b", 1))
	want := []string{"a-0", "a-1", "b-0"}
	if !reflect.DeepEqual(sentences(got), want) {
		t.Errorf("Concatenate() = %v, want %v", sentences(got), want)
	}
}

func TestDataset_InsertionOrder(t *testing.T) {
	ds := New()
	ds.Set("train", mkSplit("t", 3))
	ds.Set("test", mkSplit("e", 2))
	ds.Set("train", mkSplit("t", 4)) // replace, order unchanged

	if got, want := ds.Names(), []string{"train", "test"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := ds.TotalExamples(); got != 6 {
		t.Errorf("TotalExamples() = %d, want 6", got)
	}
	if got := ds.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	if _, ok := ds.Split("validation"); ok {
		t.Error("Split() should report missing splits")
	}
}
