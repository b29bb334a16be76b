package collate

import (
	"math"
	"reflect"
	"testing"

	"github.com/bft-labs/speechprep/internal/domain"
)

func TestPreprocessor_Process(t *testing.T) {
	pre := NewPreprocessor(testCollaborators(t))

	samples := make([]float64, 160)
	for i := range samples {
		samples[i] = math.Sin(float64(i) / 3)
	}
	raw := domain.Example{
		Audio:    domain.Audio{Samples: samples, SamplingRate: 8000},
		Sentence: "hello world",
	}

	got, err := pre.Process(raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !got.Preprocessed() {
		t.Fatal("Process() result not marked preprocessed")
	}
	if len(got.InputFeatures) != 4 {
		t.Errorf("mel bins = %d, want 4", len(got.InputFeatures))
	}
	if want := []int{testBOS, 10, 11, 1}; !reflect.DeepEqual(got.Labels, want) {
		t.Errorf("Labels = %v, want %v", got.Labels, want)
	}

	// Raw fields are retained and the input is untouched.
	if got.Sentence != raw.Sentence || len(got.Audio.Samples) != len(raw.Audio.Samples) {
		t.Error("Process() dropped raw fields")
	}
	if raw.Preprocessed() {
		t.Error("Process() mutated its input")
	}
}

func TestPreprocessor_ProcessErrors(t *testing.T) {
	pre := NewPreprocessor(testCollaborators(t))

	wrongRate := domain.Example{
		Audio:    domain.Audio{Samples: []float64{0.1, 0.2}, SamplingRate: 44100},
		Sentence: "hello",
	}
	if _, err := pre.Process(wrongRate); err == nil {
		t.Error("Process() with mismatched sample rate should fail")
	}
}
