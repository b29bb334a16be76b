// Package collate converts raw examples into padded training batches.
//
// It holds the two pipeline stages that sit between dataset loading
// and the training loop: per-example preprocessing (feature extraction and
// tokenization) and batch collation (padding, loss masking, BOS handling).
// Both stages hold immutable references to their collaborators, injected at
// construction, and carry no other state.
package collate

import (
	"github.com/bft-labs/speechprep/internal/feature"
	"github.com/bft-labs/speechprep/internal/tokenizer"
)

// FeatureExtractor computes audio features and pads them into batches.
// *feature.LogMel satisfies this interface.
type FeatureExtractor interface {
	// Extract returns the feature matrix of one clip, indexed [mel bin][frame].
	Extract(samples []float64, rate int) ([][]float64, error)

	// Pad stacks feature matrices into a fixed-shape batch.
	Pad(features [][][]float64) (feature.PaddedFeatures, error)
}

// Tokenizer converts transcripts to token ids and pads label batches.
// *tokenizer.VocabTokenizer satisfies this interface.
type Tokenizer interface {
	// Encode returns the token ids of a transcript.
	Encode(text string) ([]int, error)

	// Pad right-pads sequences and returns ids with an attention mask.
	Pad(sequences [][]int) (tokenizer.PaddedLabels, error)

	// BOSTokenID returns the beginning-of-sequence token id.
	BOSTokenID() int

	// PadTokenID returns the padding token id.
	PadTokenID() int
}
