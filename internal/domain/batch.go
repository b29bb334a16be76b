package domain

// IgnoreLabel is the label value a seq2seq loss function skips.
// Padded label positions are replaced with this sentinel during collation.
const IgnoreLabel = -100

// Batch is a padded group of examples ready for a single training step.
// It maintains the invariant that InputFeatures, FrameCounts and Labels
// all have the same outer length.
type Batch struct {
	// InputFeatures is the padded feature tensor, indexed
	// [example][mel bin][frame]. Every example has the same frame count.
	InputFeatures [][][]float64 `json:"input_features"`

	// FrameCounts holds the unpadded frame count of each example.
	FrameCounts []int `json:"frame_counts"`

	// Labels is the padded label matrix, indexed [example][position].
	// Padded positions hold IgnoreLabel.
	Labels [][]int `json:"labels"`
}

// Size returns the number of examples in the batch.
func (b Batch) Size() int {
	return len(b.InputFeatures)
}

// Empty returns true if the batch has no examples.
func (b Batch) Empty() bool {
	return len(b.InputFeatures) == 0
}
