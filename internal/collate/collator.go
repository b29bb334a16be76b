package collate

import (
	"fmt"

	"github.com/bft-labs/speechprep/internal/domain"
)

// Collator assembles preprocessed examples into padded training batches.
type Collator struct {
	extractor FeatureExtractor
	tokenizer Tokenizer
}

// NewCollator creates a collator with the given collaborators.
func NewCollator(extractor FeatureExtractor, tok Tokenizer) *Collator {
	return &Collator{extractor: extractor, tokenizer: tok}
}

// Collate pads the examples' features and labels to the batch maxima,
// replaces padded label positions with domain.IgnoreLabel, and strips the
// leading BOS column when every example in the batch starts with it (the
// training procedure re-appends BOS itself).
//
// The BOS check inspects column 0 of the right-padded label matrix. With a
// differently-padding tokenizer the check would be ill-defined; this
// mirrors the established collator behavior rather than redefining it.
func (c *Collator) Collate(examples []domain.Example) (domain.Batch, error) {
	if len(examples) == 0 {
		return domain.Batch{}, domain.ErrEmptyBatch
	}

	features := make([][][]float64, len(examples))
	sequences := make([][]int, len(examples))
	for i, ex := range examples {
		if ex.InputFeatures == nil {
			return domain.Batch{}, fmt.Errorf("%w: example %d", domain.ErrMissingFeatures, i)
		}
		if ex.Labels == nil {
			return domain.Batch{}, fmt.Errorf("%w: example %d", domain.ErrMissingLabels, i)
		}
		features[i] = ex.InputFeatures
		sequences[i] = ex.Labels
	}

	padded, err := c.extractor.Pad(features)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("pad features: %w", err)
	}

	labelBatch, err := c.tokenizer.Pad(sequences)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("pad labels: %w", err)
	}

	// Phase one: mask out padding so the loss ignores it.
	labels := make([][]int, len(labelBatch.InputIDs))
	for i, row := range labelBatch.InputIDs {
		labels[i] = make([]int, len(row))
		for j, id := range row {
			if labelBatch.AttentionMask[i][j] != 1 {
				labels[i][j] = domain.IgnoreLabel
			} else {
				labels[i][j] = id
			}
		}
	}

	// Phase two: drop the shared BOS column. All-or-nothing across the batch.
	if sharesLeadingToken(labels, c.tokenizer.BOSTokenID()) {
		for i, row := range labels {
			labels[i] = row[1:]
		}
	}

	return domain.Batch{
		InputFeatures: padded.InputFeatures,
		FrameCounts:   padded.FrameCounts,
		Labels:        labels,
	}, nil
}

// sharesLeadingToken reports whether every row begins with token id.
func sharesLeadingToken(labels [][]int, id int) bool {
	for _, row := range labels {
		if len(row) == 0 || row[0] != id {
			return false
		}
	}
	return true
}
