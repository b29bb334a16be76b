package feature

import "fmt"

// PaddedFeatures is a batch of feature matrices padded to a common frame
// count. InputFeatures and FrameCounts have the same length.
type PaddedFeatures struct {
	// InputFeatures is indexed [example][mel bin][frame].
	InputFeatures [][][]float64

	// FrameCounts holds each example's unpadded frame count.
	FrameCounts []int
}

// Pad stacks per-example feature matrices into one tensor, zero-padding the
// frame axis of each example to the batch maximum. Every matrix must have
// the extractor's configured mel bin count.
func (l *LogMel) Pad(features [][][]float64) (PaddedFeatures, error) {
	if len(features) == 0 {
		return PaddedFeatures{}, fmt.Errorf("feature: nothing to pad")
	}

	maxFrames := 0
	counts := make([]int, len(features))
	for i, mat := range features {
		if len(mat) != l.cfg.MelBins {
			return PaddedFeatures{}, fmt.Errorf("feature: example %d has %d mel bins, want %d", i, len(mat), l.cfg.MelBins)
		}
		frames := 0
		if len(mat) > 0 {
			frames = len(mat[0])
		}
		for m, row := range mat {
			if len(row) != frames {
				return PaddedFeatures{}, fmt.Errorf("feature: example %d has ragged mel rows (row %d)", i, m)
			}
		}
		counts[i] = frames
		if frames > maxFrames {
			maxFrames = frames
		}
	}

	out := make([][][]float64, len(features))
	for i, mat := range features {
		padded := make([][]float64, l.cfg.MelBins)
		for m, row := range mat {
			padded[m] = make([]float64, maxFrames)
			copy(padded[m], row)
		}
		out[i] = padded
	}
	return PaddedFeatures{InputFeatures: out, FrameCounts: counts}, nil
}
