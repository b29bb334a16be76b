package tokenizer

import "fmt"

// PaddedLabels is a batch of label sequences right-padded to a common
// length. InputIDs and AttentionMask have identical shape; mask positions
// are 1 for real tokens and 0 for padding.
type PaddedLabels struct {
	InputIDs      [][]int
	AttentionMask [][]int
}

// Pad right-pads each sequence with the pad token id up to the batch's
// maximum sequence length and returns the ids with their attention mask.
func (t *VocabTokenizer) Pad(sequences [][]int) (PaddedLabels, error) {
	if len(sequences) == 0 {
		return PaddedLabels{}, fmt.Errorf("tokenizer: nothing to pad")
	}

	maxLen := 0
	for _, seq := range sequences {
		if len(seq) > maxLen {
			maxLen = len(seq)
		}
	}

	ids := make([][]int, len(sequences))
	mask := make([][]int, len(sequences))
	for i, seq := range sequences {
		ids[i] = make([]int, maxLen)
		mask[i] = make([]int, maxLen)
		copy(ids[i], seq)
		for j := range ids[i] {
			if j < len(seq) {
				mask[i][j] = 1
			} else {
				ids[i][j] = t.specials.Pad
			}
		}
	}
	return PaddedLabels{InputIDs: ids, AttentionMask: mask}, nil
}
