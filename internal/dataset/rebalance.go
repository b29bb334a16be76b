package dataset

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/bft-labs/speechprep/internal/domain"
)

// SplitSize is a target size for one named split.
// Rebalance takes an ordered list rather than a map so that the overflow
// concatenation order is deterministic.
type SplitSize struct {
	Name string
	Size int
}

// Rebalance shrinks oversized splits to their target size and moves the
// surplus examples into growSplit.
//
// For each entry in sizes whose split currently exceeds its target, exactly
// Size examples are kept, chosen uniformly without replacement from a
// generator seeded with seed. Kept examples appear in draw order; moved
// examples keep their original relative order. Splits already at or below
// their target are skipped and do not appear in the output. The output
// growSplit is the grow split's base content followed by the surplus of each
// shrunk split, in sizes order. When growSplit itself is named in sizes, its
// kept-after-shrink examples become the base.
//
// Splits present in the input but not named in sizes (other than growSplit)
// are omitted from the output.
func Rebalance(ds *Dataset, sizes []SplitSize, growSplit string, seed int64) (*Dataset, error) {
	if _, ok := ds.Split(growSplit); !ok {
		return nil, fmt.Errorf("%w: grow split %q", domain.ErrSplitNotFound, growSplit)
	}

	rng := rand.New(rand.NewSource(seed))
	out := New()
	var moved []Split

	for _, target := range sizes {
		split, ok := ds.Split(target.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrSplitNotFound, target.Name)
		}
		if len(split) <= target.Size {
			continue
		}

		keep, move := sampleWithoutReplacement(rng, len(split), target.Size)
		kept, err := split.Select(keep)
		if err != nil {
			return nil, err
		}
		surplus, err := split.Select(move)
		if err != nil {
			return nil, err
		}
		out.Set(target.Name, kept)
		moved = append(moved, surplus)
	}

	base, ok := out.Split(growSplit)
	if !ok {
		base, _ = ds.Split(growSplit)
	}
	out.Set(growSplit, Concatenate(append([]Split{base}, moved...)...))
	return out, nil
}

// sampleWithoutReplacement draws k of n indices uniformly without
// replacement. The kept indices are returned in draw order; the remaining
// indices are returned in ascending order.
func sampleWithoutReplacement(rng *rand.Rand, n, k int) (kept, rest []int) {
	perm := rng.Perm(n)
	kept = perm[:k]
	rest = append([]int(nil), perm[k:]...)
	sort.Ints(rest)
	return kept, rest
}
