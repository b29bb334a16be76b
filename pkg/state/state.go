// Package state persists pack progress so repeated runs can skip work that
// is already done.
package state

import "time"

// State records the outcome of the last completed pack.
// It is saved to disk after each successful split.
type State struct {
	// ManifestDigest is the digest of the dataset manifests that produced
	// the packed output.
	ManifestDigest string `json:"manifest_digest"`

	// BatchesWritten maps split name to the number of batch files written.
	BatchesWritten map[string]int `json:"batches_written"`

	// LastPackAt is the timestamp of the last completed pack.
	LastPackAt time.Time `json:"last_pack_at"`
}

// IsEmpty returns true if the state has not been initialized.
func (s State) IsEmpty() bool {
	return s.ManifestDigest == ""
}

// UpdateSplit records the batch count for one packed split.
func (s *State) UpdateSplit(split string, batches int) {
	if s.BatchesWritten == nil {
		s.BatchesWritten = make(map[string]int)
	}
	s.BatchesWritten[split] = batches
}

// FinishPack stamps the state after every split has been packed.
func (s *State) FinishPack(digest string) {
	s.ManifestDigest = digest
	s.LastPackAt = time.Now()
}
