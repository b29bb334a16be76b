// Package tokenizer provides a vocabulary-file tokenizer for transcript
// text, following the SentencePiece word-boundary convention.
package tokenizer

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Well-known special token strings in Whisper-style vocabularies.
const (
	bosToken = "<|startoftranscript|>"
	eosToken = "<|endoftext|>"
	unkToken = "<|unk|>"
)

// wordBoundary marks the start of a word in SentencePiece vocabularies.
const wordBoundary = "▁"

// Specials holds the special token ids of a vocabulary.
type Specials struct {
	// BOS is prepended to every encoded sequence.
	BOS int

	// EOS is appended to every encoded sequence.
	EOS int

	// Pad fills label sequences up to the batch maximum.
	// Whisper reuses EOS as the pad token.
	Pad int

	// Unk stands in for text with no vocabulary match.
	Unk int
}

// VocabTokenizer encodes text into token ids by greedy longest-match over a
// fixed vocabulary.
type VocabTokenizer struct {
	vocab    map[string]int
	inverse  []string
	maxPiece int
	specials Specials
}

// New creates a tokenizer from an in-memory vocabulary.
func New(vocab map[string]int, specials Specials) *VocabTokenizer {
	maxID := 0
	maxPiece := 0
	for piece, id := range vocab {
		if id > maxID {
			maxID = id
		}
		if n := len(piece); n > maxPiece {
			maxPiece = n
		}
	}
	inverse := make([]string, maxID+1)
	for piece, id := range vocab {
		inverse[id] = piece
	}
	return &VocabTokenizer{
		vocab:    vocab,
		inverse:  inverse,
		maxPiece: maxPiece,
		specials: specials,
	}
}

// Load reads a vocabulary JSON file. Both orientations are accepted:
// {"token": id} and {"id": "token"}. Special token ids are resolved from
// their well-known strings; BOS and EOS must be present.
func Load(path string) (*VocabTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	vocab, err := parseVocab(data)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}

	bos, ok := vocab[bosToken]
	if !ok {
		return nil, fmt.Errorf("vocabulary %s missing %s", path, bosToken)
	}
	eos, ok := vocab[eosToken]
	if !ok {
		return nil, fmt.Errorf("vocabulary %s missing %s", path, eosToken)
	}
	unk := eos
	if id, ok := vocab[unkToken]; ok {
		unk = id
	}

	return New(vocab, Specials{BOS: bos, EOS: eos, Pad: eos, Unk: unk}), nil
}

// parseVocab decodes either vocabulary orientation into token -> id.
func parseVocab(data []byte) (map[string]int, error) {
	var direct map[string]int
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, nil
	}

	var indexed map[string]string
	if err := json.Unmarshal(data, &indexed); err != nil {
		return nil, err
	}
	vocab := make(map[string]int, len(indexed))
	for key, piece := range indexed {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q: %w", key, err)
		}
		vocab[piece] = id
	}
	return vocab, nil
}

// Encode tokenizes text and returns its token ids, framed as
// [BOS, piece ids..., EOS]. Text with no vocabulary match consumes one rune
// as the unknown token.
func (t *VocabTokenizer) Encode(text string) ([]int, error) {
	normalized := wordBoundary + strings.ReplaceAll(strings.TrimSpace(text), " ", wordBoundary)

	ids := []int{t.specials.BOS}
	for len(normalized) > 0 {
		piece, id := t.longestMatch(normalized)
		if piece == "" {
			_, size := utf8.DecodeRuneInString(normalized)
			ids = append(ids, t.specials.Unk)
			normalized = normalized[size:]
			continue
		}
		ids = append(ids, id)
		normalized = normalized[len(piece):]
	}
	return append(ids, t.specials.EOS), nil
}

// longestMatch returns the longest vocabulary piece prefixing s.
func (t *VocabTokenizer) longestMatch(s string) (string, int) {
	limit := t.maxPiece
	if limit > len(s) {
		limit = len(s)
	}
	for n := limit; n > 0; n-- {
		if id, ok := t.vocab[s[:n]]; ok {
			return s[:n], id
		}
	}
	return "", 0
}

// Decode converts token ids back to text, dropping special tokens and
// restoring word boundaries.
func (t *VocabTokenizer) Decode(ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		if id == t.specials.BOS || id == t.specials.EOS || id == t.specials.Pad {
			continue
		}
		if id >= 0 && id < len(t.inverse) {
			b.WriteString(t.inverse[id])
		}
	}
	return strings.TrimSpace(strings.ReplaceAll(b.String(), wordBoundary, " "))
}

// BOSTokenID returns the beginning-of-sequence token id.
func (t *VocabTokenizer) BOSTokenID() int {
	return t.specials.BOS
}

// PadTokenID returns the padding token id.
func (t *VocabTokenizer) PadTokenID() int {
	return t.specials.Pad
}
