package collate

import (
	"fmt"

	"github.com/bft-labs/speechprep/internal/domain"
)

// Preprocessor derives model inputs from raw examples.
type Preprocessor struct {
	extractor FeatureExtractor
	tokenizer Tokenizer
}

// NewPreprocessor creates a preprocessor with the given collaborators.
func NewPreprocessor(extractor FeatureExtractor, tok Tokenizer) *Preprocessor {
	return &Preprocessor{extractor: extractor, tokenizer: tok}
}

// Process returns a copy of the example with InputFeatures and Labels
// populated. The original example is not modified; its raw fields are
// retained on the result for traceability.
func (p *Preprocessor) Process(ex domain.Example) (domain.Example, error) {
	features, err := p.extractor.Extract(ex.Audio.Samples, ex.Audio.SamplingRate)
	if err != nil {
		return domain.Example{}, fmt.Errorf("extract features: %w", err)
	}

	labels, err := p.tokenizer.Encode(ex.Sentence)
	if err != nil {
		return domain.Example{}, fmt.Errorf("tokenize: %w", err)
	}

	ex.InputFeatures = features
	ex.Labels = labels
	return ex, nil
}
