package domain

// Audio is a raw audio clip.
type Audio struct {
	// Samples holds PCM samples normalized to [-1, 1].
	Samples []float64 `json:"samples"`

	// SamplingRate is the sample rate in Hz (e.g. 16000).
	SamplingRate int `json:"sampling_rate"`
}

// Example is a single transcription example.
//
// A raw example carries only Audio and Sentence. Preprocessing returns a new
// Example with InputFeatures and Labels populated; the original fields are
// retained for traceability.
type Example struct {
	// Audio is the raw audio clip.
	Audio Audio `json:"audio"`

	// Sentence is the reference transcript.
	Sentence string `json:"sentence"`

	// Source is the path the audio was loaded from, if any.
	Source string `json:"source,omitempty"`

	// InputFeatures is the log-mel spectrogram, one row per mel bin.
	// Nil until the example has been preprocessed.
	InputFeatures [][]float64 `json:"input_features,omitempty"`

	// Labels is the tokenized transcript.
	// Nil until the example has been preprocessed.
	Labels []int `json:"labels,omitempty"`
}

// Preprocessed reports whether the example carries derived fields.
func (e Example) Preprocessed() bool {
	return e.InputFeatures != nil && e.Labels != nil
}
