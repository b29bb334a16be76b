// Package feature computes log-mel spectrogram features from raw audio and
// pads them into fixed-shape batches.
package feature

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const logFloor = 1e-10

// Config holds the spectrogram parameters.
type Config struct {
	// SampleRate is the expected input sample rate in Hz.
	SampleRate int

	// FFTSize is the analysis window length in samples.
	FFTSize int

	// HopLength is the stride between frames in samples.
	HopLength int

	// MelBins is the number of mel filterbank channels.
	MelBins int
}

// DefaultConfig returns the standard Whisper-style parameters:
// 16 kHz input, 25 ms window, 10 ms hop, 80 mel bins.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		FFTSize:    400,
		HopLength:  160,
		MelBins:    80,
	}
}

// LogMel computes log-mel spectrograms. It is safe for reuse across
// examples; the window and filterbank are built once at construction.
type LogMel struct {
	cfg     Config
	win     []float64
	filters [][]float64
}

// NewLogMel creates an extractor for the given parameters.
func NewLogMel(cfg Config) (*LogMel, error) {
	if cfg.SampleRate <= 0 || cfg.FFTSize <= 0 || cfg.HopLength <= 0 || cfg.MelBins <= 0 {
		return nil, fmt.Errorf("feature: all config values must be positive: %+v", cfg)
	}
	if cfg.MelBins > cfg.FFTSize/2 {
		return nil, fmt.Errorf("feature: mel bins %d exceed spectrum bins %d", cfg.MelBins, cfg.FFTSize/2)
	}
	return &LogMel{
		cfg:     cfg,
		win:     window.Hann(cfg.FFTSize),
		filters: melFilterbank(cfg.MelBins, cfg.FFTSize, cfg.SampleRate),
	}, nil
}

// Config returns the extractor parameters.
func (l *LogMel) Config() Config {
	return l.cfg
}

// Extract computes the log-mel spectrogram of an audio clip. The result is
// indexed [mel bin][frame]. The clip's sample rate must match the
// extractor's configured rate; resampling is the caller's responsibility.
func (l *LogMel) Extract(samples []float64, rate int) ([][]float64, error) {
	if rate != l.cfg.SampleRate {
		return nil, fmt.Errorf("feature: sample rate %d does not match configured %d", rate, l.cfg.SampleRate)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("feature: empty audio")
	}

	// Short clips are zero-padded to a single full analysis window.
	if len(samples) < l.cfg.FFTSize {
		padded := make([]float64, l.cfg.FFTSize)
		copy(padded, samples)
		samples = padded
	}

	frames := 1 + (len(samples)-l.cfg.FFTSize)/l.cfg.HopLength
	mel := make([][]float64, l.cfg.MelBins)
	for m := range mel {
		mel[m] = make([]float64, frames)
	}

	windowed := make([]float64, l.cfg.FFTSize)
	power := make([]float64, l.cfg.FFTSize/2+1)
	for t := 0; t < frames; t++ {
		start := t * l.cfg.HopLength
		for i := 0; i < l.cfg.FFTSize; i++ {
			windowed[i] = samples[start+i] * l.win[i]
		}
		spectrum := fft.FFTReal(windowed)
		for k := range power {
			power[k] = real(spectrum[k])*real(spectrum[k]) + imag(spectrum[k])*imag(spectrum[k])
		}
		for m, filter := range l.filters {
			var sum float64
			for k, w := range filter {
				if w != 0 {
					sum += w * power[k]
				}
			}
			mel[m][t] = math.Log10(math.Max(sum, logFloor))
		}
	}

	normalize(mel)
	return mel, nil
}

// normalize applies the Whisper log-mel normalization: clamp the dynamic
// range to 8 dB below the peak, then scale into roughly [-1, 1].
func normalize(mel [][]float64) {
	peak := math.Inf(-1)
	for _, row := range mel {
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
	}
	floor := peak - 8
	for _, row := range mel {
		for i, v := range row {
			if v < floor {
				v = floor
			}
			row[i] = (v + 4) / 4
		}
	}
}

// melFilterbank builds triangular filters on the HTK mel scale mapping
// fftSize/2+1 spectrum bins onto melBins channels.
func melFilterbank(melBins, fftSize, sampleRate int) [][]float64 {
	bins := fftSize/2 + 1
	loMel := hzToMel(0)
	hiMel := hzToMel(float64(sampleRate) / 2)

	// melBins+2 points: filter m spans points m..m+2.
	points := make([]float64, melBins+2)
	for i := range points {
		mel := loMel + (hiMel-loMel)*float64(i)/float64(melBins+1)
		points[i] = melToHz(mel) / (float64(sampleRate) / 2) * float64(bins-1)
	}

	filters := make([][]float64, melBins)
	for m := 0; m < melBins; m++ {
		filters[m] = make([]float64, bins)
		left, center, right := points[m], points[m+1], points[m+2]
		for k := 0; k < bins; k++ {
			f := float64(k)
			switch {
			case f > left && f <= center:
				filters[m][k] = (f - left) / (center - left)
			case f > center && f < right:
				filters[m][k] = (right - f) / (right - center)
			}
		}
	}
	return filters
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}
