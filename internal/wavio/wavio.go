// Package wavio reads WAV files into normalized float samples.
package wavio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadFile decodes a WAV file and returns its samples normalized to [-1, 1]
// together with the sample rate.
func ReadFile(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav %s: %w", path, err)
	}
	if !dec.WasPCMAccessed() || buf == nil {
		return nil, 0, fmt.Errorf("decode wav %s: no PCM data", path)
	}

	bitDepth := int(dec.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}
	return samples, int(dec.SampleRate), nil
}
