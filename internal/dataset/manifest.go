package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bft-labs/speechprep/internal/domain"
	"github.com/bft-labs/speechprep/internal/wavio"
)

// manifestRecord is the JSONL schema for one example.
// Audio references a WAV file (relative paths resolve against the manifest
// directory); Samples carries the clip inline instead.
type manifestRecord struct {
	Audio        string    `json:"audio,omitempty"`
	Samples      []float64 `json:"samples,omitempty"`
	SamplingRate int       `json:"sampling_rate,omitempty"`
	Sentence     string    `json:"sentence"`
}

// ReadManifest loads a split from a JSONL manifest, one example per line.
// Examples referencing WAV files are decoded eagerly.
func ReadManifest(path string) (Split, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var split Split

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 64<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec manifestRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		ex, err := rec.toExample(dir)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		split = append(split, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return split, nil
}

func (rec manifestRecord) toExample(dir string) (domain.Example, error) {
	ex := domain.Example{Sentence: rec.Sentence}

	switch {
	case rec.Audio != "":
		p := rec.Audio
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		samples, rate, err := wavio.ReadFile(p)
		if err != nil {
			return domain.Example{}, err
		}
		ex.Audio = domain.Audio{Samples: samples, SamplingRate: rate}
		ex.Source = rec.Audio
	case rec.Samples != nil:
		if rec.SamplingRate <= 0 {
			return domain.Example{}, fmt.Errorf("inline samples require sampling_rate")
		}
		ex.Audio = domain.Audio{Samples: rec.Samples, SamplingRate: rec.SamplingRate}
	default:
		return domain.Example{}, fmt.Errorf("record has neither audio path nor samples")
	}
	return ex, nil
}

// WriteManifest writes a split as a JSONL manifest. Examples loaded from a
// WAV file are written back as path references; others carry their samples
// inline.
func WriteManifest(path string, s Split) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ex := range s {
		rec := manifestRecord{Sentence: ex.Sentence}
		if ex.Source != "" {
			rec.Audio = ex.Source
			rec.SamplingRate = ex.Audio.SamplingRate
		} else {
			rec.Samples = ex.Audio.Samples
			rec.SamplingRate = ex.Audio.SamplingRate
		}
		if err := enc.Encode(rec); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads every "<split>.jsonl" manifest in dir into a dataset.
// Splits are ordered by file name so repeated loads walk identically.
func Load(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no *.jsonl manifests in %s", dir)
	}
	sort.Strings(names)

	ds := New()
	for _, name := range names {
		split, err := ReadManifest(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		ds.Set(strings.TrimSuffix(name, ".jsonl"), split)
	}
	return ds, nil
}

// Save writes every split of a dataset as "<split>.jsonl" under dir.
func Save(dir string, ds *Dataset) error {
	for _, name := range ds.Names() {
		split, _ := ds.Split(name)
		if err := WriteManifest(filepath.Join(dir, name+".jsonl"), split); err != nil {
			return fmt.Errorf("write split %s: %w", name, err)
		}
	}
	return nil
}
