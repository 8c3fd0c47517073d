// Package wavlm implements credential-free speaker diarization by
// clustering speaker embeddings of overlapping time windows over the word
// stream.
//
// The method slides fixed-size windows across the file, embeds each
// window's audio excerpt, clusters the embeddings by cosine distance and
// assigns every word the majority label of the windows covering it.
package wavlm

import (
	"context"
	"fmt"
	"math"

	"github.com/skillsenselab/scribe/clustering"
	"github.com/skillsenselab/scribe/diarization"
	"github.com/skillsenselab/scribe/embedding"
	"github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/transcript"
)

const (
	// ProviderName is the registered name for the window-embedding diarizer.
	ProviderName = "wavlm"

	defaultWindowSize   = 1.0
	defaultWindowStride = 0.5
)

// Config holds tuning for the window-embedding diarizer.
type Config struct {
	// WindowSize is the window duration in seconds.
	WindowSize float64 `json:"window_size" yaml:"window_size"`
	// WindowStride is the window advance in seconds. Stride < size makes
	// windows overlap, which the voting relies on.
	WindowStride float64 `json:"window_stride" yaml:"window_stride"`
}

// Diarizer implements diarization.Provider by window-embedding clustering.
type Diarizer struct {
	cfg       Config
	embedder  embedding.Provider
	clusterer clustering.Clusterer
	log       *logger.Logger
}

// NewDiarizer creates a window-embedding diarizer on top of an embedding
// provider and a clustering primitive.
func NewDiarizer(cfg Config, embedder embedding.Provider, clusterer clustering.Clusterer) *Diarizer {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if cfg.WindowStride <= 0 {
		cfg.WindowStride = defaultWindowStride
	}
	return &Diarizer{
		cfg:       cfg,
		embedder:  embedder,
		clusterer: clusterer,
		log:       logger.Get("diarization.wavlm"),
	}
}

// Name returns the provider name.
func (d *Diarizer) Name() string { return ProviderName }

// IsAvailable reports whether the embedding backend is reachable.
func (d *Diarizer) IsAvailable(ctx context.Context) bool {
	return d.embedder.IsAvailable(ctx)
}

// window is one embedding window: a time span plus the indices of the words
// whose midpoint falls inside it.
type window struct {
	start   float64
	end     float64
	wordIdx []int
	vector  []float64
	speaker string
}

func (w *window) center() float64 { return (w.start + w.end) / 2 }

func (w *window) coversWord(idx int) bool {
	for _, i := range w.wordIdx {
		if i == idx {
			return true
		}
	}
	return false
}

// Diarize assigns a speaker label to every word in the request. Per-window
// extraction failures drop the window and continue; only a failure of the
// whole attempt (no excerpt decodable, clustering down) is returned as an
// error so the caller can fall back.
func (d *Diarizer) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	words := req.Words
	if len(words) == 0 {
		return &diarization.Response{Result: transcript.NoSignal()}, nil
	}

	total := words[len(words)-1].End
	if total <= 0 {
		return &diarization.Response{Result: transcript.NoSignal()}, nil
	}

	windows := d.buildWindows(words, total)
	d.log.Debug("sliding windows built", logger.Fields(
		logger.FieldWindows, len(windows),
		logger.FieldWords, len(words),
	))

	valid, failed := d.extractEmbeddings(ctx, req.AudioPath, windows)
	d.log.Debug("embeddings extracted", logger.Fields(
		"valid", len(valid),
		"dropped", len(windows)-len(valid),
	))

	// Every excerpt failing to embed points at an undecodable file rather
	// than a few bad windows. That is a hard failure for the attempt.
	if len(windows) > 0 && len(valid) == 0 && failed == len(windows) {
		return nil, errors.DiarizationUnavailable(ProviderName,
			fmt.Errorf("all %d windows failed embedding extraction", len(windows)))
	}

	// Fewer than 2 valid embeddings cannot be clustered; the whole file is
	// deliberately attributed to a single default speaker.
	if len(valid) < 2 {
		for i := range words {
			words[i].Speaker = transcript.DefaultSpeaker
		}
		d.log.Info("insufficient embeddings, single default speaker", logger.Fields("valid", len(valid)))
		return &diarization.Response{
			Result:      transcript.WordLabels(words),
			NumSpeakers: 1,
		}, nil
	}

	k := req.RequestedSpeakers
	if k <= 0 {
		k = 2
	}
	if k > len(valid) {
		k = len(valid)
	}

	vectors := make([][]float64, len(valid))
	for i := range valid {
		vectors[i] = valid[i].vector
	}
	labels, err := d.clusterer.Cluster(ctx, vectors, k)
	if err != nil {
		return nil, errors.DiarizationUnavailable(ProviderName, err)
	}

	numSpeakers := assignWindowSpeakers(valid, labels)
	d.log.Info("windows clustered", logger.Fields(
		logger.FieldWindows, len(valid),
		logger.FieldSpeakers, numSpeakers,
	))

	for i := range words {
		words[i].Speaker = labelForWord(i, words[i], valid)
	}

	return &diarization.Response{
		Result:      transcript.WordLabels(words),
		NumSpeakers: numSpeakers,
	}, nil
}

// buildWindows slides windows of size cfg.WindowSize with stride
// cfg.WindowStride from t=0 until the last word's end, collecting words
// whose midpoint falls in [start, end). Windows covering no word are
// discarded.
func (d *Diarizer) buildWindows(words []transcript.Word, total float64) []window {
	var out []window
	for t := 0.0; t < total; t += d.cfg.WindowStride {
		w := window{start: t, end: math.Min(t+d.cfg.WindowSize, total)}
		for i, word := range words {
			mid := word.Midpoint()
			if w.start <= mid && mid < w.end {
				w.wordIdx = append(w.wordIdx, i)
			}
		}
		if len(w.wordIdx) > 0 {
			out = append(out, w)
		}
	}
	return out
}

// extractEmbeddings embeds each window's excerpt, L2-normalizes the vector
// and drops windows whose extraction failed or produced non-finite values.
// It returns the surviving windows and the number of extraction failures.
func (d *Diarizer) extractEmbeddings(ctx context.Context, audioPath string, windows []window) ([]window, int) {
	valid := make([]window, 0, len(windows))
	failed := 0
	for _, w := range windows {
		vec, err := d.embedder.Extract(ctx, embedding.Request{
			AudioPath: audioPath,
			Start:     w.start,
			End:       w.end,
		})
		if err != nil {
			failed++
			d.log.Debug("window embedding failed, dropping window",
				logger.ErrorFields("extract", errors.ExtractionFailed(w.start, w.end, err)))
			continue
		}
		normalized, ok := l2Normalize(vec)
		if !ok {
			d.log.Debug("window embedding not finite, dropping window",
				logger.Fields("start", w.start, "end", w.end))
			continue
		}
		w.vector = normalized
		valid = append(valid, w)
	}
	return valid, failed
}

// assignWindowSpeakers maps raw cluster ids to SPEAKER_NN labels in
// cluster-discovery order and stamps each window. Returns the number of
// distinct speakers.
func assignWindowSpeakers(windows []window, labels []int) int {
	speakerOf := make(map[int]string)
	next := 0
	for i := range windows {
		id := labels[i]
		if _, ok := speakerOf[id]; !ok {
			speakerOf[id] = fmt.Sprintf("SPEAKER_%02d", next)
			next++
		}
		windows[i].speaker = speakerOf[id]
	}
	return next
}

// labelForWord picks the majority label among windows covering the word.
// Ties break toward the label of the earliest covering window. A word no
// window covers takes the label of the window whose center is temporally
// nearest, earlier window winning ties.
func labelForWord(idx int, word transcript.Word, windows []window) string {
	counts := make(map[string]int)
	for i := range windows {
		if windows[i].coversWord(idx) {
			counts[windows[i].speaker]++
		}
	}

	if len(counts) > 0 {
		best := ""
		bestVotes := 0
		for i := range windows {
			if !windows[i].coversWord(idx) {
				continue
			}
			if counts[windows[i].speaker] > bestVotes {
				best = windows[i].speaker
				bestVotes = counts[windows[i].speaker]
			}
		}
		return best
	}

	if len(windows) == 0 {
		return transcript.DefaultSpeaker
	}

	mid := word.Midpoint()
	nearest := 0
	nearestDist := math.Abs(windows[0].center() - mid)
	for i := 1; i < len(windows); i++ {
		if dist := math.Abs(windows[i].center() - mid); dist < nearestDist {
			nearest = i
			nearestDist = dist
		}
	}
	return windows[nearest].speaker
}

// l2Normalize scales the vector to unit length. It reports false when the
// result contains non-finite values, including the zero-vector case.
func l2Normalize(vec []float64) ([]float64, bool) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, false
		}
	}
	return out, true
}
