package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skillsenselab/scribe/diarization"
	"github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/output"
	"github.com/skillsenselab/scribe/resegment"
	"github.com/skillsenselab/scribe/transcript"
	"github.com/skillsenselab/scribe/transcription"
)

// Progress caps for the pipeline stages. The segment loop never reports
// past capTranscribe so the diarization and write stages keep visible
// headroom.
const (
	capTranscribe     = 95.0
	progressDiarize   = 96.0
	progressResegment = 98.0
	progressDone      = 100.0
)

// Diarizer produces the authoritative speaker signal for a file.
// *diarization.Chain is the production implementation.
type Diarizer interface {
	Diarize(ctx context.Context, req diarization.Request) *diarization.Response
}

// TranscriptWriter renders finished segments for one audio file.
// *output.Writer is the production implementation.
type TranscriptWriter interface {
	Write(audioPath string, meta output.Metadata, segments []transcript.Segment) (string, error)
}

// Options configures a run.
type Options struct {
	// Transcription is the request template; AudioPath is filled per file.
	Transcription transcription.Request
	// DiarizationEnabled gates the diarization stage entirely.
	DiarizationEnabled bool
	// RequestedSpeakers is forwarded to the diarization backends; zero
	// means let the backend decide.
	RequestedSpeakers int
}

// Orchestrator runs the transcribe/diarize/write loop for queued files.
type Orchestrator struct {
	transcriber transcription.Provider
	diarizer    Diarizer
	writer      TranscriptWriter
	opts        Options
	log         *logger.Logger

	mu          sync.Mutex
	runID       string
	state       State
	files       []string
	fileIndex   int
	currentFile string
	progress    float64
	processed   int
	stopFlag    bool
	running     bool
	errs        []FileError
	outputs     []string
	done        chan struct{}
}

// New creates an orchestrator. The diarizer may be nil when diarization
// is disabled in opts.
func New(transcriber transcription.Provider, diarizer Diarizer, writer TranscriptWriter, opts Options) *Orchestrator {
	return &Orchestrator{
		transcriber: transcriber,
		diarizer:    diarizer,
		writer:      writer,
		opts:        opts,
		log:         logger.Get("orchestrator"),
		state:       StateIdle,
	}
}

// Start launches the background worker over the queued files. It returns
// immediately; observe the run via Snapshot and Wait. Starting while a
// run is in flight is an error.
func (o *Orchestrator) Start(ctx context.Context, files []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return errors.InvalidInput("", "a run is already in progress")
	}
	if len(files) == 0 {
		return errors.InvalidInput("files", "no files queued")
	}

	o.runID = uuid.NewString()
	o.state = StateLoading
	o.files = files
	o.fileIndex = 0
	o.currentFile = ""
	o.progress = 0
	o.processed = 0
	o.stopFlag = false
	o.running = true
	o.errs = nil
	o.outputs = nil
	o.done = make(chan struct{})

	o.log.Info("run started", logger.Fields(logger.FieldRunID, o.runID, "files", len(files)))
	go o.run(ctx, files)
	return nil
}

// Stop requests cooperative cancellation. The in-flight stage drains to
// its next checkpoint; no further file starts. Safe to call at any time.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return
	}
	o.stopFlag = true
	o.log.Info("stop requested", logger.Fields(logger.FieldRunID, o.runID))
}

// Wait blocks until the current run finishes. Returns immediately when
// no run was started.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Snapshot returns a consistent copy of the run state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		RunID:       o.runID,
		State:       o.state,
		CurrentFile: o.currentFile,
		FileIndex:   o.fileIndex,
		FileCount:   len(o.files),
		Progress:    o.progress,
		Processed:   o.processed,
		Errors:      append([]FileError(nil), o.errs...),
		Outputs:     append([]string(nil), o.outputs...),
	}
}

// run is the worker loop. It is the sole writer of run state.
func (o *Orchestrator) run(ctx context.Context, files []string) {
	defer o.finish()

	for i, file := range files {
		if o.stopRequested() {
			return
		}
		o.startFile(i, file)

		if err := o.processFile(ctx, file); err != nil {
			if errors.HasCode(err, errors.ErrCodeCancelled) {
				return
			}
			o.recordError(file, err)
			continue
		}
	}
}

// processFile runs one file through the three stages. A Cancelled error
// means the stop flag fired at the post-transcription checkpoint.
func (o *Orchestrator) processFile(ctx context.Context, file string) error {
	req := o.opts.Transcription
	req.AudioPath = file

	o.setState(StateTranscribing)
	resp, err := o.transcriber.Transcribe(ctx, req)
	if err != nil {
		return errors.TranscriptionFailed(file, err)
	}

	// Consume the segment stream, publishing elapsed-audio progress.
	for _, seg := range resp.Segments {
		if resp.Duration > 0 {
			o.setProgress(min(capTranscribe, seg.End/resp.Duration*100))
		}
		o.addProcessed()
	}
	if o.stopRequested() {
		return errors.Cancelled()
	}

	segments := o.speakerSegments(ctx, file, resp)

	o.setState(StateWriting)
	path, err := o.writer.Write(file, output.Metadata{Language: resp.Language, Duration: resp.Duration}, segments)
	if err != nil {
		return err
	}
	o.setProgress(progressDone)
	o.recordOutput(path)

	o.log.Info("transcript written", logger.Fields(
		logger.FieldRunID, o.runID,
		logger.FieldFile, file,
		logger.FieldSegments, len(segments),
		"output", path,
	))
	return nil
}

// speakerSegments resolves the final segment list for a file, consulting
// the diarization chain when enabled and falling back to the plain
// transcription segments when no speaker signal is produced.
func (o *Orchestrator) speakerSegments(ctx context.Context, file string, resp *transcription.Response) []transcript.Segment {
	if !o.opts.DiarizationEnabled || o.diarizer == nil {
		return plainSegments(resp)
	}

	o.setState(StateDiarizing)
	o.setProgress(progressDiarize)

	dresp := o.diarizer.Diarize(ctx, diarization.Request{
		AudioPath:         file,
		Words:             resp.AllWords(),
		RequestedSpeakers: o.opts.RequestedSpeakers,
	})

	var segments []transcript.Segment
	switch dresp.Result.Kind() {
	case transcript.ResultWordLabels:
		segments = resegment.Words(dresp.Result.Words())
	case transcript.ResultTurns:
		segments = resegment.Segments(dresp.Result.Turns(), resp.Segments)
	default:
		segments = plainSegments(resp)
	}
	o.setProgress(progressResegment)
	return segments
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopFlag {
		o.state = StateStopped
	} else {
		o.state = StateComplete
	}
	o.running = false
	close(o.done)
	o.log.Info("run finished", logger.Fields(
		logger.FieldRunID, o.runID,
		"state", string(o.state),
		"outputs", len(o.outputs),
		"errors", len(o.errs),
	))
}

func (o *Orchestrator) stopRequested() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopFlag
}

func (o *Orchestrator) startFile(index int, file string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fileIndex = index
	o.currentFile = file
	o.progress = 0
	o.processed = 0
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = s
}

// setProgress publishes per-file progress, keeping it monotonic within
// the file.
func (o *Orchestrator) setProgress(p float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p > o.progress {
		o.progress = p
	}
}

func (o *Orchestrator) addProcessed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processed++
}

func (o *Orchestrator) recordError(file string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateFailed
	o.errs = append(o.errs, FileError{File: file, Err: err})
	o.log.Error("file failed", logger.Fields(
		logger.FieldRunID, o.runID,
		logger.FieldFile, file,
		logger.FieldError, err.Error(),
	))
}

func (o *Orchestrator) recordOutput(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outputs = append(o.outputs, path)
}

// plainSegments converts transcription segments without any speaker
// attribution.
func plainSegments(resp *transcription.Response) []transcript.Segment {
	out := make([]transcript.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		out = append(out, transcript.Segment{
			Text:    strings.TrimSpace(seg.Text),
			Start:   seg.Start,
			End:     seg.End,
			Speaker: transcript.SpeakerUnknown,
		})
	}
	return out
}
