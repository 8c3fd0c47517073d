package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/skillsenselab/scribe/diarization"
	"github.com/skillsenselab/scribe/output"
	"github.com/skillsenselab/scribe/transcript"
	"github.com/skillsenselab/scribe/transcription"
)

type fakeTranscriber struct {
	responses map[string]*transcription.Response
	errs      map[string]error
	onCall    func(file string)
	calls     []string
}

func (f *fakeTranscriber) Name() string                       { return "fake" }
func (f *fakeTranscriber) IsAvailable(_ context.Context) bool { return true }

func (f *fakeTranscriber) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	f.calls = append(f.calls, req.AudioPath)
	if f.onCall != nil {
		f.onCall(req.AudioPath)
	}
	if err := f.errs[req.AudioPath]; err != nil {
		return nil, err
	}
	return f.responses[req.AudioPath], nil
}

type fakeDiarizer struct {
	resp  *diarization.Response
	calls int
}

func (f *fakeDiarizer) Diarize(_ context.Context, _ diarization.Request) *diarization.Response {
	f.calls++
	return f.resp
}

type fakeWriter struct {
	wrote map[string][]transcript.Segment
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{wrote: make(map[string][]transcript.Segment)}
}

func (f *fakeWriter) Write(audioPath string, _ output.Metadata, segments []transcript.Segment) (string, error) {
	f.wrote[audioPath] = segments
	return audioPath + ".txt", nil
}

func simpleResponse(text string) *transcription.Response {
	return &transcription.Response{
		Text:     text,
		Duration: 10,
		Language: "en",
		Segments: []transcription.Segment{{Start: 0, End: 10, Text: text}},
	}
}

func TestOrchestrator_Run_WritesAllFiles(t *testing.T) {
	tr := &fakeTranscriber{responses: map[string]*transcription.Response{
		"a.wav": simpleResponse("first"),
		"b.wav": simpleResponse("second"),
	}}
	w := newFakeWriter()

	o := New(tr, nil, w, Options{})
	if err := o.Start(context.Background(), []string{"a.wav", "b.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	o.Wait()

	snap := o.Snapshot()
	if snap.State != StateComplete {
		t.Errorf("expected complete, got %s", snap.State)
	}
	if len(snap.Outputs) != 2 {
		t.Errorf("expected 2 outputs, got %v", snap.Outputs)
	}
	if snap.Progress != 100 {
		t.Errorf("expected final progress 100, got %v", snap.Progress)
	}
	if got := w.wrote["a.wav"]; len(got) != 1 || got[0].Speaker != transcript.SpeakerUnknown {
		t.Errorf("expected one unattributed segment, got %+v", got)
	}
}

func TestOrchestrator_Run_FailedFileDoesNotAbortRun(t *testing.T) {
	tr := &fakeTranscriber{
		responses: map[string]*transcription.Response{"b.wav": simpleResponse("ok")},
		errs:      map[string]error{"a.wav": fmt.Errorf("decode error")},
	}
	w := newFakeWriter()

	o := New(tr, nil, w, Options{})
	if err := o.Start(context.Background(), []string{"a.wav", "b.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	o.Wait()

	snap := o.Snapshot()
	if snap.State != StateComplete {
		t.Errorf("expected complete despite per-file failure, got %s", snap.State)
	}
	if len(snap.Errors) != 1 || snap.Errors[0].File != "a.wav" {
		t.Errorf("expected one error for a.wav, got %+v", snap.Errors)
	}
	if len(tr.calls) != 2 {
		t.Errorf("expected both files attempted, got %v", tr.calls)
	}
	if _, ok := w.wrote["b.wav"]; !ok {
		t.Error("expected second file written")
	}
}

func TestOrchestrator_Run_WordLabelsResegmented(t *testing.T) {
	words := []transcript.Word{
		{Text: "hi", Start: 0, End: 0.3},
		{Text: "there", Start: 0.3, End: 0.6},
		{Text: "bob", Start: 1.0, End: 1.3},
	}
	tr := &fakeTranscriber{responses: map[string]*transcription.Response{
		"a.wav": {
			Duration: 2, Language: "en",
			Segments: []transcription.Segment{{Start: 0, End: 2, Text: "hi there bob", Words: words}},
		},
	}}

	labeled := append([]transcript.Word(nil), words...)
	labeled[0].Speaker = "SPEAKER_00"
	labeled[1].Speaker = "SPEAKER_00"
	labeled[2].Speaker = "SPEAKER_01"
	d := &fakeDiarizer{resp: &diarization.Response{Result: transcript.WordLabels(labeled), NumSpeakers: 2}}
	w := newFakeWriter()

	o := New(tr, d, w, Options{DiarizationEnabled: true})
	if err := o.Start(context.Background(), []string{"a.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	o.Wait()

	if d.calls != 1 {
		t.Fatalf("expected one diarization call, got %d", d.calls)
	}
	got := w.wrote["a.wav"]
	if len(got) != 2 {
		t.Fatalf("expected 2 merged segments, got %+v", got)
	}
	if got[0].Text != "hi there" || got[0].Speaker != "SPEAKER_00" {
		t.Errorf("unexpected first segment: %+v", got[0])
	}
	if got[1].Text != "bob" || got[1].Speaker != "SPEAKER_01" {
		t.Errorf("unexpected second segment: %+v", got[1])
	}
}

func TestOrchestrator_Run_TurnsResegmented(t *testing.T) {
	tr := &fakeTranscriber{responses: map[string]*transcription.Response{
		"a.wav": {
			Duration: 2, Language: "en",
			Segments: []transcription.Segment{{
				Start: 0, End: 2, Text: "hello goodbye",
				Words: []transcript.Word{
					{Text: "hello", Start: 0, End: 0.5},
					{Text: "goodbye", Start: 1.5, End: 2},
				},
			}},
		},
	}}
	d := &fakeDiarizer{resp: &diarization.Response{
		Result: transcript.TurnIntervals([]transcript.Turn{
			{Start: 0, End: 1, Speaker: "SPEAKER_00"},
			{Start: 1, End: 2, Speaker: "SPEAKER_01"},
		}),
		NumSpeakers: 2,
	}}
	w := newFakeWriter()

	o := New(tr, d, w, Options{DiarizationEnabled: true})
	if err := o.Start(context.Background(), []string{"a.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	o.Wait()

	got := w.wrote["a.wav"]
	if len(got) != 2 {
		t.Fatalf("expected split on speaker change, got %+v", got)
	}
	if got[0].Speaker != "SPEAKER_00" || got[1].Speaker != "SPEAKER_01" {
		t.Errorf("unexpected speakers: %+v", got)
	}
}

func TestOrchestrator_Run_NoSignalFallsBackToPlainSegments(t *testing.T) {
	tr := &fakeTranscriber{responses: map[string]*transcription.Response{
		"a.wav": simpleResponse("just text"),
	}}
	d := &fakeDiarizer{resp: &diarization.Response{Result: transcript.NoSignal()}}
	w := newFakeWriter()

	o := New(tr, d, w, Options{DiarizationEnabled: true})
	if err := o.Start(context.Background(), []string{"a.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	o.Wait()

	got := w.wrote["a.wav"]
	if len(got) != 1 || got[0].Speaker != transcript.SpeakerUnknown {
		t.Errorf("expected plain unattributed segments, got %+v", got)
	}
}

func TestOrchestrator_Stop_MidFileDrainsAndHalts(t *testing.T) {
	tr := &fakeTranscriber{responses: map[string]*transcription.Response{
		"a.wav": simpleResponse("partial"),
		"b.wav": simpleResponse("never"),
	}}
	w := newFakeWriter()

	o := New(tr, nil, w, Options{})
	tr.onCall = func(string) { o.Stop() }

	if err := o.Start(context.Background(), []string{"a.wav", "b.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	o.Wait()

	snap := o.Snapshot()
	if snap.State != StateStopped {
		t.Errorf("expected stopped, got %s", snap.State)
	}
	if len(tr.calls) != 1 {
		t.Errorf("expected no further file after stop, got %v", tr.calls)
	}
	if len(w.wrote) != 0 {
		t.Errorf("stopped file must not be written, got %v", w.wrote)
	}
}

func TestOrchestrator_Start_RejectsConcurrentRun(t *testing.T) {
	block := make(chan struct{})
	tr := &fakeTranscriber{responses: map[string]*transcription.Response{
		"a.wav": simpleResponse("x"),
	}}
	tr.onCall = func(string) { <-block }

	o := New(tr, nil, newFakeWriter(), Options{})
	if err := o.Start(context.Background(), []string{"a.wav"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := o.Start(context.Background(), []string{"a.wav"}); err == nil {
		t.Error("expected second start to fail while running")
	}
	close(block)
	o.Wait()
}

func TestOrchestrator_Start_RejectsEmptyQueue(t *testing.T) {
	o := New(&fakeTranscriber{}, nil, newFakeWriter(), Options{})
	if err := o.Start(context.Background(), nil); err == nil {
		t.Error("expected error for empty queue")
	}
}

func TestOrchestrator_RecordError_PublishesFailedState(t *testing.T) {
	o := New(&fakeTranscriber{}, nil, newFakeWriter(), Options{})
	o.startFile(0, "a.wav")
	o.recordError("a.wav", fmt.Errorf("decode error"))

	snap := o.Snapshot()
	if snap.State != StateFailed {
		t.Errorf("expected failed state after a file error, got %s", snap.State)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("expected one recorded error, got %+v", snap.Errors)
	}

	// The next file's transcription stage replaces the transient state.
	o.startFile(1, "b.wav")
	o.setState(StateTranscribing)
	if got := o.Snapshot().State; got != StateTranscribing {
		t.Errorf("expected transcribing after next file starts, got %s", got)
	}
}

func TestOrchestrator_Progress_MonotonicWithinFile(t *testing.T) {
	o := New(&fakeTranscriber{}, nil, newFakeWriter(), Options{})
	o.setProgress(50)
	o.setProgress(30)
	if got := o.Snapshot().Progress; got != 50 {
		t.Errorf("progress must never decrease within a file, got %v", got)
	}
	o.startFile(1, "next.wav")
	if got := o.Snapshot().Progress; got != 0 {
		t.Errorf("progress must reset for the next file, got %v", got)
	}
}
