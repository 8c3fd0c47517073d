package orchestrator

// State identifies where a run currently is in its lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateLoading      State = "loading"
	StateTranscribing State = "transcribing"
	StateDiarizing    State = "diarizing"
	StateWriting      State = "writing"
	// StateFailed is the transient state published when a file fails. The
	// next file's transcription stage replaces it; the run itself still
	// ends in StateComplete or StateStopped.
	StateFailed   State = "failed"
	StateComplete State = "complete"
	StateStopped  State = "stopped"
)

// FileError records a per-file failure. A failed file never aborts the
// run; the worker logs it, records it, and moves to the next file.
type FileError struct {
	File string
	Err  error
}

// Snapshot is a consistent view of run state for the polling observer.
// All fields are copied under the run mutex; the observer never sees a
// torn update.
type Snapshot struct {
	RunID       string
	State       State
	CurrentFile string
	FileIndex   int
	FileCount   int
	// Progress is the per-file completion percentage in [0,100]. It is
	// monotonically non-decreasing within a file and resets when the next
	// file starts.
	Progress float64
	// Processed counts transcription segments consumed for the current file.
	Processed int
	Errors    []FileError
	Outputs   []string
}
