package transcript

// ResultKind discriminates the closed Result variant.
type ResultKind int

const (
	// ResultNone means no speaker signal was produced.
	ResultNone ResultKind = iota
	// ResultWordLabels means every word carries a speaker label.
	ResultWordLabels
	// ResultTurns means speaker labels come as an ordered list of turns.
	ResultTurns
)

// String returns the kind name for logging.
func (k ResultKind) String() string {
	switch k {
	case ResultWordLabels:
		return "word_labels"
	case ResultTurns:
		return "turn_intervals"
	default:
		return "none"
	}
}

// Result is the tagged outcome of a diarization attempt. It is constructed
// only through NoSignal, WordLabels or TurnIntervals, so consumers can
// switch exhaustively on Kind.
type Result struct {
	kind  ResultKind
	words []Word
	turns []Turn
}

// NoSignal returns a Result carrying no speaker information.
func NoSignal() Result {
	return Result{kind: ResultNone}
}

// WordLabels returns a Result where every word has been assigned a speaker.
func WordLabels(words []Word) Result {
	return Result{kind: ResultWordLabels, words: words}
}

// TurnIntervals returns a Result carrying ordered speaker turns.
func TurnIntervals(turns []Turn) Result {
	return Result{kind: ResultTurns, turns: turns}
}

// Kind returns the variant tag.
func (r Result) Kind() ResultKind { return r.kind }

// Words returns the labeled words. Valid only for ResultWordLabels.
func (r Result) Words() []Word { return r.words }

// Turns returns the ordered speaker turns. Valid only for ResultTurns.
func (r Result) Turns() []Turn { return r.turns }
