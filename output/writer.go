package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/transcript"
)

// Format selects the per-segment body layout.
type Format string

const (
	// FormatWithTimestamps prints a [start --> end] line above each segment.
	FormatWithTimestamps Format = "with_timestamps"
	// FormatPlain prints segments as a speaker-prefixed conversation.
	FormatPlain Format = "plain_text"
)

// Metadata describes the source recording for the transcript header.
type Metadata struct {
	Language string
	Duration float64
}

// Writer renders transcripts into a fixed output directory.
type Writer struct {
	dir    string
	format Format
}

// NewWriter creates a writer targeting dir. An unrecognized format falls
// back to FormatWithTimestamps.
func NewWriter(dir string, format Format) *Writer {
	if format != FormatPlain {
		format = FormatWithTimestamps
	}
	return &Writer{dir: dir, format: format}
}

// Write renders the segments for audioPath and returns the transcript path.
// The output file is the audio file's base name with a .txt extension,
// placed in the writer's directory.
func (w *Writer) Write(audioPath string, meta Metadata, segments []transcript.Segment) (string, error) {
	name := filepath.Base(audioPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	outPath := filepath.Join(w.dir, stem+".txt")

	var b strings.Builder
	writeHeader(&b, name, meta)
	for _, seg := range segments {
		if w.format == FormatWithTimestamps {
			fmt.Fprintf(&b, "[%s --> %s]\n", formatTimestamp(seg.Start), formatTimestamp(seg.End))
		}
		b.WriteString(speakerPrefix(seg.Speaker))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Internal(err).WithDetail("dir", w.dir)
	}
	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return "", errors.Internal(err).WithDetail("path", outPath)
	}
	return outPath, nil
}

func writeHeader(b *strings.Builder, name string, meta Metadata) {
	fmt.Fprintf(b, "Transcript: %s\n", name)
	fmt.Fprintf(b, "Language: %s\n", meta.Language)
	fmt.Fprintf(b, "Duration: %.2f seconds\n", meta.Duration)
	b.WriteString(strings.Repeat("-", 80))
	b.WriteString("\n\n")
}

// speakerPrefix renders "NAME: " for labeled segments and nothing for
// segments without an attributed speaker.
func speakerPrefix(speaker string) string {
	if speaker == transcript.SpeakerUnknown {
		return ""
	}
	return speaker + ": "
}

// formatTimestamp renders whole seconds as HH:MM:SS.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
