package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// capture redirects logger output into a buffer and restores the
// defaults when the test finishes.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off by default")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose on after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off after SetVerbose(false)")
	}
}

func TestLevels_FormatAndPrefix(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("Document %s split into %d chunks", "notes", 4)
	Info("Ingested document %s (%d chunks)", "notes", 4)
	Warn("Rollback: remove vector %s: %v", "notes_0", "gone")

	want := "[DEBUG] Document notes split into 4 chunks\n" +
		"[INFO] Ingested document notes (4 chunks)\n" +
		"[WARN] Rollback: remove vector notes_0: gone\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
}

func TestSection_Header(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Sparse Retrieval")

	if got := buf.String(); got != "\n=== Sparse Retrieval ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestQuietUnlessVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("query classified as factual")
	Info("Fused %d candidates", 12)
	Warn("embedding service slow")
	Section("Fusion")

	if buf.Len() > 0 {
		t.Errorf("expected silence when verbose is off, got %q", buf.String())
	}
}

func TestConcurrentUse(t *testing.T) {
	buf := capture(t)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			SetVerbose(true)
			Debug("worker %d ingesting", n)
			IsVerbose()
			SetVerbose(false)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	// Whatever interleaving occurred, every emitted line is well-formed.
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line != "" && !strings.HasPrefix(line, "[DEBUG] worker ") {
			t.Errorf("malformed log line: %q", line)
		}
	}
}
