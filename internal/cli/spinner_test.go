package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsLabel(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinnerOn(context.Background(), &buf, "Building predecessor graph...")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Building predecessor graph...") {
		t.Errorf("output %q does not contain the label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end by erasing the line", out)
	}
	if s.interrupted() {
		t.Error("plain stop reported as interrupted")
	}
}

func TestSpinnerRelabel(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinnerOn(context.Background(), &buf, "Building pruned tree...")
	time.Sleep(2 * spinnerInterval)
	s.relabel("Writing files...")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	i := strings.LastIndex(out, "Writing files...")
	if i < 0 {
		t.Fatalf("output %q does not contain the new label", out)
	}
	last := out[i:]
	// The shorter label is padded over the longer one it replaces.
	if !strings.Contains(last, "Writing files...       ") {
		t.Errorf("relabelled line %q is not padded", last)
	}
}

func TestSpinnerStopBeforeFirstFrame(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinnerOn(context.Background(), &buf, "Searching cycles of length 3...")
	s.stop()
	s.stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q without drawing a frame", buf.String())
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := startSpinnerOn(ctx, &buf, "Building predecessor graph...")
	cancel()

	select {
	case <-s.finished:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after context cancel")
	}
	if !s.interrupted() {
		t.Error("interrupted() = false after context cancel")
	}
	s.stop()
}

func TestSpinnerDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval/2)
	defer cancel()
	var buf bytes.Buffer
	s := startSpinnerOn(ctx, &buf, "Searching cycles of length 5...")

	select {
	case <-s.finished:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after deadline")
	}
	if !s.interrupted() {
		t.Error("interrupted() = false after deadline")
	}
}
