package driver

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"matchengine/internal/metrics"
	"matchengine/matching"
)

func newTestRunner(t *testing.T, opts Options, out *strings.Builder) *Runner {
	t.Helper()
	return New(matching.NewEngine(), out, zap.NewNop(), metrics.New(), opts)
}

func TestRunSimpleCrossProducesTradeThenSnapshot(t *testing.T) {
	var out strings.Builder
	r := newTestRunner(t, Options{}, &out)

	in := strings.NewReader("L B 1 1020 100\nL S 2 1010 60\n")
	if err := r.Run(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "O B 1 1020 100\n" +
		"M 1 2 1020 60\n" +
		"O B 1 1020 40\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunBlankLineProducesNoOutput(t *testing.T) {
	var out strings.Builder
	r := newTestRunner(t, Options{}, &out)

	in := strings.NewReader("# a comment\n\nL B 1 1020 100\n")
	if err := r.Run(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "O B 1 1020 100\n" {
		t.Fatalf("comment/blank lines must not print a snapshot, got %q", out.String())
	}
}

func TestRunMalformedInputSkippedAndContinues(t *testing.T) {
	var out strings.Builder
	r := newTestRunner(t, Options{}, &out)

	in := strings.NewReader("L B oops 1020 100\nL B 1 1020 100\n")
	if err := r.Run(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "O B 1 1020 100\n" {
		t.Fatalf("malformed line should be skipped silently (to stdout), got %q", out.String())
	}
}

func TestRunDuplicateIDSuppressesOutputForThatInput(t *testing.T) {
	var out strings.Builder
	r := newTestRunner(t, Options{}, &out)

	in := strings.NewReader("L B 1 1020 100\nL B 1 1030 50\nC 1\n")
	if err := r.Run(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "O B 1 1020 100\n" + "" // duplicate insert: no snapshot at all
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestRunPropagateBadIDStopsProcessing(t *testing.T) {
	var out strings.Builder
	r := newTestRunner(t, Options{PropagateBadID: true}, &out)

	in := strings.NewReader("C 99\nL B 1 1020 100\n")
	if err := r.Run(in); err == nil {
		t.Fatal("expected an error to propagate from the unknown cancel")
	}
	if out.String() != "" {
		t.Fatalf("no input should have produced output, got %q", out.String())
	}
}
