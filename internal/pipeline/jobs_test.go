package pipeline

import (
	"testing"
	"time"

	"github.com/avandyck/outliner/internal/outline"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("report.pdf", []byte("%PDF-1.4"))
	if job.Status != StatusQueued {
		t.Fatalf("expected queued, got %s", job.Status)
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing document"},
		{StatusStoring, "storing results"},
		{StatusCompleted, "done"},
	}
	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)
		if job.Status != tr.status || job.Phase != tr.phase {
			t.Errorf("expected %s/%s, got %s/%s", tr.status, tr.phase, job.Status, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Error("expected UpdatedAt to advance")
		}
	}
}

func TestJob_SnapshotCarriesResult(t *testing.T) {
	job := NewJob("report.pdf", nil)
	doc := &outline.Document{
		Title: "Sample",
		Outline: []outline.HeadingEntry{
			{Level: "H1", Text: "Intro", Page: 0},
		},
	}
	job.SetResult(doc, []outline.StageTrace{{Stage: "classify", Survived: 1}}, 3)

	snap := job.Snapshot()
	if snap.Title != "Sample" {
		t.Errorf("expected title in snapshot, got %q", snap.Title)
	}
	if snap.Progress.Headings != 1 || snap.Progress.Pages != 3 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(job.Traces()) != 1 {
		t.Errorf("expected 1 trace, got %d", len(job.Traces()))
	}
}

func TestJobStore_PutGetCleanup(t *testing.T) {
	s := NewJobStore(10 * time.Millisecond)
	job := NewJob("a.pdf", nil)
	s.Put(job)

	if s.Get(job.ID) == nil {
		t.Fatal("expected job to be retrievable")
	}

	job.UpdatedAt = time.Now().Add(-time.Minute)
	s.Cleanup()
	if s.Get(job.ID) != nil {
		t.Error("expected expired job to be evicted")
	}
}

func TestJobStore_CleanupConcurrentWithUpdates(t *testing.T) {
	s := NewJobStore(time.Hour)
	job := NewJob("a.pdf", nil)
	s.Put(job)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			job.SetStatus(StatusParsing, "parsing document")
		}
	}()
	for i := 0; i < 100; i++ {
		s.Cleanup()
	}
	<-done

	if s.Get(job.ID) == nil {
		t.Error("expected live job to survive cleanup")
	}
}

func TestJobStore_FindByHash(t *testing.T) {
	s := NewJobStore(time.Hour)

	done := NewJob("a.pdf", nil)
	done.ContentHash = "abc"
	done.Status = StatusCompleted
	s.Put(done)

	pending := NewJob("b.pdf", nil)
	pending.ContentHash = "def"
	pending.Status = StatusParsing
	s.Put(pending)

	if got := s.FindByHash("abc", "other"); got == nil || got.ID != done.ID {
		t.Errorf("expected completed job for hash abc, got %+v", got)
	}
	if got := s.FindByHash("abc", done.ID); got != nil {
		t.Error("expected the submitting job itself to be excluded")
	}
	if got := s.FindByHash("def", "other"); got != nil {
		t.Error("expected in-flight job not to count as duplicate")
	}
	if got := s.FindByHash("", "other"); got != nil {
		t.Error("expected empty hash to match nothing")
	}
}

func TestNewULID_UniqueAndSorted(t *testing.T) {
	a := newULID()
	b := newULID()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("expected 26-char ids, got %q %q", a, b)
	}
	if a == b {
		t.Error("expected unique ids")
	}
}
