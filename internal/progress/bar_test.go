package progress

import (
	"SizeCompare/internal/metrics"
	"bytes"
	"sync"
	"testing"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func TestDescribe(t *testing.T) {
	got := Describe(metrics.Snapshot{Total: 8, Processed: 3, Succeeded: 2, Failed: 1, Compared: 4, Identical: 1})
	want := "building 3/8 tasks | ok=2 failed=1 | compared=4 identical=1"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBar_CountsAndCloses(t *testing.T) {
	w := &syncBuffer{}
	b := NewWithWriter(w, 3, func() metrics.Snapshot { return metrics.Snapshot{} })
	for i := 0; i < 3; i++ {
		b.TaskDone()
	}
	b.Close()

	if got := b.bar.State().CurrentNum; got != 3 {
		t.Fatalf("bar count: got %d want 3", got)
	}
}

func TestBar_NilSafe(t *testing.T) {
	var b *Bar
	b.TaskDone()
	b.Close()
}
