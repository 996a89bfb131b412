package metrics

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestStats_ConcurrentTaskDone(t *testing.T) {
	s := &Stats{RunID: "r1", Total: 100}
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.TaskStarted()
			if i%4 == 0 {
				s.TaskDone(errors.New("build failed"))
				return
			}
			s.TaskDone(nil)
		}(i)
	}
	wg.Wait()
	s.SetComparisons(7, 3)
	s.Stop()

	snap := s.Snapshot()
	want := Snapshot{RunID: "r1", DurationMs: snap.DurationMs, Total: 100, Started: 100, Processed: 100, Succeeded: 75, Failed: 25, Compared: 7, Identical: 3}
	if snap != want {
		t.Fatalf("snapshot:\n got: %+v\nwant: %+v", snap, want)
	}
}

func TestStats_NilSafe(t *testing.T) {
	var s *Stats
	s.TaskStarted()
	s.TaskDone(nil)
	s.SetComparisons(1, 1)
}

func TestPrint(t *testing.T) {
	s := &Stats{RunID: "abc", Total: 2, Processed: 2, Succeeded: 1, Failed: 1}
	var buf bytes.Buffer
	Print(&buf, s)
	out := buf.String()
	for _, want := range []string{"run: abc", "tasks: 2", "failed: 1", "succeeded: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
