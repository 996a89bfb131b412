package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

type Snapshot struct {
	RunID      string
	DurationMs int64
	Total      int64
	Started    int64
	Processed  int64
	Succeeded  int64
	Failed     int64
	Compared   int64
	Identical  int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		RunID:      s.RunID,
		DurationMs: s.Duration().Milliseconds(),
		Total:      atomic.LoadInt64(&s.Total),
		Started:    atomic.LoadInt64(&s.Started),
		Processed:  atomic.LoadInt64(&s.Processed),
		Succeeded:  atomic.LoadInt64(&s.Succeeded),
		Failed:     atomic.LoadInt64(&s.Failed),
		Compared:   atomic.LoadInt64(&s.Compared),
		Identical:  atomic.LoadInt64(&s.Identical),
	}
}

func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	fmt.Fprintln(w, "--- stats ---")
	fmt.Fprintln(w, "run:", snap.RunID)
	fmt.Fprintln(w, "duration_ms:", snap.DurationMs)
	fmt.Fprintln(w, "tasks:", snap.Total)
	fmt.Fprintln(w, "processed:", snap.Processed)
	fmt.Fprintln(w, "succeeded:", snap.Succeeded)
	fmt.Fprintln(w, "failed:", snap.Failed)
	fmt.Fprintln(w, "compared:", snap.Compared)
	fmt.Fprintln(w, "identical:", snap.Identical)

	if snap.DurationMs > 0 && snap.Processed > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		fmt.Fprintln(w, "seconds_per_task:", secs/float64(snap.Processed))
	}
}
