package metrics

import (
	"sync/atomic"
	"time"
)

type Stats struct {
	RunID string

	Total     int64
	Started   int64
	Processed int64
	Succeeded int64
	Failed    int64
	Compared  int64
	Identical int64

	Begin  time.Time
	Finish time.Time
}

func (s *Stats) Start() { s.Begin = time.Now() }
func (s *Stats) Stop()  { s.Finish = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Begin.IsZero() {
		return 0
	}
	if s.Finish.IsZero() {
		return time.Since(s.Begin)
	}
	return s.Finish.Sub(s.Begin)
}

// TaskStarted and TaskDone are called by workers; they are safe for
// concurrent use.
func (s *Stats) TaskStarted() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.Started, 1)
}

func (s *Stats) TaskDone(err error) {
	if s == nil {
		return
	}
	if err != nil {
		atomic.AddInt64(&s.Failed, 1)
	} else {
		atomic.AddInt64(&s.Succeeded, 1)
	}
	atomic.AddInt64(&s.Processed, 1)
}

// SetComparisons records the size of the latest comparison table.
func (s *Stats) SetComparisons(compared, identical int) {
	if s == nil {
		return
	}
	atomic.StoreInt64(&s.Compared, int64(compared))
	atomic.StoreInt64(&s.Identical, int64(identical))
}
