package progress

import (
	"SizeCompare/internal/metrics"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

type SnapshotFn func() metrics.Snapshot

// Bar counts finished build tasks and refreshes its description from a
// metrics snapshot once per second.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan int
	done chan struct{}
	stop chan struct{}

	snap SnapshotFn
}

func New(totalTasks int, snap SnapshotFn) *Bar {
	return NewWithWriter(os.Stderr, totalTasks, snap)
}

func NewWithWriter(w io.Writer, totalTasks int, snap SnapshotFn) *Bar {
	b := &Bar{
		ch:   make(chan int, 64),
		done: make(chan struct{}),
		stop: make(chan struct{}),
		snap: snap,
	}

	b.bar = progressbar.NewOptions(
		totalTasks,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("building"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
	)
	_ = b.bar.RenderBlank()

	go func() {
		defer close(b.done)
		for n := range b.ch {
			_ = b.bar.Add(n)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.updateDescription()
			case <-b.stop:
				return
			}
		}
	}()

	return b
}

// TaskDone advances the bar by one finished task.
func (b *Bar) TaskDone() {
	if b == nil {
		return
	}
	b.ch <- 1
}

func (b *Bar) Close() {
	if b == nil {
		return
	}
	close(b.stop)
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.snap == nil {
		return
	}
	b.bar.Describe(Describe(b.snap()))
}

func Describe(s metrics.Snapshot) string {
	return fmt.Sprintf("building %d/%d tasks | ok=%d failed=%d | compared=%d identical=%d",
		s.Processed, s.Total, s.Succeeded, s.Failed, s.Compared, s.Identical,
	)
}
