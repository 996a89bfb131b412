// Package pool runs build tasks either one after another in the primary
// source tree or across a bounded set of workers, each with a private
// workspace copy.
package pool

import (
	"SizeCompare/internal/execx"
	"SizeCompare/internal/logx"
	"SizeCompare/internal/metrics"
	"SizeCompare/internal/plan"
	"SizeCompare/internal/progress"
	"SizeCompare/internal/workspace"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type Pool struct {
	Runner     TaskRunner
	Workspaces Workspaces

	// Workers of zero runs sequentially in the primary tree.
	Workers int
	// Jobs is split across the workers still running; zero leaves it to
	// the build tool.
	Jobs     int
	Interval time.Duration

	Progress ProgressFunc
	Stats    *metrics.Stats
	Bar      *progress.Bar
	Log      *logx.Logger
}

// run is the state shared between the workers of one Run call.
type run struct {
	queue     *queue
	remaining atomic.Int32

	mu       sync.Mutex
	outcomes []Outcome
}

func (r *run) record(o Outcome) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
}

func (r *run) finished() []plan.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]plan.Task, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, o.Task)
	}
	return out
}

// Run processes every task once. A failing task is logged and recorded;
// it never stops the others.
func (p *Pool) Run(ctx context.Context, tasks []plan.Task) *Summary {
	if p.Workers <= 0 {
		return p.runSequential(ctx, tasks)
	}
	return p.runParallel(ctx, tasks)
}

func (p *Pool) runSequential(ctx context.Context, tasks []plan.Task) *Summary {
	r := &run{queue: newQueue(tasks)}
	ws := p.Workspaces.Primary()
	for {
		if ctx.Err() != nil {
			break
		}
		t, ok := r.queue.pop()
		if !ok {
			break
		}
		p.execute(ctx, r, p.Log, 0, t, ws, p.Jobs)
		p.report(r)
	}
	return p.finish(ctx, r)
}

func (p *Pool) runParallel(ctx context.Context, tasks []plan.Task) *Summary {
	r := &run{queue: newQueue(tasks)}
	n := p.Workers
	if n > len(tasks) {
		n = len(tasks)
	}
	r.remaining.Store(int32(n))

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			defer r.remaining.Add(-1)
			p.worker(ctx, r, i)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-done:
			p.Log.Infof("All threads returned")
			return p.finish(ctx, r)
		case <-ticker.C:
			p.Log.Infof("remaining-tasks=%d remaining-threads=%d elapsed=%ds",
				r.queue.len(), r.remaining.Load(), int(time.Since(start).Seconds()))
			p.report(r)
		}
	}
}

func (p *Pool) worker(ctx context.Context, r *run, n int) {
	log := p.Log.With(fmt.Sprintf("task-builder-%d", n))

	ws, err := p.Workspaces.Create(ctx, n)
	if err != nil {
		log.Errorf("workspace setup failed, worker exiting: %v", err)
		return
	}
	defer p.Workspaces.Release(ws)

	for {
		if ctx.Err() != nil {
			return
		}
		t, ok := r.queue.pop()
		if !ok {
			return
		}
		p.execute(ctx, r, log, n, t, ws, p.jobsFor(r.remaining.Load()))
	}
}

func (p *Pool) execute(ctx context.Context, r *run, log *logx.Logger, n int, t plan.Task, ws *workspace.Workspace, jobs int) {
	p.Stats.TaskStarted()
	err := p.Runner.Run(ctx, t, ws, jobs)
	if err != nil {
		log.Errorf("task %s failed: %v", t, err)
		if out := execx.Output(err); out != "" {
			log.Errorf("tool output:\n%s", out)
		}
	}
	r.record(Outcome{Task: t, Worker: n, Err: err})
	p.Stats.TaskDone(err)
	p.Bar.TaskDone()
}

// jobsFor divides the build-job budget among the workers still running.
func (p *Pool) jobsFor(remaining int32) int {
	if p.Jobs <= 0 {
		return 0
	}
	if remaining <= 0 {
		remaining = 1
	}
	j := p.Jobs / int(remaining)
	if j <= 0 {
		j = 1
	}
	return j
}

func (p *Pool) report(r *run) {
	if p.Progress != nil {
		p.Progress(r.finished())
	}
}

// finish records tasks nobody got to (cancellation, or every worker
// failing to set up) and publishes a last progress snapshot.
func (p *Pool) finish(ctx context.Context, r *run) *Summary {
	cause := ErrNotRun
	if ctx.Err() != nil {
		cause = fmt.Errorf("%w: %w", ErrNotRun, ctx.Err())
	}
	for _, t := range r.queue.drain() {
		r.record(Outcome{Task: t, Worker: -1, Err: cause})
		p.Stats.TaskDone(cause)
	}
	p.report(r)

	r.mu.Lock()
	defer r.mu.Unlock()
	return &Summary{Outcomes: append([]Outcome(nil), r.outcomes...)}
}
