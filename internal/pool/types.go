package pool

import (
	"SizeCompare/internal/plan"
	"SizeCompare/internal/workspace"
	"context"
	"errors"
)

var ErrNotRun = errors.New("task not run")

type TaskRunner interface {
	Run(ctx context.Context, t plan.Task, ws *workspace.Workspace, jobs int) error
}

type Workspaces interface {
	Primary() *workspace.Workspace
	Create(ctx context.Context, n int) (*workspace.Workspace, error)
	Release(ws *workspace.Workspace)
}

// ProgressFunc receives every task that has finished so far, failed or
// not. It is only ever called from one goroutine at a time.
type ProgressFunc func(finished []plan.Task)

type Outcome struct {
	Task   plan.Task
	Worker int
	Err    error
}

type Summary struct {
	Outcomes []Outcome
}

func (s *Summary) Failed() []Outcome {
	out := make([]Outcome, 0)
	for _, o := range s.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

func (s *Summary) Tasks() []plan.Task {
	out := make([]plan.Task, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		out = append(out, o.Task)
	}
	return out
}
