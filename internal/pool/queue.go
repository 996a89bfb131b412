package pool

import (
	"SizeCompare/internal/plan"
	"sync"
)

// queue is the pending-task list shared by all workers. pop hands each
// task to exactly one caller.
type queue struct {
	mu    sync.Mutex
	tasks []plan.Task
}

func newQueue(tasks []plan.Task) *queue {
	return &queue{tasks: append([]plan.Task(nil), tasks...)}
}

func (q *queue) pop() (plan.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return plan.Task{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// drain empties the queue and returns what was left.
func (q *queue) drain() []plan.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	left := q.tasks
	q.tasks = nil
	return left
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
