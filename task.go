package aqua

import (
	"sync"
	"sync/atomic"
)

// Task is a handle to a task submitted to the scheduler.
// It can be used to cancel the task and to inspect how it was scheduled.
type Task struct {
	// id is unique per scheduler and breaks ties between tasks due on the
	// same tick, keeping submission order.
	id uint64

	runnable Runnable
	async    bool

	// period is the number of ticks between runs, or 0 for a one-shot task.
	period int64

	// due is the tick the task runs on next.
	due int64

	cancelled atomic.Bool

	// index is the heap index for efficient removal
	index int
}

// ID returns the identifier of the task, unique within its scheduler.
func (t *Task) ID() uint64 {
	return t.id
}

// Async reports whether the task runs off the main world's transaction.
func (t *Task) Async() bool {
	return t.async
}

// Repeating reports whether the task runs more than once.
func (t *Task) Repeating() bool {
	return t.period > 0
}

// Period returns the ticks between runs of a repeating task, or 0.
func (t *Task) Period() int64 {
	return t.period
}

// Cancel prevents any future run of the task. A run already in progress is
// not interrupted. Cancel is safe to call on a nil task and more than once.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled.Store(true)
	}
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// taskQueue is a priority queue of tasks ordered by due tick, then id.
// It uses a binary heap for O(log n) insertion and removal.
type taskQueue struct {
	mu   sync.Mutex
	heap []*Task
}

// newTaskQueue creates a new task queue.
func newTaskQueue() *taskQueue {
	return &taskQueue{heap: make([]*Task, 0, 64)}
}

// less orders tasks by due tick, then by submission.
func (q *taskQueue) less(i, j int) bool {
	a, b := q.heap[i], q.heap[j]
	if a.due != b.due {
		return a.due < b.due
	}
	return a.id < b.id
}

// compactHeap removes cancelled tasks from the heap and rebuilds the heap property.
func (q *taskQueue) compactHeap() {
	write := 0
	for read := 0; read < len(q.heap); read++ {
		if !q.heap[read].cancelled.Load() {
			q.heap[write] = q.heap[read]
			q.heap[write].index = write
			write++
		}
	}

	for i := write; i < len(q.heap); i++ {
		q.heap[i] = nil
	}
	q.heap = q.heap[:write]

	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.down(i, len(q.heap))
	}
}

// Push adds a task to the queue with periodic cleanup of cancelled tasks.
func (q *taskQueue) Push(task *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) > 100 && len(q.heap)%100 == 0 {
		q.compactHeap()
	}

	task.index = len(q.heap)
	q.heap = append(q.heap, task)
	q.up(task.index)
}

// PopDue removes and returns, in order, all tasks due at or before tick.
// Cancelled tasks are dropped.
func (q *taskQueue) PopDue(tick int64) []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*Task
	for len(q.heap) > 0 && q.heap[0].due <= tick {
		task := q.pop()
		if !task.cancelled.Load() {
			due = append(due, task)
		}
	}
	return due
}

// Pending returns the number of queued tasks that are not cancelled.
func (q *taskQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, task := range q.heap {
		if !task.cancelled.Load() {
			n++
		}
	}
	return n
}

// Drain cancels and removes every queued task.
func (q *taskQueue) Drain() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, task := range q.heap {
		task.cancelled.Store(true)
		task.index = -1
		q.heap[i] = nil
	}
	q.heap = q.heap[:0]
}

// pop removes and returns the minimum task. Caller must hold lock.
func (q *taskQueue) pop() *Task {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	task := q.heap[n]
	q.heap[n] = nil // Allow GC
	q.heap = q.heap[:n]
	task.index = -1
	return task
}

// up moves task at index up the heap.
func (q *taskQueue) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !q.less(i, parent) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

// down moves task at index down the heap.
func (q *taskQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && q.less(right, left) {
			j = right
		}
		if !q.less(j, i) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

// swap swaps two tasks in the heap.
func (q *taskQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
