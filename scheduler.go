package aqua

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df-mc/dragonfly/server/world"
	"golang.org/x/sync/semaphore"
)

// Executor runs functions in a transaction of the plugin's main world.
// Exec must not block until fn has run; the scheduler waits for completion
// itself. *world.World is adapted by worldExecutor.
type Executor interface {
	Exec(fn func(tx *world.Tx))
}

// worldExecutor runs functions in transactions of a single world.
type worldExecutor struct {
	w *world.World
}

// Exec implements Executor.
func (e worldExecutor) Exec(fn func(tx *world.Tx)) {
	e.w.Exec(fn)
}

// Scheduler runs tasks on a fixed tick, in the spirit of a game server's main
// thread: synchronous tasks due on a tick all run, in order, inside one
// transaction of the main world. Asynchronous tasks run on goroutines, at most
// Config.AsyncWorkers at a time.
//
// Delays and periods are measured in ticks. A Scheduler is started once and
// stopped once.
type Scheduler struct {
	exec Executor
	log  *slog.Logger

	queue  *taskQueue
	nextID atomic.Uint64

	// Async execution
	async   *semaphore.Weighted
	asyncWG sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// Execution state
	running  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Int64
}

// newScheduler creates a scheduler running synchronous tasks through exec.
func newScheduler(exec Executor, conf Config, log *slog.Logger) *Scheduler {
	workers := conf.AsyncWorkers
	if workers < 1 {
		workers = 1
	}
	tickRate := conf.TickRate
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		exec:     exec,
		log:      log,
		queue:    newTaskQueue(),
		async:    semaphore.NewWeighted(int64(workers)),
		ctx:      ctx,
		cancel:   cancel,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		tickRate: tickRate,
	}
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}
	go s.tickLoop()
}

// Stop cancels every pending task, ends the tick loop and waits for running
// asynchronous tasks to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.running.Load() {
			<-s.doneCh
		}
		s.queue.Drain()
		s.cancel()
		s.asyncWG.Wait()
	})
}

// tickLoop is the main scheduler loop.
func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick advances the tick counter and runs every task due on the new tick.
func (s *Scheduler) tick() {
	now := s.tickNumber.Add(1)

	due := s.queue.PopDue(now)
	if len(due) == 0 {
		return
	}

	var syncTasks []*Task
	for _, task := range due {
		if task.async {
			s.runAsync(task)
			s.reschedule(task, now)
			continue
		}
		syncTasks = append(syncTasks, task)
	}

	if len(syncTasks) == 0 {
		return
	}

	done := make(chan struct{})
	s.exec.Exec(func(tx *world.Tx) {
		defer close(done)
		for _, task := range syncTasks {
			if task.Cancelled() {
				continue
			}
			s.run(task, tx)
		}
	})

	select {
	case <-done:
	case <-s.stopCh:
		return
	}

	for _, task := range syncTasks {
		s.reschedule(task, now)
	}
}

// reschedule queues a repeating task for its next run.
func (s *Scheduler) reschedule(task *Task, now int64) {
	if task.period == 0 || task.Cancelled() {
		return
	}
	// Drift-free timing
	task.due += task.period
	if task.due <= now {
		// Catch up if we're behind
		task.due = now + task.period
	}
	s.queue.Push(task)
}

// runAsync runs a task on its own goroutine once a worker slot is free.
func (s *Scheduler) runAsync(task *Task) {
	s.asyncWG.Add(1)
	go func() {
		defer s.asyncWG.Done()
		if err := s.async.Acquire(s.ctx, 1); err != nil {
			return // Stopped while waiting
		}
		defer s.async.Release(1)

		if task.Cancelled() {
			return
		}
		s.run(task, nil)
	}()
}

// run executes a task with panic recovery.
func (s *Scheduler) run(task *Task, tx *world.Tx) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("aqua: task panicked",
				"task", task.id,
				"async", task.async,
				"err", fmt.Errorf("%v", r),
				"stack", string(debug.Stack()))
		}
	}()
	task.runnable.Run(tx)
}

// schedule queues a task. Delays below 1, including negative ones, run on
// the next tick, and a repeating period below 1 is treated as 1.
func (s *Scheduler) schedule(r Runnable, async bool, delay, period int64, repeating bool) *Task {
	if r == nil {
		panic("aqua: nil runnable")
	}
	if delay < 1 {
		delay = 1
	}
	if repeating && period < 1 {
		period = 1
	}
	if !repeating {
		period = 0
	}

	task := &Task{
		id:       s.nextID.Add(1),
		runnable: r,
		async:    async,
		period:   period,
		due:      s.tickNumber.Load() + delay,
	}

	select {
	case <-s.stopCh:
		// Stopped schedulers hand out cancelled tasks.
		task.cancelled.Store(true)
		return task
	default:
	}

	s.queue.Push(task)
	return task
}

// RunTask runs r on the next tick in the main world's transaction.
func (s *Scheduler) RunTask(r Runnable) *Task {
	return s.schedule(r, false, 0, 0, false)
}

// RunTaskAsync runs r on the next tick on its own goroutine.
func (s *Scheduler) RunTaskAsync(r Runnable) *Task {
	return s.schedule(r, true, 0, 0, false)
}

// RunTaskLater runs r after delay ticks in the main world's transaction.
func (s *Scheduler) RunTaskLater(r Runnable, delay int64) *Task {
	return s.schedule(r, false, delay, 0, false)
}

// RunTaskLaterAsync runs r after delay ticks on its own goroutine.
func (s *Scheduler) RunTaskLaterAsync(r Runnable, delay int64) *Task {
	return s.schedule(r, true, delay, 0, false)
}

// RunTaskTimer runs r every period ticks, starting period ticks from now,
// in the main world's transaction until the returned task is cancelled.
func (s *Scheduler) RunTaskTimer(r Runnable, period int64) *Task {
	return s.schedule(r, false, period, period, true)
}

// RunTaskTimerDelayed runs r every period ticks, starting after delay ticks,
// in the main world's transaction until the returned task is cancelled.
func (s *Scheduler) RunTaskTimerDelayed(r Runnable, delay, period int64) *Task {
	return s.schedule(r, false, delay, period, true)
}

// RunTaskTimerAsync runs r every period ticks, starting period ticks from now,
// on its own goroutine until the returned task is cancelled.
func (s *Scheduler) RunTaskTimerAsync(r Runnable, period int64) *Task {
	return s.schedule(r, true, period, period, true)
}

// RunTaskTimerAsyncDelayed runs r every period ticks, starting after delay
// ticks, on its own goroutine until the returned task is cancelled.
func (s *Scheduler) RunTaskTimerAsyncDelayed(r Runnable, delay, period int64) *Task {
	return s.schedule(r, true, delay, period, true)
}

// Pending returns the number of tasks waiting for their next run.
func (s *Scheduler) Pending() int {
	return s.queue.Pending()
}

// CancelAll cancels every pending task. The scheduler keeps running.
func (s *Scheduler) CancelAll() {
	s.queue.Drain()
}

// CurrentTick returns the number of ticks run so far.
func (s *Scheduler) CurrentTick() int64 {
	return s.tickNumber.Load()
}

// RunTask runs r on the next tick with the current plugin's scheduler.
//
// Usage:
//
//	aqua.RunTask(aqua.RunnableFunc(func(tx *world.Tx) {
//	    aqua.Broadcast(tx, "Round starting!")
//	}))
func RunTask(r Runnable) *Task {
	return Current().scheduler.RunTask(r)
}

// RunTaskAsync runs r on the next tick, asynchronously, with the current
// plugin's scheduler.
func RunTaskAsync(r Runnable) *Task {
	return Current().scheduler.RunTaskAsync(r)
}

// RunTaskLater runs r after delay ticks with the current plugin's scheduler.
func RunTaskLater(r Runnable, delay int64) *Task {
	return Current().scheduler.RunTaskLater(r, delay)
}

// RunTaskLaterAsync runs r asynchronously after delay ticks with the current
// plugin's scheduler.
func RunTaskLaterAsync(r Runnable, delay int64) *Task {
	return Current().scheduler.RunTaskLaterAsync(r, delay)
}

// RunTaskTimer runs r every period ticks with the current plugin's scheduler.
func RunTaskTimer(r Runnable, period int64) *Task {
	return Current().scheduler.RunTaskTimer(r, period)
}

// RunTaskTimerDelayed runs r every period ticks after delay ticks with the
// current plugin's scheduler.
func RunTaskTimerDelayed(r Runnable, delay, period int64) *Task {
	return Current().scheduler.RunTaskTimerDelayed(r, delay, period)
}

// RunTaskTimerAsync runs r asynchronously every period ticks with the current
// plugin's scheduler.
func RunTaskTimerAsync(r Runnable, period int64) *Task {
	return Current().scheduler.RunTaskTimerAsync(r, period)
}

// RunTaskTimerAsyncDelayed runs r asynchronously every period ticks after
// delay ticks with the current plugin's scheduler.
func RunTaskTimerAsyncDelayed(r Runnable, delay, period int64) *Task {
	return Current().scheduler.RunTaskTimerAsyncDelayed(r, delay, period)
}
