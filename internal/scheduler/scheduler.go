package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("marknav.scheduler")

// ErrStopped is returned when submitting to a stopped scheduler.
var ErrStopped = errors.New("scheduler stopped")

type Task struct {
	Name    string
	Execute func() error
}

type job struct {
	task Task
	done chan error
}

// Scheduler runs tasks one at a time, in submission order.
type Scheduler struct {
	taskQueue chan job
	stopChan  chan struct{}
	mu        sync.RWMutex
	stopped   bool
	wg        sync.WaitGroup
}

// NewScheduler creates a new Scheduler with the specified queue size
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		taskQueue: make(chan job, queueSize),
		stopChan:  make(chan struct{}),
	}
}

// RunScheduler starts the scheduler loop
func (s *Scheduler) RunScheduler() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case j := <-s.taskQueue:
				s.execute(j)
			case <-s.stopChan:
				// drain what was queued before the stop
				for {
					select {
					case j := <-s.taskQueue:
						s.execute(j)
					default:
						return
					}
				}
			}
		}
	}()
}

func (s *Scheduler) execute(j job) {
	log.Debugf("executing %s task", j.task.Name)
	err := j.task.Execute()
	if err != nil {
		log.Debugf("task %s: %s", j.task.Name, err)
	}
	j.done <- err
}

// Submit queues task and waits for it to finish. It returns the task's
// error, or the context error if ctx ends before the task is queued.
func (s *Scheduler) Submit(ctx context.Context, task Task) error {
	j := job{task: task, done: make(chan error, 1)}

	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrStopped
	}
	select {
	case s.taskQueue <- j:
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}
	s.mu.RUnlock()

	return <-j.done
}

// StopScheduler waits for all queued tasks to complete and stops the scheduler
func (s *Scheduler) StopScheduler() {
	s.mu.Lock()
	if !s.stopped {
		log.Infof("stopping scheduler")
		s.stopped = true
		close(s.stopChan)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
