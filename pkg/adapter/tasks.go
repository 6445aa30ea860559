package adapter

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tinyland-inc/milky/pkg/logger"
)

// taskGroup tracks in-flight dispatch goroutines so shutdown can drain them.
// Tasks remove themselves on completion; the group only ever grows past its
// steady state while handlers are slower than the event stream.
type taskGroup struct {
	mu    sync.Mutex
	tasks map[string]chan struct{}
}

func newTaskGroup() *taskGroup {
	return &taskGroup{tasks: make(map[string]chan struct{})}
}

// Go runs fn on its own goroutine and tracks it until it returns.
func (g *taskGroup) Go(fn func()) {
	id := uuid.New().String()
	done := make(chan struct{})

	g.mu.Lock()
	g.tasks[id] = done
	g.mu.Unlock()

	go func() {
		defer func() {
			close(done)
			g.mu.Lock()
			delete(g.tasks, id)
			g.mu.Unlock()
		}()
		fn()
	}()
}

// Len reports the number of in-flight tasks.
func (g *taskGroup) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

// Drain waits for every in-flight task, at most timeout per task. Stuck
// tasks are logged and abandoned so one bad handler cannot wedge shutdown.
func (g *taskGroup) Drain(timeout time.Duration) {
	g.mu.Lock()
	snapshot := make(map[string]chan struct{}, len(g.tasks))
	for id, done := range g.tasks {
		snapshot[id] = done
	}
	g.mu.Unlock()

	for id, done := range snapshot {
		select {
		case <-done:
		case <-time.After(timeout):
			logger.WarnCF("milky", "Dispatch task did not finish before shutdown timeout", map[string]any{
				"task": id,
			})
		}
	}
}
