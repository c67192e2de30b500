package telegram

import (
	"sync"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// dispatcher runs jobs of one user in submission order on a goroutine of
// their own, while different users proceed in parallel. A user's goroutine
// exits once its queue is empty.
type dispatcher struct {
	mu     sync.Mutex
	queues map[domain.UserID][]func()
	wg     sync.WaitGroup
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[domain.UserID][]func())}
}

func (d *dispatcher) submit(id domain.UserID, job func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending, draining := d.queues[id]
	d.queues[id] = append(pending, job)
	if !draining {
		d.wg.Add(1)
		go d.drain(id)
	}
}

func (d *dispatcher) drain(id domain.UserID) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		pending := d.queues[id]
		if len(pending) == 0 {
			delete(d.queues, id)
			d.mu.Unlock()
			return
		}
		job := pending[0]
		d.queues[id] = pending[1:]
		d.mu.Unlock()
		job()
	}
}

// wait blocks until every submitted job has run.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
