package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

var ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")

var ErrEngineStopped = errors.New("scheduler: engine stopped")

// Trigger is a pending wake-up. Name identifies what should run when it fires.
type Trigger struct {
	ID   string
	Name string
	At   time.Time
}

type entry struct {
	trigger Trigger
	index   int
}

// triggerHeap orders entries by fire time and keeps each entry's index
// current so a trigger can be moved or removed by ID.
type triggerHeap []*entry

func (h triggerHeap) Len() int           { return len(h) }
func (h triggerHeap) Less(i, j int) bool { return h[i].trigger.At.Before(h[j].trigger.At) }

func (h triggerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *triggerHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *triggerHeap) Pop() any {
	old := *h
	e := old[len(old)-1]
	old[len(old)-1] = nil
	e.index = -1
	*h = old[:len(old)-1]
	return e
}

// Engine fires scheduled triggers in time order from one goroutine.
// Triggers are unique by ID: scheduling an ID that is already pending moves
// it. Delivery on C blocks until the trigger is received or the engine
// stops, so a slow consumer delays triggers but never loses one.
type Engine struct {
	mu      sync.Mutex
	pending triggerHeap
	byID    map[string]*entry
	out     chan Trigger
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Engine{
		byID:   make(map[string]*entry),
		out:    make(chan Trigger, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C delivers due triggers. It is closed once the engine stops.
func (e *Engine) C() <-chan Trigger {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.run()
}

// Stop ends the loop and waits for it. Pending triggers are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

func (e *Engine) Schedule(tr Trigger) error {
	if tr.At.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	if existing, ok := e.byID[tr.ID]; ok {
		existing.trigger = tr
		heap.Fix(&e.pending, existing.index)
	} else {
		item := &entry{trigger: tr}
		heap.Push(&e.pending, item)
		e.byID[tr.ID] = item
	}
	e.poke()
	return nil
}

// Cancel removes a pending trigger and reports whether it was pending.
func (e *Engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&e.pending, item.index)
	delete(e.byID, id)
	e.poke()
	return true
}

// Pending reports how many triggers are waiting to fire.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	timer.Stop()

	for {
		wait, ok := e.untilNext()
		var fire <-chan time.Time
		if ok {
			timer.Reset(wait)
			fire = timer.C
		}

		select {
		case <-e.stopCh:
			return
		case <-e.wakeup:
			timer.Stop()
		case <-fire:
			for {
				tr, due := e.popDue(time.Now())
				if !due {
					break
				}
				select {
				case e.out <- tr:
				case <-e.stopCh:
					return
				}
			}
		}
	}
}

func (e *Engine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) untilNext() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return 0, false
	}
	return max(time.Until(e.pending[0].trigger.At), 0), true
}

func (e *Engine) popDue(now time.Time) (Trigger, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 || e.pending[0].trigger.At.After(now) {
		return Trigger{}, false
	}
	item := heap.Pop(&e.pending).(*entry)
	delete(e.byID, item.trigger.ID)
	return item.trigger, true
}
