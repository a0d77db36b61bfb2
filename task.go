package rig

import (
	"log/slog"
	"sync"
	"time"
)

// debouncedTask is one pending keyed action.
type debouncedTask struct {
	key       any
	executeAt time.Time
	action    func()
	cancelled bool

	// index is the heap index for efficient removal
	index int
}

// Debouncer is a keyed task queue. Scheduling a key that is already pending cancels the
// pending action and reschedules it, so a burst of schedules under one key runs once,
// delay after the last of them.
//
// Actions only run from RunDue, so they execute on whichever goroutine pumps the queue.
// A panicking action is logged and does not prevent the other due actions from running.
type Debouncer struct {
	mu      sync.Mutex
	heap    []*debouncedTask
	pending map[any]*debouncedTask

	delay  time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewDebouncer creates a debouncer delaying actions by delay as measured by now.
func NewDebouncer(delay time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{
		heap:    make([]*debouncedTask, 0, 16),
		pending: make(map[any]*debouncedTask),
		delay:   delay,
		now:     now,
		logger:  slog.Default(),
	}
}

// ScheduleOnce schedules action under key, replacing any pending action for that key.
func (d *Debouncer) ScheduleOnce(key any, action func()) {
	if action == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.cancelled = true
	}

	if len(d.heap) > 64 && len(d.heap) > 2*len(d.pending) {
		d.compactHeap()
	}

	task := &debouncedTask{
		key:       key,
		executeAt: d.now().Add(d.delay),
		action:    action,
	}
	d.pending[key] = task
	d.push(task)
}

// RunDue runs every action due at now and returns how many ran.
func (d *Debouncer) RunDue(now time.Time) int {
	d.mu.Lock()
	var due []*debouncedTask
	for len(d.heap) > 0 && !d.heap[0].executeAt.After(now) {
		task := d.pop()
		if task.cancelled {
			continue
		}
		if d.pending[task.key] == task {
			delete(d.pending, task.key)
		}
		due = append(due, task)
	}
	d.mu.Unlock()

	// Run outside the lock; actions may schedule again.
	for _, task := range due {
		d.run(task)
	}
	return len(due)
}

// run executes one action, recovering a panic so the remaining actions still run.
func (d *Debouncer) run(task *debouncedTask) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("rig: debounced action panicked", "key", task.key, "panic", r)
		}
	}()
	task.action()
}

// Pending reports whether an action is pending under key.
func (d *Debouncer) Pending(key any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Len returns the number of pending keys.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Clear drops every pending action.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.heap {
		d.heap[i] = nil
	}
	d.heap = d.heap[:0]
	clear(d.pending)
}

// compactHeap removes cancelled tasks and restores the heap property. Caller must hold lock.
func (d *Debouncer) compactHeap() {
	write := 0
	for read := 0; read < len(d.heap); read++ {
		if !d.heap[read].cancelled {
			d.heap[write] = d.heap[read]
			d.heap[write].index = write
			write++
		}
	}
	for i := write; i < len(d.heap); i++ {
		d.heap[i] = nil
	}
	d.heap = d.heap[:write]

	for i := len(d.heap)/2 - 1; i >= 0; i-- {
		d.down(i, len(d.heap))
	}
}

// push adds a task. Caller must hold lock.
func (d *Debouncer) push(task *debouncedTask) {
	task.index = len(d.heap)
	d.heap = append(d.heap, task)
	d.up(task.index)
}

// pop removes and returns the earliest task. Caller must hold lock.
func (d *Debouncer) pop() *debouncedTask {
	n := len(d.heap) - 1
	d.swap(0, n)
	d.down(0, n)
	task := d.heap[n]
	d.heap[n] = nil
	d.heap = d.heap[:n]
	task.index = -1
	return task
}

func (d *Debouncer) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !d.heap[i].executeAt.Before(d.heap[parent].executeAt) {
			break
		}
		d.swap(i, parent)
		i = parent
	}
}

func (d *Debouncer) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && d.heap[right].executeAt.Before(d.heap[left].executeAt) {
			j = right
		}
		if !d.heap[j].executeAt.Before(d.heap[i].executeAt) {
			break
		}
		d.swap(i, j)
		i = j
	}
}

func (d *Debouncer) swap(i, j int) {
	d.heap[i], d.heap[j] = d.heap[j], d.heap[i]
	d.heap[i].index = i
	d.heap[j].index = j
}
