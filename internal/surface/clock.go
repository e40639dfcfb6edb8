package surface

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// Scheduler is the host's display refresh primitive.
type Scheduler interface {
	RequestFrame(cb func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	cb func(time.Time)
}

// FrameClock is a Scheduler advanced explicitly, once per display refresh.
// Callbacks requested while a frame is running are deferred to the next
// Advance. All callbacks run on the goroutine that calls Advance.
type FrameClock struct {
	mu      sync.Mutex
	next    FrameID
	queue   []frameRequest
	live    map[FrameID]struct{}
	tasks   []func()
	frames  uint64
	advance chan struct{}
}

func NewFrameClock() *FrameClock {
	return &FrameClock{
		live:    make(map[FrameID]struct{}),
		advance: make(chan struct{}, 1),
	}
}

func (c *FrameClock) RequestFrame(cb func(time.Time)) FrameID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	id := c.next
	c.queue = append(c.queue, frameRequest{id: id, cb: cb})
	c.live[id] = struct{}{}
	return id
}

func (c *FrameClock) CancelFrame(id FrameID) {
	c.mu.Lock()
	delete(c.live, id)
	c.mu.Unlock()
}

// Post queues fn to run on the clock's goroutine before the next frame's
// callbacks. Safe to call from any goroutine.
func (c *FrameClock) Post(fn func()) {
	c.mu.Lock()
	c.tasks = append(c.tasks, fn)
	c.mu.Unlock()
	select {
	case c.advance <- struct{}{}:
	default:
	}
}

// Pending returns the number of live frame requests.
func (c *FrameClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}

// Frames returns how many times Advance has run.
func (c *FrameClock) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// RunTasks drains posted tasks without running a frame.
func (c *FrameClock) RunTasks() {
	c.mu.Lock()
	tasks := c.tasks
	c.tasks = nil
	c.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
}

// Advance runs posted tasks, then every frame callback that was requested
// before this call and not cancelled since. It returns the number of
// callbacks invoked.
func (c *FrameClock) Advance(now time.Time) int {
	c.RunTasks()

	c.mu.Lock()
	batch := c.queue
	c.queue = nil
	c.frames++
	c.mu.Unlock()

	ran := 0
	for _, req := range batch {
		c.mu.Lock()
		_, ok := c.live[req.id]
		delete(c.live, req.id)
		c.mu.Unlock()
		if !ok {
			continue
		}
		req.cb(now)
		ran++
	}
	return ran
}

// Run advances the clock at fps until ctx is done. Posted tasks run as
// soon as they arrive.
func (c *FrameClock) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.advance:
			c.RunTasks()
		case now := <-ticker.C:
			c.Advance(now)
		}
	}
}
