package event

import (
	"sync"
	"time"
)

// Connection identifies one subscribed pre-render callback. The zero value is never issued.
type Connection uint64

// subscription pairs a connection with its callback.
type subscription struct {
	id       Connection
	callback func()
}

// bus is the implementation of the Bus interface.
type bus struct {
	mu     sync.Mutex
	nextID Connection
	subs   []subscription
	frames uint64
	last   time.Duration
}

// Bus schedules per-frame callbacks. Callbacks fire on the render thread immediately before
// draw submission, in subscription order.
type Bus interface {
	// ConnectPreRender subscribes a callback to every pre-render event.
	//
	// Parameters:
	//   - callback: the function to call each frame
	//
	// Returns:
	//   - Connection: the handle used to disconnect
	ConnectPreRender(callback func()) Connection

	// DisconnectPreRender unsubscribes a callback. Unknown or zero connections are ignored.
	//
	// Parameters:
	//   - conn: the connection returned by ConnectPreRender
	DisconnectPreRender(conn Connection)

	// FirePreRender invokes every subscribed callback once. Callbacks may connect or
	// disconnect during the fire; changes take effect on the next fire.
	FirePreRender()

	// PreRenderCount retrieves the number of subscribed callbacks.
	//
	// Returns:
	//   - int: the subscription count
	PreRenderCount() int

	// Frames retrieves the number of completed FirePreRender calls.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// LastFireDuration retrieves how long the most recent FirePreRender took.
	//
	// Returns:
	//   - time.Duration: the duration
	LastFireDuration() time.Duration
}

var _ Bus = &bus{}

// NewBus creates a new Bus with no subscriptions.
//
// Returns:
//   - Bus: the bus
func NewBus() Bus {
	return &bus{}
}

func (b *bus) ConnectPreRender(callback func()) Connection {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, callback: callback})
	return b.nextID
}

func (b *bus) DisconnectPreRender(conn Connection) {
	if conn == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == conn {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *bus) FirePreRender() {
	start := time.Now()

	// callbacks run outside the lock so they can reconnect
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if s.callback != nil {
			s.callback()
		}
	}

	b.mu.Lock()
	b.frames++
	b.last = time.Since(start)
	b.mu.Unlock()
}

func (b *bus) PreRenderCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *bus) Frames() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

func (b *bus) LastFireDuration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
