// Package streamer fans telemetry out to any number of subscribers.
package streamer

import "sync"

type Client[T any] struct {
	streamer *Streamer[T]
	input    chan<- *T
	C        <-chan *T
}

// Close unsubscribes the client, draining C until the streamer lets go.
func (c *Client[T]) Close() {
	for {
		select {
		case _, ok := <-c.C:
			if !ok {
				return
			}
		case c.streamer.remove <- c:
			return
		}
	}
}

type Streamer[T any] struct {
	mu        sync.Mutex
	isRunning bool
	clients   map[*Client[T]]bool
	add       chan *Client[T]
	remove    chan *Client[T]
	broadcast chan *T
	stop      chan bool
	done      chan struct{}
	dropped   uint64
}

func NewStreamer[T any](buffSize int) *Streamer[T] {
	return &Streamer[T]{
		clients:   make(map[*Client[T]]bool),
		add:       make(chan *Client[T]),
		remove:    make(chan *Client[T]),
		broadcast: make(chan *T, buffSize),
		stop:      make(chan bool),
		done:      make(chan struct{}),
	}
}

// NewClient subscribes to the stream. Run must be running.
func (m *Streamer[T]) NewClient(buffSize int) *Client[T] {
	ch := make(chan *T, buffSize)
	c := &Client[T]{
		streamer: m,
		input:    ch,
		C:        ch,
	}
	c.streamer.add <- c
	return c
}

// Broadcast queues data for every client. It returns false when the
// streamer is not running or its queue is full.
func (m *Streamer[T]) Broadcast(data *T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isRunning {
		return false
	}
	select {
	case m.broadcast <- data:
		return true
	default:
		m.dropped++
		return false
	}
}

// Dropped counts messages lost to a full queue or a slow client.
func (m *Streamer[T]) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

func (m *Streamer[T]) Run() {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return
	}
	m.isRunning = true
	m.mu.Unlock()
	defer close(m.done)
	for {
		select {
		case <-m.stop:
			for client := range m.clients {
				close(client.input)
			}
			clear(m.clients)
			return
		case client := <-m.add:
			m.clients[client] = true
		case client := <-m.remove:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.input)
			}
		case chunk := <-m.broadcast:
			for client := range m.clients {
				select {
				case client.input <- chunk:
				default:
					m.mu.Lock()
					m.dropped++
					m.mu.Unlock()
				}
			}
		}
	}
}

// Stop closes every client channel and waits for Run to return.
func (m *Streamer[T]) Stop() bool {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return false
	}
	m.isRunning = false
	m.mu.Unlock()
	m.stop <- true
	<-m.done
	return true
}
