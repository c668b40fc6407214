package dummy

import (
	"io"
	"net"
	"sync"
)

// CircularClient is a client that on every read-operation returns the next piece of data
// it was initialised with, starting over after the last one. Everything written to it is
// accumulated and can be retrieved via Written.
type CircularClient struct {
	mu              sync.Mutex
	data            [][]byte
	written         []byte
	pointer         int
	closed, oneTime bool
}

func NewCircularClient(data ...[]byte) *CircularClient {
	return &CircularClient{
		data: data,
	}
}

func (c *CircularClient) Read() (data []byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || len(c.data) == 0 {
		return nil, io.EOF
	}

	if c.pointer >= len(c.data) {
		if c.oneTime {
			c.closed = true
			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *CircularClient) Write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return net.ErrClosed
	}

	c.written = append(c.written, b...)

	return nil
}

func (*CircularClient) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 16100}
}

func (c *CircularClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	return nil
}

// OneTime makes the client return io.EOF after all the pieces were read once.
func (c *CircularClient) OneTime() *CircularClient {
	c.oneTime = true
	return c
}

// Written returns everything that was written so far.
func (c *CircularClient) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.written
}

// Closed reports whether Close was called or the data was exhausted.
func (c *CircularClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// FailingClient delivers its data once, and then fails every write.
type FailingClient struct {
	*CircularClient
}

func NewFailingClient(data ...[]byte) FailingClient {
	return FailingClient{NewCircularClient(data...).OneTime()}
}

func (FailingClient) Write([]byte) error {
	return io.ErrClosedPipe
}
