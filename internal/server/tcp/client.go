package tcp

import (
	"net"
	"time"
)

type Client interface {
	// Read returns the next portion of data received from the connection. The returned
	// slice is valid only until the next call.
	Read() ([]byte, error)
	Write([]byte) error
	Remote() net.Addr
	Close() error
}

type client struct {
	buff                      []byte
	conn                      net.Conn
	readTimeout, writeTimeout time.Duration
}

// NewClient wraps the connection. Zero timeout disables the corresponding deadline.
func NewClient(conn net.Conn, readTimeout, writeTimeout time.Duration, buff []byte) Client {
	return &client{
		buff:         buff,
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (c *client) Read() ([]byte, error) {
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return nil, err
		}
	}

	n, err := c.conn.Read(c.buff)

	return c.buff[:n], err
}

func (c *client) Write(b []byte) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}

	_, err := c.conn.Write(b)

	return err
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
