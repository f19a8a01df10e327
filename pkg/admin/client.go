package admin

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Client reads the administrative event stream from a unix socket. Events
// are decoded one at a time and delivered on a channel in arrival order;
// nothing is buffered beyond the channel itself, so consumers see the exact
// feed ordering.
type Client struct {
	conn   net.Conn
	events chan Event
}

// Dial connects to the event feed socket. A failure here means the
// environment is unusable; callers translate it into the do-not-restart exit
// code.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection to the feed.
func NewClient(conn net.Conn) *Client {
	return &Client{
		conn:   conn,
		events: make(chan Event),
	}
}

// Events returns the delivery channel. It is closed when the feed ends.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Run decodes events until the stream or the context ends. Undecodable
// records abort the stream: the feed is a trusted local service and garbage
// on it means something is badly wrong.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.events)

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	dec := msgpack.NewDecoder(c.conn)
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Debug("Event feed closed")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			log.Errorf("Decoding event feed: %v", err)
			return err
		}

		select {
		case c.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// Close tears down the socket. Run returns shortly after.
func (c *Client) Close() error {
	return c.conn.Close()
}
