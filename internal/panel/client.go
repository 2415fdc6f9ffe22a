package panel

import (
	"errors"
	"io"
	"log"
	"net"
	"sync/atomic"
	"time"
)

// ErrShortRead names the condition of a connection closed mid-frame: a short
// read followed by EOF is fatal to that connection. Client.Run returns no
// error; it logs the short read, drops the connection and reconnects.
var ErrShortRead = errors.New("panel: short read followed by EOF")

// Client is the reference panel-side reader: it dials the publisher,
// reconnecting on any fatal error, reads exactly frameLen bytes per
// message, and hands each complete frame to onFrame.
type Client struct {
	addr     string
	frameLen int
	dialer   net.Dialer

	onFrame func([]byte)

	running atomic.Bool
	stopCh  chan struct{}

	reconnects    atomic.Int64
	framesRead    atomic.Int64
	skippedFrames atomic.Int64
}

// NewClient creates a panel client that reconnects to addr and reports full
// frames of exactly frameLen bytes to onFrame.
func NewClient(addr string, frameLen int, onFrame func([]byte)) *Client {
	return &Client{
		addr:     addr,
		frameLen: frameLen,
		onFrame:  onFrame,
		stopCh:   make(chan struct{}),
	}
}

// Run blocks, connecting and reconnecting until Stop is called.
func (c *Client) Run() {
	c.running.Store(true)
	for c.running.Load() {
		conn, err := c.dialer.Dial("tcp", c.addr)
		if err != nil {
			log.Printf("panel client: dial %s failed: %v", c.addr, err)
			if !c.sleepOrStop(time.Second) {
				return
			}
			continue
		}
		c.reconnects.Add(1)
		c.readLoop(conn)
		conn.Close()
		if !c.running.Load() {
			return
		}
		c.sleepOrStop(time.Second)
	}
}

// Stop halts Run.
func (c *Client) Stop() {
	c.running.Store(false)
	close(c.stopCh)
}

func (c *Client) sleepOrStop(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.stopCh:
		return false
	}
}

// readLoop reads one frame at a time from conn. A partial frame followed by
// EOF is fatal (the connection is simply dropped and Run reconnects — the
// "fatal" outcome is that this connection's stream is abandoned, not that
// the process dies); any other read error is counted as a skipped frame
// and also drops the connection, so Run reconnects.
func (c *Client) readLoop(conn net.Conn) {
	buf := make([]byte, c.frameLen)
	for {
		n, err := io.ReadFull(conn, buf)
		switch {
		case err == nil:
			c.framesRead.Add(1)
			frame := append([]byte(nil), buf[:n]...)
			if c.onFrame != nil {
				c.onFrame(frame)
			}
		case errors.Is(err, io.EOF) && n == 0:
			return
		case errors.Is(err, io.ErrUnexpectedEOF):
			log.Printf("panel client: short read (%d/%d bytes) followed by EOF, dropping connection", n, c.frameLen)
			return
		default:
			c.skippedFrames.Add(1)
			log.Printf("panel client: recoverable read error, skipping: %v", err)
			return
		}
	}
}

// Stats reports reconnect and frame counters.
func (c *Client) Stats() (reconnects, framesRead, skipped int64) {
	return c.reconnects.Load(), c.framesRead.Load(), c.skippedFrames.Load()
}
