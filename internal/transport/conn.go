// Package transport carries protocol frames over a websocket connection.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Options configures Dial
type Options struct {
	HandshakeTimeout time.Duration // default 10s
	WriteTimeout     time.Duration // per write, default 5s
	ReadLimit        int64         // max inbound frame size in bytes, default 1 MiB
	Header           http.Header
}

// DefaultOptions returns production-safe defaults
func DefaultOptions() Options {
	return Options{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		ReadLimit:        1 << 20,
	}
}

// ErrClosed is returned by operations on a closed connection
var ErrClosed = errors.New("transport: connection closed")

// Conn is a websocket connection to the game server.
// One goroutine may read (ReadFrame or Pump) while another writes.
type Conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
	closed       atomic.Bool
	closeOnce    sync.Once

	// Stats
	framesIn  atomic.Uint64
	framesOut atomic.Uint64
	bytesIn   atomic.Uint64
	bytesOut  atomic.Uint64
}

// Stats is a point-in-time copy of connection counters
type Stats struct {
	FramesIn  uint64 `json:"framesIn"`
	FramesOut uint64 `json:"framesOut"`
	BytesIn   uint64 `json:"bytesIn"`
	BytesOut  uint64 `json:"bytesOut"`
}

// Dial opens a websocket connection to url
func Dial(ctx context.Context, url string, opts Options) (*Conn, error) {
	def := DefaultOptions()
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = def.HandshakeTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = def.ReadLimit
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	ws, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	ws.SetReadLimit(opts.ReadLimit)

	return newConn(ws, opts.WriteTimeout), nil
}

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, writeTimeout: writeTimeout}
}

// ReadFrame blocks until the next data frame arrives
func (c *Conn) ReadFrame() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		if c.closed.Load() {
			return nil, ErrClosed
		}
		return nil, err
	}
	c.framesIn.Add(1)
	c.bytesIn.Add(uint64(len(data)))
	return data, nil
}

// Pump reads frames into out until the connection fails or ctx is done.
// It never inspects frame contents. A close by the peer is returned as the
// websocket close error; ctx cancellation returns ctx.Err().
func (c *Conn) Pump(ctx context.Context, out chan<- []byte) error {
	// expire the pending read on cancellation
	stop := context.AfterFunc(ctx, func() {
		c.ws.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		frame, err := c.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WriteJSON marshals v and sends it as one text frame
func (c *Conn) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return c.WriteFrame(data)
}

// WriteFrame sends data as one text frame
func (c *Conn) WriteFrame(data []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	c.framesOut.Add(1)
	c.bytesOut.Add(uint64(len(data)))
	return nil
}

// Close sends a normal close frame (best effort) and closes the socket.
// It unblocks a pending ReadFrame. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}

// Stats returns connection counters
func (c *Conn) Stats() Stats {
	return Stats{
		FramesIn:  c.framesIn.Load(),
		FramesOut: c.framesOut.Load(),
		BytesIn:   c.bytesIn.Load(),
		BytesOut:  c.bytesOut.Load(),
	}
}

// IsCloseError reports whether err is a websocket close (normal or going away)
func IsCloseError(err error) bool {
	return errors.Is(err, ErrClosed) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
