package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Conn adapts a blocking byte stream to the non-blocking Source the game
// polls once per tick. A reader goroutine moves incoming bytes into a queue.
type Conn struct {
	rwc    io.ReadWriteCloser
	queue  *Queue
	logger *log.Logger

	writeMu sync.Mutex
	done    chan struct{}

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
}

var _ Source = (*Conn)(nil)

// NewConn starts reading from rwc.
func NewConn(rwc io.ReadWriteCloser, logger *log.Logger) *Conn {
	c := &Conn{
		rwc:    rwc,
		queue:  NewQueue(nil),
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Conn) readLoop() {
	defer close(c.done)
	buf := make([]byte, 256)
	full := false
	for {
		n, err := c.rwc.Read(buf)
		if n > 0 {
			_, werr := c.queue.Write(buf[:n])
			if werr != nil && !full {
				c.logger.Warn("link queue full, dropping input", "dropped", c.queue.Overflow())
			}
			full = werr != nil
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !errors.Is(err, os.ErrClosed) {
				c.logger.Warn("link read failed", "err", err)
			}
			c.errMu.Lock()
			c.err = err
			c.errMu.Unlock()
			return
		}
	}
}

// Write sends p to the peer.
func (c *Conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.rwc.Write(p)
}

// Buffered implements Source.
func (c *Conn) Buffered() int { return c.queue.Buffered() }

// Peek implements Source.
func (c *Conn) Peek(n int) ([]byte, error) { return c.queue.Peek(n) }

// Discard implements Source.
func (c *Conn) Discard(n int) (int, error) { return c.queue.Discard(n) }

// ReadByte implements Source.
func (c *Conn) ReadByte() (byte, error) { return c.queue.ReadByte() }

// Done is closed when the peer disconnects or the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that stopped the reader, if any.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close closes the stream and waits for the reader to exit.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.rwc.Close()
		<-c.done
	})
	return err
}

// Listen waits for a single controller to connect over TCP.
func Listen(ctx context.Context, addr string, logger *log.Logger) (*Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("link: listen %s: %w", addr, err)
	}
	defer ln.Close()
	logger.Info("Waiting for controller", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	nc, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("link: accept: %w", err)
	}
	logger.Info("Controller connected", "remote", nc.RemoteAddr().String())
	return NewConn(nc, logger), nil
}

// Dial connects to a game listening over TCP.
func Dial(ctx context.Context, addr string, logger *log.Logger) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("link: dial %s: %w", addr, err)
	}
	logger.Info("Connected to game", "addr", addr)
	return NewConn(nc, logger), nil
}

// OpenDevice opens a serial device file, such as a Bluetooth serial port
// that has already been configured.
func OpenDevice(path string, logger *log.Logger) (*Conn, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", path, err)
	}
	logger.Info("Opened serial device", "path", path)
	return NewConn(f, logger), nil
}

// Open connects using a target string:
//
//	listen:<addr>   accept one TCP connection (game side)
//	dial:<addr>     connect over TCP (controller side)
//	<path>          open a serial device file
func Open(ctx context.Context, target string, logger *log.Logger) (*Conn, error) {
	switch {
	case target == "":
		return nil, errors.New("link: empty target")
	case strings.HasPrefix(target, "listen:"):
		return Listen(ctx, strings.TrimPrefix(target, "listen:"), logger)
	case strings.HasPrefix(target, "dial:"):
		return Dial(ctx, strings.TrimPrefix(target, "dial:"), logger)
	default:
		return OpenDevice(target, logger)
	}
}
