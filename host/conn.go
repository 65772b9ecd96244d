package host

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	quic "github.com/quic-go/quic-go"
)

// Sender delivers whole messages to one peer, in order
type Sender interface {
	Send([]byte) error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// Receiver yields the messages of one peer in the order they were sent
type Receiver interface {
	Receive(context.Context) ([]byte, error)

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

type Connection interface {
	Sender
	Receiver

	Close() error
}

// traffic counts framed bytes, headers included, over all connections
type traffic struct {
	sent     atomic.Uint64
	received atomic.Uint64
}

// streamConn sends on a stream it opens itself and receives on the first
// stream the peer opens
type streamConn struct {
	qc      quic.Connection
	limit   int
	traffic *traffic

	sendMutex sync.Mutex
	out       quic.Stream

	recvMutex sync.Mutex
	in        quic.Stream
	inReady   chan struct{}
}

func newStreamConn(qc quic.Connection, limit int, t *traffic) *streamConn {
	c := &streamConn{
		qc:      qc,
		limit:   limit,
		traffic: t,
		inReady: make(chan struct{}),
	}
	go func() {
		s, err := qc.AcceptStream(qc.Context())
		if err != nil {
			return
		}
		c.in = s
		close(c.inReady)
	}()
	return c
}

func (c *streamConn) Send(msg []byte) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if c.out == nil {
		s, err := c.qc.OpenStreamSync(c.qc.Context())
		if err != nil {
			return fmt.Errorf("opening stream to %s: %w", c.RemoteAddr(), err)
		}
		c.out = s
	}
	if err := writeFrame(c.out, msg, c.limit); err != nil {
		return err
	}
	c.traffic.sent.Add(uint64(frameHeaderSize + len(msg)))
	return nil
}

// Receive blocks until a message arrives, the connection ends or ctx is
// done. A read interrupted by ctx leaves the stream mid-frame, so callers
// should drop the connection afterwards.
func (c *streamConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-c.inReady:
	case <-c.qc.Context().Done():
		return nil, context.Cause(c.qc.Context())
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.recvMutex.Lock()
	defer c.recvMutex.Unlock()

	c.in.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		c.in.SetReadDeadline(time.Now())
	})
	defer stop()

	msg, err := readFrame(c.in, c.limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	c.traffic.received.Add(uint64(frameHeaderSize + len(msg)))
	return msg, nil
}

func (c *streamConn) LocalAddr() net.Addr {
	return c.qc.LocalAddr()
}

func (c *streamConn) RemoteAddr() net.Addr {
	return c.qc.RemoteAddr()
}

func (c *streamConn) Close() error {
	return c.qc.CloseWithError(0, "")
}
