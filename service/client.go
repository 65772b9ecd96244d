package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/ppopth/gf2m/calc"
	"github.com/ppopth/gf2m/field"
	"github.com/ppopth/gf2m/host"
	"github.com/ppopth/gf2m/pb"

	"github.com/libp2p/go-libp2p/core/peer"
)

// ErrClientClosed is returned by calls made after Close or after the
// connection to the server was lost
var ErrClientClosed = errors.New("client closed")

// Client sends calculator requests to one remote server. Calls may be issued
// concurrently; responses are matched to calls by request id.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	peer peer.ID
	conn host.Connection

	mutex   sync.Mutex
	nextID  uint64
	pending map[uint64]chan *pb.Response
}

// Dial connects h to the server at addr and returns a client for it
func Dial(ctx context.Context, h *host.Host, addr net.Addr) (*Client, error) {
	peerID, err := h.Connect(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return NewClient(h, peerID)
}

// NewClient returns a client over an existing connection of h
func NewClient(h *host.Host, peerID peer.ID) (*Client, error) {
	conn, ok := h.Connection(peerID)
	if !ok {
		return nil, fmt.Errorf("not connected to peer %s", peerID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ctx:     ctx,
		cancel:  cancel,
		peer:    peerID,
		conn:    conn,
		pending: make(map[uint64]chan *pb.Response),
	}

	c.wg.Add(1)
	go c.receiveLoop()
	return c, nil
}

// Peer returns the ID of the server
func (c *Client) Peer() peer.ID {
	return c.peer
}

// Close stops the client. Calls still waiting fail with ErrClientClosed.
func (c *Client) Close() error {
	c.cancel()
	c.wg.Wait()
	return nil
}

// Call runs req on the server. Arithmetic failures come back as *field.Error
// with the kind reported by the server.
func (c *Client) Call(ctx context.Context, req calc.Request) (string, error) {
	if !req.Op.Valid() {
		return "", field.Errorf(field.InvalidOperation, "unknown operation %d", int(req.Op))
	}
	if req.M < 0 || uint64(req.M) > math.MaxUint32 {
		return "", field.Errorf(field.InvalidDegree, "field degree must be in 0..%d, 0 selecting the server default, not %d", uint32(math.MaxUint32), req.M)
	}

	ch := make(chan *pb.Response, 1)
	c.mutex.Lock()
	if c.ctx.Err() != nil {
		c.mutex.Unlock()
		return "", ErrClientClosed
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mutex.Unlock()

	defer func() {
		c.mutex.Lock()
		delete(c.pending, id)
		c.mutex.Unlock()
	}()

	buf, err := proto.Marshal(&pb.Request{
		Id:           id,
		Op:           req.Op.String(),
		Operand1:     req.Operand1,
		Operand2:     req.Operand2,
		InputFormat:  req.InputFormat,
		OutputFormat: req.OutputFormat,
		M:            uint32(req.M),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}
	if err := c.conn.Send(buf); err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return "", ErrClientClosed
		}
		return decodeResponse(resp)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func decodeResponse(resp *pb.Response) (string, error) {
	if !resp.Failed() {
		return resp.Result, nil
	}
	if kind, ok := field.ParseKind(resp.GetErrorKind()); ok {
		return "", &field.Error{Kind: kind, Msg: resp.Message}
	}
	return "", fmt.Errorf("server error: %s", resp.Message)
}

func (c *Client) receiveLoop() {
	defer c.wg.Done()
	defer c.failPending()

	for {
		buf, err := c.conn.Receive(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil {
				log.Debugf("connection to %s ended: %v", c.peer, err)
			}
			return
		}

		resp := &pb.Response{}
		if err := proto.Unmarshal(buf, resp); err != nil {
			log.Warnf("invalid packet received from %s: %v", c.peer, err)
			continue
		}

		c.mutex.Lock()
		ch, ok := c.pending[resp.GetId()]
		if ok {
			delete(c.pending, resp.GetId())
		}
		c.mutex.Unlock()

		if !ok {
			log.Warnf("response %d from %s matches no call", resp.GetId(), c.peer)
			continue
		}
		ch <- resp
	}
}

// failPending wakes every waiting call once the receive loop is gone
func (c *Client) failPending() {
	c.cancel()
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}
