package service

import (
	"context"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/ppopth/gf2m/calc"
	"github.com/ppopth/gf2m/field"
	"github.com/ppopth/gf2m/host"
	"github.com/ppopth/gf2m/pb"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
)

var log = logging.Logger("service")

// Server answers calculator requests arriving from any connected peer
type Server struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	host *host.Host
	calc *calc.Calculator
}

// NewServer starts serving requests on every current and future connection of h
func NewServer(h *host.Host, c *calc.Calculator) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		ctx:    ctx,
		cancel: cancel,
		host:   h,
		calc:   c,
	}
	h.SetPeerHandlers(s.handleAddPeer, s.handleRemovePeer)
	return s
}

// Close stops the receive loops and waits for in-flight requests
func (s *Server) Close() error {
	s.cancel()
	s.host.SetPeerHandlers(nil, nil)
	s.wg.Wait()
	return nil
}

// handleAddPeer is called when a new peer connects
func (s *Server) handleAddPeer(peerID peer.ID, conn host.Connection) {
	log.Debugf("serving peer %s", peerID)

	// Start message processing loop for this peer
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			buf, err := conn.Receive(s.ctx)
			if err != nil {
				// Connection closed or context cancelled
				return
			}

			req := &pb.Request{}
			if err := proto.Unmarshal(buf, req); err != nil {
				log.Warnf("invalid packet received from %s: %v", peerID, err)
				continue
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				sendResponse(s.handleRequest(req), conn)
			}()
		}
	}()
}

// handleRemovePeer is called when a peer disconnects
func (s *Server) handleRemovePeer(peerID peer.ID) {
	log.Debugf("peer %s went away", peerID)
}

func (s *Server) handleRequest(req *pb.Request) *pb.Response {
	resp := &pb.Response{Id: req.GetId()}

	op, err := calc.ParseOperation(req.GetOp())
	if err != nil {
		return fillError(resp, err)
	}
	result, err := s.calc.Do(s.ctx, calc.Request{
		Op:           op,
		Operand1:     req.Operand1,
		Operand2:     req.Operand2,
		InputFormat:  req.InputFormat,
		OutputFormat: req.OutputFormat,
		M:            int(req.GetM()),
	})
	if err != nil {
		return fillError(resp, err)
	}

	resp.Result = result
	resp.Message = op.SuccessMessage()
	return resp
}

func fillError(resp *pb.Response, err error) *pb.Response {
	if kind, ok := field.KindOf(err); ok {
		resp.ErrorKind = kind.String()
	} else {
		resp.ErrorKind = pb.KindInternal
	}
	resp.Message = err.Error()
	return resp
}

func sendResponse(resp *pb.Response, conn host.Sender) {
	log.Debugf("sending response to %s: %v", conn.RemoteAddr(), resp)

	buf, err := proto.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal response: %v", err)
		return
	}
	if err := conn.Send(buf); err != nil {
		log.Errorf("failed to send response to %s: %v", conn.RemoteAddr(), err)
	}
}
