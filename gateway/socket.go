package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ppopth/gf2m/calc"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
)

const (
	operationEvent = "operation"
	resultEvent    = "result"
)

// socketRequest is the payload of an "operation" event
type socketRequest struct {
	Op string `json:"op"`
	operationRequest
}

// socketReply is the payload of the "result" event sent back
type socketReply struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Data    ResultData `json:"data"`
}

func newSocketServer(c *calc.Calculator) *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		PingTimeout: time.Minute,
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Debugf("socket.io client %s connected", s.ID())
		return nil
	})
	server.OnEvent("/", operationEvent, func(s socketio.Conn, val any) {
		s.Emit(resultEvent, handleSocketOperation(c, val))
	})
	server.OnError("/", func(s socketio.Conn, e error) {
		if s != nil {
			log.Warnf("socket.io client %s: %v", s.ID(), e)
			return
		}
		log.Warnf("socket.io: %v", e)
	})
	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Debugf("socket.io client %s disconnected: %s", s.ID(), reason)
	})
	return server
}

// handleSocketOperation runs one "operation" event payload. The payload
// arrives as decoded JSON of unknown shape, so it is re-encoded into
// socketRequest.
func handleSocketOperation(c *calc.Calculator, val any) socketReply {
	var req socketRequest
	buf, err := json.Marshal(val)
	if err == nil {
		err = json.Unmarshal(buf, &req)
	}
	if err != nil {
		return socketReply{Status: http.StatusBadRequest, Message: "invalid payload: " + err.Error()}
	}

	op, err := calc.ParseOperation(req.Op)
	if err != nil {
		return socketReply{Status: statusOf(err), Message: err.Error()}
	}

	result, err := c.Do(context.Background(), req.toRequest(op))
	if err != nil {
		return socketReply{Status: statusOf(err), Message: err.Error()}
	}
	return socketReply{
		Status:  http.StatusOK,
		Message: op.SuccessMessage(),
		Data:    ResultData{Result: &result},
	}
}
