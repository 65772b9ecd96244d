package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ppopth/gf2m/calc"
	"github.com/ppopth/gf2m/field"

	socketio "github.com/googollee/go-socket.io"
	logging "github.com/ipfs/go-log/v2"
	"github.com/rs/cors"
)

var log = logging.Logger("gateway")

const (
	// DefaultOrigin is the browser origin allowed by default
	DefaultOrigin = "http://localhost:8000"

	defaultFormat  = "hexadecimal"
	maxRequestBody = 1 << 20

	statusMessage = "Status check successful"
)

const landingPage = `<html>
    <head>
        <title>Polynomial Arithmetic Calculator</title>
    </head>
    <body>
        <h1>Polynomial Arithmetic Calculator</h1>
        <p>Welcome to the Polynomial Arithmetic Calculator API</p>
    </body>
</html>
`

// Envelope is the body of every JSON response
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ResultData is the data of an operation response; Result is null on failure
type ResultData struct {
	Result *string `json:"result"`
}

// operationRequest is the body of an operation call. Inverse sends its
// single operand as "poly".
type operationRequest struct {
	Poly1      string `json:"poly1"`
	Poly2      string `json:"poly2"`
	Poly       string `json:"poly"`
	InputType  string `json:"input_type"`
	OutputType string `json:"output_type"`
	M          int    `json:"m"`
}

func (r *operationRequest) toRequest(op calc.Operation) calc.Request {
	req := calc.Request{
		Op:           op,
		Operand1:     r.Poly1,
		Operand2:     r.Poly2,
		InputFormat:  r.InputType,
		OutputFormat: r.OutputType,
		M:            r.M,
	}
	if op.Unary() && r.Poly != "" {
		req.Operand1 = r.Poly
	}
	if req.InputFormat == "" {
		req.InputFormat = defaultFormat
	}
	if req.OutputFormat == "" {
		req.OutputFormat = defaultFormat
	}
	return req
}

// Option configures a Gateway during construction
type Option func(*Gateway) error

// WithAllowedOrigins replaces the CORS origin list
func WithAllowedOrigins(origins ...string) Option {
	return func(g *Gateway) error {
		if len(origins) == 0 {
			return errors.New("at least one origin is required")
		}
		g.origins = origins
		return nil
	}
}

// WithoutSocketIO disables the /socket.io/ endpoint
func WithoutSocketIO() Option {
	return func(g *Gateway) error {
		g.socketIO = false
		return nil
	}
}

// Gateway serves the calculator over HTTP
type Gateway struct {
	calc     *calc.Calculator
	origins  []string
	socketIO bool

	socket  *socketio.Server
	handler http.Handler
}

// New builds the HTTP handler tree around c
func New(c *calc.Calculator, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		calc:     c,
		origins:  []string{DefaultOrigin},
		socketIO: true,
	}

	for _, opt := range opts {
		err := opt(g)
		if err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", g.handleRoot)
	mux.HandleFunc("GET /status", g.handleStatus)
	mux.HandleFunc("POST /operations/{op}", g.handleOperation)
	if g.socketIO {
		g.socket = newSocketServer(c)
		mux.Handle("/socket.io/", g.socket)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   g.origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
	})
	g.handler = accessLog(corsHandler.Handler(mux))
	return g, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.handler.ServeHTTP(w, r)
}

// Serve accepts connections on l until ctx is done
func (g *Gateway) Serve(ctx context.Context, l net.Listener) error {
	if g.socket != nil {
		go func() {
			if err := g.socket.Serve(); err != nil {
				log.Errorf("socket.io server stopped: %v", err)
			}
		}()
		defer g.socket.Close()
	}

	server := &http.Server{
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	})
	defer stop()

	log.Infof("serving HTTP on %s", l.Addr())
	err := server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (g *Gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, landingPage)
}

func (g *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Envelope{Message: statusMessage, Data: struct{}{}})
}

func (g *Gateway) handleOperation(w http.ResponseWriter, r *http.Request) {
	op, err := calc.ParseOperation(r.PathValue("op"))
	if err != nil || r.PathValue("op") != op.String() {
		writeJSON(w, http.StatusNotFound, Envelope{Message: "Not Found", Data: ResultData{}})
		return
	}

	var body operationRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := decoder.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Message: "invalid JSON body: " + err.Error(), Data: ResultData{}})
		return
	}

	status, envelope := g.run(r.Context(), body.toRequest(op))
	writeJSON(w, status, envelope)
}

// run executes req and maps the outcome to an HTTP status and envelope
func (g *Gateway) run(ctx context.Context, req calc.Request) (int, Envelope) {
	result, err := g.calc.Do(ctx, req)
	if err != nil {
		return statusOf(err), Envelope{Message: err.Error(), Data: ResultData{}}
	}
	return http.StatusOK, Envelope{Message: req.Op.SuccessMessage(), Data: ResultData{Result: &result}}
}

// statusOf maps InvalidFormat to 400, other arithmetic errors to 422 and
// anything else to 500
func statusOf(err error) int {
	kind, ok := field.KindOf(err)
	switch {
	case !ok:
		return http.StatusInternalServerError
	case kind == field.InvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to write response: %v", err)
	}
}
