package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ppopth/gf2m/calc"
	"github.com/ppopth/gf2m/gateway"
	"github.com/ppopth/gf2m/host"
	"github.com/ppopth/gf2m/service"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("gf2md")

// polynomialFlags collects repeated -poly m=hex overrides
type polynomialFlags []calc.Option

func (p *polynomialFlags) String() string {
	return fmt.Sprintf("%d overrides", len(*p))
}

func (p *polynomialFlags) Set(s string) error {
	degree, hex, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected m=hex, got %q", s)
	}
	var m int
	if _, err := fmt.Sscanf(degree, "%d", &m); err != nil {
		return fmt.Errorf("bad degree %q: %v", degree, err)
	}
	poly, ok := new(big.Int).SetString(strings.TrimPrefix(hex, "0x"), 16)
	if !ok {
		return fmt.Errorf("bad polynomial %q", hex)
	}
	*p = append(*p, calc.WithPolynomial(m, poly))
	return nil
}

func main() {
	var polynomials polynomialFlags
	var (
		httpAddr    = flag.String("http", "127.0.0.1:8000", "HTTP listen address, empty to disable")
		quicPort    = flag.Uint("port", host.DefaultPort, "QUIC RPC listen port, 0 to disable")
		origins     = flag.String("origins", gateway.DefaultOrigin, "comma-separated CORS origins")
		noSocketIO  = flag.Bool("no-socketio", false, "disable the socket.io endpoint")
		degree      = flag.Int("m", calc.DefaultDegree, "default field degree")
		maxDegree   = flag.Int("max-m", calc.DefaultMaxDegree, "largest accepted field degree")
		idleTimeout = flag.Duration("idle-timeout", host.DefaultMaxIdleTimeout, "QUIC idle timeout")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Var(&polynomials, "poly", "reducing polynomial override as m=hex, repeatable")
	flag.Parse()

	if err := logging.SetLogLevel("*", *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := append([]calc.Option{calc.WithDefaultDegree(*degree), calc.WithMaxDegree(*maxDegree)}, polynomials...)
	c, err := calc.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create calculator: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *quicPort != 0 {
		h, err := host.NewHost(
			host.WithAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), uint16(*quicPort))),
			host.WithMaxIdleTimeout(*idleTimeout),
		)
		if err != nil {
			log.Fatalf("Failed to create host: %v", err)
		}
		defer h.Close()

		server := service.NewServer(h, c)
		defer server.Close()
		log.Infof("RPC server %s listening on %s", h.ID(), h.LocalAddr())
	}

	if *httpAddr == "" {
		<-ctx.Done()
		return
	}

	var gatewayOpts []gateway.Option
	gatewayOpts = append(gatewayOpts, gateway.WithAllowedOrigins(strings.Split(*origins, ",")...))
	if *noSocketIO {
		gatewayOpts = append(gatewayOpts, gateway.WithoutSocketIO())
	}
	g, err := gateway.New(c, gatewayOpts...)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	l, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", *httpAddr, err)
	}
	start := time.Now()
	if err := g.Serve(ctx, l); err != nil {
		log.Errorf("HTTP gateway stopped: %v", err)
	}
	log.Infof("shut down after %s", time.Since(start).Round(time.Second))
}
