package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/ppopth/gf2m/calc"
	"github.com/ppopth/gf2m/field"
	"github.com/ppopth/gf2m/host"
	"github.com/ppopth/gf2m/service"

	logging "github.com/ipfs/go-log/v2"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <operation> <operand1> [operand2]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Operations: addition (add), subtraction (sub), multiplication (mul),\n")
	fmt.Fprintf(os.Stderr, "division (div), mod-reduction (mod), inverse (inv)\n\n")
	flag.PrintDefaults()
}

func main() {
	var (
		server       = flag.String("c", "", "RPC server address (host:port); computes locally when empty")
		inputFormat  = flag.String("in", "hexadecimal", "input format: binary or hexadecimal")
		outputFormat = flag.String("out", "hexadecimal", "output format: binary or hexadecimal")
		degree       = flag.Int("m", 0, "field degree, 0 for the server default")
		timeout      = flag.Duration("timeout", 10*time.Second, "time limit for the call")
		logLevel     = flag.String("log-level", "error", "log level (debug, info, warn, error)")
	)
	flag.Usage = usage
	flag.Parse()

	if err := logging.SetLogLevel("*", *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if flag.NArg() < 2 || flag.NArg() > 3 {
		usage()
		os.Exit(2)
	}

	op, err := calc.ParseOperation(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	req := calc.Request{
		Op:           op,
		Operand1:     flag.Arg(1),
		Operand2:     flag.Arg(2),
		InputFormat:  *inputFormat,
		OutputFormat: *outputFormat,
		M:            *degree,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var result string
	if *server == "" {
		result, err = runLocal(ctx, req)
	} else {
		result, err = runRemote(ctx, *server, req)
	}
	if err != nil {
		var fe *field.Error
		if errors.As(err, &fe) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fe.Kind, fe)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println(result)
}

func runLocal(ctx context.Context, req calc.Request) (string, error) {
	c, err := calc.New()
	if err != nil {
		return "", err
	}
	return c.Do(ctx, req)
}

func runRemote(ctx context.Context, server string, req calc.Request) (string, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return "", err
	}
	h, err := host.NewHost(host.WithAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), 0)))
	if err != nil {
		return "", err
	}
	defer h.Close()

	client, err := service.Dial(ctx, h, addr)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return client.Call(ctx, req)
}
