package host

import (
	"crypto"
	"crypto/ed25519"
	"fmt"
	"net"
	"net/netip"
	"time"

	quic "github.com/quic-go/quic-go"
)

// HostOption configures a Host during construction
type HostOption func(*config) error

type config struct {
	endpoint       *net.UDPAddr
	maxIdleTimeout time.Duration
	maxFrameSize   int
	key            ed25519.PrivateKey // nil means a fresh key
}

func defaultConfig() config {
	return config{
		endpoint:       net.UDPAddrFromAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), DefaultPort)),
		maxIdleTimeout: DefaultMaxIdleTimeout,
		maxFrameSize:   DefaultMaxFrameSize,
	}
}

func (c *config) quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  c.maxIdleTimeout,
		KeepAlivePeriod: c.maxIdleTimeout / 2,
	}
}

// WithAddrPort sets the UDP address to listen on. Port 0 picks a free port.
func WithAddrPort(ep netip.AddrPort) HostOption {
	return func(c *config) error {
		c.endpoint = net.UDPAddrFromAddrPort(ep)
		return nil
	}
}

func WithMaxIdleTimeout(d time.Duration) HostOption {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("idle timeout must be positive, not %s", d)
		}
		c.maxIdleTimeout = d
		return nil
	}
}

// WithMaxFrameSize bounds the size of one message in either direction
func WithMaxFrameSize(n int) HostOption {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("frame size limit must be positive, not %d", n)
		}
		c.maxFrameSize = n
		return nil
	}
}

// WithIdentity fixes the host's key, and with it the peer ID. Only ed25519
// keys are supported.
func WithIdentity(privateKey crypto.PrivateKey) HostOption {
	return func(c *config) error {
		key, ok := privateKey.(ed25519.PrivateKey)
		if !ok {
			return fmt.Errorf("unsupported key type: %T", privateKey)
		}
		if len(key) != ed25519.PrivateKeySize {
			return fmt.Errorf("ed25519 key of %d bytes, expected %d", len(key), ed25519.PrivateKeySize)
		}
		c.key = key
		return nil
	}
}
