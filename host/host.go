package host

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"maps"
	"net"
	"slices"
	"sync"
	"time"

	quic "github.com/quic-go/quic-go"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
)

var log = logging.Logger("host")

const (
	DefaultPort = 7001

	// DefaultMaxIdleTimeout closes connections that carry no traffic
	DefaultMaxIdleTimeout = 5 * time.Minute

	alpn = "gf2m/1"
)

// AddPeerHandler is called with the host's lock held when a peer connects
type AddPeerHandler func(peer.ID, Connection)

// RemovePeerHandler is called with the host's lock held when a peer's
// connection ends
type RemovePeerHandler func(peer.ID)

// Host is a QUIC endpoint. Peers are named by the libp2p ID of the ed25519
// key in their TLS certificate, and each peer has at most one connection.
type Host struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cfg      config
	id       *identity
	udp      *net.UDPConn
	tr       *quic.Transport
	listener *quic.Listener
	traffic  traffic

	mutex    sync.Mutex
	peers    map[peer.ID]*streamConn
	onAdd    AddPeerHandler
	onRemove RemovePeerHandler
}

// NewHost listens for QUIC connections and accepts them in the background
func NewHost(opts ...HostOption) (*Host, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	id, err := newIdentity(cfg.key)
	if err != nil {
		return nil, err
	}

	udp, err := net.ListenUDP("udp", cfg.endpoint)
	if err != nil {
		return nil, err
	}
	tr := &quic.Transport{Conn: udp}
	listener, err := tr.Listen(&tls.Config{
		Certificates: []tls.Certificate{id.cert},
		ClientAuth:   tls.RequireAnyClientCert,
		NextProtos:   []string{alpn},
	}, cfg.quicConfig())
	if err != nil {
		tr.Close()
		udp.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Host{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		id:       id,
		udp:      udp,
		tr:       tr,
		listener: listener,
		peers:    make(map[peer.ID]*streamConn),
	}
	h.wg.Add(1)
	go h.acceptLoop()
	return h, nil
}

// Connect dials addr and returns the peer ID proven by its certificate
func (h *Host) Connect(ctx context.Context, addr net.Addr) (peer.ID, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	qc, err := h.tr.Dial(ctx, addr, &tls.Config{
		Certificates: []tls.Certificate{h.id.cert},
		// Peers are authenticated by the key in their certificate, not a CA
		InsecureSkipVerify: true,
		NextProtos:         []string{alpn},
	}, h.cfg.quicConfig())
	if err != nil {
		return "", fmt.Errorf("dialing %s: %w", addr, err)
	}

	peerID, err := h.adopt(qc)
	if err != nil {
		qc.CloseWithError(0, err.Error())
		return "", err
	}
	log.Infof("connected to %s at %s", peerID, addr)
	return peerID, nil
}

func (h *Host) LocalAddr() net.Addr {
	return h.udp.LocalAddr()
}

func (h *Host) ID() peer.ID {
	return h.id.peerID
}

func (h *Host) Connection(peerID peer.ID) (Connection, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	conn, ok := h.peers[peerID]
	if !ok {
		return nil, false
	}
	return conn, true
}

func (h *Host) Peers() []peer.ID {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return slices.Collect(maps.Keys(h.peers))
}

// BytesSent and BytesReceived count framed traffic over the host's lifetime
func (h *Host) BytesSent() uint64 {
	return h.traffic.sent.Load()
}

func (h *Host) BytesReceived() uint64 {
	return h.traffic.received.Load()
}

// SetPeerHandlers installs the peer callbacks and replays the add handler
// for peers that are already connected. Either handler may be nil.
func (h *Host) SetPeerHandlers(onAdd AddPeerHandler, onRemove RemovePeerHandler) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.onAdd = onAdd
	h.onRemove = onRemove
	if onAdd == nil {
		return
	}
	for peerID, conn := range h.peers {
		onAdd(peerID, conn)
	}
}

// Close drops every connection and releases the UDP socket
func (h *Host) Close() error {
	h.cancel()
	err := h.tr.Close()
	if cerr := h.udp.Close(); err == nil && !errors.Is(cerr, net.ErrClosed) {
		err = cerr
	}
	h.wg.Wait()
	return err
}

// adopt registers a handshaken connection under the peer ID of its
// certificate. A second connection from the same peer is refused.
func (h *Host) adopt(qc quic.Connection) (peer.ID, error) {
	certs := qc.ConnectionState().TLS.PeerCertificates
	if len(certs) == 0 {
		return "", errors.New("peer presented no TLS certificate")
	}
	peerID, err := certPeerID(certs[0])
	if err != nil {
		return "", fmt.Errorf("reading peer ID from certificate: %w", err)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.peers[peerID]; ok {
		return "", fmt.Errorf("already connected to peer %s", peerID)
	}
	conn := newStreamConn(qc, h.cfg.maxFrameSize, &h.traffic)
	h.peers[peerID] = conn
	if h.onAdd != nil {
		h.onAdd(peerID, conn)
	}

	h.wg.Add(1)
	go h.forget(peerID, qc)
	return peerID, nil
}

// forget removes peerID once its connection is gone
func (h *Host) forget(peerID peer.ID, qc quic.Connection) {
	defer h.wg.Done()
	<-qc.Context().Done()

	h.mutex.Lock()
	delete(h.peers, peerID)
	if h.onRemove != nil {
		h.onRemove(peerID)
	}
	h.mutex.Unlock()
	log.Debugf("connection to %s closed", peerID)
}

func (h *Host) acceptLoop() {
	defer h.wg.Done()
	log.Infof("host %s listening on %s", h.ID(), h.LocalAddr())

	for {
		qc, err := h.listener.Accept(h.ctx)
		if err != nil {
			if h.ctx.Err() == nil {
				log.Warnf("accept: %v", err)
			}
			return
		}

		peerID, err := h.adopt(qc)
		if err != nil {
			log.Warnf("rejecting %s: %v", qc.RemoteAddr(), err)
			qc.CloseWithError(0, err.Error())
			continue
		}
		log.Debugf("accepted %s from %s", peerID, qc.RemoteAddr())
	}
}
