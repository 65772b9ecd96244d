package host

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"

	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// identity is the key a host authenticates with and the names derived from it
type identity struct {
	peerID peer.ID
	cert   tls.Certificate
}

// newIdentity derives the peer ID and a self-signed certificate from key,
// generating a key when none is given
func newIdentity(key ed25519.PrivateKey) (*identity, error) {
	if key == nil {
		var err error
		if _, key, err = ed25519.GenerateKey(rand.Reader); err != nil {
			return nil, err
		}
	}

	peerID, err := peerIDOf(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	cert, err := selfSignedCert(key)
	if err != nil {
		return nil, fmt.Errorf("creating certificate: %w", err)
	}
	return &identity{peerID: peerID, cert: cert}, nil
}

func peerIDOf(pub ed25519.PublicKey) (peer.ID, error) {
	pk, err := ic.UnmarshalEd25519PublicKey(pub)
	if err != nil {
		return "", err
	}
	return peer.IDFromPublicKey(pk)
}

func selfSignedCert(key ed25519.PrivateKey) (tls.Certificate, error) {
	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "gf2m"},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		return tls.Certificate{}, err
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}

// certPeerID names the owner of an ed25519 certificate
func certPeerID(cert *x509.Certificate) (peer.ID, error) {
	pub, ok := cert.PublicKey.(ed25519.PublicKey)
	if !ok {
		return "", fmt.Errorf("unsupported public key type: %T", cert.PublicKey)
	}
	return peerIDOf(pub)
}
