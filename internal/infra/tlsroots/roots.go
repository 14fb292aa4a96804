package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when a PEM bundle holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

// Pool is a set of trusted root certificates.
type Pool struct {
	certPool *x509.CertPool
	added    int
}

// NewPool starts from the system roots, or an empty pool where the
// platform has none.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// NewEmptyPool creates a pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// AddCertFile adds every certificate in a PEM file.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read %s: %w", path, err)
	}
	if err := p.AddCertPEM(data); err != nil {
		return fmt.Errorf("%w (%s)", err, path)
	}
	return nil
}

// AddCertPEM adds every CERTIFICATE block of pemData. Other blocks are
// skipped.
func (p *Pool) AddCertPEM(pemData []byte) error {
	n := 0
	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		n++
	}

	if n == 0 {
		return ErrNoCertsFound
	}
	p.added += n
	return nil
}

// Added returns how many certificates were added on top of the base pool.
func (p *Pool) Added() int { return p.added }

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool { return p.certPool }

// TLSConfig returns a client config trusting this pool.
func (p *Pool) TLSConfig() *tls.Config {
	return &tls.Config{
		RootCAs:    p.certPool,
		MinVersion: tls.VersionTLS12,
	}
}

// ClientConfig returns the TLS config for the service clients. With no
// caFile it returns nil, meaning the transport defaults.
func ClientConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}
	pool := NewPool()
	if err := pool.AddCertFile(caFile); err != nil {
		return nil, err
	}
	return pool.TLSConfig(), nil
}
