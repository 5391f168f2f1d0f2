// SPDX-License-Identifier: Apache-2.0

package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// Config describes the TLS settings of an outbound connection. Certificates
// and keys can be given either as a file path or as PEM content, the file
// taking precedence.
type Config struct {
	Enabled bool

	// CA certificate. The system pool is used when none is provided.
	CaCertFile string
	CaCertPEM  string

	ClientCertFile string
	ClientCertPEM  string
	ClientKeyFile  string
	ClientKeyPEM   string

	// ServerName overrides the host name checked against the server
	// certificate.
	ServerName string
}

var ErrInvalidCACert = errors.New("no valid certificates found in CA PEM")

// NewConfig returns the TLS configuration, or nil when TLS is not enabled.
func NewConfig(cfg *Config) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	certPool, err := cfg.certPool()
	if err != nil {
		return nil, err
	}

	certificates, err := cfg.certificates()
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: certificates,
		RootCAs:      certPool,
		ServerName:   cfg.ServerName,
	}, nil
}

func (c *Config) IsClientCertProvided() bool {
	return (c.ClientCertFile != "" || c.ClientCertPEM != "") && (c.ClientKeyFile != "" || c.ClientKeyPEM != "")
}

func (c *Config) certPool() (*x509.CertPool, error) {
	pemBytes, err := readPEM(c.CaCertFile, c.CaCertPEM)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate: %w", err)
	}
	if len(pemBytes) == 0 {
		return x509.SystemCertPool()
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, ErrInvalidCACert
	}
	return pool, nil
}

func (c *Config) certificates() ([]tls.Certificate, error) {
	if !c.IsClientCertProvided() {
		return []tls.Certificate{}, nil
	}

	certBytes, err := readPEM(c.ClientCertFile, c.ClientCertPEM)
	if err != nil {
		return nil, fmt.Errorf("reading client certificate: %w", err)
	}
	keyBytes, err := readPEM(c.ClientKeyFile, c.ClientKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("reading client key: %w", err)
	}
	cert, err := tls.X509KeyPair(certBytes, keyBytes)
	if err != nil {
		return nil, fmt.Errorf("loading client key pair: %w", err)
	}
	return []tls.Certificate{cert}, nil
}

func readPEM(path, content string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return []byte(content), nil
}
