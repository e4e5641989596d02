package security

import (
	"crypto/tls"
	"strings"
	"testing"

	"github.com/kbukum/authgate/security/tlstest"
)

func TestClientTLS_Disabled(t *testing.T) {
	var nilCfg *ClientTLS
	for _, c := range []*ClientTLS{nilCfg, {}, {CAFile: "/ignored/when/disabled"}} {
		cfg, err := c.Build()
		if err != nil || cfg != nil {
			t.Errorf("Build(%+v) = %v, %v; want nil, nil", c, cfg, err)
		}
	}
}

func TestClientTLS_Build(t *testing.T) {
	certs := tlstest.New(t)
	c := &ClientTLS{
		Enabled:    true,
		CAFile:     certs.CAFile,
		CertFile:   certs.CertFile,
		KeyFile:    certs.KeyFile,
		ServerName: "redis.internal",
	}
	cfg, err := c.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.RootCAs == nil || len(cfg.Certificates) != 1 {
		t.Error("expected CA pool and client certificate")
	}
	if cfg.ServerName != "redis.internal" || cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestClientTLS_Errors(t *testing.T) {
	certs := tlstest.New(t)
	tests := []struct {
		name string
		cfg  ClientTLS
		want string
	}{
		{"cert without key", ClientTLS{Enabled: true, CertFile: certs.CertFile}, "set together"},
		{"missing CA", ClientTLS{Enabled: true, CAFile: "/nonexistent/ca.pem"}, "read CA file"},
		{"invalid CA", ClientTLS{Enabled: true, CAFile: tlstest.BadPEM(t, "ca.pem")}, "no certificates"},
		{"key mismatch", ClientTLS{Enabled: true, CertFile: certs.CertFile, KeyFile: certs.CAFile}, "load key pair"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestServerTLS(t *testing.T) {
	certs := tlstest.New(t)

	if cfg, err := (&ServerTLS{}).Build(); cfg != nil || err != nil {
		t.Errorf("disabled Build = %v, %v", cfg, err)
	}

	s := &ServerTLS{CertFile: certs.CertFile, KeyFile: certs.KeyFile, ClientCAFile: certs.CAFile}
	cfg, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cfg.Certificates) != 1 || cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("unexpected config: certs=%d auth=%v", len(cfg.Certificates), cfg.ClientAuth)
	}

	if err := (&ServerTLS{ClientCAFile: certs.CAFile}).Validate(); err == nil {
		t.Error("client CA without a server certificate should be rejected")
	}
	if err := (&ServerTLS{CertFile: certs.CertFile}).Validate(); err == nil {
		t.Error("cert without key should be rejected")
	}
}
