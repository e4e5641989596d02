// Package security builds TLS configurations from file-based settings:
// ClientTLS for connections to backing services such as Redis, and
// ServerTLS for terminating TLS on the HTTP server.
//
//	tlsCfg, err := cfg.Redis.TLS.Build()
//	if err != nil {
//	    return err
//	}
//	opts.TLSConfig = tlsCfg // nil when disabled
package security
