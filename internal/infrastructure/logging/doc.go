// Package logging provides structured logging for showcue nodes.
//
// It wraps log/slog. Every entry carries the service name, the build
// version and the node ID, so logs from a primary and its backup can be
// merged and still told apart.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log the failover shared key, API tokens or broker passwords.
package logging
