package api

import "errors"

// Transport-level error classes. Every HTTP outcome is classified exactly
// once, in Client.do; callers only ever see these (or the shared sentinels
// from internal/common for validation, conflict, forbidden and not-found).
var (
	// ErrTransient marks connection failures, timeouts and other
	// network-class errors. Retried by the transport.
	ErrTransient = errors.New("transient network error")

	// ErrServer marks 5xx responses. Retried within the standard policy,
	// then surfaced.
	ErrServer = errors.New("server error")
)
