package solana

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ybbus/jsonrpc/v3"
)

// FaultKind classifies RPC failures into the categories the fetch loop
// cares about. Only UnsupportedVersion and RateLimited are retried.
type FaultKind int

const (
	// FaultOther covers every failure that must not be retried.
	FaultOther FaultKind = iota

	// FaultUnsupportedVersion is the node rejecting a versioned transaction
	// (JSON-RPC error -32015).
	FaultUnsupportedVersion

	// FaultRateLimited is an HTTP 429 from the RPC provider.
	FaultRateLimited
)

// String returns a short label for logging and metrics.
func (k FaultKind) String() string {
	switch k {
	case FaultUnsupportedVersion:
		return "unsupported_version"
	case FaultRateLimited:
		return "rate_limit"
	default:
		return "other"
	}
}

// rpcErrorCodeUnsupportedVersion is the JSON-RPC error code Solana nodes
// return when a versioned transaction is requested without
// maxSupportedTransactionVersion.
const rpcErrorCodeUnsupportedVersion = -32015

// Fault wraps an RPC error with its classification. The fetch loop retries
// on Transient faults and propagates everything else immediately.
type Fault struct {
	Kind FaultKind
	err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("rpc fault (%s): %v", f.Kind, f.err)
}

func (f *Fault) Unwrap() error {
	return f.err
}

// Transient reports whether the fault is one of the two retryable conditions.
func (f *Fault) Transient() bool {
	return f.Kind != FaultOther
}

// classify wraps an RPC transport error in a Fault. Structured codes are
// inspected first; the substring checks remain as a fallback for providers
// that surface only text.
func classify(err error) *Fault {
	if err == nil {
		return nil
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusTooManyRequests {
		return &Fault{Kind: FaultRateLimited, err: err}
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == rpcErrorCodeUnsupportedVersion {
		return &Fault{Kind: FaultUnsupportedVersion, err: err}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Transaction version"):
		return &Fault{Kind: FaultUnsupportedVersion, err: err}
	case strings.Contains(msg, "429"):
		return &Fault{Kind: FaultRateLimited, err: err}
	}

	return &Fault{Kind: FaultOther, err: err}
}

// FaultKindOf returns the classification of err, or FaultOther when err is
// not a Fault. Exposed for callers that log or count failure reasons.
func FaultKindOf(err error) FaultKind {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Kind
	}
	return FaultOther
}
