package solana

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/solexport/solexport/service/metrics"
)

// Backoff schedule for the per-signature fetch loop. Worst case per
// signature is 5 doubling steps plus 5 capped steps before giving up.
const (
	maxFetchAttempts = 10
	baseRetryDelay   = 500 * time.Millisecond
	maxRetryDelay    = 16 * time.Second
)

// retryDelay returns the backoff for the given attempt (1-based),
// doubling from baseRetryDelay and clamped at maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	delay := baseRetryDelay << uint(attempt-1)
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

// Client provides the two ledger operations the export pipeline consumes:
// a one-shot signature listing and a per-signature fetch with bounded
// exponential backoff. It wraps the RPC client with logging and metrics.
type Client struct {
	rpc      RPCClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string // RPC endpoint identifier for metrics labels

	// sleep is swapped out in tests so the backoff schedule can be
	// asserted without waiting on it.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Solana client. The endpoint parameter is used for
// metrics labeling (e.g. "mainnet" or the RPC hostname). If m is nil, no
// metrics are recorded.
func NewClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:      rpcClient,
		logger:   logger,
		metrics:  m,
		endpoint: endpoint,
		sleep:    sleepContext,
	}
}

// ListSignatures fetches the default-sized most recent signature page for a
// wallet. It issues exactly one RPC call and never retries; any failure
// aborts the caller's whole export.
func (c *Client) ListSignatures(ctx context.Context, wallet solanago.PublicKey) ([]*SignatureRecord, error) {
	c.logger.DebugContext(ctx, "calling getSignaturesForAddress",
		"wallet", wallet.String(),
	)

	start := time.Now()
	records, err := c.rpc.GetSignaturesForAddress(ctx, wallet.String())
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("getSignaturesForAddress", status, c.endpoint, duration)
		if err == nil {
			c.metrics.RecordRPCSignaturesPerCall(c.endpoint, float64(len(records)))
		}
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list signatures",
			"wallet", wallet.String(),
			"error", err,
		)
		return nil, fmt.Errorf("list signatures for %s: %w", wallet.String(), err)
	}

	c.logger.DebugContext(ctx, "fetched signature page",
		"wallet", wallet.String(),
		"count", len(records),
	)

	return records, nil
}

// FetchTransaction retrieves full parsed transaction details for one
// signature, retrying with exponential backoff on the two transient
// conditions (unsupported transaction version, HTTP 429).
//
// Returns (nil, nil) once the attempt ceiling is hit under a transient
// fault: the signature is permanently skipped and the caller continues.
// Any non-transient error is returned on the first occurrence.
func (c *Client) FetchTransaction(ctx context.Context, signature string) (*RawTransaction, error) {
	for attempt := 1; ; attempt++ {
		if attempt > maxFetchAttempts {
			c.logger.WarnContext(ctx, "retries exhausted, skipping signature",
				"signature", signature,
				"attempts", maxFetchAttempts,
			)
			if c.metrics != nil {
				c.metrics.RecordTransactionSkipped("retry_exhausted")
			}
			return nil, nil
		}

		start := time.Now()
		raw, err := c.rpc.GetParsedTransaction(ctx, signature)
		duration := time.Since(start).Seconds()

		status := "success"
		if err != nil {
			status = "error"
		}
		if c.metrics != nil {
			c.metrics.RecordRPCCall("getTransaction", status, c.endpoint, duration)
		}

		if err == nil {
			return raw, nil
		}

		kind := FaultKindOf(err)
		if kind == FaultOther {
			return nil, fmt.Errorf("fetch transaction %s: %w", signature, err)
		}

		delay := retryDelay(attempt)
		c.logger.WarnContext(ctx, "transient RPC fault, backing off",
			"signature", signature,
			"attempt", attempt,
			"reason", kind.String(),
			"backoff", delay,
		)
		if c.metrics != nil {
			c.metrics.RecordRPCRetry("getTransaction", kind.String())
			if kind == FaultRateLimited {
				c.metrics.RecordRateLimitHit(c.endpoint)
			}
		}

		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("fetch transaction %s: %w", signature, err)
		}
	}
}

// sleepContext sleeps for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
