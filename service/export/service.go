package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/solexport/solexport/service/metrics"
	"github.com/solexport/solexport/service/nats"
	"github.com/solexport/solexport/service/solana"
)

// ErrInvalidAddress is returned when the wallet address is not a valid
// base58 public key. No network call is made in that case.
var ErrInvalidAddress = errors.New("invalid wallet address")

// TransactionSource is the ledger surface the exporter consumes: a one-shot
// signature listing and a per-signature fetch with built-in backoff.
// *solana.Client implements it.
type TransactionSource interface {
	ListSignatures(ctx context.Context, wallet solanago.PublicKey) ([]*solana.SignatureRecord, error)
	FetchTransaction(ctx context.Context, signature string) (*solana.RawTransaction, error)
}

// Service runs the full export pipeline for one wallet address:
// list signatures, fetch each sequentially, normalize, write the file.
// Services are safe for concurrent use; each export is independent.
type Service struct {
	source    TransactionSource
	store     *Store
	publisher nats.Publisher // optional; nil disables event publishing
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService creates an export service. The publisher and metrics may be
// nil, in which case event publishing and metrics recording are skipped.
func NewService(source TransactionSource, store *Store, publisher nats.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		source:    source,
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Export fetches the wallet's recent transaction history and writes it as a
// JSON file. Per-signature failures are logged and skipped; failures in
// address validation, signature listing or the final write abort the export.
func (s *Service) Export(ctx context.Context, address string) (*Result, error) {
	start := time.Now()
	result, err := s.export(ctx, address)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordExport(status, duration)
	}

	return result, err
}

func (s *Service) export(ctx context.Context, address string) (*Result, error) {
	wallet, err := solanago.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, address, err)
	}

	signatures, err := s.source.ListSignatures(ctx, wallet)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "starting export",
		"wallet", address,
		"signatures", len(signatures),
	)

	records := make([]SimplifiedTransaction, 0, min(len(signatures), MaxRecords))
	for _, sig := range signatures {
		if len(records) >= MaxRecords {
			s.logger.InfoContext(ctx, "record cap reached, stopping fetch",
				"wallet", address,
				"cap", MaxRecords,
			)
			break
		}

		raw, err := s.source.FetchTransaction(ctx, sig.Signature)
		if err != nil {
			// A canceled request should not grind through the remaining
			// signatures; everything else is a per-signature skip.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			s.logger.WarnContext(ctx, "skipping signature after fetch failure",
				"signature", sig.Signature,
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.RecordTransactionSkipped("fetch_failed")
			}
			continue
		}
		if raw == nil {
			// Retry ceiling hit; already logged and counted by the client.
			continue
		}

		records = append(records, Normalize(raw, address, sig))
	}

	path, err := s.store.Write(address, records)
	if err != nil {
		return nil, fmt.Errorf("persist export for %s: %w", address, err)
	}

	if s.metrics != nil {
		s.metrics.RecordTransactionsExported(len(records))
	}

	s.publishEvent(ctx, address, path, len(records))

	s.logger.InfoContext(ctx, "export complete",
		"wallet", address,
		"count", len(records),
		"path", path,
	)

	return &Result{FilePath: path, Count: len(records)}, nil
}

// publishEvent emits an export-completed event. Publishing is best-effort:
// the file is already on disk, so a broker outage must not fail the request.
func (s *Service) publishEvent(ctx context.Context, address, path string, count int) {
	if s.publisher == nil {
		return
	}

	event := &nats.ExportEvent{
		WalletAddress:    address,
		TransactionCount: count,
		FilePath:         path,
		CompletedAt:      time.Now().UTC(),
	}

	start := time.Now()
	err := s.publisher.PublishExport(ctx, event)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordNATSPublish(fmt.Sprintf("exports.%s", address), status, time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish export event",
			"wallet", address,
			"error", err,
		)
	}
}
