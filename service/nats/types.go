package nats

import "time"

// ExportEvent represents a completed export published to NATS.
// This is published to the subject "exports.{wallet_address}" in JetStream.
type ExportEvent struct {
	WalletAddress    string    `json:"wallet_address"`
	TransactionCount int       `json:"transaction_count"`
	FilePath         string    `json:"file_path"`
	CompletedAt      time.Time `json:"completed_at"`
}
