package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/solexport/solexport/service/export"
)

// errorResponseBody is the fixed plain-text body returned for any failed
// export. The HTTP contract does not distinguish failure causes.
const errorResponseBody = "Error fetching transactions"

// Exporter runs one wallet export. Implemented by *export.Service.
type Exporter interface {
	Export(ctx context.Context, address string) (*export.Result, error)
}

// handleExportTransactions returns a handler that exports a wallet's recent
// transaction history to a JSON file.
// GET /transactions/{walletAddress}
func handleExportTransactions(exporter Exporter, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := r.PathValue("walletAddress")

		result, err := exporter.Export(r.Context(), address)
		if err != nil {
			logger.ErrorContext(r.Context(), "export failed",
				"address", address,
				"error", err,
			)
			http.Error(w, errorResponseBody, http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]string{
			"message":  fmt.Sprintf("transactions for %s exported", address),
			"filePath": result.FilePath,
		}, http.StatusOK)
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
