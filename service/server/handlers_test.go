package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solexport/solexport/service/export"
)

type fakeExporter struct {
	result      *export.Result
	err         error
	gotAddress  string
	exportCalls int
}

func (f *fakeExporter) Export(ctx context.Context, address string) (*export.Result, error) {
	f.exportCalls++
	f.gotAddress = address
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMux(exporter Exporter) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /transactions/{walletAddress}", handleExportTransactions(exporter, testLogger()))
	return mux
}

func TestHandleExportTransactions_Success(t *testing.T) {
	exporter := &fakeExporter{
		result: &export.Result{
			FilePath: "/data/transactions_4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T.json",
			Count:    42,
		},
	}
	mux := newTestMux(exporter)

	req := httptest.NewRequest(http.MethodGet, "/transactions/4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", exporter.gotAddress)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "transactions for 4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T exported", body["message"])
	assert.Equal(t, exporter.result.FilePath, body["filePath"])
}

func TestHandleExportTransactions_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "invalid address", err: export.ErrInvalidAddress},
		{name: "upstream failure", err: assert.AnError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &fakeExporter{err: tt.err}
			mux := newTestMux(exporter)

			req := httptest.NewRequest(http.MethodGet, "/transactions/some-wallet", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			// All failure causes map to the same opaque 500.
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, errorResponseBody, strings.TrimSpace(rec.Body.String()))
			assert.Equal(t, 1, exporter.exportCalls)
		})
	}
}

func TestHandleExportTransactions_MethodNotAllowed(t *testing.T) {
	exporter := &fakeExporter{}
	mux := newTestMux(exporter)

	req := httptest.NewRequest(http.MethodPost, "/transactions/some-wallet", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, exporter.exportCalls)
}

func TestCORSMiddleware(t *testing.T) {
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("adds headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/transactions/some-wallet", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
