package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_Success(t *testing.T) {
	const wallet = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transactions/"+wallet, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message":  "transactions for " + wallet + " exported",
			"filePath": "/data/transactions_" + wallet + ".json",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), nil)
	result, err := c.Export(context.Background(), wallet)

	require.NoError(t, err)
	assert.Equal(t, "/data/transactions_"+wallet+".json", result.FilePath)
	assert.Contains(t, result.Message, wallet)
}

func TestExport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error fetching transactions", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), nil)
	result, err := c.Export(context.Background(), "some-wallet")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "Error fetching transactions")
}

func TestExport_ContextCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewClient(srv.URL, srv.Client(), nil)
	_, err := c.Export(ctx, "some-wallet")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport_TrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/some-wallet", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok", "filePath": "x"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client(), nil)
	_, err := c.Export(context.Background(), "some-wallet")
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.Write([]byte("OK"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), nil)
		assert.NoError(t, c.Health(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), nil)
		err := c.Health(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})
}
