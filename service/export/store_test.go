package export

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(t.TempDir(), logger)
}

func sampleTransactions(n int) []SimplifiedTransaction {
	txns := make([]SimplifiedTransaction, n)
	for i := range txns {
		txns[i] = SimplifiedTransaction{
			ID:            "sig",
			Network:       NetworkName,
			Fee:           5000,
			Type:          "transfer",
			WalletAddress: testWallet,
			Signature:     "sig",
			Token: Token{
				ID:      tokenPlaceholderID,
				Network: NetworkName,
				Name:    tokenPlaceholderName,
				Symbol:  tokenPlaceholderSymbol,
			},
		}
	}
	return txns
}

func TestStoreWrite_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	txns := sampleTransactions(3)
	path, err := store.Write(testWallet, txns)
	require.NoError(t, err)
	assert.Equal(t, store.Path(testWallet), path)
	assert.Equal(t, "transactions_"+testWallet+".json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Indented output, and lossless for the defined schema.
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"))

	var got []SimplifiedTransaction
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, txns, got)
}

func TestStoreWrite_EmptyResultSet(t *testing.T) {
	store := newTestStore(t)

	path, err := store.Write(testWallet, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStoreWrite_Overwrites(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Write(testWallet, sampleTransactions(5))
	require.NoError(t, err)

	path, err := store.Write(testWallet, sampleTransactions(2))
	require.NoError(t, err)

	var got []SimplifiedTransaction
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 2)
}

func TestStoreWrite_ConcurrentSameAddress(t *testing.T) {
	store := newTestStore(t)

	// Two racing writes must leave one intact file behind, never an
	// interleaving of both.
	var wg sync.WaitGroup
	for _, n := range []int{1, 4} {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Write(testWallet, sampleTransactions(n))
			assert.NoError(t, err)
		}(n)
	}
	wg.Wait()

	data, err := os.ReadFile(store.Path(testWallet))
	require.NoError(t, err)

	var got []SimplifiedTransaction
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Contains(t, []int{1, 4}, len(got))
}

func TestStoreWrite_MissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"), logger)

	_, err := store.Write(testWallet, sampleTransactions(1))
	require.Error(t, err)
}
