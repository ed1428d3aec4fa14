package solana

import (
	"context"
	"fmt"

	"github.com/ybbus/jsonrpc/v3"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real nodes.
// Implementations return *Fault errors so callers can distinguish the two
// retryable conditions (unsupported version, rate limit) from everything else.
type RPCClient interface {
	GetSignaturesForAddress(ctx context.Context, address string) ([]*SignatureRecord, error)
	GetParsedTransaction(ctx context.Context, signature string) (*RawTransaction, error)
}

// maxSupportedTransactionVersion is sent with every getTransaction call so
// the node does not reject versioned transactions outright.
const maxSupportedTransactionVersion = 0

// realRPCClient adapts a JSON-RPC connection to our RPCClient interface.
type realRPCClient struct {
	client jsonrpc.RPCClient
}

// NewRPCClient creates an RPCClient talking to the given Solana RPC endpoint.
// For premium RPC endpoints that require API keys, include the key in the URL:
//   - Helius: https://mainnet.helius-rpc.com/?api-key=YOUR-KEY
//   - QuickNode: https://YOUR-ENDPOINT.quiknode.pro/YOUR-KEY/
func NewRPCClient(rpcURL string) RPCClient {
	return &realRPCClient{
		client: jsonrpc.NewClient(rpcURL),
	}
}

func (r *realRPCClient) GetSignaturesForAddress(ctx context.Context, address string) ([]*SignatureRecord, error) {
	// No limit or cursor: the node's default page of most recent signatures.
	resp, err := r.client.Call(ctx, "getSignaturesForAddress", address)
	if err != nil {
		return nil, classify(err)
	}
	if resp.Error != nil {
		return nil, classify(resp.Error)
	}

	var records []*SignatureRecord
	if err := resp.GetObject(&records); err != nil {
		return nil, fmt.Errorf("decode getSignaturesForAddress result: %w", err)
	}
	return records, nil
}

func (r *realRPCClient) GetParsedTransaction(ctx context.Context, signature string) (*RawTransaction, error) {
	resp, err := r.client.Call(ctx, "getTransaction", signature, map[string]any{
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": maxSupportedTransactionVersion,
	})
	if err != nil {
		return nil, classify(err)
	}
	if resp.Error != nil {
		return nil, classify(resp.Error)
	}
	if resp.Result == nil {
		// Pruned or unknown signature. Not retryable.
		return nil, &Fault{Kind: FaultOther, err: fmt.Errorf("transaction %s not found", signature)}
	}

	var raw RawTransaction
	if err := resp.GetObject(&raw); err != nil {
		return nil, fmt.Errorf("decode getTransaction result: %w", err)
	}
	return &raw, nil
}
