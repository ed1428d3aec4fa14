package export

import (
	"time"

	"github.com/solexport/solexport/service/solana"
)

// Placeholder token metadata. The RPC payload carries only the mint and
// decimals; everything else would require a token registry lookup.
const (
	tokenPlaceholderID     = "unknown"
	tokenPlaceholderName   = "Unknown"
	tokenPlaceholderSymbol = "UNKNOWN"
	tokenDisplayDecimals   = 2
)

// unknownInstructionType marks transactions whose first instruction has no
// parsed type (opaque program, or no instructions at all).
const unknownInstructionType = "unknown"

// Normalize maps a raw parsed transaction into the simplified export record.
func Normalize(raw *solana.RawTransaction, walletAddress string, sig *solana.SignatureRecord) SimplifiedTransaction {
	txn := SimplifiedTransaction{
		ID:            sig.Signature,
		Network:       NetworkName,
		Type:          unknownInstructionType,
		WalletAddress: walletAddress,
		Signature:     sig.Signature,
		Token:         normalizeToken(raw),
	}

	if raw.Meta != nil {
		txn.Fee = raw.Meta.Fee
		if raw.Meta.ComputeUnitsConsumed != nil {
			txn.ComputeUnitsConsumed = *raw.Meta.ComputeUnitsConsumed
		}
	}

	if raw.BlockTime != nil {
		ts := time.Unix(*raw.BlockTime, 0).UTC().Format(time.RFC3339)
		txn.Timestamp = &ts
	}

	if instructions := raw.Transaction.Message.Instructions; len(instructions) > 0 {
		if parsedType := instructions[0].ParsedType(); parsedType != "" {
			txn.Type = parsedType
		}
	}

	return txn
}

// normalizeToken builds the embedded token record from the first
// pre-transaction token balance entry, if any.
func normalizeToken(raw *solana.RawTransaction) Token {
	token := Token{
		ID:              tokenPlaceholderID,
		Network:         NetworkName,
		Name:            tokenPlaceholderName,
		Symbol:          tokenPlaceholderSymbol,
		DisplayDecimals: tokenDisplayDecimals,
	}

	if raw.Meta == nil || len(raw.Meta.PreTokenBalances) == 0 {
		return token
	}

	balance := raw.Meta.PreTokenBalances[0]
	mint := balance.Mint
	token.ID = mint
	token.ContractAddress = &mint
	token.Decimals = balance.UITokenAmount.Decimals

	return token
}
