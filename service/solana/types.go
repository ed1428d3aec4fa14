package solana

import "encoding/json"

// SignatureRecord is one entry from getSignaturesForAddress.
// Produced by ListSignatures, consumed once by the fetch loop.
type SignatureRecord struct {
	Signature          string  `json:"signature"`
	Slot               uint64  `json:"slot"`
	BlockTime          *int64  `json:"blockTime"`
	Err                any     `json:"err"`
	Memo               *string `json:"memo"`
	ConfirmationStatus *string `json:"confirmationStatus"`
}

// RawTransaction is the full jsonParsed payload from getTransaction.
// It is owned transiently by the fetch loop and discarded after normalization.
type RawTransaction struct {
	Slot        uint64              `json:"slot"`
	BlockTime   *int64              `json:"blockTime"`
	Meta        *TransactionMeta    `json:"meta"`
	Transaction TransactionEnvelope `json:"transaction"`
}

// TransactionMeta carries fees, compute units and token balance deltas.
type TransactionMeta struct {
	Err                  any            `json:"err"`
	Fee                  uint64         `json:"fee"`
	ComputeUnitsConsumed *uint64        `json:"computeUnitsConsumed"`
	PreBalances          []uint64       `json:"preBalances"`
	PostBalances         []uint64       `json:"postBalances"`
	PreTokenBalances     []TokenBalance `json:"preTokenBalances"`
	PostTokenBalances    []TokenBalance `json:"postTokenBalances"`
	LogMessages          []string       `json:"logMessages"`
}

// TokenBalance is one entry of pre/postTokenBalances.
type TokenBalance struct {
	AccountIndex  int           `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	ProgramID     string        `json:"programId"`
	UITokenAmount UITokenAmount `json:"uiTokenAmount"`
}

// UITokenAmount is the RPC representation of a token amount.
type UITokenAmount struct {
	Amount         string   `json:"amount"`
	Decimals       uint8    `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// TransactionEnvelope is the jsonParsed transaction body.
type TransactionEnvelope struct {
	Signatures []string `json:"signatures"`
	Message    Message  `json:"message"`
}

// Message holds the account keys and instructions of a transaction.
type Message struct {
	AccountKeys  []AccountKey  `json:"accountKeys"`
	Instructions []Instruction `json:"instructions"`
}

// AccountKey is one parsed account key entry.
type AccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// Instruction is one top-level instruction in jsonParsed encoding.
// Parsed is an object for instructions the node knows how to decode
// and may be absent or a bare string otherwise.
type Instruction struct {
	Program   string          `json:"program"`
	ProgramID string          `json:"programId"`
	Parsed    json.RawMessage `json:"parsed"`
	Data      string          `json:"data"`
	Accounts  []string        `json:"accounts"`
}

// ParsedType returns the "type" tag of a parsed instruction, or "" when
// the instruction carries no parsed object (opaque program, json encoding).
func (i Instruction) ParsedType() string {
	if len(i.Parsed) == 0 {
		return ""
	}
	var parsed struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(i.Parsed, &parsed); err != nil {
		return ""
	}
	return parsed.Type
}
