package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/solexport/solexport/service/solana"
)

const testWallet = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"

func testSignature() *solana.SignatureRecord {
	return &solana.SignatureRecord{
		Signature: "5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tprA2TFg9wSyTLeYouxPBJEMzJinENTkpA52YStRW5Dia7",
		Slot:      100,
	}
}

func TestNormalize_FullTransaction(t *testing.T) {
	blockTime := int64(1700000000)
	computeUnits := uint64(4800)

	raw := &solana.RawTransaction{
		Slot:      100,
		BlockTime: &blockTime,
		Meta: &solana.TransactionMeta{
			Fee:                  5000,
			ComputeUnitsConsumed: &computeUnits,
			PreTokenBalances: []solana.TokenBalance{
				{
					AccountIndex: 1,
					Mint:         "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
					UITokenAmount: solana.UITokenAmount{
						Amount:   "1000000",
						Decimals: 6,
					},
				},
			},
		},
		Transaction: solana.TransactionEnvelope{
			Message: solana.Message{
				Instructions: []solana.Instruction{
					{
						Program:   "spl-token",
						ProgramID: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
						Parsed:    json.RawMessage(`{"type":"transferChecked","info":{}}`),
					},
				},
			},
		},
	}

	sig := testSignature()
	txn := Normalize(raw, testWallet, sig)

	assert.Equal(t, sig.Signature, txn.ID)
	assert.Equal(t, sig.Signature, txn.Signature)
	assert.Equal(t, NetworkName, txn.Network)
	assert.Equal(t, uint64(5000), txn.Fee)
	assert.Equal(t, uint64(4800), txn.ComputeUnitsConsumed)
	assert.Equal(t, "transferChecked", txn.Type)
	assert.Equal(t, testWallet, txn.WalletAddress)

	expectedTS := time.Unix(blockTime, 0).UTC().Format(time.RFC3339)
	if assert.NotNil(t, txn.Timestamp) {
		assert.Equal(t, expectedTS, *txn.Timestamp)
	}

	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", txn.Token.ID)
	if assert.NotNil(t, txn.Token.ContractAddress) {
		assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", *txn.Token.ContractAddress)
	}
	assert.Equal(t, uint8(6), txn.Token.Decimals)
	assert.Equal(t, NetworkName, txn.Token.Network)
	assert.Equal(t, tokenPlaceholderName, txn.Token.Name)
	assert.Equal(t, tokenPlaceholderSymbol, txn.Token.Symbol)
	assert.Equal(t, uint8(tokenDisplayDecimals), txn.Token.DisplayDecimals)
}

func TestNormalize_NoBlockTime(t *testing.T) {
	raw := &solana.RawTransaction{
		Meta: &solana.TransactionMeta{Fee: 5000},
	}

	txn := Normalize(raw, testWallet, testSignature())

	assert.Nil(t, txn.Timestamp)
}

func TestNormalize_Defaults(t *testing.T) {
	// No meta, no instructions, no token balances.
	raw := &solana.RawTransaction{}

	txn := Normalize(raw, testWallet, testSignature())

	assert.Equal(t, uint64(0), txn.Fee)
	assert.Equal(t, uint64(0), txn.ComputeUnitsConsumed)
	assert.Equal(t, unknownInstructionType, txn.Type)
	assert.Nil(t, txn.Timestamp)
	assert.Nil(t, txn.Token.ContractAddress)
	assert.Equal(t, tokenPlaceholderID, txn.Token.ID)
	assert.Equal(t, uint8(0), txn.Token.Decimals)
}

func TestNormalize_UnparseableInstruction(t *testing.T) {
	raw := &solana.RawTransaction{
		Transaction: solana.TransactionEnvelope{
			Message: solana.Message{
				Instructions: []solana.Instruction{
					// Opaque program: data only, no parsed object.
					{ProgramID: "ComputeBudget111111111111111111111111111111", Data: "3gJqkocMWaMm"},
				},
			},
		},
	}

	txn := Normalize(raw, testWallet, testSignature())

	assert.Equal(t, unknownInstructionType, txn.Type)
}

func TestNormalize_FirstInstructionWins(t *testing.T) {
	raw := &solana.RawTransaction{
		Transaction: solana.TransactionEnvelope{
			Message: solana.Message{
				Instructions: []solana.Instruction{
					{Parsed: json.RawMessage(`{"type":"transfer"}`)},
					{Parsed: json.RawMessage(`{"type":"closeAccount"}`)},
				},
			},
		},
	}

	txn := Normalize(raw, testWallet, testSignature())

	assert.Equal(t, "transfer", txn.Type)
}
