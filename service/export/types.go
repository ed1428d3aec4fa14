package export

// NetworkName is the fixed ledger identifier stamped on every record.
const NetworkName = "solana"

// MaxRecords caps the number of transactions in one export file. Once the
// cap is reached the per-signature fetch loop stops entirely.
const MaxRecords = 100

// SimplifiedTransaction is the persisted output unit of one export.
type SimplifiedTransaction struct {
	ID                   string  `json:"id"`
	Network              string  `json:"network"`
	Fee                  uint64  `json:"fee"`
	ComputeUnitsConsumed uint64  `json:"compute_units_consumed"`
	Timestamp            *string `json:"timestamp,omitempty"`
	Type                 string  `json:"type"`
	WalletAddress        string  `json:"wallet_address"`
	Signature            string  `json:"signature"`
	Token                Token   `json:"token"`
}

// Token describes the token touched by a transaction. Name, symbol and
// display decimals are fixed placeholders; there is no registry lookup.
type Token struct {
	ID              string  `json:"id"`
	Network         string  `json:"network"`
	ContractAddress *string `json:"contract_address,omitempty"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	Decimals        uint8   `json:"decimals"`
	DisplayDecimals uint8   `json:"display_decimals"`
}

// Result summarizes one completed export.
type Result struct {
	FilePath string
	Count    int
}
