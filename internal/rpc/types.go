package rpc

import (
	"github.com/kilnworks/kiln/pkg/tx"
	"github.com/kilnworks/kiln/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeMintRejected   = -32001
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// MintParam is used by nft_mint.
type MintParam struct {
	Transaction *tx.Transaction `json:"transaction"`
	TokenURI    string          `json:"token_uri"`
}

// TokenIDParam is used by the per-token query methods.
type TokenIDParam struct {
	TokenID types.TokenID `json:"token_id"`
}

// ── Result types ────────────────────────────────────────────────────────

// MintResult is returned by nft_mint.
type MintResult struct {
	TokenID types.TokenID `json:"token_id"`
	Minter  string        `json:"minter"`
	Height  uint64        `json:"height"`
	TxHash  string        `json:"tx_hash"`
}

// MinterResult is returned by nft_minterOf.
type MinterResult struct {
	TokenID types.TokenID `json:"token_id"`
	Minter  string        `json:"minter"`
}

// MintedAtResult is returned by nft_mintedAt.
type MintedAtResult struct {
	TokenID types.TokenID `json:"token_id"`
	Height  uint64        `json:"height"`
}

// PriceResult is returned by nft_mintPrice.
type PriceResult struct {
	Price uint64 `json:"price"`
}

// TreasuryResult is returned by nft_treasury.
type TreasuryResult struct {
	Treasury string `json:"treasury"`
}

// OwnerResult is returned by nft_ownerOf.
type OwnerResult struct {
	TokenID types.TokenID `json:"token_id"`
	Owner   string        `json:"owner"`
}

// TokenURIResult is returned by nft_tokenURI.
type TokenURIResult struct {
	TokenID  types.TokenID `json:"token_id"`
	TokenURI string        `json:"token_uri"`
}

// InfoResult is returned by nft_getInfo.
type InfoResult struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	BaseURI   string `json:"base_uri"`
	MaxSupply uint64 `json:"max_supply"`
	Minted    uint64 `json:"minted"`
	MintPrice uint64 `json:"mint_price"`
	Treasury  string `json:"treasury"`
	Height    uint64 `json:"height"`
}

// TokenResult is the aggregate record returned by nft_getToken and
// nft_listTokens.
type TokenResult struct {
	TokenID  types.TokenID `json:"token_id"`
	Owner    string        `json:"owner"`
	TokenURI string        `json:"token_uri"`
	Minter   string        `json:"minter"`
	MintedAt uint64        `json:"minted_at"`
}

// ListTokensResult is returned by nft_listTokens.
type ListTokensResult struct {
	Tokens []TokenResult `json:"tokens"`
}
