// Package ledger implements the token-standard base: the ownership table,
// metadata-URI store, supply counter, and transfer event log that the mint
// contract builds on.
//
// The contract composes against the Ledger interface rather than a concrete
// store, so the authorization logic stays independent of how token
// bookkeeping is persisted.
package ledger

import (
	"errors"

	"github.com/kilnworks/kiln/internal/storage"
	"github.com/kilnworks/kiln/pkg/types"
)

// ErrNotFound is returned by reads against a token id that was never minted.
var ErrNotFound = errors.New("token not found")

// ErrExists is returned when minting an id that is already in the ledger.
var ErrExists = errors.New("token already exists")

// Ledger records token ownership, metadata URIs, and total supply.
//
// Mutations stage their writes into the caller's batch so a contract call
// commits all of its effects atomically; reads always observe committed
// state. Callers are expected to serialize calls (the contract runtime does).
type Ledger interface {
	// Mint records a new token owned by owner and stages a supply
	// increment plus a Transfer event with a zero "from" address.
	Mint(b storage.Batch, owner types.Address, id types.TokenID) error

	// SetTokenURI stages the metadata URI for a token.
	SetTokenURI(b storage.Batch, id types.TokenID, uri string) error

	// Transfer stages an ownership change and a Transfer event.
	Transfer(b storage.Batch, from, to types.Address, id types.TokenID) error

	OwnerOf(id types.TokenID) (types.Address, error)
	TokenURI(id types.TokenID) (string, error)
	Exists(id types.TokenID) (bool, error)
	TotalSupply() (uint64, error)
}

// Event is a transfer notification. Mints carry a zero From address.
type Event struct {
	Seq     uint64        `json:"seq"`
	From    types.Address `json:"from"`
	To      types.Address `json:"to"`
	TokenID types.TokenID `json:"token_id"`
}

// IsMint reports whether the event records a mint (zero From).
func (e Event) IsMint() bool {
	return e.From.IsZero()
}
