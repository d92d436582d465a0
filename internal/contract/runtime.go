package contract

import (
	"fmt"
	"sync"

	"github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/pkg/tx"
	"github.com/kilnworks/kiln/pkg/types"
)

// MintReceipt is returned to the submitter of an accepted mint.
type MintReceipt struct {
	TokenID types.TokenID `json:"token_id"`
	Minter  types.Address `json:"minter"`
	Height  uint64        `json:"height"`
	TxHash  types.Hash    `json:"tx_hash"`
}

// Runtime is the serial call processor hosting the collection. It
// verifies submitted transactions, derives the caller from the first
// input's public key, assigns block heights, and serializes all
// mutating calls behind one mutex.
type Runtime struct {
	mu   sync.Mutex
	coll *Collection
}

// NewRuntime creates a runtime hosting coll.
func NewRuntime(coll *Collection) *Runtime {
	return &Runtime{coll: coll}
}

// Collection returns the hosted collection for read-only queries.
func (r *Runtime) Collection() *Collection {
	return r.coll
}

// Submit verifies a payment transaction and executes a mint call
// carried by it. Each accepted call advances the block height by one;
// rejected calls leave height and all contract state untouched.
func (r *Runtime) Submit(t *tx.Transaction, tokenURI string) (MintReceipt, error) {
	if err := t.Validate(); err != nil {
		return MintReceipt{}, fmt.Errorf("invalid transaction: %w", err)
	}
	if err := t.VerifySignatures(); err != nil {
		return MintReceipt{}, fmt.Errorf("invalid transaction: %w", err)
	}
	sender, err := t.Sender()
	if err != nil {
		return MintReceipt{}, fmt.Errorf("derive sender: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	height, err := r.coll.Height()
	if err != nil {
		return MintReceipt{}, fmt.Errorf("read height: %w", err)
	}
	call := CallContext{
		Sender:  sender,
		Outputs: t.Outputs,
		Height:  height + 1,
	}

	id, err := r.coll.Mint(call, tokenURI)
	if err != nil {
		log.Contract.Debug().
			Str("sender", sender.String()).
			Err(err).
			Msg("mint rejected")
		return MintReceipt{}, err
	}

	return MintReceipt{
		TokenID: id,
		Minter:  sender,
		Height:  call.Height,
		TxHash:  t.Hash(),
	}, nil
}

// Height returns the current committed block height.
func (r *Runtime) Height() (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coll.Height()
}
