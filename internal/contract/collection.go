// Package contract implements the limited-edition mint contract: supply-capped
// minting gated on an on-chain payment to the treasury, plus immutable
// per-token provenance (who minted, at what height).
package contract

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/kilnworks/kiln/config"
	"github.com/kilnworks/kiln/internal/ledger"
	"github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/storage"
	"github.com/kilnworks/kiln/pkg/types"
)

// Key layout, sharing the flat keyspace with the ledger under "c/".
var (
	keyParams    = []byte("c/params") // -> deployment parameters (JSON)
	keyNextID    = []byte("c/nid")    // -> next token id (8 bytes BE)
	keyHeight    = []byte("c/bh")     // -> current block height (8 bytes BE)
	prefixMinter = []byte("c/m/")     // c/m/<id8> -> minter address (20 bytes)
	prefixMinted = []byte("c/h/")     // c/h/<id8> -> mint height (8 bytes BE)
)

// Collection is the deployed mint contract. It owns the authorization
// logic (supply cap, payment check) and the provenance records, and
// delegates token bookkeeping to the ledger.
//
// Callers must serialize mutating calls; the runtime does.
type Collection struct {
	params   config.Collection
	treasury types.Address
	ledger   ledger.Ledger
	db       storage.DB
	batcher  storage.Batcher
}

// New deploys or reopens the collection over db. On first open the
// deployment parameters are persisted; on reopen they must match the
// stored ones exactly, since a deployed contract's parameters never
// change.
func New(db storage.DB, led ledger.Ledger, params *config.Collection) (*Collection, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("collection parameters: %w", err)
	}
	treasury, err := params.TreasuryAddress()
	if err != nil {
		return nil, fmt.Errorf("treasury address: %w", err)
	}
	batcher, ok := db.(storage.Batcher)
	if !ok {
		return nil, fmt.Errorf("database does not support atomic batches")
	}

	c := &Collection{
		params:   *params,
		treasury: treasury,
		ledger:   led,
		db:       db,
		batcher:  batcher,
	}
	if err := c.checkDeployment(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkDeployment persists the parameters on first open and refuses a
// reopen under different parameters.
func (c *Collection) checkDeployment() error {
	want, err := json.Marshal(c.params)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}

	stored, err := c.db.Get(keyParams)
	if err != nil {
		// First open: record the deployment.
		if err := c.db.Put(keyParams, want); err != nil {
			return fmt.Errorf("persist parameters: %w", err)
		}
		log.Contract.Info().
			Str("name", c.params.Name).
			Str("symbol", c.params.Symbol).
			Uint64("max_supply", c.params.MaxSupply).
			Uint64("mint_price", c.params.MintPrice).
			Str("treasury", c.treasury.String()).
			Msg("collection deployed")
		return nil
	}

	if !bytes.Equal(stored, want) {
		return fmt.Errorf("collection parameters differ from the deployed ones; refusing to start")
	}
	return nil
}

// Mint authorizes and executes one mint. Preconditions are checked in
// order against committed state: the supply cap first, then the
// treasury payment. All effects (ledger mint, token URI, provenance,
// next-id and height advance) are staged into a single batch and
// committed once, so a failure at any point leaves no trace.
func (c *Collection) Mint(call CallContext, tokenURI string) (types.TokenID, error) {
	supply, err := c.ledger.TotalSupply()
	if err != nil {
		return 0, fmt.Errorf("read supply: %w", err)
	}
	if supply >= c.params.MaxSupply {
		return 0, fmt.Errorf("%w: all %d editions are minted", ErrSupplyExceeded, c.params.MaxSupply)
	}

	if _, ok := findPayment(call.Outputs, c.treasury, c.params.MintPrice); !ok {
		return 0, fmt.Errorf("%w: no output pays at least %d to treasury %s",
			ErrPaymentNotFound, c.params.MintPrice, c.treasury)
	}

	id, err := c.NextTokenID()
	if err != nil {
		return 0, err
	}
	if uint64(id) == math.MaxUint64 {
		return 0, fmt.Errorf("token id counter overflow")
	}

	b := c.batcher.NewBatch()
	defer b.Cancel()
	if err := c.ledger.Mint(b, call.Sender, id); err != nil {
		return 0, fmt.Errorf("ledger mint: %w", err)
	}
	if err := c.ledger.SetTokenURI(b, id, tokenURI); err != nil {
		return 0, fmt.Errorf("set token uri: %w", err)
	}
	if err := b.Put(minterKey(id), call.Sender.Bytes()); err != nil {
		return 0, fmt.Errorf("stage minter: %w", err)
	}
	if err := b.Put(mintedKey(id), encodeU64(call.Height)); err != nil {
		return 0, fmt.Errorf("stage mint height: %w", err)
	}
	if err := b.Put(keyNextID, encodeU64(uint64(id)+1)); err != nil {
		return 0, fmt.Errorf("stage next id: %w", err)
	}
	if err := b.Put(keyHeight, encodeU64(call.Height)); err != nil {
		return 0, fmt.Errorf("stage height: %w", err)
	}
	if err := b.Commit(); err != nil {
		return 0, fmt.Errorf("commit mint: %w", err)
	}

	log.Contract.Info().
		Str("token_id", id.String()).
		Str("minter", call.Sender.String()).
		Uint64("height", call.Height).
		Str("uri", tokenURI).
		Msg("token minted")
	return id, nil
}

// MinterOf returns the address that originally minted the token.
// The record never changes, regardless of later transfers.
func (c *Collection) MinterOf(id types.TokenID) (types.Address, error) {
	data, err := c.db.Get(minterKey(id))
	if err != nil {
		return types.Address{}, fmt.Errorf("token %s: %w", id, ErrTokenNotFound)
	}
	if len(data) != types.AddressSize {
		return types.Address{}, fmt.Errorf("token %s: corrupt minter entry", id)
	}
	var addr types.Address
	copy(addr[:], data)
	return addr, nil
}

// MintedAt returns the block height the token was minted at.
// Like MinterOf, the record is immutable.
func (c *Collection) MintedAt(id types.TokenID) (uint64, error) {
	data, err := c.db.Get(mintedKey(id))
	if err != nil {
		return 0, fmt.Errorf("token %s: %w", id, ErrTokenNotFound)
	}
	return decodeU64(data)
}

// MintPrice returns the fixed price of one mint in base units.
func (c *Collection) MintPrice() uint64 {
	return c.params.MintPrice
}

// Treasury returns the address mint payments must go to.
func (c *Collection) Treasury() types.Address {
	return c.treasury
}

// MaxSupply returns the edition cap.
func (c *Collection) MaxSupply() uint64 {
	return c.params.MaxSupply
}

// Params returns a copy of the deployment parameters.
func (c *Collection) Params() config.Collection {
	return c.params
}

// NextTokenID returns the id the next successful mint will be assigned.
func (c *Collection) NextTokenID() (types.TokenID, error) {
	data, err := c.db.Get(keyNextID)
	if err != nil {
		// Counter absent means nothing minted yet; ids start at 1.
		return 1, nil
	}
	n, err := decodeU64(data)
	if err != nil {
		return 0, fmt.Errorf("next id cell: %w", err)
	}
	return types.TokenID(n), nil
}

// Height returns the current committed block height. The height starts
// at zero and advances by one with each accepted call.
func (c *Collection) Height() (uint64, error) {
	data, err := c.db.Get(keyHeight)
	if err != nil {
		return 0, nil
	}
	return decodeU64(data)
}

func minterKey(id types.TokenID) []byte {
	return appendU64(prefixMinter, uint64(id))
}

func mintedKey(id types.TokenID) []byte {
	return appendU64(prefixMinted, uint64(id))
}

func appendU64(prefix []byte, n uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], n)
	return key
}

func encodeU64(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}

func decodeU64(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt counter cell: %d bytes", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}
