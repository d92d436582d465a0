package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/kilnworks/kiln/internal/storage"
	"github.com/kilnworks/kiln/pkg/types"
)

// Key layout. The ledger shares one flat keyspace with the contract so a
// single batch can span both; the "l/" prefix keeps them apart.
var (
	prefixOwner = []byte("l/o/") // l/o/<id8> -> owner address (20 bytes)
	prefixURI   = []byte("l/u/") // l/u/<id8> -> metadata URI (UTF-8)
	prefixEvent = []byte("l/e/") // l/e/<seq8> -> Event JSON
	keySupply   = []byte("l/s")  // -> supply counter (8 bytes BE)
	keyEventSeq = []byte("l/en") // -> next event sequence (8 bytes BE)
)

// Store persists the token ledger in a key-value database.
type Store struct {
	db storage.DB
}

// NewStore creates a ledger store over db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// Mint records a new token owned by owner. The owner entry, supply
// increment, and Transfer event are staged into b; nothing is visible
// until the caller commits.
func (s *Store) Mint(b storage.Batch, owner types.Address, id types.TokenID) error {
	if id.IsZero() {
		return fmt.Errorf("mint token 0: invalid id")
	}
	exists, err := s.Exists(id)
	if err != nil {
		return fmt.Errorf("mint existence check: %w", err)
	}
	if exists {
		return fmt.Errorf("mint token %s: %w", id, ErrExists)
	}

	if err := b.Put(ownerKey(id), owner.Bytes()); err != nil {
		return fmt.Errorf("stage owner: %w", err)
	}

	supply, err := s.TotalSupply()
	if err != nil {
		return fmt.Errorf("read supply: %w", err)
	}
	if supply == math.MaxUint64 {
		return fmt.Errorf("supply counter overflow")
	}
	if err := b.Put(keySupply, encodeU64(supply+1)); err != nil {
		return fmt.Errorf("stage supply: %w", err)
	}

	return s.stageEvent(b, Event{From: types.Address{}, To: owner, TokenID: id})
}

// SetTokenURI stages the metadata URI for a token.
func (s *Store) SetTokenURI(b storage.Batch, id types.TokenID, uri string) error {
	if err := b.Put(uriKey(id), []byte(uri)); err != nil {
		return fmt.Errorf("stage token uri: %w", err)
	}
	return nil
}

// Transfer stages an ownership change. The from address must match the
// current committed owner.
func (s *Store) Transfer(b storage.Batch, from, to types.Address, id types.TokenID) error {
	owner, err := s.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return fmt.Errorf("transfer token %s: %s is not the owner", id, from)
	}
	if err := b.Put(ownerKey(id), to.Bytes()); err != nil {
		return fmt.Errorf("stage owner: %w", err)
	}
	return s.stageEvent(b, Event{From: from, To: to, TokenID: id})
}

// OwnerOf returns the current owner of a token.
func (s *Store) OwnerOf(id types.TokenID) (types.Address, error) {
	data, err := s.db.Get(ownerKey(id))
	if err != nil {
		return types.Address{}, fmt.Errorf("token %s: %w", id, ErrNotFound)
	}
	if len(data) != types.AddressSize {
		return types.Address{}, fmt.Errorf("token %s: corrupt owner entry", id)
	}
	var addr types.Address
	copy(addr[:], data)
	return addr, nil
}

// TokenURI returns the metadata URI of a token.
func (s *Store) TokenURI(id types.TokenID) (string, error) {
	data, err := s.db.Get(uriKey(id))
	if err != nil {
		return "", fmt.Errorf("token %s: %w", id, ErrNotFound)
	}
	return string(data), nil
}

// Exists reports whether a token has been minted.
func (s *Store) Exists(id types.TokenID) (bool, error) {
	if id.IsZero() {
		return false, nil
	}
	return s.db.Has(ownerKey(id))
}

// TotalSupply returns the number of tokens minted so far.
func (s *Store) TotalSupply() (uint64, error) {
	data, err := s.db.Get(keySupply)
	if err != nil {
		// Counter cell absent means nothing minted yet.
		return 0, nil
	}
	return decodeU64(data)
}

// ForEachOwner iterates over all minted tokens and their current owners.
// Return a non-nil error from fn to stop iteration early.
func (s *Store) ForEachOwner(fn func(types.TokenID, types.Address) error) error {
	return s.db.ForEach(prefixOwner, func(key, value []byte) error {
		if len(key) != len(prefixOwner)+8 || len(value) != types.AddressSize {
			return nil // Malformed entry, skip.
		}
		id := types.TokenID(binary.BigEndian.Uint64(key[len(prefixOwner):]))
		var addr types.Address
		copy(addr[:], value)
		return fn(id, addr)
	})
}

// ForEachEvent iterates over the transfer event log in sequence order.
func (s *Store) ForEachEvent(fn func(Event) error) error {
	return s.db.ForEach(prefixEvent, func(key, value []byte) error {
		var ev Event
		if err := json.Unmarshal(value, &ev); err != nil {
			return nil // Skip corrupt entries.
		}
		return fn(ev)
	})
}

// stageEvent appends a transfer event and bumps the sequence cell.
func (s *Store) stageEvent(b storage.Batch, ev Event) error {
	seq, err := s.nextEventSeq()
	if err != nil {
		return err
	}
	ev.Seq = seq

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.Put(eventKey(seq), data); err != nil {
		return fmt.Errorf("stage event: %w", err)
	}
	if err := b.Put(keyEventSeq, encodeU64(seq+1)); err != nil {
		return fmt.Errorf("stage event seq: %w", err)
	}
	return nil
}

// nextEventSeq returns the committed next event sequence number.
func (s *Store) nextEventSeq() (uint64, error) {
	data, err := s.db.Get(keyEventSeq)
	if err != nil {
		return 0, nil
	}
	return decodeU64(data)
}

func ownerKey(id types.TokenID) []byte {
	return appendU64(prefixOwner, uint64(id))
}

func uriKey(id types.TokenID) []byte {
	return appendU64(prefixURI, uint64(id))
}

func eventKey(seq uint64) []byte {
	return appendU64(prefixEvent, seq)
}

// appendU64 returns prefix + 8-byte big-endian n. Big-endian keeps keys
// ordered by id under prefix iteration.
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
