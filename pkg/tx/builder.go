package tx

import (
	"fmt"

	"github.com/kilnworks/kiln/pkg/crypto"
	"github.com/kilnworks/kiln/pkg/types"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a new transaction builder.
func NewBuilder() *Builder {
	return &Builder{
		tx: &Transaction{Version: 1},
	}
}

// AddInput adds an input referencing a previous output.
func (b *Builder) AddInput(prevOut types.Outpoint) *Builder {
	b.tx.Inputs = append(b.tx.Inputs, Input{PrevOut: prevOut})
	return b
}

// AddOutput adds an output with a value and script.
func (b *Builder) AddOutput(value uint64, script types.Script) *Builder {
	b.tx.Outputs = append(b.tx.Outputs, Output{Value: value, Script: script})
	return b
}

// Pay adds a P2PKH output paying amount to addr.
func (b *Builder) Pay(addr types.Address, amount uint64) *Builder {
	return b.AddOutput(amount, types.P2PKH(addr))
}

// SetLockTime sets the transaction lock time.
func (b *Builder) SetLockTime(lockTime uint64) *Builder {
	b.tx.LockTime = lockTime
	return b
}

// Sign signs all inputs with the provided private key.
// Each input gets the same signature (single-key spending).
func (b *Builder) Sign(key *crypto.PrivateKey) error {
	hash := b.tx.Hash()
	sig, err := key.Sign(hash[:])
	if err != nil {
		return fmt.Errorf("sign tx: %w", err)
	}
	pubKey := key.PublicKey()
	for i := range b.tx.Inputs {
		b.tx.Inputs[i].Signature = sig
		b.tx.Inputs[i].PubKey = pubKey
	}
	return nil
}

// Build returns the constructed transaction.
// Does NOT validate; call tx.Validate() separately.
func (b *Builder) Build() *Transaction {
	return b.tx
}
