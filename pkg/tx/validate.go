package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilnworks/kiln/config"
	"github.com/kilnworks/kiln/pkg/crypto"
	"github.com/kilnworks/kiln/pkg/types"
)

// Validation errors.
var (
	ErrNoInputs           = errors.New("transaction has no inputs")
	ErrNoOutputs          = errors.New("transaction has no outputs")
	ErrDuplicateInput     = errors.New("duplicate input")
	ErrOutputOverflow     = errors.New("output values overflow")
	ErrZeroOutput         = errors.New("output value is zero")
	ErrMissingPubKey      = errors.New("input missing public key")
	ErrMissingSig         = errors.New("input missing signature")
	ErrInvalidSig         = errors.New("invalid signature")
	ErrTooManyInputs      = errors.New("too many inputs")
	ErrTooManyOutputs     = errors.New("too many outputs")
	ErrScriptDataTooLarge = errors.New("script data too large")
)

// Validate checks transaction structure and basic rules.
// It does NOT check that the referenced outputs exist or are unspent;
// settlement is the underlying chain's concern.
func (tx *Transaction) Validate() error {
	if len(tx.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(tx.Outputs) == 0 {
		return ErrNoOutputs
	}
	if len(tx.Inputs) > config.MaxTxInputs {
		return fmt.Errorf("%w: %d inputs, max %d", ErrTooManyInputs, len(tx.Inputs), config.MaxTxInputs)
	}
	if len(tx.Outputs) > config.MaxTxOutputs {
		return fmt.Errorf("%w: %d outputs, max %d", ErrTooManyOutputs, len(tx.Outputs), config.MaxTxOutputs)
	}

	// Check for duplicate inputs.
	seen := make(map[types.Outpoint]bool, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if seen[in.PrevOut] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in.PrevOut] = true
	}

	// Every input must carry a signature and public key.
	for i, in := range tx.Inputs {
		if len(in.PubKey) == 0 {
			return fmt.Errorf("input %d: %w", i, ErrMissingPubKey)
		}
		if len(in.Signature) == 0 {
			return fmt.Errorf("input %d: %w", i, ErrMissingSig)
		}
	}

	// Validate outputs.
	var totalOutput uint64
	for i, out := range tx.Outputs {
		if out.Value == 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroOutput)
		}
		if len(out.Script.Data) > config.MaxScriptData {
			return fmt.Errorf("output %d: %w: %d bytes, max %d", i, ErrScriptDataTooLarge, len(out.Script.Data), config.MaxScriptData)
		}
		if totalOutput > math.MaxUint64-out.Value {
			return fmt.Errorf("output %d: %w", i, ErrOutputOverflow)
		}
		totalOutput += out.Value
	}

	return nil
}

// VerifySignatures checks that all input signatures are valid for this transaction.
func (tx *Transaction) VerifySignatures() error {
	hash := tx.Hash()
	for i, in := range tx.Inputs {
		if !crypto.VerifySignature(hash[:], in.Signature, in.PubKey) {
			return fmt.Errorf("input %d: %w", i, ErrInvalidSig)
		}
	}
	return nil
}
