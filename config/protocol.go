package config

// Protocol limits. These are consensus-style rules: every node hosting
// the contract must agree on them.
const (
	// MaxTxInputs caps the number of inputs in a payment transaction.
	MaxTxInputs = 128

	// MaxTxOutputs caps the number of outputs in a payment transaction.
	MaxTxOutputs = 128

	// MaxScriptData caps the size of an output script's data field.
	MaxScriptData = 256
)
