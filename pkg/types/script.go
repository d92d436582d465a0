package types

import (
	"encoding/hex"
	"encoding/json"
)

// ScriptType identifies the type of locking script.
type ScriptType uint8

const (
	// ScriptTypeP2PKH pays to a public key hash. Data holds the
	// 20-byte destination address.
	ScriptTypeP2PKH ScriptType = 0x01
)

// String returns a human-readable name for the script type.
func (st ScriptType) String() string {
	switch st {
	case ScriptTypeP2PKH:
		return "P2PKH"
	default:
		return "Unknown"
	}
}

// Script defines the locking condition for a transaction output.
type Script struct {
	Type ScriptType `json:"type"`
	Data []byte     `json:"data"`
}

// P2PKH builds a pay-to-public-key-hash script for the given address.
func P2PKH(addr Address) Script {
	return Script{Type: ScriptTypeP2PKH, Data: addr.Bytes()}
}

// Address extracts the destination address from a P2PKH script.
// Returns ok=false for other script types or malformed data.
func (s Script) Address() (Address, bool) {
	if s.Type != ScriptTypeP2PKH || len(s.Data) != AddressSize {
		return Address{}, false
	}
	var addr Address
	copy(addr[:], s.Data)
	return addr, true
}

// scriptJSON is the JSON representation of a Script with hex-encoded data.
type scriptJSON struct {
	Type ScriptType `json:"type"`
	Data string     `json:"data"`
}

// MarshalJSON encodes the script with hex-encoded data.
func (s Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(scriptJSON{
		Type: s.Type,
		Data: hex.EncodeToString(s.Data),
	})
}

// UnmarshalJSON decodes a script with hex-encoded data.
func (s *Script) UnmarshalJSON(data []byte) error {
	var j scriptJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	s.Type = j.Type
	if j.Data != "" {
		b, err := hex.DecodeString(j.Data)
		if err != nil {
			return err
		}
		s.Data = b
	}
	return nil
}
