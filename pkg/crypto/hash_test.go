package crypto

import (
	"testing"

	"github.com/kilnworks/kiln/pkg/types"
)

func TestHash_Deterministic(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: []byte{}},
		{name: "kiln", input: []byte("kiln")},
		{name: "binary", input: []byte{0x00, 0xff, 0x7f, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Hash(tt.input)
			second := Hash(tt.input)
			if first != second {
				t.Error("Hash is not deterministic")
			}
			if first.IsZero() {
				t.Error("Hash returned zero hash")
			}
		})
	}
}

func TestHash_DifferentInputs(t *testing.T) {
	a := Hash([]byte("a"))
	b := Hash([]byte("b"))
	if a == b {
		t.Error("different inputs should produce different hashes")
	}
}

func TestAddressFromPubKey(t *testing.T) {
	pubKey := make([]byte, 33)
	pubKey[0] = 0x02
	pubKey[1] = 0xab

	addr := AddressFromPubKey(pubKey)
	if addr.IsZero() {
		t.Error("AddressFromPubKey returned zero address")
	}

	// The address must be the hash prefix.
	h := Hash(pubKey)
	var want types.Address
	copy(want[:], h[:types.AddressSize])
	if addr != want {
		t.Errorf("AddressFromPubKey = %x, want %x", addr, want)
	}

	// Deterministic.
	if again := AddressFromPubKey(pubKey); again != addr {
		t.Error("AddressFromPubKey is not deterministic")
	}
}
