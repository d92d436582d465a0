package types

import (
	"encoding/json"
	"testing"
)

func TestScriptType_String(t *testing.T) {
	if got := ScriptTypeP2PKH.String(); got != "P2PKH" {
		t.Errorf("P2PKH.String() = %q, want %q", got, "P2PKH")
	}
	if got := ScriptType(0xFF).String(); got != "Unknown" {
		t.Errorf("ScriptType(0xFF).String() = %q, want %q", got, "Unknown")
	}
}

func TestP2PKH_Address(t *testing.T) {
	addr := Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	s := P2PKH(addr)

	got, ok := s.Address()
	if !ok {
		t.Fatal("Address() returned ok=false for P2PKH script")
	}
	if got != addr {
		t.Errorf("Address() = %x, want %x", got, addr)
	}
}

func TestScript_Address_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		script Script
	}{
		{"short data", Script{Type: ScriptTypeP2PKH, Data: []byte{1, 2, 3}}},
		{"empty data", Script{Type: ScriptTypeP2PKH}},
		{"unknown type", Script{Type: ScriptType(0x7F), Data: make([]byte, AddressSize)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.script.Address(); ok {
				t.Error("Address() should return ok=false")
			}
		})
	}
}

func TestScript_JSON_Roundtrip(t *testing.T) {
	s := P2PKH(Address{0xaa, 0xbb})
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Script
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != s.Type || string(got.Data) != string(s.Data) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, s)
	}
}
