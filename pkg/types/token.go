package types

import "strconv"

// TokenID identifies a minted edition within a collection.
// IDs are dense and monotonically assigned starting at 1; 0 is never a
// valid token id.
type TokenID uint64

// IsZero returns true for the invalid zero id.
func (t TokenID) IsZero() bool {
	return t == 0
}

// String returns the decimal representation of the token id.
func (t TokenID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}
