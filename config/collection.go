package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kilnworks/kiln/pkg/types"
)

// Collection holds the deployment parameters of the mint contract.
// These are fixed when the contract is installed and never change:
// a node that restarts with different parameters refuses to start.
type Collection struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	BaseURI   string `json:"base_uri"`
	MaxSupply uint64 `json:"max_supply"`
	MintPrice uint64 `json:"mint_price"` // In base currency units.
	Treasury  string `json:"treasury"`   // Address receiving mint payments.
}

// DefaultCollection returns the parameters of the Kiln Editions drop.
func DefaultCollection() *Collection {
	return &Collection{
		Name:      "Kiln Editions",
		Symbol:    "KILN",
		BaseURI:   "ipfs://",
		MaxSupply: 100,
		MintPrice: 500_000,
		Treasury:  "9c4e8071d3f22ab1c05a60e8d4f7b3921e6a5d08",
	}
}

// Validate checks collection parameters for deployment mistakes.
func (c *Collection) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("collection name is empty")
	}
	if c.Symbol == "" {
		return fmt.Errorf("collection symbol is empty")
	}
	if c.MaxSupply == 0 {
		return fmt.Errorf("max supply must be positive")
	}
	if c.MintPrice == 0 {
		return fmt.Errorf("mint price must be positive")
	}
	if _, err := types.ParseAddress(c.Treasury); err != nil {
		return fmt.Errorf("treasury address: %w", err)
	}
	return nil
}

// TreasuryAddress returns the parsed treasury address.
func (c *Collection) TreasuryAddress() (types.Address, error) {
	return types.ParseAddress(c.Treasury)
}

// LoadCollection reads collection parameters from a JSON file.
// A missing file returns the defaults.
func LoadCollection(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCollection(), nil
		}
		return nil, fmt.Errorf("read collection file: %w", err)
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse collection file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid collection file: %w", err)
	}
	return &c, nil
}

// SaveCollection writes collection parameters to a JSON file.
func SaveCollection(path string, c *Collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write collection file: %w", err)
	}
	return nil
}
