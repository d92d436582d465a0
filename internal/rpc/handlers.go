package rpc

import (
	"errors"
	"fmt"

	"github.com/kilnworks/kiln/internal/contract"
	"github.com/kilnworks/kiln/internal/ledger"
	"github.com/kilnworks/kiln/pkg/types"
)

// contractError maps a contract error to a JSON-RPC error. Mint
// rejections keep their human-readable message; unknown errors become
// internal errors without leaking detail.
func contractError(err error) *Error {
	switch {
	case errors.Is(err, contract.ErrTokenNotFound), errors.Is(err, ledger.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, contract.ErrSupplyExceeded), errors.Is(err, contract.ErrPaymentNotFound):
		return &Error{Code: CodeMintRejected, Message: err.Error()}
	default:
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
}

// handleMint processes nft_mint: verify the payment transaction and
// execute the mint call it carries.
func (s *Server) handleMint(req *Request) (interface{}, *Error) {
	var params MintParam
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Transaction == nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "transaction required"}
	}
	if params.TokenURI == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "token_uri required"}
	}

	receipt, err := s.runtime.Submit(params.Transaction, params.TokenURI)
	if err != nil {
		return nil, contractError(err)
	}

	return &MintResult{
		TokenID: receipt.TokenID,
		Minter:  receipt.Minter.String(),
		Height:  receipt.Height,
		TxHash:  receipt.TxHash.String(),
	}, nil
}

// handleMinterOf processes nft_minterOf.
func (s *Server) handleMinterOf(req *Request) (interface{}, *Error) {
	id, rpcErr := parseTokenID(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	minter, err := s.runtime.Collection().MinterOf(id)
	if err != nil {
		return nil, contractError(err)
	}
	return &MinterResult{TokenID: id, Minter: minter.String()}, nil
}

// handleMintedAt processes nft_mintedAt.
func (s *Server) handleMintedAt(req *Request) (interface{}, *Error) {
	id, rpcErr := parseTokenID(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	height, err := s.runtime.Collection().MintedAt(id)
	if err != nil {
		return nil, contractError(err)
	}
	return &MintedAtResult{TokenID: id, Height: height}, nil
}

// handleMintPrice processes nft_mintPrice.
func (s *Server) handleMintPrice(req *Request) (interface{}, *Error) {
	return &PriceResult{Price: s.runtime.Collection().MintPrice()}, nil
}

// handleTreasury processes nft_treasury.
func (s *Server) handleTreasury(req *Request) (interface{}, *Error) {
	return &TreasuryResult{Treasury: s.runtime.Collection().Treasury().String()}, nil
}

// handleOwnerOf processes nft_ownerOf.
func (s *Server) handleOwnerOf(req *Request) (interface{}, *Error) {
	id, rpcErr := parseTokenID(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	owner, err := s.ledger.OwnerOf(id)
	if err != nil {
		return nil, contractError(err)
	}
	return &OwnerResult{TokenID: id, Owner: owner.String()}, nil
}

// handleTokenURI processes nft_tokenURI.
func (s *Server) handleTokenURI(req *Request) (interface{}, *Error) {
	id, rpcErr := parseTokenID(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	uri, err := s.ledger.TokenURI(id)
	if err != nil {
		return nil, contractError(err)
	}
	return &TokenURIResult{TokenID: id, TokenURI: uri}, nil
}

// handleGetInfo processes nft_getInfo.
func (s *Server) handleGetInfo(req *Request) (interface{}, *Error) {
	coll := s.runtime.Collection()
	params := coll.Params()

	minted, err := s.ledger.TotalSupply()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	height, err := coll.Height()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	return &InfoResult{
		Name:      params.Name,
		Symbol:    params.Symbol,
		BaseURI:   params.BaseURI,
		MaxSupply: params.MaxSupply,
		Minted:    minted,
		MintPrice: params.MintPrice,
		Treasury:  coll.Treasury().String(),
		Height:    height,
	}, nil
}

// handleGetToken processes nft_getToken: the full record of one token.
func (s *Server) handleGetToken(req *Request) (interface{}, *Error) {
	id, rpcErr := parseTokenID(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return s.tokenRecord(id)
}

// handleListTokens processes nft_listTokens: every minted token.
func (s *Server) handleListTokens(req *Request) (interface{}, *Error) {
	result := &ListTokensResult{Tokens: []TokenResult{}}

	err := s.ledger.ForEachOwner(func(id types.TokenID, _ types.Address) error {
		rec, rpcErr := s.tokenRecord(id)
		if rpcErr != nil {
			return fmt.Errorf("token %s: %s", id, rpcErr.Message)
		}
		result.Tokens = append(result.Tokens, *rec)
		return nil
	})
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return result, nil
}

// tokenRecord assembles the aggregate record for one token.
func (s *Server) tokenRecord(id types.TokenID) (*TokenResult, *Error) {
	owner, err := s.ledger.OwnerOf(id)
	if err != nil {
		return nil, contractError(err)
	}
	uri, err := s.ledger.TokenURI(id)
	if err != nil {
		return nil, contractError(err)
	}
	coll := s.runtime.Collection()
	minter, err := coll.MinterOf(id)
	if err != nil {
		return nil, contractError(err)
	}
	height, err := coll.MintedAt(id)
	if err != nil {
		return nil, contractError(err)
	}

	return &TokenResult{
		TokenID:  id,
		Owner:    owner.String(),
		TokenURI: uri,
		Minter:   minter.String(),
		MintedAt: height,
	}, nil
}

// parseTokenID extracts the token_id parameter common to the query
// methods.
func parseTokenID(req *Request) (types.TokenID, *Error) {
	var params TokenIDParam
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return 0, rpcErr
	}
	return params.TokenID, nil
}
