package resolver

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EntityLocator maps a canonical address to the sale contract's opaque
// entity handle via one read-only entityByAddress call.
type EntityLocator struct {
	backend  ChainBackend
	contract common.Address
}

// NewEntityLocator creates a locator for the given sale contract
func NewEntityLocator(backend ChainBackend, contract common.Address) *EntityLocator {
	return &EntityLocator{
		backend:  backend,
		contract: contract,
	}
}

// Locate returns the EntityID registered for an address. The all-zero ID
// means no entity is registered; that is a valid result, not an error.
func (l *EntityLocator) Locate(ctx context.Context, address common.Address) (EntityID, error) {
	out, err := callContract(ctx, l.backend, l.contract, saleContractABI, "entityByAddress", address)
	if err != nil {
		return EntityID{}, &ChainReadError{Op: "entityByAddress", Err: err}
	}

	raw, ok := out[0].([16]byte)
	if !ok {
		return EntityID{}, &ChainReadError{Op: "entityByAddress", Err: fmt.Errorf("unexpected output type %T", out[0])}
	}

	return EntityID(raw), nil
}
