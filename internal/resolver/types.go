package resolver

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// EntityID opaque 16-byte participant handle assigned by the sale contract.
// The all-zero value means "no entity registered for this address" and is a
// valid, absent result rather than an error.
type EntityID [16]byte

// IsZero reports whether the ID is the all-zero absent value
func (id EntityID) IsZero() bool {
	return id == EntityID{}
}

// Hex returns the 0x-prefixed lowercase hex form
func (id EntityID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

// EntityIDFromTopic extracts an EntityID from an indexed bytes16 log topic.
// Fixed-size bytes are left-aligned in the 32-byte topic word.
func EntityIDFromTopic(topic common.Hash) EntityID {
	var id EntityID
	copy(id[:], topic[:16])
	return id
}

// AllocationRecord on-chain fact set for one entity. Built fresh per request,
// either from a single entityStateByID read or by folding AllocationSet events.
type AllocationRecord struct {
	AcceptedAmount uint64 // 6-decimal fixed-point USDT units
	BidTimestamp   uint32 // unix seconds; 0 when reconstructed from events
	Refunded       bool
	Cancelled      bool
}

// HistoricalAllocationEvent one AllocationSet log observed during a scan
type HistoricalAllocationEvent struct {
	EntityID       EntityID
	AcceptedAmount uint64
	BlockNumber    uint64
	TxHash         common.Hash
}

// OffChainAllocation confirmation record from the allocation API.
// All fields are optional in the API response.
type OffChainAllocation struct {
	USDTAllocation  *float64 `json:"usdt_allocation,omitempty"`
	TokenAllocation *float64 `json:"token_allocation,omitempty"`
	ClearingPrice   *float64 `json:"clearing_price,omitempty"`
}

// HasPositiveAllocation reports whether either allocation figure is a
// positive number.
func (a *OffChainAllocation) HasPositiveAllocation() bool {
	if a == nil {
		return false
	}
	if a.USDTAllocation != nil && *a.USDTAllocation > 0 {
		return true
	}
	if a.TokenAllocation != nil && *a.TokenAllocation > 0 {
		return true
	}
	return false
}

// ResolvedAllocation final, fully value-copied output of one resolution
type ResolvedAllocation struct {
	Found         bool                `json:"found"`
	Amount        float64             `json:"amount"` // human-scaled on-chain amount
	EntityID      string              `json:"entity_id"`
	Refunded      bool                `json:"refunded"`
	Cancelled     bool                `json:"cancelled"`
	OffChain      *OffChainAllocation `json:"off_chain,omitempty"`
	OffChainError string              `json:"off_chain_error,omitempty"`
}
