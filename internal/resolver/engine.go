package resolver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"allocation-backend/internal/metrics"
	"allocation-backend/internal/utils"
)

// OffChainFetcher fetches the advisory off-chain confirmation record.
// A non-empty reason string describes a captured failure; it never aborts
// the resolution.
type OffChainFetcher interface {
	FetchConfirmed(ctx context.Context, entityID EntityID) (*OffChainAllocation, string)
}

// Engine runs one full allocation resolution: identity -> entity ->
// on-chain state -> off-chain confirmation -> reconciled result. All
// collaborators are constructor-injected; the engine keeps no state across
// invocations.
type Engine struct {
	identity *IdentityResolver
	locator  *EntityLocator
	reader   StateReader
	offchain OffChainFetcher
}

// NewEngine wires an engine from its collaborators
func NewEngine(identity *IdentityResolver, locator *EntityLocator, reader StateReader, offchain OffChainFetcher) *Engine {
	return &Engine{
		identity: identity,
		locator:  locator,
		reader:   reader,
		offchain: offchain,
	}
}

// Resolve resolves an identity to its allocation. Identity, locator and
// chain-read failures are fatal and returned; off-chain failures are
// captured into the result. sink may be nil.
func (e *Engine) Resolve(ctx context.Context, identity string, sink ProgressSink) (*ResolvedAllocation, error) {
	if sink == nil {
		sink = NopSink
	}

	start := time.Now()
	result, err := e.resolve(ctx, identity, sink)
	metrics.ResolutionDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.ResolutionsTotal.WithLabelValues("error").Inc()
	case result.Found:
		metrics.ResolutionsTotal.WithLabelValues("found").Inc()
	default:
		metrics.ResolutionsTotal.WithLabelValues("not_found").Inc()
	}
	return result, err
}

func (e *Engine) resolve(ctx context.Context, identity string, sink ProgressSink) (*ResolvedAllocation, error) {
	sink.Progress("resolving identity")
	address, err := e.identity.Resolve(ctx, identity, sink)
	if err != nil {
		return nil, err
	}

	sink.Progress("locating entity")
	entityID, err := e.locator.Locate(ctx, address)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"address":   address.Hex(),
		"entity_id": entityID.Hex(),
	}).Debug("entity located")

	// The zero ID means no entity is registered on-chain. There is no state
	// to read for it, but the off-chain API still gets a say: the on-chain
	// figure lags settlement, so a live confirmation alone can flip the
	// result to found.
	var record AllocationRecord
	if !entityID.IsZero() {
		record, err = e.reader.Read(ctx, entityID, sink)
		if err != nil {
			return nil, err
		}
	}

	sink.Progress("fetching off-chain confirmation")
	offchain, offchainErr := e.offchain.FetchConfirmed(ctx, entityID)

	result := Reconcile(record, offchain)
	result.EntityID = entityID.Hex()
	result.OffChainError = offchainErr
	return result, nil
}

// Reconcile merges the on-chain record with the optional off-chain
// confirmation. Pure computation: either source reporting a positive
// amount is sufficient evidence of a real allocation, because the on-chain
// figure lags a periodic settlement cycle while the off-chain figure is
// live. The two amounts are reported independently, never summed.
func Reconcile(onChain AllocationRecord, offChain *OffChainAllocation) *ResolvedAllocation {
	return &ResolvedAllocation{
		Found:     onChain.AcceptedAmount > 0 || offChain.HasPositiveAllocation(),
		Amount:    utils.USDTToDisplay(onChain.AcceptedAmount),
		Refunded:  onChain.Refunded,
		Cancelled: onChain.Cancelled,
		OffChain:  offChain,
	}
}
