package resolver

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"allocation-backend/internal/metrics"
)

// StateReader obtains the on-chain allocation facts for an entity. The two
// implementations are interchangeable; which one applies depends on whether
// the deployed contract version exposes direct state reads.
type StateReader interface {
	Read(ctx context.Context, entityID EntityID, sink ProgressSink) (AllocationRecord, error)
}

// DirectStateReader single entityStateByID round trip
type DirectStateReader struct {
	backend  ChainBackend
	contract common.Address
}

// NewDirectStateReader creates the direct-read strategy
func NewDirectStateReader(backend ChainBackend, contract common.Address) *DirectStateReader {
	return &DirectStateReader{
		backend:  backend,
		contract: contract,
	}
}

// entityState mirrors the entityStateByID return tuple
type entityState struct {
	Owner          common.Address
	EntityId       [16]byte
	AcceptedAmount uint64
	BidTimestamp   uint32
	Refunded       bool
	Cancelled      bool
	Refund         struct {
		Amount    uint64
		Timestamp uint32
	}
}

// Read fetches the full allocation record in one call
func (r *DirectStateReader) Read(ctx context.Context, entityID EntityID, sink ProgressSink) (AllocationRecord, error) {
	sink.Progress("reading entity state")

	out, err := callContract(ctx, r.backend, r.contract, saleContractABI, "entityStateByID", [16]byte(entityID))
	if err != nil {
		return AllocationRecord{}, &ChainReadError{Op: "entityStateByID", Err: err}
	}

	state := abi.ConvertType(out[0], new(entityState)).(*entityState)

	return AllocationRecord{
		AcceptedAmount: state.AcceptedAmount,
		BidTimestamp:   state.BidTimestamp,
		Refunded:       state.Refunded,
		Cancelled:      state.Cancelled,
	}, nil
}

// EventScanReader reconstructs the record from AllocationSet logs when the
// deployment only exposes append-only events. The scan covers
// [deployBlock, head] in chunks no wider than chunkSize because log-query
// endpoints reject ranges above a provider-defined ceiling.
type EventScanReader struct {
	backend     ChainBackend
	contract    common.Address
	deployBlock uint64
	chunkSize   uint64
}

// NewEventScanReader creates the event-reconstruction strategy
func NewEventScanReader(backend ChainBackend, contract common.Address, deployBlock, chunkSize uint64) *EventScanReader {
	if chunkSize == 0 {
		chunkSize = 50000
	}
	return &EventScanReader{
		backend:     backend,
		contract:    contract,
		deployBlock: deployBlock,
		chunkSize:   chunkSize,
	}
}

// Read scans the chain for AllocationSet events and folds them. The last
// matching event in block order is authoritative; amendments supersede
// earlier ones. Zero matches is a valid not-found, never an error. A single
// chunk failure aborts the whole reconstruction and discards everything
// accumulated so far.
func (r *EventScanReader) Read(ctx context.Context, entityID EntityID, sink ProgressSink) (AllocationRecord, error) {
	head, err := r.backend.BlockNumber(ctx)
	if err != nil {
		return AllocationRecord{}, &ChainReadError{Op: "blockNumber", Err: err}
	}

	events, err := r.scanRange(ctx, r.deployBlock, head, sink)
	if err != nil {
		return AllocationRecord{}, err
	}

	// Later chunks were queried later, but order by true block number
	// rather than trusting accumulation order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].BlockNumber < events[j].BlockNumber
	})

	var last *HistoricalAllocationEvent
	for i := range events {
		if events[i].EntityID == entityID {
			last = &events[i]
		}
	}
	if last == nil {
		// No recorded allocation for this entity
		return AllocationRecord{}, nil
	}

	// bidTimestamp, refunded and cancelled are not derivable from events
	return AllocationRecord{AcceptedAmount: last.AcceptedAmount}, nil
}

// scanRange queries [from, to] chunk by chunk in ascending block order,
// checking for cancellation at every chunk boundary.
func (r *EventScanReader) scanRange(ctx context.Context, from, to uint64, sink ProgressSink) ([]HistoricalAllocationEvent, error) {
	var events []HistoricalAllocationEvent

	for start := from; start <= to; start += r.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, &ChainReadError{Op: "event scan", Err: err}
		}

		end := start + r.chunkSize - 1
		if end > to {
			end = to
		}

		sink.Progress(fmt.Sprintf("scanning blocks %d..%d", start, end))
		metrics.ChunkQueriesTotal.Inc()

		logs, err := r.backend.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(start),
			ToBlock:   new(big.Int).SetUint64(end),
			Addresses: []common.Address{r.contract},
			Topics:    [][]common.Hash{{allocationSetTopic}},
		})
		if err != nil {
			return nil, &ChainReadError{Op: fmt.Sprintf("getLogs %d..%d", start, end), Err: err}
		}

		for _, lg := range logs {
			event, err := decodeAllocationSet(lg)
			if err != nil {
				return nil, &ChainReadError{Op: "decode AllocationSet", Err: err}
			}
			events = append(events, event)
		}
	}

	return events, nil
}

func decodeAllocationSet(lg types.Log) (HistoricalAllocationEvent, error) {
	if len(lg.Topics) < 2 {
		return HistoricalAllocationEvent{}, fmt.Errorf("AllocationSet log %s missing entityID topic", lg.TxHash.Hex())
	}

	out, err := saleContractABI.Unpack("AllocationSet", lg.Data)
	if err != nil {
		return HistoricalAllocationEvent{}, err
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return HistoricalAllocationEvent{}, fmt.Errorf("unexpected amount type %T", out[0])
	}
	if !amount.IsUint64() {
		return HistoricalAllocationEvent{}, fmt.Errorf("accepted amount %s overflows uint64", amount)
	}

	return HistoricalAllocationEvent{
		EntityID:       EntityIDFromTopic(lg.Topics[1]),
		AcceptedAmount: amount.Uint64(),
		BlockNumber:    lg.BlockNumber,
		TxHash:         lg.TxHash,
	}, nil
}
