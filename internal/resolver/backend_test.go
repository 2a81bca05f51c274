package resolver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend scriptable ChainBackend for tests. Unset functions fail the
// call so tests catch unexpected network traffic.
type fakeBackend struct {
	callFn   func(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error)
	filterFn func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	headFn   func(ctx context.Context) (uint64, error)
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	if f.callFn == nil {
		return nil, fmt.Errorf("unexpected CallContract")
	}
	return f.callFn(ctx, msg, block)
}

func (f *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if f.filterFn == nil {
		return nil, fmt.Errorf("unexpected FilterLogs")
	}
	return f.filterFn(ctx, q)
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	if f.headFn == nil {
		return 0, fmt.Errorf("unexpected BlockNumber")
	}
	return f.headFn(ctx)
}

// encodeAddressWord ABI-encodes an address return value
func encodeAddressWord(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}

// encodeBytes16Word ABI-encodes a bytes16 return value (left-aligned)
func encodeBytes16Word(id EntityID) []byte {
	word := make([]byte, 32)
	copy(word, id[:])
	return word
}

// makeAllocationLog builds an AllocationSet log for the given entity
func makeAllocationLog(id EntityID, amount uint64, block uint64) types.Log {
	var idTopic common.Hash
	copy(idTopic[:], id[:])
	return types.Log{
		Topics:      []common.Hash{allocationSetTopic, idTopic},
		Data:        common.LeftPadBytes(new(big.Int).SetUint64(amount).Bytes(), 32),
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
	}
}

func entityIDFromByte(b byte) EntityID {
	var id EntityID
	for i := range id {
		id[i] = b
	}
	return id
}
