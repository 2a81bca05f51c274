package resolver

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainBackend is the slice of the RPC client the resolver needs.
// *ethclient.Client satisfies it; tests use a fake. The handle is owned by
// the caller and passed in explicitly, never a process-wide singleton.
type ChainBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Sale contract ABI: read-only entity lookups plus the AllocationSet event
// emitted on every allocation amendment.
const saleABI = `[
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "entityByAddress",
		"outputs": [{"name": "", "type": "bytes16"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "entityId", "type": "bytes16"}],
		"name": "entityStateByID",
		"outputs": [{
			"components": [
				{"name": "owner", "type": "address"},
				{"name": "entityId", "type": "bytes16"},
				{"name": "acceptedAmount", "type": "uint64"},
				{"name": "bidTimestamp", "type": "uint32"},
				{"name": "refunded", "type": "bool"},
				{"name": "cancelled", "type": "bool"},
				{"components": [
					{"name": "amount", "type": "uint64"},
					{"name": "timestamp", "type": "uint32"}
				], "name": "refund", "type": "tuple"}
			],
			"name": "",
			"type": "tuple"
		}],
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "entityID", "type": "bytes16"},
			{"indexed": false, "name": "acceptedAmountUSDT", "type": "uint256"}
		],
		"name": "AllocationSet",
		"type": "event"
	}
]`

// ENS registry and resolver, reduced to the two calls name resolution needs
const ensRegistryABI = `[
	{
		"constant": true,
		"inputs": [{"name": "node", "type": "bytes32"}],
		"name": "resolver",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	}
]`

const ensResolverABI = `[
	{
		"constant": true,
		"inputs": [{"name": "node", "type": "bytes32"}],
		"name": "addr",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	}
]`

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("invalid embedded ABI: " + err.Error())
	}
	return parsed
}

var (
	saleContractABI = mustParseABI(saleABI)
	registryABI     = mustParseABI(ensRegistryABI)
	resolverABI     = mustParseABI(ensResolverABI)

	allocationSetTopic = saleContractABI.Events["AllocationSet"].ID
)

// callContract packs a method call, executes it at the latest block and
// returns the unpacked outputs.
func callContract(ctx context.Context, backend ChainBackend, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}

	result, err := backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}

	return contractABI.Unpack(method, result)
}
