package resolver

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRegistry = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")
	testResolver = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBound    = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestResolveLiteralAddressNoNetwork(t *testing.T) {
	// Backend with no call functions: any network call fails the test
	r := NewIdentityResolver(&fakeBackend{}, testRegistry)

	want := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	inputs := []string{
		"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", // no 0x prefix
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	}
	for _, input := range inputs {
		got, err := r.Resolve(context.Background(), input, NopSink)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestResolveLiteralEmitsNoProgress(t *testing.T) {
	r := NewIdentityResolver(&fakeBackend{}, testRegistry)

	var stages []string
	sink := ProgressFunc(func(s string) { stages = append(stages, s) })

	_, err := r.Resolve(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", sink)
	require.NoError(t, err)
	assert.Empty(t, stages)
}

func TestResolveInvalidInput(t *testing.T) {
	r := NewIdentityResolver(&fakeBackend{}, testRegistry)

	for _, input := range []string{
		"",
		"0x1234",
		"not-an-address",
		"0xzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", // 42 hex digits
	} {
		_, err := r.Resolve(context.Background(), input, NopSink)
		var invalid *InvalidAddressFormatError
		assert.ErrorAs(t, err, &invalid, "input %q", input)
	}
}

func ensBackend(t *testing.T, resolverAddr, boundAddr common.Address) *fakeBackend {
	t.Helper()
	return &fakeBackend{
		callFn: func(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
			switch *msg.To {
			case testRegistry:
				return encodeAddressWord(resolverAddr), nil
			case testResolver:
				return encodeAddressWord(boundAddr), nil
			default:
				t.Fatalf("call to unexpected contract %s", msg.To.Hex())
				return nil, nil
			}
		},
	}
}

func TestResolveName(t *testing.T) {
	r := NewIdentityResolver(ensBackend(t, testResolver, testBound), testRegistry)

	var stages []string
	sink := ProgressFunc(func(s string) { stages = append(stages, s) })

	got, err := r.Resolve(context.Background(), "Alice.ETH", sink)
	require.NoError(t, err)
	assert.Equal(t, testBound, got)

	require.Len(t, stages, 1)
	assert.Contains(t, stages[0], "resolving name")
}

func TestResolveNameNoResolver(t *testing.T) {
	r := NewIdentityResolver(ensBackend(t, common.Address{}, common.Address{}), testRegistry)

	_, err := r.Resolve(context.Background(), "ghost.eth", NopSink)
	var notFound *NameNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveNameUnboundAddress(t *testing.T) {
	r := NewIdentityResolver(ensBackend(t, testResolver, common.Address{}), testRegistry)

	_, err := r.Resolve(context.Background(), "unbound.eth", NopSink)
	var notFound *NameNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolveNameTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	backend := &fakeBackend{
		callFn: func(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
			return nil, cause
		},
	}
	r := NewIdentityResolver(backend, testRegistry)

	_, err := r.Resolve(context.Background(), "alice.eth", NopSink)
	var transport *NameResolutionTransportError
	require.ErrorAs(t, err, &transport)
	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.Contains(err.Error(), "connection refused"), "cause text must surface")
}

func TestNamehashVectors(t *testing.T) {
	// Reference vectors from the ENS specification
	assert.Equal(t, common.Hash{}, Namehash(""))
	assert.Equal(t,
		common.HexToHash("0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"),
		Namehash("eth"))
	assert.Equal(t,
		common.HexToHash("0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"),
		Namehash("foo.eth"))
}
