package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// addressLiteralPattern 40 hex digits, optional 0x prefix
var addressLiteralPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{40}$`)

// nameSuffixes inputs ending in one of these are treated as resolvable names
var nameSuffixes = []string{".eth"}

// IdentityResolver normalizes user input into a canonical on-chain address.
// Literal addresses never touch the network; names go through ENS.
type IdentityResolver struct {
	backend  ChainBackend
	registry common.Address
}

// NewIdentityResolver creates a resolver against the given ENS registry
func NewIdentityResolver(backend ChainBackend, registry common.Address) *IdentityResolver {
	return &IdentityResolver{
		backend:  backend,
		registry: registry,
	}
}

// Resolve returns the canonical address for an identity. Resolution is
// deterministic: the same input in any letter-casing yields the same address.
func (r *IdentityResolver) Resolve(ctx context.Context, identity string, sink ProgressSink) (common.Address, error) {
	input := strings.TrimSpace(identity)

	if addressLiteralPattern.MatchString(input) && !hasNameSuffix(input) {
		// Literal fast path: lowercase-normalize, no network call
		return common.HexToAddress(strings.ToLower(input)), nil
	}

	if !hasNameSuffix(input) {
		return common.Address{}, &InvalidAddressFormatError{Input: identity}
	}

	sink.Progress(fmt.Sprintf("resolving name %s", input))
	return r.resolveName(ctx, strings.ToLower(input))
}

// resolveName looks the name up in the ENS registry and asks its resolver
// for the bound address.
func (r *IdentityResolver) resolveName(ctx context.Context, name string) (common.Address, error) {
	node := Namehash(name)

	out, err := callContract(ctx, r.backend, r.registry, registryABI, "resolver", node)
	if err != nil {
		return common.Address{}, &NameResolutionTransportError{Name: name, Err: err}
	}
	resolverAddr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, &NameResolutionTransportError{Name: name, Err: fmt.Errorf("unexpected resolver output type %T", out[0])}
	}
	if resolverAddr == (common.Address{}) {
		return common.Address{}, &NameNotFoundError{Name: name}
	}

	out, err = callContract(ctx, r.backend, resolverAddr, resolverABI, "addr", node)
	if err != nil {
		return common.Address{}, &NameResolutionTransportError{Name: name, Err: err}
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, &NameResolutionTransportError{Name: name, Err: fmt.Errorf("unexpected addr output type %T", out[0])}
	}
	if addr == (common.Address{}) {
		return common.Address{}, &NameNotFoundError{Name: name}
	}

	return addr, nil
}

func hasNameSuffix(input string) bool {
	lower := strings.ToLower(input)
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Namehash computes the ENS namehash of an already-lowercased name.
// Empty name hashes to the zero node.
func Namehash(name string) common.Hash {
	node := common.Hash{}
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node[:], labelHash[:])
	}
	return node
}
