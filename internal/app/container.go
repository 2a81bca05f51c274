package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"allocation-backend/internal/clients"
	"allocation-backend/internal/config"
	"allocation-backend/internal/events"
	"allocation-backend/internal/resolver"
)

// Container holds the explicitly wired service graph. Built once at
// startup; nothing here is process-wide mutable state.
type Container struct {
	ChainClient *ethclient.Client
	Engine      *resolver.Engine
	Publisher   *events.Publisher
}

// NewContainer dials the chain and wires the resolution engine from config
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	chainClient, err := ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", cfg.Chain.RPCURL, err)
	}

	saleContract := common.HexToAddress(cfg.Chain.SaleContract)
	ensRegistry := common.HexToAddress(cfg.Chain.ENSRegistry)

	identity := resolver.NewIdentityResolver(chainClient, ensRegistry)
	locator := resolver.NewEntityLocator(chainClient, saleContract)

	var reader resolver.StateReader
	if cfg.Chain.DirectStateRead {
		reader = resolver.NewDirectStateReader(chainClient, saleContract)
	} else {
		reader = resolver.NewEventScanReader(chainClient, saleContract, cfg.Chain.DeployBlock, cfg.Chain.ChunkSize)
	}

	offchain := clients.NewOffChainAllocationClient(cfg.OffChain.BaseURL, cfg.OffChain.OffChainTimeout())

	publisher, err := events.NewPublisher(cfg.NATS)
	if err != nil {
		chainClient.Close()
		return nil, fmt.Errorf("failed to connect NATS publisher: %w", err)
	}

	return &Container{
		ChainClient: chainClient,
		Engine:      resolver.NewEngine(identity, locator, reader, offchain),
		Publisher:   publisher,
	}, nil
}

// Close releases held connections
func (c *Container) Close() {
	if c.ChainClient != nil {
		c.ChainClient.Close()
	}
	c.Publisher.Close()
}
