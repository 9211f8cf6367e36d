package chains

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/evm"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

type dialFunc func(ctx context.Context, urls []string, expectedChainID *int64, logger zerolog.Logger) (*evm.RPCClient, error)

// Registry owns one RPC client per chain, dialed on first use. Clients are
// never shared across chains. Dials of different chains run concurrently and
// never hold the registry lock.
type Registry struct {
	config *config.Config
	dial   dialFunc
	logger zerolog.Logger

	mu          sync.Mutex
	clients     map[types.ChainID]*evm.RPCClient
	dialing     map[types.ChainID]chan struct{}
	evmChainIDs map[types.ChainID]*big.Int
	closed      bool
}

// NewRegistry creates a registry over the configured chains.
func NewRegistry(cfg *config.Config, logger zerolog.Logger) *Registry {
	return &Registry{
		config:      cfg,
		dial:        evm.NewRPCClient,
		logger:      logger.With().Str("component", "chains").Logger(),
		clients:     make(map[types.ChainID]*evm.RPCClient),
		dialing:     make(map[types.ChainID]chan struct{}),
		evmChainIDs: make(map[types.ChainID]*big.Int),
	}
}

// Client returns the RPC client of a chain. A chain without rpc_urls is a
// configuration error for that chain only. A failed dial is retried on the next call.
func (r *Registry) Client(ctx context.Context, chainID types.ChainID) (*evm.RPCClient, error) {
	chainCfg := r.config.GetChainConfig(chainID)
	if len(chainCfg.RPCURLs) == 0 {
		return nil, oerrors.NewConfigError(chainID.String(), "no rpc_urls configured")
	}

	r.mu.Lock()
	if client, ok := r.clients[chainID]; ok {
		r.mu.Unlock()
		return client, nil
	}
	slot, ok := r.dialing[chainID]
	if !ok {
		slot = make(chan struct{}, 1)
		r.dialing[chainID] = slot
	}
	r.mu.Unlock()

	// one dial per chain at a time
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, oerrors.NewOnChainReadError(chainID.String(), "failed to connect", ctx.Err())
	}
	defer func() { <-slot }()

	r.mu.Lock()
	if client, ok := r.clients[chainID]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	client, err := r.dial(ctx, chainCfg.RPCURLs, chainCfg.EVMChainID, r.logger.With().Uint16("chain_id", uint16(chainID)).Logger())
	if err != nil {
		return nil, oerrors.NewOnChainReadError(chainID.String(), "failed to connect", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		client.Close()
		return nil, oerrors.NewOnChainReadError(chainID.String(), "failed to connect", fmt.Errorf("registry closed"))
	}
	r.clients[chainID] = client
	r.logger.Info().Uint16("chain_id", uint16(chainID)).Int("endpoints", len(chainCfg.RPCURLs)).Msg("chain client ready")
	return client, nil
}

// Reader binds the delivery provider at contract on a home chain.
func (r *Registry) Reader(ctx context.Context, chainID types.ChainID, contract ethcommon.Address) (common.PriceReader, error) {
	client, err := r.Client(ctx, chainID)
	if err != nil {
		return nil, err
	}
	return evm.NewDeliveryProvider(chainID, contract, client, r.logger), nil
}

// Writer binds signer to the delivery provider at contract on a home chain.
func (r *Registry) Writer(ctx context.Context, chainID types.ChainID, contract ethcommon.Address, signer evm.TxSigner) (common.PriceWriter, error) {
	client, err := r.Client(ctx, chainID)
	if err != nil {
		return nil, err
	}

	evmChainID, err := r.evmChainID(ctx, chainID, client)
	if err != nil {
		return nil, err
	}

	multiplier, err := utils.DecFromFloat(r.config.TxGasPriceMultiplier(chainID))
	if err != nil {
		return nil, oerrors.NewConfigError(chainID.String(), "invalid tx_gas_price_multiplier")
	}

	provider := evm.NewDeliveryProvider(chainID, contract, client, r.logger)
	return evm.NewPriceUpdater(provider, signer, evmChainID, multiplier), nil
}

// Suggester returns the gas price suggester of a chain.
func (r *Registry) Suggester(ctx context.Context, chainID types.ChainID) (common.GasPriceSuggester, error) {
	client, err := r.Client(ctx, chainID)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// evmChainID returns the signing chain id, from configuration or from the node.
func (r *Registry) evmChainID(ctx context.Context, chainID types.ChainID, client *evm.RPCClient) (*big.Int, error) {
	if id := r.config.GetChainConfig(chainID).EVMChainID; id != nil {
		return big.NewInt(*id), nil
	}

	r.mu.Lock()
	cached, ok := r.evmChainIDs[chainID]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	id, err := client.ChainID(ctx)
	if err != nil {
		return nil, oerrors.NewOnChainReadError(chainID.String(), "failed to get eth_chainId", err)
	}

	r.mu.Lock()
	r.evmChainIDs[chainID] = id
	r.mu.Unlock()
	return id, nil
}

// Health reports, for every chain dialed so far, whether its node answers.
func (r *Registry) Health(ctx context.Context) map[types.ChainID]bool {
	r.mu.Lock()
	clients := make(map[types.ChainID]*evm.RPCClient, len(r.clients))
	for id, c := range r.clients {
		clients[id] = c
	}
	r.mu.Unlock()

	health := make(map[types.ChainID]bool, len(clients))
	for id, c := range clients {
		health[id] = c.IsHealthy(ctx)
	}
	return health
}

// Close closes every dialed client.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, client := range r.clients {
		client.Close()
		delete(r.clients, id)
	}
}
