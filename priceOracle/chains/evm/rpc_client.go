package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// ethBackend is the subset of *ethclient.Client the oracle uses.
type ethBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account ethcommon.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
	Close()
}

var _ ethBackend = (*ethclient.Client)(nil)

const dialTimeout = 30 * time.Second

// RPCClient provides EVM RPC operations with round-robin failover across endpoints
type RPCClient struct {
	clients []ethBackend
	index   uint64
	mu      sync.RWMutex
	logger  zerolog.Logger
}

// NewRPCClient dials every URL and keeps the endpoints that answer.
// When expectedChainID is set, endpoints reporting another eth_chainId are dropped.
// The dial gives up after 30s or when ctx is done.
func NewRPCClient(ctx context.Context, rpcURLs []string, expectedChainID *int64, logger zerolog.Logger) (*RPCClient, error) {
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("no RPC URLs provided")
	}

	log := logger.With().Str("component", "evm_rpc_client").Logger()
	clients := make([]ethBackend, 0, len(rpcURLs))

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	for _, url := range rpcURLs {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to connect to RPC endpoint, skipping")
			continue
		}

		if expectedChainID == nil {
			clients = append(clients, client)
			log.Info().Str("url", url).Msg("connected to RPC endpoint")
			continue
		}

		clientChainID, err := client.ChainID(ctx)
		if err != nil {
			// Keep the endpoint; a slow node should not disable the chain
			log.Warn().
				Err(err).
				Str("url", url).
				Int64("expected_chain_id", *expectedChainID).
				Msg("failed to verify chain ID, proceeding with client anyway")
			clients = append(clients, client)
			continue
		}

		if clientChainID.Int64() != *expectedChainID {
			client.Close()
			log.Warn().
				Str("url", url).
				Int64("expected_chain_id", *expectedChainID).
				Int64("actual_chain_id", clientChainID.Int64()).
				Msg("chain ID mismatch, closing client")
			continue
		}

		clients = append(clients, client)
		log.Info().Str("url", url).Msg("connected to RPC endpoint")
	}

	if len(clients) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to any valid RPC endpoints: %w", err)
		}
		return nil, fmt.Errorf("failed to connect to any valid RPC endpoints")
	}

	return newRPCClientWithBackends(clients, log), nil
}

func newRPCClientWithBackends(clients []ethBackend, logger zerolog.Logger) *RPCClient {
	return &RPCClient{
		clients: clients,
		logger:  logger,
	}
}

// executeWithFailover executes a function with round-robin failover
func (rc *RPCClient) executeWithFailover(ctx context.Context, operation string, fn func(ethBackend) error) error {
	rc.mu.RLock()
	clients := rc.clients
	rc.mu.RUnlock()

	if len(clients) == 0 {
		return fmt.Errorf("no RPC clients available for %s", operation)
	}

	var lastErr error
	maxAttempts := len(clients)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		index := atomic.AddUint64(&rc.index, 1) - 1
		client := clients[index%uint64(len(clients))]

		err := fn(client)
		if err == nil {
			return nil
		}
		lastErr = err

		rc.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Err(err).
			Msg("operation failed, trying next endpoint")
	}

	return fmt.Errorf("operation %s failed after trying %d endpoints: %w", operation, maxAttempts, lastErr)
}

// ChainID returns the EVM chain id reported by the endpoints
func (rc *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := rc.executeWithFailover(ctx, "get_chain_id", func(client ethBackend) error {
		var innerErr error
		chainID, innerErr = client.ChainID(ctx)
		return innerErr
	})
	return chainID, err
}

// IsHealthy checks if any RPC in the pool answers
func (rc *RPCClient) IsHealthy(ctx context.Context) bool {
	_, err := rc.GetLatestBlock(ctx)
	return err == nil
}

// GetLatestBlock returns the latest block number
func (rc *RPCClient) GetLatestBlock(ctx context.Context) (uint64, error) {
	var blockNum uint64
	err := rc.executeWithFailover(ctx, "get_block_number", func(client ethBackend) error {
		var innerErr error
		blockNum, innerErr = client.BlockNumber(ctx)
		return innerErr
	})
	return blockNum, err
}

// GetGasPrice fetches the current gas price
func (rc *RPCClient) GetGasPrice(ctx context.Context) (*big.Int, error) {
	var gasPrice *big.Int
	err := rc.executeWithFailover(ctx, "get_gas_price", func(client ethBackend) error {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		var innerErr error
		gasPrice, innerErr = client.SuggestGasPrice(callCtx)
		return innerErr
	})
	return gasPrice, err
}

// SuggestGasPrice returns the node's gas price in wei.
func (rc *RPCClient) SuggestGasPrice(ctx context.Context) (sdkmath.Int, error) {
	price, err := rc.GetGasPrice(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return sdkmath.NewIntFromBigInt(price), nil
}

// CallContract executes a read-only call against the latest block
func (rc *RPCClient) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var out []byte
	err := rc.executeWithFailover(ctx, "call_contract", func(client ethBackend) error {
		var innerErr error
		out, innerErr = client.CallContract(ctx, msg, nil)
		return innerErr
	})
	return out, err
}

// PendingNonceAt returns the next nonce of the account
func (rc *RPCClient) PendingNonceAt(ctx context.Context, account ethcommon.Address) (uint64, error) {
	var nonce uint64
	err := rc.executeWithFailover(ctx, "get_nonce", func(client ethBackend) error {
		var innerErr error
		nonce, innerErr = client.PendingNonceAt(ctx, account)
		return innerErr
	})
	return nonce, err
}

// EstimateGas estimates the gas needed by msg
func (rc *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := rc.executeWithFailover(ctx, "estimate_gas", func(client ethBackend) error {
		var innerErr error
		gas, innerErr = client.EstimateGas(ctx, msg)
		return innerErr
	})
	return gas, err
}

// SendTransaction broadcasts a signed transaction
func (rc *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return rc.executeWithFailover(ctx, "broadcast_tx", func(client ethBackend) error {
		return client.SendTransaction(ctx, tx)
	})
}

// GetTransactionReceipt fetches a transaction receipt.
// A transaction that is not mined yet yields a nil receipt and no error.
func (rc *RPCClient) GetTransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := rc.executeWithFailover(ctx, "get_transaction_receipt", func(client ethBackend) error {
		var innerErr error
		receipt, innerErr = client.TransactionReceipt(ctx, txHash)
		if errors.Is(innerErr, ethereum.NotFound) {
			receipt = nil
			return nil
		}
		return innerErr
	})
	return receipt, err
}

// Close closes all RPC connections
func (rc *RPCClient) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for _, client := range rc.clients {
		if client != nil {
			client.Close()
		}
	}
	rc.clients = nil
}
