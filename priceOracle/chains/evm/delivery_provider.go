package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

const deliveryProviderABIJSON = `[
	{"type":"function","name":"gasPrice","stateMutability":"view",
	 "inputs":[{"name":"targetChain","type":"uint16"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"nativeCurrencyPrice","stateMutability":"view",
	 "inputs":[{"name":"targetChain","type":"uint16"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"updatePrices","stateMutability":"nonpayable",
	 "inputs":[{"name":"updates","type":"tuple[]","components":[
		{"name":"chainId","type":"uint16"},
		{"name":"gasPrice","type":"uint256"},
		{"name":"nativeCurrencyPrice","type":"uint256"}]}],
	 "outputs":[]}
]`

// Gas estimate headroom, in percent of the estimate.
const gasLimitBufferPercent = 20

// deliveryProviderABI is parsed once; the JSON above is a constant.
var deliveryProviderABI = mustParseABI(deliveryProviderABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid delivery provider ABI: %v", err))
	}
	return parsed
}

// updatePriceArg mirrors the (uint16,uint256,uint256) tuple of updatePrices.
type updatePriceArg struct {
	ChainId             uint16
	GasPrice            *big.Int
	NativeCurrencyPrice *big.Int
}

// TxSigner signs transactions for one account.
type TxSigner interface {
	Address() ethcommon.Address
	SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// DeliveryProvider binds the delivery provider contract deployed on one home chain.
type DeliveryProvider struct {
	chainID types.ChainID
	address ethcommon.Address
	rpc     *RPCClient
	logger  zerolog.Logger
}

var _ common.PriceReader = (*DeliveryProvider)(nil)

// NewDeliveryProvider creates a contract binding on top of an RPC client
func NewDeliveryProvider(chainID types.ChainID, address ethcommon.Address, rpc *RPCClient, logger zerolog.Logger) *DeliveryProvider {
	return &DeliveryProvider{
		chainID: chainID,
		address: address,
		rpc:     rpc,
		logger: logger.With().
			Str("component", "delivery_provider").
			Uint16("chain_id", uint16(chainID)).
			Str("contract", address.Hex()).
			Logger(),
	}
}

// Address returns the contract address
func (d *DeliveryProvider) Address() ethcommon.Address {
	return d.address
}

func (d *DeliveryProvider) GasPrice(ctx context.Context, remote types.ChainID) (sdkmath.Int, error) {
	return d.callUint256(ctx, "gasPrice", remote)
}

func (d *DeliveryProvider) NativeCurrencyPrice(ctx context.Context, remote types.ChainID) (sdkmath.Int, error) {
	return d.callUint256(ctx, "nativeCurrencyPrice", remote)
}

func (d *DeliveryProvider) callUint256(ctx context.Context, method string, remote types.ChainID) (sdkmath.Int, error) {
	input, err := deliveryProviderABI.Pack(method, uint16(remote))
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	to := d.address
	output, err := d.rpc.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input})
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("%s(%d) call failed: %w", method, remote, err)
	}

	values, err := deliveryProviderABI.Unpack(method, output)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return sdkmath.Int{}, fmt.Errorf("%s returned %d values", method, len(values))
	}
	value, ok := values[0].(*big.Int)
	if !ok || value == nil {
		return sdkmath.Int{}, fmt.Errorf("%s returned %T", method, values[0])
	}
	return sdkmath.NewIntFromBigInt(value), nil
}

// PriceUpdater sends updatePrices transactions signed by one account.
type PriceUpdater struct {
	provider      *DeliveryProvider
	signer        TxSigner
	evmChainID    *big.Int
	gasMultiplier sdkmath.LegacyDec
	pollInterval  time.Duration
}

var _ common.PriceWriter = (*PriceUpdater)(nil)

// NewPriceUpdater binds a signer to the delivery provider. The suggested gas
// price is multiplied by gasMultiplier for every transaction.
func NewPriceUpdater(provider *DeliveryProvider, signer TxSigner, evmChainID *big.Int, gasMultiplier sdkmath.LegacyDec) *PriceUpdater {
	if gasMultiplier.IsNil() || !gasMultiplier.IsPositive() {
		gasMultiplier = sdkmath.LegacyOneDec()
	}
	return &PriceUpdater{
		provider:      provider,
		signer:        signer,
		evmChainID:    evmChainID,
		gasMultiplier: gasMultiplier,
		pollInterval:  2 * time.Second,
	}
}

// EncodeUpdatePrices returns the calldata of updatePrices for the given entries.
func EncodeUpdatePrices(prices []types.PriceInfo) ([]byte, error) {
	args := make([]updatePriceArg, 0, len(prices))
	for _, p := range prices {
		if p.GasPrice.IsNil() || p.NativePrice.IsNil() {
			return nil, fmt.Errorf("unset price for chain %d", p.RemoteChainID)
		}
		args = append(args, updatePriceArg{
			ChainId:             uint16(p.RemoteChainID),
			GasPrice:            p.GasPrice.BigInt(),
			NativeCurrencyPrice: p.NativePrice.BigInt(),
		})
	}
	return deliveryProviderABI.Pack("updatePrices", args)
}

func (u *PriceUpdater) UpdatePrices(ctx context.Context, prices []types.PriceInfo) (common.TxHandle, error) {
	data, err := EncodeUpdatePrices(prices)
	if err != nil {
		return nil, fmt.Errorf("failed to encode updatePrices: %w", err)
	}

	rpc := u.provider.rpc
	from := u.signer.Address()
	to := u.provider.address

	nonce, err := rpc.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	suggested, err := rpc.GetGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	gasPrice := sdkmath.LegacyNewDecFromBigInt(suggested).Mul(u.gasMultiplier).TruncateInt().BigInt()

	gas, err := rpc.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, GasPrice: gasPrice, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gas += gas * gasLimitBufferPercent / 100

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signed, err := u.signer.SignTx(tx, u.evmChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := rpc.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	u.provider.logger.Info().
		Str("tx_hash", signed.Hash().Hex()).
		Uint64("nonce", nonce).
		Str("gas_price", gasPrice.String()).
		Uint64("gas_limit", gas).
		Int("entries", len(prices)).
		Msg("price update transaction broadcasted")

	return &txHandle{
		hash:         signed.Hash(),
		rpc:          rpc,
		pollInterval: u.pollInterval,
		logger:       u.provider.logger,
	}, nil
}

// txHandle polls for the receipt of a broadcast transaction.
type txHandle struct {
	hash         ethcommon.Hash
	rpc          *RPCClient
	pollInterval time.Duration
	logger       zerolog.Logger
}

func (h *txHandle) Hash() string {
	return h.hash.Hex()
}

func (h *txHandle) Wait(ctx context.Context) (*common.Receipt, error) {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := h.rpc.GetTransactionReceipt(ctx, h.hash)
		if err == nil && receipt != nil {
			r := &common.Receipt{
				TxHash:  h.hash.Hex(),
				Status:  receipt.Status,
				GasUsed: receipt.GasUsed,
			}
			if receipt.BlockNumber != nil {
				r.BlockNumber = receipt.BlockNumber.Uint64()
			}
			return r, nil
		}
		lastErr = err
		h.logger.Debug().Err(err).Str("tx_hash", h.hash.Hex()).Msg("receipt not available yet")

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("waiting for receipt of %s: %w (last error: %v)", h.hash.Hex(), ctx.Err(), lastErr)
			}
			return nil, fmt.Errorf("waiting for receipt of %s: %w", h.hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
