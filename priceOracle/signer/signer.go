package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/evm"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// KeySigner signs EVM transactions with a local private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address ethcommon.Address
}

// NewKeySigner parses a hex private key, with or without 0x prefix.
func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the account address of the key
func (s *KeySigner) Address() ethcommon.Address {
	return s.address
}

// SignTx signs tx for the given EVM chain id with the latest signer rules.
func (s *KeySigner) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	return ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), s.key)
}

// Resolver maps home chains to their signing keys. Keys are parsed on first use
// so that one malformed key only disables its own chain.
type Resolver struct {
	mu      sync.Mutex
	keys    map[types.ChainID]string
	signers map[types.ChainID]*KeySigner
}

// NewResolver creates a resolver from hex keys keyed by chain.
func NewResolver(keys map[types.ChainID]string) *Resolver {
	copied := make(map[types.ChainID]string, len(keys))
	for id, key := range keys {
		if strings.TrimSpace(key) != "" {
			copied[id] = key
		}
	}
	return &Resolver{
		keys:    copied,
		signers: make(map[types.ChainID]*KeySigner),
	}
}

// SignerFor returns the chain's signer, or a MissingSignerError when none is configured.
func (r *Resolver) SignerFor(chainID types.ChainID) (*KeySigner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.signers[chainID]; ok {
		return s, nil
	}
	hexKey, ok := r.keys[chainID]
	if !ok {
		return nil, oerrors.NewMissingSignerError(chainID.String())
	}
	s, err := NewKeySigner(hexKey)
	if err != nil {
		return nil, oerrors.NewChainError(oerrors.ErrCodeConfig, chainID.String(), "invalid signing key", err)
	}
	r.signers[chainID] = s
	return s, nil
}

// TxSigner is SignerFor behind the evm.TxSigner interface.
func (r *Resolver) TxSigner(chainID types.ChainID) (evm.TxSigner, error) {
	s, err := r.SignerFor(chainID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// HasSigner reports whether a key is configured for the chain.
func (r *Resolver) HasSigner(chainID types.ChainID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[chainID]
	return ok
}
