// Package wallet provides local signing capabilities for the executor. The
// executor only sees the Signer interface; a remote or hardware-backed signer
// plugs in the same way.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// Wallet signs transactions with an in-memory private key.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewFromPrivateKey creates a wallet from a private key hex string.
func NewFromPrivateKey(privateKeyHex string) (*Wallet, error) {
	// Remove 0x prefix if present
	if len(privateKeyHex) >= 2 && privateKeyHex[:2] == "0x" {
		privateKeyHex = privateKeyHex[2:]
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewFromMnemonic creates a wallet from a BIP39 mnemonic, using the standard
// Ethereum derivation path for the given account index.
func NewFromMnemonic(mnemonic string, index uint64) (*Wallet, error) {
	hd, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}

	path := hdwallet.MustParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", index))
	account, err := hd.Derive(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account %d: %w", index, err)
	}

	key, err := hd.PrivateKey(account)
	if err != nil {
		return nil, fmt.Errorf("failed to get private key for account %d: %w", index, err)
	}

	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the wallet's account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignTx signs the transaction for the given chain. The signer covers both
// legacy and dynamic fee transactions.
func (w *Wallet) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if chainID == nil {
		return nil, fmt.Errorf("chain ID is required for signing")
	}
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
}
