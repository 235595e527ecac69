package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	testPrivateKey = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testMnemonic   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func TestNewFromPrivateKey(t *testing.T) {
	tests := []struct {
		name       string
		privateKey string
		wantErr    bool
	}{
		{
			name:       "valid key with 0x prefix",
			privateKey: testPrivateKey,
			wantErr:    false,
		},
		{
			name:       "valid key without 0x prefix",
			privateKey: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			wantErr:    false,
		},
		{
			name:       "invalid key",
			privateKey: "invalid",
			wantErr:    true,
		},
		{
			name:       "empty key",
			privateKey: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewFromPrivateKey(tt.privateKey)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFromPrivateKey() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && w.Address() == (common.Address{}) {
				t.Error("Address() returned zero address")
			}
		})
	}
}

func TestPrefixInsensitive(t *testing.T) {
	w1, err := NewFromPrivateKey(testPrivateKey)
	if err != nil {
		t.Fatalf("NewFromPrivateKey() failed: %v", err)
	}
	w2, err := NewFromPrivateKey(testPrivateKey[2:])
	if err != nil {
		t.Fatalf("NewFromPrivateKey() failed: %v", err)
	}
	if w1.Address() != w2.Address() {
		t.Errorf("addresses differ: %s vs %s", w1.Address().Hex(), w2.Address().Hex())
	}
}

func TestNewFromMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		wantErr  bool
	}{
		{
			name:     "valid mnemonic",
			mnemonic: testMnemonic,
			wantErr:  false,
		},
		{
			name:     "invalid mnemonic",
			mnemonic: "invalid mnemonic phrase",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewFromMnemonic(tt.mnemonic, 0)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFromMnemonic() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && w.Address() == (common.Address{}) {
				t.Error("Address() returned zero address")
			}
		})
	}
}

func TestMnemonicDeterministicDerivation(t *testing.T) {
	w1, err := NewFromMnemonic(testMnemonic, 0)
	if err != nil {
		t.Fatalf("NewFromMnemonic() failed: %v", err)
	}
	w2, err := NewFromMnemonic(testMnemonic, 0)
	if err != nil {
		t.Fatalf("NewFromMnemonic() failed: %v", err)
	}
	if w1.Address() != w2.Address() {
		t.Error("derivation should be deterministic")
	}

	w3, err := NewFromMnemonic(testMnemonic, 1)
	if err != nil {
		t.Fatalf("NewFromMnemonic() failed: %v", err)
	}
	if w1.Address() == w3.Address() {
		t.Error("different account indexes should derive different addresses")
	}
}

func TestAddressMatchesKey(t *testing.T) {
	w, err := NewFromPrivateKey(testPrivateKey)
	if err != nil {
		t.Fatalf("NewFromPrivateKey() failed: %v", err)
	}

	expected := crypto.PubkeyToAddress(w.key.PublicKey)
	if w.Address() != expected {
		t.Errorf("Address() = %s, want %s", w.Address().Hex(), expected.Hex())
	}
}

func TestSignTx(t *testing.T) {
	w, err := NewFromPrivateKey(testPrivateKey)
	if err != nil {
		t.Fatalf("NewFromPrivateKey() failed: %v", err)
	}

	chainID := big.NewInt(1337)
	to := common.HexToAddress("0x1234567890123456789012345678901234567890")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     7,
		GasTipCap: big.NewInt(1e9),
		GasFeeCap: big.NewInt(100e9),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(1),
	})

	signed, err := w.SignTx(context.Background(), tx, chainID)
	if err != nil {
		t.Fatalf("SignTx() failed: %v", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatalf("Sender() failed: %v", err)
	}
	if sender != w.Address() {
		t.Errorf("recovered sender = %s, want %s", sender.Hex(), w.Address().Hex())
	}
}

func TestSignTxRequiresChainID(t *testing.T) {
	w, err := NewFromPrivateKey(testPrivateKey)
	if err != nil {
		t.Fatalf("NewFromPrivateKey() failed: %v", err)
	}

	tx := types.NewTx(&types.LegacyTx{Nonce: 0, Gas: 21000, GasPrice: big.NewInt(1)})
	if _, err := w.SignTx(context.Background(), tx, nil); err == nil {
		t.Error("SignTx() accepted a nil chain ID")
	}
}
