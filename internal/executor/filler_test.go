package executor

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"
)

func TestFillNonceFromChain(t *testing.T) {
	chain := newMockChain()
	chain.NonceValue = 42
	exec := New(chain, fastConfig())
	signer := newMockSigner()

	filled, err := exec.Fill(context.Background(), dynamicQuote(), signer.Address(), nil)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if filled.Nonce != 42 {
		t.Errorf("nonce = %d, want 42", filled.Nonce)
	}
	if got := chain.calls("PendingNonceAt"); got != 1 {
		t.Errorf("PendingNonceAt calls = %d, want 1", got)
	}
}

func TestFillNonceOverride(t *testing.T) {
	chain := newMockChain()
	exec := New(chain, fastConfig())
	signer := newMockSigner()

	nonce := uint64(99)
	filled, err := exec.Fill(context.Background(), dynamicQuote(), signer.Address(), &TxConfig{Nonce: &nonce})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if filled.Nonce != 99 {
		t.Errorf("nonce = %d, want 99", filled.Nonce)
	}
	if got := chain.calls("PendingNonceAt"); got != 0 {
		t.Errorf("PendingNonceAt calls = %d, want 0", got)
	}
}

func TestFillGasLimitPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		quoteGas    uint64
		overrideGas uint64
		estimateGas uint64
		want        uint64
		wantQueries int
	}{
		{
			name:        "override wins over quote",
			quoteGas:    50000,
			overrideGas: 21000,
			want:        21000,
		},
		{
			name:     "quote gas used when no override",
			quoteGas: 50000,
			want:     50000,
		},
		{
			name:        "estimate when neither set",
			estimateGas: 77000,
			want:        77000,
			wantQueries: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := newMockChain()
			chain.EstimateGasValue = tt.estimateGas
			exec := New(chain, fastConfig())
			signer := newMockSigner()

			quote := dynamicQuote()
			quote.GasLimit = tt.quoteGas

			var cfg *TxConfig
			if tt.overrideGas != 0 {
				cfg = &TxConfig{GasLimit: tt.overrideGas}
			}

			filled, err := exec.Fill(context.Background(), quote, signer.Address(), cfg)
			if err != nil {
				t.Fatalf("Fill() error = %v", err)
			}
			if filled.Gas != tt.want {
				t.Errorf("gas = %d, want %d", filled.Gas, tt.want)
			}
			if got := chain.calls("EstimateGas"); got != tt.wantQueries {
				t.Errorf("EstimateGas calls = %d, want %d", got, tt.wantQueries)
			}
		})
	}
}

func TestFillGasEstimationError(t *testing.T) {
	chain := newMockChain()
	chain.EstimateGasError = errors.New("execution reverted")
	exec := New(chain, fastConfig())
	signer := newMockSigner()

	quote := dynamicQuote()
	quote.GasLimit = 0

	_, err := exec.Fill(context.Background(), quote, signer.Address(), nil)
	var gasErr *GasEstimationError
	if !errors.As(err, &gasErr) {
		t.Fatalf("Fill() error = %v, want GasEstimationError", err)
	}
}

func TestFillChainID(t *testing.T) {
	t.Run("from quote", func(t *testing.T) {
		chain := newMockChain()
		exec := New(chain, fastConfig())
		signer := newMockSigner()

		quote := dynamicQuote()
		quote.ChainID = big.NewInt(10)

		filled, err := exec.Fill(context.Background(), quote, signer.Address(), nil)
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if filled.ChainID.Cmp(big.NewInt(10)) != 0 {
			t.Errorf("chain ID = %s, want 10", filled.ChainID)
		}
		if got := chain.calls("ChainID"); got != 0 {
			t.Errorf("ChainID calls = %d, want 0", got)
		}
	})

	t.Run("from chain", func(t *testing.T) {
		chain := newMockChain()
		chain.ChainIDValue = big.NewInt(8453)
		exec := New(chain, fastConfig())
		signer := newMockSigner()

		filled, err := exec.Fill(context.Background(), dynamicQuote(), signer.Address(), nil)
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if filled.ChainID.Cmp(big.NewInt(8453)) != 0 {
			t.Errorf("chain ID = %s, want 8453", filled.ChainID)
		}
	})
}

func TestFillNeverMixesFeeModels(t *testing.T) {
	chain := newMockChain()
	exec := New(chain, fastConfig())
	signer := newMockSigner()

	quotes := map[string]QuoteTx{
		"dynamic": dynamicQuote(),
		"legacy": {
			To:       testRouter,
			Value:    big.NewInt(1000),
			GasLimit: 21000,
			GasPrice: big.NewInt(30e9),
		},
		"chain default": {
			To:       testRouter,
			Value:    big.NewInt(1000),
			GasLimit: 21000,
		},
	}

	for name, quote := range quotes {
		t.Run(name, func(t *testing.T) {
			filled, err := exec.Fill(context.Background(), quote, signer.Address(), nil)
			if err != nil {
				t.Fatalf("Fill() error = %v", err)
			}

			legacy := filled.GasPrice != nil
			dynamic := filled.GasTipCap != nil || filled.GasFeeCap != nil
			if legacy && dynamic {
				t.Fatal("filled transaction mixes legacy and dynamic fee fields")
			}
			if !legacy && !dynamic {
				t.Fatal("filled transaction carries no fee model")
			}
		})
	}
}

func TestFillIsDeterministic(t *testing.T) {
	chain := newMockChain()
	exec := New(chain, fastConfig())
	signer := newMockSigner()

	first, err := exec.Fill(context.Background(), dynamicQuote(), signer.Address(), nil)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	second, err := exec.Fill(context.Background(), dynamicQuote(), signer.Address(), nil)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Fill() not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestFilledTxTransaction(t *testing.T) {
	t.Run("legacy", func(t *testing.T) {
		filled := &FilledTx{
			ChainID:  big.NewInt(1),
			Nonce:    5,
			To:       testRouter,
			Value:    big.NewInt(100),
			Gas:      21000,
			GasPrice: big.NewInt(30e9),
		}
		tx := filled.Transaction()
		if tx.Type() != 0 {
			t.Errorf("tx type = %d, want legacy (0)", tx.Type())
		}
	})

	t.Run("dynamic", func(t *testing.T) {
		filled := &FilledTx{
			ChainID:   big.NewInt(1),
			Nonce:     5,
			To:        testRouter,
			Value:     big.NewInt(100),
			Gas:       21000,
			GasTipCap: big.NewInt(1e9),
			GasFeeCap: big.NewInt(100e9),
		}
		tx := filled.Transaction()
		if tx.Type() != 2 {
			t.Errorf("tx type = %d, want dynamic fee (2)", tx.Type())
		}
	})
}
