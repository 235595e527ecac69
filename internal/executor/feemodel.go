package executor

import (
	"context"
	"fmt"
	"math/big"
)

// selectFeeModel resolves exactly one fee model for the quote, applying caller
// overrides field-by-field before falling back to quote values and finally to
// a chain query.
//
// Precedence: dynamic caps win over a legacy gas price whenever both caps are
// present and non-zero; a bare gas price selects legacy; with neither, the
// chain supplies a priority fee suggestion and the latest base fee, and
// maxFeePerGas = multiplier*baseFee + tip.
func (e *Executor) selectFeeModel(ctx context.Context, quote QuoteTx, cfg *TxConfig) (*FeeModel, error) {
	gasTipCap := quote.GasTipCap
	gasFeeCap := quote.GasFeeCap
	gasPrice := quote.GasPrice
	if cfg != nil {
		if cfg.GasTipCap != nil {
			gasTipCap = cfg.GasTipCap
		}
		if cfg.GasFeeCap != nil {
			gasFeeCap = cfg.GasFeeCap
		}
		if cfg.GasPrice != nil {
			gasPrice = cfg.GasPrice
		}
	}

	if isSet(gasTipCap) && isSet(gasFeeCap) {
		return &FeeModel{
			Mode:      FeeModeDynamic,
			GasTipCap: gasTipCap,
			GasFeeCap: gasFeeCap,
		}, nil
	}

	if isSet(gasPrice) {
		return &FeeModel{
			Mode:     FeeModeLegacy,
			GasPrice: gasPrice,
		}, nil
	}

	tip, err := e.chain.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, &FeeModelError{Err: fmt.Errorf("failed to suggest gas tip cap: %w", err)}
	}

	header, err := e.chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, &FeeModelError{Err: fmt.Errorf("failed to get latest header: %w", err)}
	}
	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = new(big.Int)
	}

	// The multiplier gives headroom against base fee increases between now
	// and inclusion.
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(e.cfg.BaseFeeMultiplier))
	feeCap.Add(feeCap, tip)

	return &FeeModel{
		Mode:      FeeModeDynamic,
		GasTipCap: tip,
		GasFeeCap: feeCap,
	}, nil
}

func isSet(v *big.Int) bool {
	return v != nil && v.Sign() != 0
}
