package executor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Fill completes a quote transaction into a FilledTx ready for signing.
//
// Nonce and gas limit come from the caller config when set, then from the
// quote, then from chain queries. The result always carries a chain id and
// exactly one fee model. Fill is deterministic for identical inputs and chain
// responses.
//
// Concurrent fills for the same sender race on the pending nonce query; the
// caller serializes per sender.
func (e *Executor) Fill(ctx context.Context, quote QuoteTx, from common.Address, cfg *TxConfig) (*FilledTx, error) {
	feeModel, err := e.selectFeeModel(ctx, quote, cfg)
	if err != nil {
		return nil, err
	}

	var nonce uint64
	if cfg != nil && cfg.Nonce != nil {
		nonce = *cfg.Nonce
	} else {
		// Pending count includes already-broadcast but unconfirmed
		// transactions from the sender.
		nonce, err = e.chain.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce for %s: %w", from.Hex(), err)
		}
	}

	gasLimit := quote.GasLimit
	if cfg != nil && cfg.GasLimit != 0 {
		gasLimit = cfg.GasLimit
	}
	if gasLimit == 0 {
		to := quote.To
		msg := ethereum.CallMsg{
			From:  from,
			To:    &to,
			Value: quote.Value,
			Data:  quote.Data,
		}
		gasLimit, err = e.chain.EstimateGas(ctx, msg)
		if err != nil {
			return nil, &GasEstimationError{Err: err}
		}
	}

	chainID := quote.ChainID
	if chainID == nil {
		chainID, err = e.chain.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
	}

	filled := &FilledTx{
		ChainID: chainID,
		Nonce:   nonce,
		To:      quote.To,
		Value:   quote.Value,
		Data:    quote.Data,
		Gas:     gasLimit,
	}

	switch feeModel.Mode {
	case FeeModeLegacy:
		filled.GasPrice = feeModel.GasPrice
	case FeeModeDynamic:
		filled.GasTipCap = feeModel.GasTipCap
		filled.GasFeeCap = feeModel.GasFeeCap
	}

	return filled, nil
}
