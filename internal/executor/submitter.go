package executor

import (
	"context"
	"fmt"
)

// Submit signs the filled transaction and broadcasts the raw bytes, returning
// the transaction hash. The signing capability is invoked exactly once; a
// broadcast rejection is terminal because a stale nonce or fee needs a fresh
// fill cycle, not a blind resend.
func (e *Executor) Submit(ctx context.Context, filled *FilledTx, signer Signer) (*SubmissionResult, error) {
	if filled == nil {
		return nil, fmt.Errorf("nil filled transaction")
	}
	if filled.GasPrice != nil && (filled.GasTipCap != nil || filled.GasFeeCap != nil) {
		return nil, fmt.Errorf("transaction mixes legacy and dynamic fee fields")
	}

	signedTx, err := signer.SignTx(ctx, filled.Transaction(), filled.ChainID)
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	rawTx, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	hash, err := e.chain.SendRawTransaction(ctx, rawTx)
	if err != nil {
		return nil, &BroadcastError{Err: err}
	}

	return &SubmissionResult{TxHash: hash}, nil
}
