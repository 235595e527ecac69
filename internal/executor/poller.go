package executor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PollUntilTerminal polls the transaction receipt at the configured interval
// until a terminal state is reached.
//
// A missing receipt is the expected not-yet-mined state, not an error.
// Infrastructure errors are retried up to MaxTransientErrors consecutive
// polls before PollError surfaces. Confirmation additionally requires the
// configured number of blocks past the inclusion block.
//
// When the configured timeout elapses the result is TimedOut with a nil
// error: the outcome is unknown, not failed. Caller cancellation is observed
// at the next poll boundary and reported the same way, with the cause in
// Reason. An already-broadcast transaction cannot be cancelled; replacing it
// is up to the caller.
func (e *Executor) PollUntilTerminal(ctx context.Context, txHash common.Hash) (*ConfirmationResult, error) {
	maxAttempts := 0
	if e.cfg.PollTimeout > 0 {
		maxAttempts = int((e.cfg.PollTimeout + e.cfg.PollInterval - 1) / e.cfg.PollInterval)
		if maxAttempts == 0 {
			maxAttempts = 1
		}
	}

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	transientErrs := 0
	for attempt := 1; maxAttempts == 0 || attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return &ConfirmationResult{
				State:  StateTimedOut,
				Reason: ctx.Err().Error(),
			}, nil
		case <-ticker.C:
		}

		if e.onPoll != nil {
			e.onPoll(attempt)
		}

		result, err := e.checkReceipt(ctx, txHash)
		if err != nil {
			transientErrs++
			if transientErrs > e.cfg.MaxTransientErrors {
				return nil, &PollError{Err: err}
			}
			continue
		}
		transientErrs = 0

		if result.State.Terminal() {
			return result, nil
		}
	}

	return &ConfirmationResult{
		State:  StateTimedOut,
		Reason: "confirmation timeout",
	}, nil
}

// checkReceipt performs a single poll step. A nil error with StatePending
// means the transaction is not mined or not deep enough yet.
func (e *Executor) checkReceipt(ctx context.Context, txHash common.Hash) (*ConfirmationResult, error) {
	receipt, err := e.chain.TransactionReceipt(ctx, txHash)
	if err != nil {
		if isNotFound(err) {
			return &ConfirmationResult{State: StatePending}, nil
		}
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return &ConfirmationResult{
			State:           StateFailed,
			BlockNumber:     receipt.BlockNumber.Uint64(),
			EffectiveStatus: receipt.Status,
			Reason:          "transaction reverted",
			Receipt:         receipt,
		}, nil
	}

	if e.cfg.Confirmations > 0 {
		head, err := e.chain.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		if head < receipt.BlockNumber.Uint64()+e.cfg.Confirmations {
			return &ConfirmationResult{State: StatePending, Receipt: receipt}, nil
		}
	}

	return &ConfirmationResult{
		State:           StateConfirmed,
		BlockNumber:     receipt.BlockNumber.Uint64(),
		EffectiveStatus: receipt.Status,
		Receipt:         receipt,
	}, nil
}

// isNotFound matches the ethereum.NotFound sentinel as well as the bare
// "not found" string some RPC providers return.
func isNotFound(err error) bool {
	return errors.Is(err, ethereum.NotFound) || strings.Contains(err.Error(), "not found")
}
