// Package executor turns a priced quote into a signed, broadcast, and
// confirmed transaction. It depends only on the ChainClient and Signer
// capabilities, holds no global state, and is safe to use concurrently for
// independent senders. Fills for the same sender must be serialized by the
// caller because nonce assignment is not guarded internally.
package executor

import (
	"context"
)

// Executor runs the fill -> approve -> submit -> poll lifecycle.
type Executor struct {
	chain  ChainClient
	cfg    *Config
	onPoll func(attempt int)
}

// Option configures an Executor.
type Option func(*Executor)

// WithPollObserver registers a callback invoked once per poll attempt, e.g.
// to drive a progress display or metrics.
func WithPollObserver(fn func(attempt int)) Option {
	return func(e *Executor) {
		e.onPoll = fn
	}
}

// New creates an executor for the given chain capability.
func New(chain ChainClient, cfg *Config, opts ...Option) *Executor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Executor{
		chain: chain,
		cfg:   cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one complete lifecycle: an optional approval step, then fill,
// submit and poll of the main transaction. The approval must reach a terminal
// state first; a failed approval aborts with ApprovalFailedError and an
// unresolved one (timed out or cancelled) returns its result without ever
// submitting the main transaction.
func (e *Executor) Execute(ctx context.Context, quote Quote, signer Signer, cfg *TxConfig) (*ExecutionResult, error) {
	result := &ExecutionResult{}

	if quote.Approve != nil {
		approval, err := e.runApproval(ctx, quote.Approve, signer)
		if err != nil {
			return nil, err
		}
		result.ApprovalTxHash = &approval.TxHash
		if approval.Result.State != StateConfirmed {
			result.Confirmation = approval.Result
			return result, nil
		}
	}

	filled, err := e.Fill(ctx, quote.Tx, signer.Address(), cfg)
	if err != nil {
		return nil, err
	}

	submission, err := e.Submit(ctx, filled, signer)
	if err != nil {
		return nil, err
	}
	result.TxHash = submission.TxHash

	confirmation, err := e.PollUntilTerminal(ctx, submission.TxHash)
	if err != nil {
		return nil, err
	}
	result.Confirmation = confirmation

	return result, nil
}
