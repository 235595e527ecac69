package executor

import "fmt"

// FeeModelError reports a failed chain fee query during fee model selection.
type FeeModelError struct {
	Err error
}

func (e *FeeModelError) Error() string {
	return fmt.Sprintf("fee model selection failed: %v", e.Err)
}

func (e *FeeModelError) Unwrap() error { return e.Err }

// GasEstimationError reports a failed gas estimate, typically because the
// simulated call reverts.
type GasEstimationError struct {
	Err error
}

func (e *GasEstimationError) Error() string {
	return fmt.Sprintf("gas estimation failed: %v", e.Err)
}

func (e *GasEstimationError) Unwrap() error { return e.Err }

// SigningError reports a failed or refused signing capability.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// BroadcastError reports a node rejecting the signed transaction, e.g.
// underpriced or nonce too low. A resend without a fresh fill cycle would fail
// the same way, so the executor never retries it.
type BroadcastError struct {
	Err error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast rejected: %v", e.Err)
}

func (e *BroadcastError) Unwrap() error { return e.Err }

// PollError reports sustained RPC failure while polling for a receipt.
type PollError struct {
	Err error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("receipt polling failed: %v", e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// ApprovalFailedError reports an approval transaction that confirmed as
// failed. The main transaction is never attempted after it.
type ApprovalFailedError struct {
	TxHash string
	Reason string
}

func (e *ApprovalFailedError) Error() string {
	return fmt.Sprintf("approval transaction %s failed: %s", e.TxHash, e.Reason)
}
