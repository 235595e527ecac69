package executor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ERC20ApproveSelector is the 4-byte selector for approve(address,uint256).
var ERC20ApproveSelector = common.FromHex("0x095ea7b3")

// approvalResult carries the approval's hash alongside its terminal state.
type approvalResult struct {
	TxHash common.Hash
	Result *ConfirmationResult
}

// runApproval builds, submits, and confirms the ERC-20 approval through the
// same fill path as the main transaction. Many router contracts revert on
// insufficient allowance, so the approval must reach a terminal state before
// the main transaction is broadcast; this is an ordering guarantee, not an
// optimization.
func (e *Executor) runApproval(ctx context.Context, action *ApprovalAction, signer Signer) (*approvalResult, error) {
	quote := QuoteTx{
		To:    action.Token,
		Value: new(big.Int),
		Data:  buildERC20ApproveData(action.Spender, action.Amount),
	}

	filled, err := e.Fill(ctx, quote, signer.Address(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fill approval transaction: %w", err)
	}

	submission, err := e.Submit(ctx, filled, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to submit approval transaction: %w", err)
	}

	result, err := e.PollUntilTerminal(ctx, submission.TxHash)
	if err != nil {
		return nil, err
	}

	if result.State == StateFailed {
		return nil, &ApprovalFailedError{
			TxHash: submission.TxHash.Hex(),
			Reason: result.Reason,
		}
	}

	return &approvalResult{TxHash: submission.TxHash, Result: result}, nil
}

// buildERC20ApproveData builds the calldata for approve(address,uint256).
func buildERC20ApproveData(spender common.Address, amount *big.Int) []byte {
	data := make([]byte, 4+32+32)
	copy(data[0:4], ERC20ApproveSelector)

	// address parameter (padded to 32 bytes)
	copy(data[4+12:4+32], spender.Bytes())

	// uint256 parameter (padded to 32 bytes)
	if amount != nil {
		amountBytes := amount.Bytes()
		copy(data[4+32+(32-len(amountBytes)):4+64], amountBytes)
	}

	return data
}
