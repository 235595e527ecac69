package api

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wheelx/wheelx-go/internal/executor"
)

// QuoteRequest holds the parameters for a quote.
type QuoteRequest struct {
	FromChain   uint64   `json:"from_chain"`
	ToChain     uint64   `json:"to_chain"`
	FromToken   string   `json:"from_token"`
	ToToken     string   `json:"to_token"`
	FromAddress string   `json:"from_address"`
	ToAddress   string   `json:"to_address"`
	Amount      *big.Int `json:"amount"`
	Slippage    *int     `json:"slippage,omitempty"`
}

// Tx is the unsigned transaction attached to a quote response.
type Tx struct {
	To                   string   `json:"to"`
	Value                *big.Int `json:"value"`
	Data                 string   `json:"data"`
	ChainID              *uint64  `json:"chainId,omitempty"`
	Gas                  *uint64  `json:"gas,omitempty"`
	GasPrice             *big.Int `json:"gasPrice,omitempty"`
	MaxFeePerGas         *big.Int `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *big.Int `json:"maxPriorityFeePerGas,omitempty"`
}

// ApproveAction is the allowance the router needs before the swap.
type ApproveAction struct {
	Token   string   `json:"token"`
	Spender string   `json:"spender"`
	Amount  *big.Int `json:"amount"`
}

// PriceImpactFormatted breaks down the quoted price impact.
type PriceImpactFormatted struct {
	BridgeFee string `json:"bridge_fee"`
	SwapFee   string `json:"swap_fee"`
	DstGasFee string `json:"dst_gas_fee"`
}

// QuoteResponse is the response of POST /v1/quote.
type QuoteResponse struct {
	RequestID     string               `json:"request_id"`
	AmountOut     string               `json:"amount_out"`
	Fee           string               `json:"fee"`
	Tx            Tx                   `json:"tx"`
	Approve       *ApproveAction       `json:"approve,omitempty"`
	Slippage      int                  `json:"slippage"`
	MinReceive    string               `json:"min_receive"`
	EstimatedTime int                  `json:"estimated_time"`
	Recipient     string               `json:"recipient"`
	RouterType    string               `json:"router_type"`
	PriceImpact   PriceImpactFormatted `json:"price_impact"`
	Router        string               `json:"router"`
	CreatedAt     string               `json:"created_at"`
	Points        string               `json:"points"`
}

// OrderResponse is the response of GET /v1/order/{request_id}. The status
// string is service-defined and passed through uninterpreted.
type OrderResponse struct {
	OrderID       string `json:"order_id"`
	FromChain     uint64 `json:"from_chain"`
	FromToken     string `json:"from_token"`
	FromAddress   string `json:"from_address"`
	FromAmount    string `json:"from_amount"`
	ToChain       uint64 `json:"to_chain"`
	ToToken       string `json:"to_token"`
	ToAmount      string `json:"to_amount"`
	ToAddress     string `json:"to_address"`
	OpenTxHash    string `json:"open_tx_hash"`
	OpenBlock     uint64 `json:"open_block"`
	OpenTimestamp string `json:"open_timestamp"`
	Status        string `json:"status"`
	Points        string `json:"points"`
}

// ExecutableQuote converts the wire quote into the executor's form,
// validating addresses and calldata.
func (q *QuoteResponse) ExecutableQuote() (*executor.Quote, error) {
	tx, err := q.Tx.toQuoteTx()
	if err != nil {
		return nil, fmt.Errorf("invalid quote tx: %w", err)
	}

	quote := &executor.Quote{Tx: *tx}
	if q.Approve != nil {
		approve, err := q.Approve.toApprovalAction()
		if err != nil {
			return nil, fmt.Errorf("invalid approve action: %w", err)
		}
		quote.Approve = approve
	}
	return quote, nil
}

func (t *Tx) toQuoteTx() (*executor.QuoteTx, error) {
	if !common.IsHexAddress(t.To) {
		return nil, fmt.Errorf("invalid to address: %q", t.To)
	}

	out := &executor.QuoteTx{
		To:        common.HexToAddress(t.To),
		Value:     t.Value,
		Data:      common.FromHex(t.Data),
		GasPrice:  t.GasPrice,
		GasTipCap: t.MaxPriorityFeePerGas,
		GasFeeCap: t.MaxFeePerGas,
	}
	if out.Value == nil {
		out.Value = new(big.Int)
	}
	if t.ChainID != nil {
		out.ChainID = new(big.Int).SetUint64(*t.ChainID)
	}
	if t.Gas != nil {
		out.GasLimit = *t.Gas
	}
	return out, nil
}

func (a *ApproveAction) toApprovalAction() (*executor.ApprovalAction, error) {
	if !common.IsHexAddress(a.Token) {
		return nil, fmt.Errorf("invalid token address: %q", a.Token)
	}
	if !common.IsHexAddress(a.Spender) {
		return nil, fmt.Errorf("invalid spender address: %q", a.Spender)
	}
	if a.Amount == nil || a.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("approve amount must be positive")
	}
	return &executor.ApprovalAction{
		Token:   common.HexToAddress(a.Token),
		Spender: common.HexToAddress(a.Spender),
		Amount:  a.Amount,
	}, nil
}
