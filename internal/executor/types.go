package executor

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainClient is the chain capability the executor depends on. One
// implementation per chain family; internal/client provides the EVM one.
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Signer is the signing capability. The executor invokes it exactly once per
// filled transaction and never touches key material itself.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// QuoteTx is the unsigned transaction attached to a quote. Optional fields use
// nil (big.Int pointers, ChainID) or zero (GasLimit) to mean "absent".
type QuoteTx struct {
	To        common.Address
	Value     *big.Int
	Data      []byte
	ChainID   *big.Int
	GasLimit  uint64
	GasPrice  *big.Int // legacy fee model
	GasTipCap *big.Int // maxPriorityFeePerGas
	GasFeeCap *big.Int // maxFeePerGas
}

// ApprovalAction describes an ERC-20 allowance that must be granted and
// confirmed before the main transaction may be submitted.
type ApprovalAction struct {
	Token   common.Address
	Spender common.Address
	Amount  *big.Int
}

// Quote pairs the main transaction with its optional approval step.
type Quote struct {
	Tx      QuoteTx
	Approve *ApprovalAction
}

// TxConfig carries caller overrides. Each set field takes precedence over the
// corresponding quote value and over any chain query.
type TxConfig struct {
	Nonce     *uint64
	GasLimit  uint64
	GasPrice  *big.Int
	GasTipCap *big.Int
	GasFeeCap *big.Int
}

// FeeMode selects between the legacy and dynamic (EIP-1559) fee models.
type FeeMode int

const (
	FeeModeLegacy FeeMode = iota
	FeeModeDynamic
)

func (m FeeMode) String() string {
	switch m {
	case FeeModeLegacy:
		return "LEGACY"
	case FeeModeDynamic:
		return "DYNAMIC"
	default:
		return "UNKNOWN"
	}
}

// FeeModel is the resolved fee model. Exactly one set of fields is populated:
// GasPrice for legacy, GasTipCap+GasFeeCap for dynamic.
type FeeModel struct {
	Mode      FeeMode
	GasPrice  *big.Int
	GasTipCap *big.Int
	GasFeeCap *big.Int
}

// FilledTx is a fully populated transaction descriptor, the only form Submit
// accepts. It never mixes the legacy gas price with dynamic fee caps.
type FilledTx struct {
	ChainID   *big.Int
	Nonce     uint64
	To        common.Address
	Value     *big.Int
	Data      []byte
	Gas       uint64
	GasPrice  *big.Int
	GasTipCap *big.Int
	GasFeeCap *big.Int
}

// Transaction materializes the descriptor as a go-ethereum transaction.
func (f *FilledTx) Transaction() *types.Transaction {
	to := f.To
	value := f.Value
	if value == nil {
		value = new(big.Int)
	}

	if f.GasPrice != nil {
		return types.NewTx(&types.LegacyTx{
			Nonce:    f.Nonce,
			To:       &to,
			Value:    value,
			Gas:      f.Gas,
			GasPrice: f.GasPrice,
			Data:     f.Data,
		})
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   f.ChainID,
		Nonce:     f.Nonce,
		GasTipCap: f.GasTipCap,
		GasFeeCap: f.GasFeeCap,
		Gas:       f.Gas,
		To:        &to,
		Value:     value,
		Data:      f.Data,
	})
}

// ConfirmationState represents the polling state machine.
type ConfirmationState int

const (
	StatePending ConfirmationState = iota
	StateConfirmed
	StateFailed
	StateTimedOut
)

func (s ConfirmationState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateConfirmed:
		return "CONFIRMED"
	case StateFailed:
		return "FAILED"
	case StateTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the state ends the poll loop.
func (s ConfirmationState) Terminal() bool {
	return s != StatePending
}

// ConfirmationResult is the outcome of a poll cycle. A TimedOut result is not
// an error: it means the transaction outcome is still unknown and the caller
// decides whether to keep polling, resubmit with higher fees, or abandon.
type ConfirmationResult struct {
	State           ConfirmationState
	BlockNumber     uint64
	EffectiveStatus uint64
	Reason          string
	Receipt         *types.Receipt
}

// SubmissionResult identifies a broadcast transaction.
type SubmissionResult struct {
	TxHash common.Hash
}

// ExecutionResult is the terminal outcome of Execute.
type ExecutionResult struct {
	TxHash         common.Hash
	ApprovalTxHash *common.Hash
	Confirmation   *ConfirmationResult
}

// Config tunes the executor. Zero values fall back to the defaults below.
type Config struct {
	// PollInterval is the receipt polling interval.
	PollInterval time.Duration

	// PollTimeout bounds a single PollUntilTerminal call. Zero means no
	// attempt bound; the caller's context still applies.
	PollTimeout time.Duration

	// Confirmations is the number of additional blocks required past the
	// inclusion block before a transaction counts as confirmed.
	Confirmations uint64

	// MaxTransientErrors is the number of consecutive infrastructure errors
	// tolerated while polling before PollError surfaces.
	MaxTransientErrors int

	// BaseFeeMultiplier is the headroom multiplier applied to the latest base
	// fee when the quote carries no fee fields. It is a convention, not a
	// protocol constant.
	BaseFeeMultiplier int64
}

// DefaultConfig returns the executor defaults.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:       1 * time.Second,
		PollTimeout:        5 * time.Minute,
		Confirmations:      1,
		MaxTransientErrors: 3,
		BaseFeeMultiplier:  2,
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.PollInterval <= 0 {
		out.PollInterval = def.PollInterval
	}
	if out.Confirmations == 0 {
		out.Confirmations = def.Confirmations
	}
	if out.MaxTransientErrors <= 0 {
		out.MaxTransientErrors = def.MaxTransientErrors
	}
	if out.BaseFeeMultiplier <= 0 {
		out.BaseFeeMultiplier = def.BaseFeeMultiplier
	}
	return &out
}
