package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wheelx/wheelx-go/internal/api"
	"github.com/wheelx/wheelx-go/internal/client"
	"github.com/wheelx/wheelx-go/internal/config"
	"github.com/wheelx/wheelx-go/internal/executor"
	"github.com/wheelx/wheelx-go/internal/metrics"
	"github.com/wheelx/wheelx-go/internal/util/progress"
	"github.com/wheelx/wheelx-go/internal/wallet"
)

var (
	version    = "dev"
	cfg        = &config.Config{}
	configFile string
	nonceFlag  int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "wheelx",
		Short:   "WheelX swap execution CLI",
		Long:    `wheelx fetches swap/bridge quotes from the WheelX pricing service and executes them on chain.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return nil
			}
			// Load the file first, then re-apply flags so explicit flags win.
			fileCfg := &config.Config{}
			if err := config.LoadFile(configFile, fileCfg); err != nil {
				return err
			}
			mergeConfig(cmd, fileCfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML config file path")
	rootCmd.PersistentFlags().StringVar(&cfg.BaseURL, "base-url", "", "Pricing service base URL (default: production)")
	rootCmd.PersistentFlags().StringVar(&cfg.URL, "url", "", "Chain RPC endpoint URL")

	rootCmd.AddCommand(newQuoteCmd(), newSwapCmd(), newStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// mergeConfig copies file values into cfg for every flag the user did not set
// explicitly.
func mergeConfig(cmd *cobra.Command, fileCfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.Root().PersistentFlags().Lookup(name)
		}
		return f != nil && f.Changed
	}

	if !changed("base-url") && fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if !changed("url") && fileCfg.URL != "" {
		cfg.URL = fileCfg.URL
	}
	if !changed("private-key") && fileCfg.PrivateKey != "" {
		cfg.PrivateKey = fileCfg.PrivateKey
	}
	if !changed("mnemonic") && fileCfg.Mnemonic != "" {
		cfg.Mnemonic = fileCfg.Mnemonic
	}
	if !changed("account-index") && fileCfg.AccountIndex != 0 {
		cfg.AccountIndex = fileCfg.AccountIndex
	}
	if !changed("from-chain") && fileCfg.FromChain != 0 {
		cfg.FromChain = fileCfg.FromChain
	}
	if !changed("to-chain") && fileCfg.ToChain != 0 {
		cfg.ToChain = fileCfg.ToChain
	}
	if !changed("from-token") && fileCfg.FromToken != "" {
		cfg.FromToken = fileCfg.FromToken
	}
	if !changed("to-token") && fileCfg.ToToken != "" {
		cfg.ToToken = fileCfg.ToToken
	}
	if !changed("to-address") && fileCfg.ToAddress != "" {
		cfg.ToAddress = fileCfg.ToAddress
	}
	if !changed("amount") && fileCfg.Amount != "" {
		cfg.Amount = fileCfg.Amount
	}
	if !changed("slippage") && fileCfg.Slippage != 0 {
		cfg.Slippage = fileCfg.Slippage
	}
	if !changed("gas-limit") && fileCfg.GasLimit != 0 {
		cfg.GasLimit = fileCfg.GasLimit
	}
	if !changed("poll-interval") && fileCfg.PollInterval != 0 {
		cfg.PollInterval = fileCfg.PollInterval
	}
	if !changed("timeout") && fileCfg.Timeout != 0 {
		cfg.Timeout = fileCfg.Timeout
	}
	if !changed("confirmations") && fileCfg.Confirmations != 0 {
		cfg.Confirmations = fileCfg.Confirmations
	}
	if !changed("base-fee-multiplier") && fileCfg.BaseFeeMultiplier != 0 {
		cfg.BaseFeeMultiplier = fileCfg.BaseFeeMultiplier
	}
	if !changed("metrics") && fileCfg.MetricsEnabled {
		cfg.MetricsEnabled = fileCfg.MetricsEnabled
	}
	if !changed("metrics-port") && fileCfg.MetricsPort != 0 {
		cfg.MetricsPort = fileCfg.MetricsPort
	}
}

func registerSwapFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Uint64Var(&cfg.FromChain, "from-chain", 1, "Source chain ID")
	flags.Uint64Var(&cfg.ToChain, "to-chain", 1, "Destination chain ID")
	flags.StringVar(&cfg.FromToken, "from-token", "", "Source token address")
	flags.StringVar(&cfg.ToToken, "to-token", "", "Destination token address")
	flags.StringVar(&cfg.ToAddress, "to-address", "", "Recipient address (default: sender)")
	flags.StringVar(&cfg.Amount, "amount", "", "Amount in the source token's smallest unit")
	flags.IntVar(&cfg.Slippage, "slippage", 0, "Slippage tolerance in basis points")
}

func registerAccountFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&cfg.PrivateKey, "private-key", "", "Account private key (hex)")
	flags.StringVar(&cfg.Mnemonic, "mnemonic", "", "BIP39 mnemonic (alternative to private-key)")
	flags.Uint64Var(&cfg.AccountIndex, "account-index", 0, "HD derivation index for mnemonic accounts")
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a swap/bridge quote without executing it",
		RunE:  runQuote,
	}
	registerSwapFlags(cmd)
	registerAccountFlags(cmd)
	return cmd
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Fetch a quote and execute it on chain",
		RunE:  runSwap,
	}
	registerSwapFlags(cmd)
	registerAccountFlags(cmd)

	flags := cmd.Flags()
	flags.Uint64Var(&cfg.GasLimit, "gas-limit", 0, "Gas limit override (0 = use quote or estimate)")
	flags.Int64Var(&nonceFlag, "nonce", -1, "Nonce override (-1 = query pending nonce)")
	flags.DurationVar(&cfg.PollInterval, "poll-interval", time.Second, "Receipt polling interval")
	flags.DurationVar(&cfg.Timeout, "timeout", 5*time.Minute, "Confirmation timeout")
	flags.Uint64Var(&cfg.Confirmations, "confirmations", 1, "Blocks required past inclusion")
	flags.Int64Var(&cfg.BaseFeeMultiplier, "base-fee-multiplier", 2, "Base fee headroom multiplier for missing fee fields")
	flags.BoolVar(&cfg.MetricsEnabled, "metrics", false, "Enable Prometheus metrics endpoint")
	flags.IntVar(&cfg.MetricsPort, "metrics-port", 9090, "Port for Prometheus metrics endpoint")
	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <request-id> [request-id...]",
		Short: "Fetch order status for one or more request IDs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStatus,
	}
	return cmd
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	quoteResp, _, err := fetchQuote(ctx)
	if err != nil {
		return err
	}

	renderQuote(quoteResp)
	return nil
}

func runSwap(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	quoteResp, signer, err := fetchQuote(ctx)
	if err != nil {
		return err
	}
	renderQuote(quoteResp)

	quote, err := quoteResp.ExecutableQuote()
	if err != nil {
		return err
	}

	chain, err := client.New(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to create chain client: %w", err)
	}
	defer chain.Close()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.NewMetrics("wheelx")
		if err := m.Start(ctx, cfg.MetricsPort); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = m.Stop(shutdownCtx)
		}()
	}

	bar := progress.NewSpinner("waiting for confirmation")
	pollAttempts := 0
	exec := executor.New(chain, &executor.Config{
		PollInterval:       cfg.PollInterval,
		PollTimeout:        cfg.Timeout,
		Confirmations:      cfg.Confirmations,
		BaseFeeMultiplier:  cfg.BaseFeeMultiplier,
		MaxTransientErrors: 3,
	}, executor.WithPollObserver(func(int) {
		pollAttempts++
		progress.Add(bar, 1)
	}))

	txCfg := &executor.TxConfig{GasLimit: cfg.GasLimit}
	if nonceFlag >= 0 {
		nonce := uint64(nonceFlag)
		txCfg.Nonce = &nonce
	}

	start := time.Now()
	result, err := exec.Execute(ctx, *quote, signer, txCfg)
	progress.Finish(bar)
	if err != nil {
		recordFailure(m)
		return fmt.Errorf("execution failed: %w", err)
	}

	printResult(result, time.Since(start), m)
	if m != nil {
		m.RecordPollAttempts(pollAttempts)
	}
	fmt.Printf("\nTrack the order with: wheelx status %s\n", quoteResp.RequestID)

	if result.Confirmation.State != executor.StateConfirmed {
		return fmt.Errorf("transaction not confirmed: %s", result.Confirmation.State)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	apiClient := api.NewClient(cfg.BaseURL)

	orders := make([]*api.OrderResponse, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, requestID := range args {
		g.Go(func() error {
			order, err := apiClient.GetOrderStatus(gctx, requestID)
			if err != nil {
				return fmt.Errorf("failed to fetch order %s: %w", requestID, err)
			}
			orders[i] = order
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	renderOrders(orders)
	return nil
}

// fetchQuote builds the signer from the account flags, requests a quote for
// the configured swap, and returns both.
func fetchQuote(ctx context.Context) (*api.QuoteResponse, *wallet.Wallet, error) {
	signer, err := newSigner()
	if err != nil {
		return nil, nil, err
	}

	amount, ok := new(big.Int).SetString(cfg.Amount, 10)
	if !ok {
		return nil, nil, fmt.Errorf("invalid amount: %q", cfg.Amount)
	}

	toAddress := cfg.ToAddress
	if toAddress == "" {
		toAddress = signer.Address().Hex()
	}

	req := api.QuoteRequest{
		FromChain:   cfg.FromChain,
		ToChain:     cfg.ToChain,
		FromToken:   cfg.FromToken,
		ToToken:     cfg.ToToken,
		FromAddress: signer.Address().Hex(),
		ToAddress:   toAddress,
		Amount:      amount,
	}
	if cfg.Slippage > 0 {
		slippage := cfg.Slippage
		req.Slippage = &slippage
	}

	apiClient := api.NewClient(cfg.BaseURL)
	quoteResp, err := apiClient.GetQuote(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quoteResp, signer, nil
}

func newSigner() (*wallet.Wallet, error) {
	if cfg.Mnemonic != "" {
		return wallet.NewFromMnemonic(cfg.Mnemonic, cfg.AccountIndex)
	}
	if cfg.PrivateKey != "" {
		return wallet.NewFromPrivateKey(cfg.PrivateKey)
	}
	return nil, fmt.Errorf("either private-key or mnemonic is required")
}

func renderQuote(q *api.QuoteResponse) {
	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Request ID", q.RequestID})
	table.Append([]string{"Amount Out", q.AmountOut})
	table.Append([]string{"Min Receive", q.MinReceive})
	table.Append([]string{"Fee", q.Fee})
	table.Append([]string{"Slippage (bps)", fmt.Sprintf("%d", q.Slippage)})
	table.Append([]string{"Router", q.Router})
	table.Append([]string{"Router Type", q.RouterType})
	table.Append([]string{"Est. Time (s)", fmt.Sprintf("%d", q.EstimatedTime)})
	table.Append([]string{"Bridge Fee", q.PriceImpact.BridgeFee})
	table.Append([]string{"Swap Fee", q.PriceImpact.SwapFee})
	table.Append([]string{"Dst Gas Fee", q.PriceImpact.DstGasFee})
	if q.Approve != nil {
		table.Append([]string{"Approval", fmt.Sprintf("%s -> %s", q.Approve.Token, q.Approve.Spender)})
	}
	table.Render()
}

func renderOrders(orders []*api.OrderResponse) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Order ID", "Status", "From", "To", "Open Tx", "Block"})
	for _, o := range orders {
		status := o.Status
		switch strings.ToUpper(o.Status) {
		case "COMPLETED", "SUCCESS":
			status = color.GreenString(o.Status)
		case "FAILED", "REFUNDED":
			status = color.RedString(o.Status)
		}
		table.Append([]string{
			o.OrderID,
			status,
			fmt.Sprintf("%s@%d", o.FromToken, o.FromChain),
			fmt.Sprintf("%s@%d", o.ToToken, o.ToChain),
			o.OpenTxHash,
			fmt.Sprintf("%d", o.OpenBlock),
		})
	}
	table.Render()
}

func printResult(result *executor.ExecutionResult, elapsed time.Duration, m *metrics.Metrics) {
	fmt.Println()
	if result.ApprovalTxHash != nil {
		fmt.Printf("Approval tx: %s\n", result.ApprovalTxHash.Hex())
		if m != nil {
			m.RecordApproval()
		}
	}
	if (result.TxHash != common.Hash{}) {
		fmt.Printf("Swap tx:     %s\n", result.TxHash.Hex())
		if m != nil {
			m.RecordSubmitted()
		}
	}

	c := result.Confirmation
	switch c.State {
	case executor.StateConfirmed:
		color.Green("Confirmed in block %d (%s)", c.BlockNumber, elapsed.Round(time.Millisecond))
		if m != nil && c.Receipt != nil {
			m.RecordConfirmed(elapsed, c.Receipt.GasUsed)
		}
	case executor.StateFailed:
		color.Red("Failed in block %d: %s", c.BlockNumber, c.Reason)
		if m != nil {
			m.RecordFailed()
		}
	case executor.StateTimedOut:
		color.Yellow("Still unknown after %s: %s", elapsed.Round(time.Second), c.Reason)
		if m != nil {
			m.RecordTimeout()
		}
	}
}

func recordFailure(m *metrics.Metrics) {
	if m != nil {
		m.RecordFailed()
	}
}
