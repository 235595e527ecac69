// Package integration provides integration tests for the wheelx executor.
//
// These tests verify the transaction lifecycle against a real EVM node. They
// are designed to be skipped when no node is available, making them safe to
// include in CI/CD pipelines.
//
// # Running Integration Tests
//
// Basic integration tests (connection, fee queries, transaction filling):
//
//	RPC_URL=http://localhost:8545 go test ./internal/integration/...
//
// Full integration tests (requires funded account; submits a zero-value
// self transfer):
//
//	RPC_URL=http://localhost:8545 \
//	PRIVATE_KEY=0x... \
//	go test ./internal/integration/...
//
// Skip integration tests in CI:
//
//	go test -short ./...
//
// # Environment Variables
//
//   - RPC_URL: RPC endpoint URL (default: http://localhost:8545)
//   - PRIVATE_KEY: Private key with funds for testing (hex format, with or without 0x prefix)
//
// # Local Development
//
// For local testing, you can use anvil (from Foundry):
//
//	# Start a local node
//	anvil
//
//	# Run integration tests with the default anvil private key
//	RPC_URL=http://localhost:8545 \
//	PRIVATE_KEY=0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80 \
//	go test ./internal/integration/...
package integration
