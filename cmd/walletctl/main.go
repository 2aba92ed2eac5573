// Package main provides walletctl, a CLI for inspecting the chains and wallets configured
// through a wallet config file or WALLET_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/commands"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := os.Getenv("WALLET_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}

	lggr, err := logger.NewAtLevel(level)
	if err != nil {
		return err
	}

	return commands.New(lggr).NewRootCommand().ExecuteContext(ctx)
}
