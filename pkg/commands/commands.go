// Package commands provides the CLI command groups of walletctl.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	cmds := commands.New(lggr)
//	app.AddCommand(cmds.Wallets())
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/commands/wallets"
//
//	app.AddCommand(wallets.NewCommand(wallets.Config{
//	    Logger: lggr,
//	    Deps:   &wallets.Deps{...},  // inject fakes for testing
//	}))
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/commands/wallets"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
)

// Commands creates CLI commands sharing one logger.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// Wallets creates the wallets command group.
func (c *Commands) Wallets() *cobra.Command {
	return wallets.NewCommand(wallets.Config{Logger: c.lggr})
}

// NewRootCommand returns the walletctl root command with every command group attached.
func (c *Commands) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "walletctl",
		Short:         "Inspect multi-chain wallet configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(c.Wallets())

	return root
}
