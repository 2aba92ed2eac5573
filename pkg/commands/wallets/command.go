package wallets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/registry"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/walletctx"
)

// Config holds the configuration of the wallets command.
type Config struct {
	Logger logger.Logger

	// Deps overrides the production dependencies, for testing.
	Deps *Deps
}

func (c *Config) deps() {
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	if c.Deps == nil {
		c.Deps = &Deps{}
	}
	c.Deps.applyDefaults()
}

var (
	listLong = strings.TrimSpace(`
Loads the wallet config, builds the available wallets and prints them per chain.
Use --connect to connect every wallet and print its main address.
`)

	listExample = strings.TrimSpace(`
  # List the wallets configured in wallets.yml
  walletctl wallets list --config wallets.yml

  # List the wallets configured through WALLET_* environment variables, with addresses
  walletctl wallets list --connect
`)
)

// NewCommand creates the wallets command with all subcommands.
func NewCommand(cfg Config) *cobra.Command {
	cfg.deps()

	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Wallet commands",
	}

	cmd.AddCommand(
		newChainsCmd(),
		newListCmd(cfg),
		newCoalesceCmd(cfg),
	)

	cmd.PersistentFlags().
		StringP("config", "c", "", "Path to the wallet config file (default: environment only)")

	return cmd
}

func newChainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List the known chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			family, _ := cmd.Flags().GetString("family")

			ids := chain.All()
			if family != "" {
				ids = chain.ChainsOfFamily(chain.Family(family))
				if len(ids) == 0 {
					return fmt.Errorf("no chains in family %q", family)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tNAME\tFAMILY\tNATIVE ID\n")
			for _, id := range ids {
				name, _ := chain.ToChainName(id)
				f, _ := chain.FamilyOf(id)
				native, _ := chain.NativeID(id)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", id, name, f, native)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringP("family", "f", "", "Only list chains of this family")

	return cmd
}

func newListCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the available wallets",
		Long:    listLong,
		Example: listExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			connect, _ := cmd.Flags().GetBool("connect")

			wcfg, err := cfg.Deps.ConfigLoader(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			b, err := cfg.Deps.BuilderFactory(wcfg, cfg.Logger)
			if err != nil {
				return err
			}

			available, err := b.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to build wallets: %w", err)
			}

			return printWallets(cmd, available, connect)
		},
	}

	cmd.Flags().Bool("connect", false, "Connect each wallet and print its main address")

	return cmd
}

func printWallets(cmd *cobra.Command, available registry.AvailableWallets, connect bool) error {
	out := cmd.OutOrStdout()
	if available.Len() == 0 {
		fmt.Fprintln(out, "No wallets available")

		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if connect {
		fmt.Fprintf(w, "CHAIN\tWALLET\tSTATE\tADDRESS\n")
	} else {
		fmt.Fprintf(w, "CHAIN\tWALLET\tSTATE\n")
	}

	var errs []error
	for _, id := range available.Chains() {
		for _, wal := range available.For(id) {
			if !connect {
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, wal.Name(), wal.State())
				continue
			}

			addr := "-"
			if addrs, err := wal.Connect(cmd.Context()); err != nil {
				errs = append(errs, fmt.Errorf("%s on %s: %w", wal.Name(), id, err))
			} else if len(addrs) > 0 {
				addr = string(addrs[0])
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, wal.Name(), wal.State(), addr)
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	return errors.Join(errs...)
}

func newCoalesceCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "coalesce <chain>...",
		Short: "Print the wallet slot each chain is stored under",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")

			wcfg, err := cfg.Deps.ConfigLoader(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			opts := append(wcfg.ContextOptions(),
				walletctx.WithWallets(registry.AvailableWallets{}),
				walletctx.WithLogger(cfg.Logger),
			)
			wctx := walletctx.New(cmd.Context(), opts...)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "CHAIN\tSLOT\n")
			for _, arg := range args {
				id, err := parseChain(arg)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", id, wctx.CoalesceChainID(id))
			}

			return w.Flush()
		},
	}
}

// parseChain accepts a chain name or a numeric chain id.
func parseChain(s string) (chain.ID, error) {
	if id, err := chain.ToChainID(chain.Name(s)); err == nil {
		return id, nil
	}

	if n, err := strconv.ParseUint(s, 10, 16); err == nil && chain.IsChain(chain.ID(n)) {
		return chain.ID(n), nil
	}

	return 0, fmt.Errorf("%w: %q", chain.ErrUnknownChain, s)
}
