package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/azampay/momo-checkout/internal/interfaces/cli/migrate"
	"github.com/azampay/momo-checkout/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "momo",
		Short: "momo - AzamPay mobile money checkout",
		Long:  `momo serves the AzamPay mobile money checkout: payment partner discovery, wallet push payments and webhook reconciliation of store orders.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
