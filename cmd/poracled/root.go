package main

import (
	"github.com/spf13/cobra"

	"github.com/pushchain/relayer-price-oracle/priceOracle/constant"
)

// homeDir is the node home shared by every command
var homeDir string

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "poracled",
		Short:         "Relayer Price Oracle Daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", constant.DefaultNodeHome, "Node home directory")

	InitRootCmd(rootCmd) // add subcommands like `start` and `version`

	return rootCmd
}
