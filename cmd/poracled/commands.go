package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/constant"
	"github.com/pushchain/relayer-price-oracle/priceOracle/core"
	"github.com/pushchain/relayer-price-oracle/priceOracle/logger"
)

const oneShotTimeout = 2 * time.Minute

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(fetchPricesCmd())
	rootCmd.AddCommand(readStateCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(versionCmd())
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(homeDir)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogSampler), nil
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the price oracle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			oracle, err := core.NewOracle(cfg, log)
			if err != nil {
				return err
			}
			return oracle.Start(ctx)
		},
	}
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to the node home",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := filepath.Join(homeDir, constant.ConfigSubdir, constant.ConfigFileName)
			if _, err := os.Stat(configFile); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", configFile)
			}

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			cfg.NodeHome = homeDir

			if err := config.Save(cfg, homeDir); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", configFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

func fetchPricesCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "fetch-prices",
		Short: "Fetch prices once from the configured source and print the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			oracle, err := core.NewOracle(cfg, log)
			if err != nil {
				return err
			}
			defer oracle.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
			defer cancel()

			snap, err := oracle.FetchPrices(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch prices: %w", err)
			}
			return printOutput(cmd.OutOrStdout(), newSnapshotOutput(snap, cfg.ChainNames()), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", OutputFormatYAML, "Output format (yaml|json)")
	return cmd
}

func readStateCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "read-state",
		Short: "Read and print the prices stored by every configured delivery provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			oracle, err := core.NewOracle(cfg, log)
			if err != nil {
				return err
			}
			defer oracle.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
			defer cancel()

			state := oracle.ReadState(ctx)
			return printOutput(cmd.OutOrStdout(), newStateOutput(state, cfg.ChainNames()), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", OutputFormatYAML, "Output format (yaml|json)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print poracled version info",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", "poracled")
			fmt.Fprintf(out, "Version:    %s\n", constant.Version)
			fmt.Fprintf(out, "Commit:     %s\n", constant.Commit)
			fmt.Fprintf(out, "Build Date: %s\n", constant.BuildDate)
		},
	}
}
