package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/heshu-by/likelib/core"
	"github.com/heshu-by/likelib/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{Use: "likelib"}
	rootCmd.AddCommand(nodeCmd())
	rootCmd.AddCommand(walletCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func nodeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "node"}
	cmd.AddCommand(nodeStartCmd())
	return cmd
}

func nodeStartCmd() *cobra.Command {
	var env string
	start := &cobra.Command{
		Use:   "start",
		Short: "start a likelib node",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level, err := logrus.ParseLevel(cfg.Logging.Level)
			if err != nil {
				level = logrus.InfoLevel
			}
			logrus.SetLevel(level)

			kv, err := openConfiguredStore(cfg.Storage.DBPath, cfg.Storage.InMem)
			if err != nil {
				return err
			}
			defer kv.Close()

			vault, err := core.NewInMemoryKeyVault()
			if err != nil {
				return fmt.Errorf("generate node key vault: %w", err)
			}

			vm := selectVM(cfg.VM.Backend)

			c, err := core.NewCore(kv, vault, vm, core.NoopNetworkPublisher{}, logrus.StandardLogger())
			if err != nil {
				return fmt.Errorf("start core: %w", err)
			}

			top := c.TopBlock()
			logrus.WithFields(logrus.Fields{
				"address": c.ThisNodeAddress().String(),
				"depth":   top.Depth,
			}).Info("likelib node started")
			return nil
		},
	}
	start.Flags().StringVar(&env, "env", "", "environment overlay to merge on top of the default config")
	return start
}

func openConfiguredStore(path string, inMemory bool) (core.KVStore, error) {
	if inMemory || path == "" {
		return core.NewMemKVStore(), nil
	}
	return core.OpenLevelDBStore(path)
}

func selectVM(backend string) core.VM {
	if backend == "wasm" {
		return core.NewWasmVM()
	}
	return core.NewEchoVM()
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "wallet"}
	cmd.AddCommand(walletNewCmd())
	return cmd
}

func walletNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "generate a fresh ed25519 key pair and print its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			vault, err := core.NewInMemoryKeyVault()
			if err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}
			fmt.Println(vault.Address().String())
			return nil
		},
	}
}
