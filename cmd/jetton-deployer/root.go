package main

import (
	"fmt"
	"os"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/ton-jetton-deployer/pkg/config"
)

const (
	envConfig   = "TON_DEPLOYER_CONFIG"
	envMnemonic = "TON_DEPLOYER_MNEMONIC"
)

type globalFlags struct {
	configPath  string
	metricsAddr string
}

func newRootCmd(version string) *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "jetton-deployer",
		Short:         "Deploy and verify TON jettons",
		Long:          `jetton-deployer deploys a jetton minter, mints the initial supply to the deployer and verifies the result on chain.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "TOML config file (default: $"+envConfig+")")
	rootCmd.PersistentFlags().StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	rootCmd.AddCommand(newDeployCmd(g))
	rootCmd.AddCommand(newAddressCmd(g))
	rootCmd.AddCommand(newDetailsCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	return rootCmd
}

// loadConfig reads the config file named by the flag or the environment. No
// file means all defaults.
func (g *globalFlags) loadConfig() (*config.TOMLConfig, error) {
	path := g.configPath
	if path == "" {
		path = os.Getenv(envConfig)
	}
	var raw []byte
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	cfg, err := config.NewDecodedTOMLConfig(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger() (logger.Logger, error) {
	lggr, err := logger.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Named(lggr, "JettonDeployer"), nil
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.TOMLString()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
