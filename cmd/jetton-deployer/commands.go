package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"github.com/xssnick/tonutils-go/address"

	bindings "github.com/smartcontractkit/ton-jetton-deployer/pkg/bindings/jetton"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/jetton"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/wallet"
)

// jettonFlags describe the jetton shared by deploy and address.
type jettonFlags struct {
	metadata bindings.Metadata
	amount   string
}

func (f *jettonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.metadata.Name, "name", "", "jetton name")
	cmd.Flags().StringVar(&f.metadata.Symbol, "symbol", "", "jetton symbol")
	cmd.Flags().StringVar(&f.metadata.Description, "description", "", "jetton description")
	cmd.Flags().StringVar(&f.metadata.Image, "image", "", "jetton image URL")
	cmd.Flags().StringVar(&f.metadata.Decimals, "decimals", "", "jetton decimals, wallets assume 9 when unset")
	cmd.Flags().StringVar(&f.metadata.URI, "uri", "", "off-chain metadata URI")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount to mint, in the jetton's smallest units")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *jettonFlags) params(owner *address.Address) (jetton.DeployParams, error) {
	amount, ok := new(big.Int).SetString(f.amount, 10)
	if !ok {
		return jetton.DeployParams{}, fmt.Errorf("invalid amount %q", f.amount)
	}
	p := jetton.DeployParams{Owner: owner, Metadata: f.metadata, AmountToMint: amount}
	return p, p.Validate()
}

func newDeployCmd(g *globalFlags) *cobra.Command {
	var jf jettonFlags
	var yes bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a jetton and mint its supply to the deployer wallet",
		Long: `Deploy a jetton minter from the wallet in $` + envMnemonic + `, mint the
initial supply to that wallet and wait until the mint is verified.

Running the same command again is safe: an already deployed minter is verified
instead of redeployed.

EXAMPLES:
  jetton-deployer deploy --name "My Jetton" --symbol MJT --amount 1000000000000
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonic := os.Getenv(envMnemonic)
			if mnemonic == "" {
				return fmt.Errorf("%s is not set", envMnemonic)
			}

			ctx := cmd.Context()
			s, err := g.newStack(ctx, true)
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := wallet.FromMnemonic(s.api, mnemonic, *s.cfg.Wallet.Version)
			if err != nil {
				return err
			}
			id, err := wallet.IdentityOf(w, *s.cfg.Wallet.Version)
			if err != nil {
				return err
			}
			s.lggr.Infow("deployer wallet", "address", id.Address.String(), "publicKey", id.PublicKey, "version", id.Version)
			var opts []wallet.AdapterOption
			if !yes {
				opts = append(opts, wallet.WithConfirm(wallet.PromptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())))
			}
			adapter := wallet.NewAdapter(s.lggr, w, opts...)

			params, err := jf.params(adapter.Address())
			if err != nil {
				return err
			}
			params.Progress = s.progress()

			minter, err := s.controller.CreateJetton(ctx, params, adapter)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), minter.String())
			return err
		},
	}

	jf.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "send without asking for confirmation")
	return cmd
}

func newAddressCmd(g *globalFlags) *cobra.Command {
	var jf jettonFlags
	var owner string

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the minter address a deploy would produce",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerAddr, err := address.ParseAddr(owner)
			if err != nil {
				return fmt.Errorf("invalid owner address: %w", err)
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			lggr, err := newLogger()
			if err != nil {
				return err
			}
			// address derivation never reads the ledger
			controller, err := newController(lggr, cfg, nil)
			if err != nil {
				return err
			}
			params, err := jf.params(ownerAddr)
			if err != nil {
				return err
			}
			minter, err := controller.AddressFor(cmd.Context(), params)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), minter.String())
			return err
		},
	}

	jf.register(cmd)
	cmd.Flags().StringVar(&owner, "owner", "", "deployer wallet address")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newDetailsCmd(g *globalFlags) *cobra.Command {
	var minter, owner string

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Print jetton metadata and the owner's jetton balance as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			minterAddr, err := address.ParseAddr(minter)
			if err != nil {
				return fmt.Errorf("invalid minter address: %w", err)
			}
			ownerAddr, err := address.ParseAddr(owner)
			if err != nil {
				return fmt.Errorf("invalid owner address: %w", err)
			}

			s, err := g.newStack(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			details, err := s.controller.GetJettonDetails(cmd.Context(), minterAddr, ownerAddr)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(details)
		},
	}

	cmd.Flags().StringVar(&minter, "minter", "", "jetton minter address")
	cmd.Flags().StringVar(&owner, "owner", "", "jetton holder address")
	_ = cmd.MarkFlagRequired("minter")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
