package config

import (
	"errors"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/smartcontractkit/chainlink-common/pkg/config"
	"github.com/xssnick/tonutils-go/tlb"

	bindings "github.com/smartcontractkit/ton-jetton-deployer/pkg/bindings/jetton"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/deployer"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/ledger"
	"github.com/smartcontractkit/ton-jetton-deployer/pkg/wallet"
)

// Global ids of the public networks
const (
	ChainIDMainnet = "-239"
	ChainIDTestnet = "-3"
)

const (
	BackendLiteClient = "liteclient"
	BackendToncenter  = "toncenter"
)

const (
	mainnetConfigURL    = "https://ton.org/global.config.json"
	testnetConfigURL    = "https://ton.org/testnet-global.config.json"
	mainnetToncenterURL = "https://toncenter.com/api/v3"
	testnetToncenterURL = "https://testnet.toncenter.com/api/v3"
)

var DefaultConfigSet = TOMLConfig{
	ChainID: ptr(ChainIDMainnet),
	Deployer: Deployer{
		Workchain:     ptr[int8](0),
		DeployGas:     ptr(bindings.DeployGas.String()),
		MintTonAmount: ptr(bindings.MintTonAmount.String()),
	},
	Poll: Poll{
		Interval:    config.MustNewDuration(deployer.DefaultPollPolicy.Interval),
		MaxAttempts: ptr(deployer.DefaultPollPolicy.MaxAttempts),
		Timeout:     config.MustNewDuration(deployer.DefaultPollPolicy.Timeout),
	},
	RateLimit: RateLimit{
		RequestsPerSecond: ptr(ledger.DefaultRequestsPerSecond),
		Burst:             ptr(1),
	},
	Ledger: Ledger{
		Backend: ptr(BackendLiteClient),
	},
	Wallet: Wallet{
		Version: ptr(wallet.VersionV4R2),
	},
}

type TOMLConfig struct {
	ChainID   *string
	Deployer  Deployer
	Poll      Poll
	RateLimit RateLimit
	Ledger    Ledger
	Wallet    Wallet
}

type Deployer struct {
	Workchain *int8
	// DeployGas is attached to the deployment and is the minimum deployer balance, in TON.
	DeployGas *string
	// MintTonAmount is forwarded to the owner's jetton wallet with the mint, in TON.
	MintTonAmount  *string
	MinterCodePath *string
	WalletCodePath *string
}

type Poll struct {
	Interval    *config.Duration
	MaxAttempts *uint
	Timeout     *config.Duration
}

type RateLimit struct {
	RequestsPerSecond *float64
	Burst             *int
}

type Ledger struct {
	Backend   *string
	ConfigURL *config.URL
	Endpoint  *config.URL
	// APIKey is sent to toncenter only.
	APIKey *string
}

type Wallet struct {
	Version *string
}

// NewDecodedTOMLConfig decodes rawConfig, fills unset fields with defaults and
// validates the result.
func NewDecodedTOMLConfig(rawConfig string) (*TOMLConfig, error) {
	d := toml.NewDecoder(strings.NewReader(rawConfig))
	d.DisallowUnknownFields()

	var cfg TOMLConfig
	if err := d.Decode(&cfg); err != nil {
		return nil, errors.Join(errors.New("failed to decode config toml"), err)
	}
	cfg.SetDefaults()
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *TOMLConfig) TOMLString() (string, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetDefaults fills every unset field from DefaultConfigSet. Ledger URLs follow
// the chain id.
func (c *TOMLConfig) SetDefaults() {
	d := DefaultConfigSet
	setDefault(&c.ChainID, d.ChainID)

	setDefault(&c.Deployer.Workchain, d.Deployer.Workchain)
	setDefault(&c.Deployer.DeployGas, d.Deployer.DeployGas)
	setDefault(&c.Deployer.MintTonAmount, d.Deployer.MintTonAmount)
	setDefault(&c.Deployer.MinterCodePath, ptr(bindings.MinterContractPath))
	setDefault(&c.Deployer.WalletCodePath, ptr(bindings.WalletContractPath))

	setDefault(&c.Poll.Interval, d.Poll.Interval)
	setDefault(&c.Poll.MaxAttempts, d.Poll.MaxAttempts)
	setDefault(&c.Poll.Timeout, d.Poll.Timeout)

	setDefault(&c.RateLimit.RequestsPerSecond, d.RateLimit.RequestsPerSecond)
	setDefault(&c.RateLimit.Burst, d.RateLimit.Burst)

	setDefault(&c.Ledger.Backend, d.Ledger.Backend)
	if *c.ChainID == ChainIDTestnet {
		setDefault(&c.Ledger.ConfigURL, config.MustParseURL(testnetConfigURL))
		setDefault(&c.Ledger.Endpoint, config.MustParseURL(testnetToncenterURL))
	} else {
		setDefault(&c.Ledger.ConfigURL, config.MustParseURL(mainnetConfigURL))
		setDefault(&c.Ledger.Endpoint, config.MustParseURL(mainnetToncenterURL))
	}
	setDefault(&c.Ledger.APIKey, ptr(""))

	setDefault(&c.Wallet.Version, d.Wallet.Version)
}

func (c *TOMLConfig) ValidateConfig() (err error) {
	if c.ChainID == nil {
		err = errors.Join(err, config.ErrMissing{Name: "ChainID", Msg: "required"})
	} else if *c.ChainID == "" {
		err = errors.Join(err, config.ErrEmpty{Name: "ChainID", Msg: "required"})
	}

	if w := c.Deployer.Workchain; w != nil && *w != 0 && *w != -1 {
		err = errors.Join(err, config.ErrInvalid{Name: "Deployer.Workchain", Value: *w, Msg: "must be 0 or -1"})
	}
	if _, gasErr := c.DeployGas(); gasErr != nil {
		err = errors.Join(err, gasErr)
	}
	if _, mintErr := c.MintTonAmount(); mintErr != nil {
		err = errors.Join(err, mintErr)
	}

	if c.Poll.MaxAttempts == nil || c.Poll.Interval == nil || c.Poll.Timeout == nil {
		err = errors.Join(err, config.ErrMissing{Name: "Poll", Msg: "Interval, MaxAttempts and Timeout are required"})
	} else if pollErr := c.PollPolicy().Validate(); pollErr != nil {
		err = errors.Join(err, config.ErrInvalid{Name: "Poll", Value: c.PollPolicy(), Msg: pollErr.Error()})
	}

	if rps := c.RateLimit.RequestsPerSecond; rps == nil || *rps <= 0 {
		err = errors.Join(err, config.ErrInvalid{Name: "RateLimit.RequestsPerSecond", Value: rps, Msg: "must be positive"})
	}

	if c.Ledger.Backend == nil {
		err = errors.Join(err, config.ErrMissing{Name: "Ledger.Backend", Msg: "required"})
	} else {
		switch *c.Ledger.Backend {
		case BackendLiteClient:
			if c.Ledger.ConfigURL == nil || c.Ledger.ConfigURL.String() == "" {
				err = errors.Join(err, config.ErrEmpty{Name: "Ledger.ConfigURL", Msg: "required for the liteclient backend"})
			}
		case BackendToncenter:
			if c.Ledger.Endpoint == nil || c.Ledger.Endpoint.String() == "" {
				err = errors.Join(err, config.ErrEmpty{Name: "Ledger.Endpoint", Msg: "required for the toncenter backend"})
			}
		default:
			err = errors.Join(err, config.ErrInvalid{Name: "Ledger.Backend", Value: *c.Ledger.Backend,
				Msg: "must be " + BackendLiteClient + " or " + BackendToncenter})
		}
	}

	if c.Wallet.Version != nil {
		if _, vErr := wallet.VersionConfig(*c.Wallet.Version); vErr != nil {
			err = errors.Join(err, config.ErrInvalid{Name: "Wallet.Version", Value: *c.Wallet.Version, Msg: vErr.Error()})
		}
	}
	return err
}

func (c *TOMLConfig) DeployGas() (tlb.Coins, error) {
	return coins("Deployer.DeployGas", c.Deployer.DeployGas)
}

func (c *TOMLConfig) MintTonAmount() (tlb.Coins, error) {
	return coins("Deployer.MintTonAmount", c.Deployer.MintTonAmount)
}

func (c *TOMLConfig) PollPolicy() deployer.PollPolicy {
	return deployer.PollPolicy{
		Interval:    duration(c.Poll.Interval),
		MaxAttempts: deref(c.Poll.MaxAttempts),
		Timeout:     duration(c.Poll.Timeout),
	}
}

func coins(name string, v *string) (tlb.Coins, error) {
	if v == nil {
		return tlb.ZeroCoins, config.ErrMissing{Name: name, Msg: "required"}
	}
	c, err := tlb.FromTON(*v)
	if err != nil {
		return tlb.ZeroCoins, config.ErrInvalid{Name: name, Value: *v, Msg: err.Error()}
	}
	return c, nil
}

func duration(d *config.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration()
}

func setDefault[T any](field **T, def *T) {
	if *field == nil && def != nil {
		v := *def
		*field = &v
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func ptr[T any](v T) *T {
	return &v
}
