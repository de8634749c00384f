// Package config loads the host binary's on-disk configuration: where the
// pallet's storage lives, the deposit constants it enforces, and the
// instance tag it is namespaced under (spec.md §6 Configuration constants,
// §9 "global mutable state"). Shape and Load/createDefault idiom follow the
// teacher's config.Config.
package config

import (
	"fmt"
	"math/big"
	"os"

	"github.com/BurntSushi/toml"

	"nhbchain/native/nft"
)

// Config is the on-disk shape of the host binary's configuration file.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	InstanceTag   string `toml:"InstanceTag"`

	ClassDeposit           string `toml:"ClassDeposit"`
	InstanceDeposit        string `toml:"InstanceDeposit"`
	MetadataDepositBase    string `toml:"MetadataDepositBase"`
	MetadataDepositPerByte string `toml:"MetadataDepositPerByte"`
	StringLimit            uint32 `toml:"StringLimit"`
}

// Load reads the configuration at path, writing and returning a default
// configuration if no file exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault writes and returns a conservative default configuration.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress:          ":8090",
		DataDir:                "./nft-data",
		InstanceTag:            "nft",
		ClassDeposit:           "10",
		InstanceDeposit:        "1",
		MetadataDepositBase:    "5",
		MetadataDepositPerByte: "1",
		StringLimit:            256,
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig rejects a configuration the Operation Engine could not run
// under: an empty instance tag would let two hosted copies of the pallet
// collide in the same keyspace (spec.md §9 "instance tag").
func ValidateConfig(cfg *Config) error {
	if cfg.InstanceTag == "" {
		return fmt.Errorf("config: InstanceTag must not be empty")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("config: DataDir must not be empty")
	}
	if cfg.StringLimit == 0 {
		return fmt.Errorf("config: StringLimit must be positive")
	}
	return nil
}

// EngineParams parses the configured deposit constants into the engine's
// Params (spec.md §6 Configuration constants).
func (c *Config) EngineParams() (nft.Params, error) {
	classDeposit, ok := new(big.Int).SetString(c.ClassDeposit, 10)
	if !ok {
		return nft.Params{}, fmt.Errorf("config: invalid ClassDeposit %q", c.ClassDeposit)
	}
	instanceDeposit, ok := new(big.Int).SetString(c.InstanceDeposit, 10)
	if !ok {
		return nft.Params{}, fmt.Errorf("config: invalid InstanceDeposit %q", c.InstanceDeposit)
	}
	metaBase, ok := new(big.Int).SetString(c.MetadataDepositBase, 10)
	if !ok {
		return nft.Params{}, fmt.Errorf("config: invalid MetadataDepositBase %q", c.MetadataDepositBase)
	}
	metaPerByte, ok := new(big.Int).SetString(c.MetadataDepositPerByte, 10)
	if !ok {
		return nft.Params{}, fmt.Errorf("config: invalid MetadataDepositPerByte %q", c.MetadataDepositPerByte)
	}
	return nft.Params{
		ClassDeposit:           classDeposit,
		InstanceDeposit:        instanceDeposit,
		MetadataDepositBase:    metaBase,
		MetadataDepositPerByte: metaPerByte,
		StringLimit:            c.StringLimit,
	}, nil
}
