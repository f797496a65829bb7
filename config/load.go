package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvChainID              = "NFTFILL_CHAIN_ID"
	EnvRPCURL               = "NFTFILL_RPC_URL"
	EnvFeeConfigURL         = "NFTFILL_FEE_CONFIG_URL"
	EnvConfirmationAttempts = "NFTFILL_CONFIRMATION_ATTEMPTS"
	EnvConfirmationInterval = "NFTFILL_CONFIRMATION_INTERVAL"
)

// LoadFile reads a yaml config. ${VAR} references are expanded from the
// environment. Fields missing from the file keep the built in values of
// the chain when it is known.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a yaml config, see LoadFile
func Parse(raw []byte) (Config, error) {
	expanded := []byte(os.ExpandEnv(string(raw)))

	var header struct {
		ChainID uint64 `yaml:"chainId"`
	}
	if err := yaml.Unmarshal(expanded, &header); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg, err := ForChain(header.ChainID)
	if errors.Is(err, ErrUnknownChain) {
		cfg = defaults(header.ChainID)
	}

	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads the given .env files, if present, and applies the NFTFILL_
// variables on top of cfg. A chain id different from cfg's switches to the
// built in configuration of that chain.
func LoadEnv(cfg Config, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env: %w", err)
	}
	return ApplyEnv(cfg)
}

// ApplyEnv applies the NFTFILL_ variables of the process environment
func ApplyEnv(cfg Config) (Config, error) {
	if raw, ok := os.LookupEnv(EnvChainID); ok {
		chainID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvChainID, raw, err)
		}
		if chainID != cfg.ChainID {
			cfg, err = ForChain(chainID)
			if err != nil {
				return Config{}, err
			}
		}
	}

	if raw, ok := os.LookupEnv(EnvRPCURL); ok {
		cfg.RPCURL = raw
	}
	if raw, ok := os.LookupEnv(EnvFeeConfigURL); ok {
		cfg.FeeConfigURL = raw
	}
	if raw, ok := os.LookupEnv(EnvConfirmationAttempts); ok {
		attempts, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvConfirmationAttempts, raw, err)
		}
		cfg.ConfirmationAttempts = attempts
	}
	if raw, ok := os.LookupEnv(EnvConfirmationInterval); ok {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvConfirmationInterval, raw, err)
		}
		cfg.ConfirmationInterval = interval
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
