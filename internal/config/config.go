package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config application configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Chain    ChainConfig    `yaml:"chain"`
	OffChain OffChainConfig `yaml:"offchain"`
	Relay    RelayConfig    `yaml:"relay"`
	NATS     NATSConfig     `yaml:"nats"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ChainConfig blockchain access configuration for the sale deployment
type ChainConfig struct {
	RPCURL      string `yaml:"rpc_url"`
	ENSRegistry string `yaml:"ens_registry"`

	SaleContract string `yaml:"sale_contract"`
	DeployBlock  uint64 `yaml:"deploy_block"`

	// ChunkSize bounds a single eth_getLogs range; providers reject wider queries.
	ChunkSize uint64 `yaml:"chunk_size"`

	// DirectStateRead is true when the deployed contract version exposes
	// entityStateByID. Older deployments only emit AllocationSet events and
	// require the chunked log reconstruction path.
	DirectStateRead bool `yaml:"direct_state_read"`
}

// OffChainConfig off-chain allocation API configuration
type OffChainConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RelayConfig relay upstream configuration
type RelayConfig struct {
	UpstreamBaseURL string `yaml:"upstream_base_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// NATSConfig optional NATS publisher configuration
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// CORSConfig CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// LoggingConfig logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig global configuration instance, set once by main at startup.
// Components never read it directly; they receive their sections explicitly.
var AppConfig *Config

// DefaultENSRegistry mainnet ENS registry address
const DefaultENSRegistry = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"

// LoadConfig loads configuration from a YAML file and applies
// environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides environment variables take priority over YAML values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CHAIN_RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("SALE_CONTRACT_ADDRESS"); v != "" {
		cfg.Chain.SaleContract = v
	}
	if v := os.Getenv("OFFCHAIN_BASE_URL"); v != "" {
		cfg.OffChain.BaseURL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Chain.ENSRegistry == "" {
		cfg.Chain.ENSRegistry = DefaultENSRegistry
	}
	if cfg.Chain.ChunkSize == 0 {
		cfg.Chain.ChunkSize = 50000
	}
	if cfg.OffChain.TimeoutSeconds == 0 {
		cfg.OffChain.TimeoutSeconds = 15
	}
	if cfg.Relay.TimeoutSeconds == 0 {
		cfg.Relay.TimeoutSeconds = 15
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "allocation.resolutions"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if c.Chain.SaleContract == "" {
		return fmt.Errorf("chain.sale_contract is required")
	}
	return nil
}

// OffChainTimeout returns the off-chain HTTP timeout as a duration
func (c *OffChainConfig) OffChainTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UpstreamTimeout returns the relay upstream timeout as a duration
func (c *RelayConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Addr returns the listen address in host:port form
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
