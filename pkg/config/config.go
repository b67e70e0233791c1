package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExchangeConfig holds everything the gateway needs at construction. The
// credential pair is read-only process-wide state: set once here, never
// mutated afterwards.
type ExchangeConfig struct {
	APIKey     string
	APISecret  string
	Testnet    bool
	Timeout    time.Duration // per-request network timeout
	RecvWindow time.Duration // signed-request freshness window
}

// AuditConfig configures the durable order audit trail.
type AuditConfig struct {
	DBPath string
}

// SecretStoreConfig points at the optional encrypted credential store.
type SecretStoreConfig struct {
	Path          string
	EncryptionKey string // hex or base64, 32 bytes decoded; empty disables encryption
}

// ServerConfig configures the control-plane HTTP listener.
type ServerConfig struct {
	Listen string
}

// Config is the application configuration, passed explicitly to the gateway,
// services, and audit log at construction.
type Config struct {
	Exchange    ExchangeConfig
	Audit       AuditConfig
	SecretStore SecretStoreConfig
	Server      ServerConfig
	LogLevel    string
	LogFile     string
}

// configFile is the on-disk shape (YAML or JSON).
type configFile struct {
	Exchange struct {
		APIKey       string `yaml:"api_key" json:"api_key"`
		APISecret    string `yaml:"api_secret" json:"api_secret"`
		Testnet      *bool  `yaml:"testnet" json:"testnet"`
		TimeoutSec   int    `yaml:"timeout_sec" json:"timeout_sec"`
		RecvWindowMs int    `yaml:"recv_window_ms" json:"recv_window_ms"`
	} `yaml:"exchange" json:"exchange"`
	Audit struct {
		DBPath string `yaml:"db_path" json:"db_path"`
	} `yaml:"audit" json:"audit"`
	SecretStore struct {
		Path          string `yaml:"path" json:"path"`
		EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	} `yaml:"secret_store" json:"secret_store"`
	Server struct {
		Listen string `yaml:"listen" json:"listen"`
	} `yaml:"server" json:"server"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file"`
}

// LoadFromFile builds a Config from an optional file plus environment
// overrides. Precedence: environment > file > defaults.
func LoadFromFile(filePath string) (*Config, error) {
	var cf *configFile
	if strings.TrimSpace(filePath) != "" {
		parsed, err := loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", filePath, err)
		}
		cf = parsed
	}

	cfg := &Config{
		Exchange: ExchangeConfig{
			APIKey:     firstNonEmpty(os.Getenv("BINANCE_API_KEY"), fileString(cf, func(c *configFile) string { return c.Exchange.APIKey })),
			APISecret:  firstNonEmpty(os.Getenv("BINANCE_API_SECRET"), fileString(cf, func(c *configFile) string { return c.Exchange.APISecret })),
			Testnet:    resolveTestnet(cf),
			Timeout:    time.Duration(resolveInt("BINANCE_TIMEOUT_SEC", fileInt(cf, func(c *configFile) int { return c.Exchange.TimeoutSec }), 10)) * time.Second,
			RecvWindow: time.Duration(resolveInt("BINANCE_RECV_WINDOW_MS", fileInt(cf, func(c *configFile) int { return c.Exchange.RecvWindowMs }), 5000)) * time.Millisecond,
		},
		Audit: AuditConfig{
			DBPath: firstNonEmpty(os.Getenv("AUDIT_DB_PATH"), fileString(cf, func(c *configFile) string { return c.Audit.DBPath }), "data/audit.db"),
		},
		SecretStore: SecretStoreConfig{
			Path:          firstNonEmpty(os.Getenv("SECRET_STORE_PATH"), fileString(cf, func(c *configFile) string { return c.SecretStore.Path })),
			EncryptionKey: firstNonEmpty(os.Getenv("SECRET_STORE_KEY"), fileString(cf, func(c *configFile) string { return c.SecretStore.EncryptionKey })),
		},
		Server: ServerConfig{
			Listen: firstNonEmpty(os.Getenv("SERVER_LISTEN"), fileString(cf, func(c *configFile) string { return c.Server.Listen }), ":8080"),
		},
		LogLevel: firstNonEmpty(os.Getenv("LOG_LEVEL"), fileString(cf, func(c *configFile) string { return c.LogLevel }), "info"),
		LogFile:  firstNonEmpty(os.Getenv("LOG_FILE"), fileString(cf, func(c *configFile) string { return c.LogFile }), "logs/tradebot.log"),
	}

	return cfg, nil
}

// Validate checks that the gateway can be constructed. Credentials may still
// come from the secret store, so callers decide whether a missing pair is
// fatal; this only rejects contradictions.
func (c *Config) Validate() error {
	if c.Exchange.Timeout <= 0 {
		return fmt.Errorf("exchange timeout must be positive")
	}
	if c.Exchange.RecvWindow <= 0 {
		return fmt.Errorf("recv window must be positive")
	}
	if c.Audit.DBPath == "" {
		return fmt.Errorf("audit db_path is required")
	}
	return nil
}

// RequireCredentials rejects a config without a usable key/secret pair.
func (c *Config) RequireCredentials() error {
	if strings.TrimSpace(c.Exchange.APIKey) == "" {
		return fmt.Errorf("BINANCE_API_KEY not configured")
	}
	if strings.TrimSpace(c.Exchange.APISecret) == "" {
		return fmt.Errorf("BINANCE_API_SECRET not configured")
	}
	return nil
}

func loadConfigFile(filePath string) (*configFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cf configFile
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s (want .yaml, .yml or .json)", ext)
	}
	return &cf, nil
}

func resolveTestnet(cf *configFile) bool {
	if v := os.Getenv("BINANCE_TESTNET"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	if cf != nil && cf.Exchange.Testnet != nil {
		return *cf.Exchange.Testnet
	}
	// Default to the testnet: running against real funds must be explicit.
	return true
}

func resolveInt(envKey string, fileValue, def int) int {
	if v := os.Getenv(envKey); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	if fileValue > 0 {
		return fileValue
	}
	return def
}

func fileString(cf *configFile, getter func(*configFile) string) string {
	if cf == nil {
		return ""
	}
	return getter(cf)
}

func fileInt(cf *configFile, getter func(*configFile) int) int {
	if cf == nil {
		return 0
	}
	return getter(cf)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
