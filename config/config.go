package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type HttpServerConfig struct {
	Switch bool   `yaml:"switch"`
	Server string `yaml:"server"`
}

type MysqlConfig struct {
	Dsn string `yaml:"dsn"`
}

type SqliteConfig struct {
	Switch bool   `yaml:"switch"`
	Dsn    string `yaml:"dsn"`
}

type LevelDBConfig struct {
	Path string `yaml:"path"`
}

// MarketConfig carries the marketplace policy knobs. The two ratio bounds
// are policy guardrails, not protocol constants, which is why they live in
// the config file rather than in code.
type MarketConfig struct {
	OperatorAccount   string   `yaml:"operator_account"`
	TicketLedgerRef   string   `yaml:"ticket_ledger_ref"`
	AdminAccounts     []string `yaml:"admin_accounts"`
	IdentityWriter    string   `yaml:"identity_writer"`
	CheckInAccounts   []string `yaml:"check_in_accounts"`
	MaxResaleCapRatio string   `yaml:"max_resale_cap_ratio"`
	MaxRoyaltyRatio   string   `yaml:"max_royalty_ratio"`
}

type Config struct {
	DebugLevel int              `yaml:"debug_level"`
	HttpServer HttpServerConfig `yaml:"http_server"`
	Mysql      MysqlConfig      `yaml:"mysql"`
	Sqlite     SqliteConfig     `yaml:"sqlite"`
	LevelDB    LevelDBConfig    `yaml:"leveldb"`
	Market     MarketConfig     `yaml:"market"`
}

func LoadConfig(cfg *Config, path string) {
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("read config %s: %w", path, err))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		panic(fmt.Errorf("parse config %s: %w", path, err))
	}

	if cfg.Market.MaxResaleCapRatio == "" {
		cfg.Market.MaxResaleCapRatio = "2.00"
	}
	if cfg.Market.MaxRoyaltyRatio == "" {
		cfg.Market.MaxRoyaltyRatio = "0.20"
	}
}

// RatioBps converts a decimal ratio string ("1.10") to basis points (11000).
// Anything past four decimal places is truncated toward zero.
func RatioBps(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("ratio %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("ratio %q: negative", s)
	}
	return d.Shift(4).Truncate(0).IntPart(), nil
}
