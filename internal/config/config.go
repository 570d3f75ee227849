package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for WagerWatch
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Risk   RiskConfig   `yaml:"risk"`
	Flags  FlagsConfig  `yaml:"flags"`
	KYC    KYCConfig    `yaml:"kyc"`
	Dedup  DedupConfig  `yaml:"dedup"`
	Report ReportConfig `yaml:"report"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
}

// DataConfig holds input dataset configuration
type DataConfig struct {
	ProfilePath string `yaml:"profile_path"`
	UsagePath   string `yaml:"usage_path"`
}

// RiskConfig holds risk classification thresholds.
// Breakpoints are lower-bound inclusive, upper-bound exclusive.
type RiskConfig struct {
	AtRiskFrom       float64 `yaml:"at_risk_from"`
	PathologicalFrom float64 `yaml:"pathological_from"`
	ExcludeFrom      float64 `yaml:"exclude_from"`
}

// FlagsConfig holds behavioral flag thresholds
type FlagsConfig struct {
	BigBetAmount     float64 `yaml:"big_bet_amount"`
	HighFrequencyTxn int     `yaml:"high_frequency_txn"`
	DailySpikeAmount float64 `yaml:"daily_spike_amount"`
}

// KYCConfig holds KYC aging configuration
type KYCConfig struct {
	StaleDays int `yaml:"stale_days"`
}

// DedupConfig holds duplicate detection configuration
type DedupConfig struct {
	Enabled   bool    `yaml:"enabled"`
	SampleCap int     `yaml:"sample_cap"`
	Threshold float64 `yaml:"threshold"`
	Workers   int     `yaml:"workers"`
}

// ReportConfig holds report assembly configuration
type ReportConfig struct {
	TopPlayers int  `yaml:"top_players"`
	CacheSize  int  `yaml:"cache_size"`
	CacheOn    bool `yaml:"cache_on"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := LoadFromEnv()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnvInt("PORT", 3007),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Data: DataConfig{
			ProfilePath: getEnv("DATA_PROFILE_PATH", "player_info.csv"),
			UsagePath:   getEnv("DATA_USAGE_PATH", "sp1_dw_aggr.csv"),
		},
		Risk: RiskConfig{
			AtRiskFrom:       getEnvFloat("RISK_AT_RISK_FROM", 5000),
			PathologicalFrom: getEnvFloat("RISK_PATHOLOGICAL_FROM", 25000),
			ExcludeFrom:      getEnvFloat("RISK_EXCLUDE_FROM", 100000),
		},
		Flags: FlagsConfig{
			BigBetAmount:     getEnvFloat("FLAGS_BIG_BET", 100000),
			HighFrequencyTxn: getEnvInt("FLAGS_HIGH_FREQUENCY", 50),
			DailySpikeAmount: getEnvFloat("FLAGS_DAILY_SPIKE", 20000),
		},
		KYC: KYCConfig{
			StaleDays: getEnvInt("KYC_STALE_DAYS", 3),
		},
		Dedup: DedupConfig{
			Enabled:   getEnvBool("DEDUP_ENABLED", true),
			SampleCap: getEnvInt("DEDUP_SAMPLE_CAP", 300),
			Threshold: getEnvFloat("DEDUP_THRESHOLD", 90),
			Workers:   getEnvInt("DEDUP_WORKERS", 4),
		},
		Report: ReportConfig{
			TopPlayers: getEnvInt("REPORT_TOP_PLAYERS", 10),
			CacheSize:  getEnvInt("REPORT_CACHE_SIZE", 32),
			CacheOn:    getEnvBool("REPORT_CACHE_ON", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
