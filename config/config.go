package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddress   = ":8080"
	defaultDatabaseDSN     = ""
	defaultLogLevel        = "debug"
	defaultAuthTokenKey    = ""
	defaultFinalizer       = "system"
	defaultConflictRetries = 3
	defaultRefreshInterval = 0
)

type Config struct {
	ServerAddr       string
	DatabaseDSN      string
	LogLevel         string
	AuthTokenKey     string
	DefaultFinalizer string
	ConflictRetries  uint64
	// RefreshInterval of billing refresher, zero disables it
	RefreshInterval time.Duration
}

var (
	once      sync.Once
	singleton *Config
	loadErr   error
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "tiffin server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "tiffin database DSN, empty uses memory store")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.AuthTokenKey, "k", defaultAuthTokenKey, "hex auth token key, empty disables auth")
		flag.StringVar(&cfg.DefaultFinalizer, "f", defaultFinalizer, "default finalized_by value")
		flag.Uint64Var(&cfg.ConflictRetries, "r", defaultConflictRetries, "billing conflict retries")
		flag.DurationVar(&cfg.RefreshInterval, "i", defaultRefreshInterval, "billing refresh interval")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if keyEnv := os.Getenv("AUTH_TOKEN_KEY"); keyEnv != "" {
			cfg.AuthTokenKey = keyEnv
		}
		if finalizerEnv := os.Getenv("DEFAULT_FINALIZER"); finalizerEnv != "" {
			cfg.DefaultFinalizer = finalizerEnv
		}
		if retriesEnv := os.Getenv("CONFLICT_RETRIES"); retriesEnv != "" {
			n, err := strconv.ParseUint(retriesEnv, 10, 64)
			if err != nil {
				loadErr = fmt.Errorf("CONFLICT_RETRIES: %w", err)
				return
			}
			cfg.ConflictRetries = n
		}
		if intervalEnv := os.Getenv("BILLING_REFRESH_INTERVAL"); intervalEnv != "" {
			d, err := time.ParseDuration(intervalEnv)
			if err != nil {
				loadErr = fmt.Errorf("BILLING_REFRESH_INTERVAL: %w", err)
				return
			}
			cfg.RefreshInterval = d
		}

		singleton = &cfg
	})

	return singleton, loadErr
}
