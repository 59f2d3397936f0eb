package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string

	TaxRate            float64
	SettlementCurrency string
	ExchangeRates      map[string]float64

	GatewayTimeout time.Duration
	GatewayLatency time.Duration

	ReconcileInterval time.Duration
	ReconcileBatch    int
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration

	WebhookSecret string

	PharmacyName    string
	PharmacyAddress string
	PharmacyPhone   string
	PharmacyTaxID   string
}

const (
	defaultRunAddress         = ":8080"
	defaultTaxRate            = 0.18
	defaultSettlementCurrency = "XOF"
	defaultExchangeRates      = "USD=600,EUR=655.957"
	defaultGatewayTimeout     = 10 * time.Second
	defaultGatewayLatency     = 100 * time.Millisecond
	defaultReconcileInterval  = 30 * time.Second
	defaultReconcileBatch     = 16
	defaultWorkerPoolSize     = 4
	defaultShutdownTimeout    = 10 * time.Second
	defaultPharmacyName       = "Pharmacie du Pont"
	defaultPharmacyAddress    = "Cotonou, Benin"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		TaxRate:            getFloat(lookup, "TAX_RATE", defaultTaxRate),
		SettlementCurrency: getString(lookup, "SETTLEMENT_CURRENCY", defaultSettlementCurrency),
		GatewayTimeout:     getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		GatewayLatency:     getDuration(lookup, "GATEWAY_LATENCY", defaultGatewayLatency),
		ReconcileInterval:  getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileBatch:     getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		WebhookSecret:      getString(lookup, "WEBHOOK_SECRET", ""),
		PharmacyName:       getString(lookup, "PHARMACY_NAME", defaultPharmacyName),
		PharmacyAddress:    getString(lookup, "PHARMACY_ADDRESS", defaultPharmacyAddress),
		PharmacyPhone:      getString(lookup, "PHARMACY_PHONE", ""),
		PharmacyTaxID:      getString(lookup, "PHARMACY_TAX_ID", ""),
	}

	fs := flag.NewFlagSet("pharmapay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		ratesStr             = getString(lookup, "EXCHANGE_RATES", defaultExchangeRates)
		gatewayTimeoutStr    = cfg.GatewayTimeout.String()
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.Float64Var(&cfg.TaxRate, "tax-rate", cfg.TaxRate, "VAT rate applied to tax-inclusive totals")
	fs.StringVar(&cfg.SettlementCurrency, "settlement-currency", cfg.SettlementCurrency, "Currency receipts settle in")
	fs.StringVar(&ratesStr, "exchange-rates", ratesStr, "Fixed exchange rates, e.g. USD=600,EUR=655.957")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Deadline for a single gateway authorize call")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between reconciliation sweeps")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum payments per reconciliation batch")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciliation workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Shared secret for HMAC webhook verification (presence check when empty)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.ExchangeRates, err = parseExchangeRates(ratesStr); err != nil {
		return nil, err
	}

	if secretFile, ok := lookup("WEBHOOK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.WebhookSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be within [0, 1), got %v", cfg.TaxRate)
	}

	if cfg.SettlementCurrency == "" {
		return nil, fmt.Errorf("settlement currency must be provided")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func parseExchangeRates(raw string) (map[string]float64, error) {
	rates := make(map[string]float64)
	if strings.TrimSpace(raw) == "" {
		return rates, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf("invalid exchange rate entry %q", pair)
		}
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid exchange rate for %s: %q", key, value)
		}
		rates[strings.ToUpper(strings.TrimSpace(key))] = rate
	}
	return rates, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
