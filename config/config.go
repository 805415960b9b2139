package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/stellarcade/querycache/cache"
	"github.com/stellarcade/querycache/errs"
	"github.com/stellarcade/querycache/observe"
	"github.com/stellarcade/querycache/query"
	"github.com/stellarcade/querycache/rules"
	"github.com/stellarcade/querycache/wallet"
)

// Config holds every environment-tunable knob of the cache layer.
// Durations use Go syntax ("30s", "5m").
type Config struct {
	// MaxEntries bounds the store size; zero means unbounded.
	MaxEntries int `env:"STELLARCADE_CACHE_MAX_ENTRIES" envDefault:"0"`

	// Staleness windows per namespace.
	BalancesStaleTime    time.Duration `env:"STELLARCADE_STALE_BALANCES"    envDefault:"30s"`
	GamesStaleTime       time.Duration `env:"STELLARCADE_STALE_GAMES"       envDefault:"15s"`
	TournamentsStaleTime time.Duration `env:"STELLARCADE_STALE_TOURNAMENTS" envDefault:"30s"`
	RewardsStaleTime     time.Duration `env:"STELLARCADE_STALE_REWARDS"     envDefault:"1m"`
	ProfileStaleTime     time.Duration `env:"STELLARCADE_STALE_PROFILE"     envDefault:"5m"`

	// NoRefetch lists namespaces whose entries are not refetched in
	// the background after invalidation.
	NoRefetch []string `env:"STELLARCADE_NO_REFETCH" envSeparator:"," envDefault:"profile"`

	// Chain endpoints.
	NetworkName   string `env:"STELLARCADE_NETWORK"         envDefault:"testnet"`
	SorobanRPCURL string `env:"STELLARCADE_SOROBAN_RPC_URL" envDefault:"https://soroban-testnet.stellar.org"`
	HorizonURL    string `env:"STELLARCADE_HORIZON_URL"     envDefault:"https://horizon-testnet.stellar.org"`

	// Deployed contract ids. Empty fields keep the logical names from
	// rules.DefaultContracts.
	CoinFlipContract         string `env:"STELLARCADE_CONTRACT_COIN_FLIP"`
	PrizePoolContract        string `env:"STELLARCADE_CONTRACT_PRIZE_POOL"`
	AchievementBadgeContract string `env:"STELLARCADE_CONTRACT_ACHIEVEMENT_BADGE"`
	TournamentSystemContract string `env:"STELLARCADE_CONTRACT_TOURNAMENT_SYSTEM"`

	// SessionKey signs wallet session tokens. The value may reference
	// another variable as ${VAR}; Load expands it strictly.
	SessionKey string        `env:"STELLARCADE_SESSION_KEY"`
	SessionTTL time.Duration `env:"STELLARCADE_SESSION_TTL" envDefault:"24h"`

	// Observability.
	ServiceName     string  `env:"STELLARCADE_SERVICE_NAME"     envDefault:"stellarcade-querycache"`
	ServiceVersion  string  `env:"STELLARCADE_SERVICE_VERSION"`
	TracingEnabled  bool    `env:"STELLARCADE_TRACING_ENABLED"  envDefault:"false"`
	TracingExporter string  `env:"STELLARCADE_TRACING_EXPORTER" envDefault:"none"`
	TracingSample   float64 `env:"STELLARCADE_TRACING_SAMPLE"   envDefault:"1.0"`
	MetricsEnabled  bool    `env:"STELLARCADE_METRICS_ENABLED"  envDefault:"false"`
	MetricsExporter string  `env:"STELLARCADE_METRICS_EXPORTER" envDefault:"none"`
	LoggingEnabled  bool    `env:"STELLARCADE_LOGGING_ENABLED"  envDefault:"true"`
	LogLevel        string  `env:"STELLARCADE_LOG_LEVEL"        envDefault:"info"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return Parse()
}

// Parse reads configuration honoring opts, for callers that supply
// their own environment map or tag options.
func Parse(opts ...env.Options) (Config, error) {
	var cfg Config
	var err error
	if len(opts) > 0 {
		err = env.ParseWithOptions(&cfg, opts[0])
	} else {
		err = env.Parse(&cfg)
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.KindValidation, errs.CodeBadConfig, "bad environment", err)
	}

	expanded, err := ExpandEnvStrict(cfg.SessionKey)
	if err != nil {
		return Config{}, errs.Wrap(errs.KindValidation, errs.CodeBadConfig, "bad session key", err)
	}
	cfg.SessionKey = expanded

	if !wallet.Network(cfg.NetworkName).Valid() {
		return Config{}, errs.Wrap(errs.KindValidation, errs.CodeBadConfig, "bad environment", wallet.ErrUnknownNetwork).
			WithDetail("network", cfg.NetworkName)
	}

	return cfg, nil
}

// Policies returns the per-namespace staleness policies.
func (c Config) Policies() map[query.Namespace]query.Policy {
	noRefetch := make(map[query.Namespace]bool, len(c.NoRefetch))
	for _, ns := range c.NoRefetch {
		noRefetch[query.Namespace(strings.TrimSpace(ns))] = true
	}

	staleTimes := map[query.Namespace]time.Duration{
		query.NamespaceBalances:    c.BalancesStaleTime,
		query.NamespaceGames:       c.GamesStaleTime,
		query.NamespaceTournaments: c.TournamentsStaleTime,
		query.NamespaceRewards:     c.RewardsStaleTime,
		query.NamespaceProfile:     c.ProfileStaleTime,
	}

	policies := make(map[query.Namespace]query.Policy, len(staleTimes))
	for ns, staleTime := range staleTimes {
		policies[ns] = query.Policy{
			StaleTime:           staleTime,
			RefetchOnInvalidate: !noRefetch[ns],
		}
	}
	return policies
}

// StoreConfig returns the cache store configuration.
func (c Config) StoreConfig() cache.Config {
	return cache.Config{
		MaxEntries: c.MaxEntries,
		Policies:   c.Policies(),
	}
}

// Contracts returns the rule engine's contract identifiers. A
// deployment overrides only the contracts it has deployed.
func (c Config) Contracts() rules.Contracts {
	contracts := rules.DefaultContracts()
	if c.CoinFlipContract != "" {
		contracts.CoinFlip = c.CoinFlipContract
	}
	if c.PrizePoolContract != "" {
		contracts.PrizePool = c.PrizePoolContract
	}
	if c.AchievementBadgeContract != "" {
		contracts.AchievementBadge = c.AchievementBadgeContract
	}
	if c.TournamentSystemContract != "" {
		contracts.TournamentSystem = c.TournamentSystemContract
	}
	return contracts
}

// ObserveConfig returns the observability configuration.
func (c Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.ServiceVersion,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingEnabled,
			Exporter:  c.TracingExporter,
			SamplePct: c.TracingSample,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsEnabled,
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.LoggingEnabled,
			Level:   c.LogLevel,
		},
	}
}

// NetworkConfig names the chain and the endpoints fetchers talk to.
type NetworkConfig struct {
	Name          wallet.Network
	SorobanRPCURL string
	HorizonURL    string
}

// Network returns the chain network settings.
func (c Config) Network() NetworkConfig {
	return NetworkConfig{
		Name:          wallet.Network(c.NetworkName),
		SorobanRPCURL: c.SorobanRPCURL,
		HorizonURL:    c.HorizonURL,
	}
}
