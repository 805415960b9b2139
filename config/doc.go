// Package config reads the cache layer's environment configuration.
//
// Load parses every STELLARCADE_* variable into a Config; the builder
// methods then hand each subsystem its own slice of it:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//
//	store := cache.New(cfg.StoreConfig())
//	engine := rules.New(store, rules.Config{Contracts: cfg.Contracts()})
//	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
//
// Secret-ish values such as the session key may reference another
// variable as ${VAR}; Load resolves the reference and fails loudly
// when the variable is unset. See ExpandEnvStrict.
package config
