// Package extension provides the Forge extension adapter for Funds.
//
// It implements the forge.Extension interface to integrate the funds
// engine into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.funds" or "funds" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/funds"
	"github.com/xraph/funds/store"
	"github.com/xraph/funds/store/memory"
	"github.com/xraph/funds/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "funds"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Fund subscription engine with balance-transaction consistency"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the funds engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *funds.Engine
	store      store.Store
	engineOpts []funds.Option
}

// New creates a new Funds Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying engine instance.
// This is nil until Register is called.
func (e *Extension) Engine() *funds.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the funds engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build engine options from resolved config.
	opts, err := e.buildEngineOpts()
	if err != nil {
		return err
	}

	e.engine = funds.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*funds.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("funds: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	if e.config.SeedCatalog {
		if _, err := e.engine.SeedFunds(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("funds: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs funds.Option values from the resolved config.
func (e *Extension) buildEngineOpts() ([]funds.Option, error) {
	opts := make([]funds.Option, 0, len(e.engineOpts)+3)

	if e.config.DefaultBalance != "" {
		amount, err := types.Parse(e.config.DefaultBalance, types.DefaultCurrency)
		if err != nil {
			return nil, errors.New("funds: invalid default_balance in config")
		}
		opts = append(opts, funds.WithDefaultBalance(amount))
	}
	if e.config.HistoryScanLimit > 0 {
		opts = append(opts, funds.WithHistoryScanLimit(e.config.HistoryScanLimit))
	}
	if e.config.NotifyBuffer > 0 {
		opts = append(opts, funds.WithNotifyBuffer(e.config.NotifyBuffer))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts, nil
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("funds: configuration is required but not found in config files; " +
				"ensure 'extensions.funds' or 'funds' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("funds: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("default_balance", e.config.DefaultBalance),
		forge.F("history_scan_limit", e.config.HistoryScanLimit),
		forge.F("notify_buffer", e.config.NotifyBuffer),
		forge.F("seed_catalog", e.config.SeedCatalog),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.funds" first (namespaced pattern).
	if cm.IsSet("extensions.funds") {
		if err := cm.Bind("extensions.funds", &cfg); err == nil {
			e.Logger().Debug("funds: loaded config from file",
				forge.F("key", "extensions.funds"),
			)
			return cfg, true
		}
		e.Logger().Warn("funds: failed to bind extensions.funds config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "funds" key.
	if cm.IsSet("funds") {
		if err := cm.Bind("funds", &cfg); err == nil {
			e.Logger().Debug("funds: loaded config from file",
				forge.F("key", "funds"),
			)
			return cfg, true
		}
		e.Logger().Warn("funds: failed to bind funds config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	if cfg.DefaultBalance == "" {
		cfg.DefaultBalance = defaults.DefaultBalance
	}
	if cfg.HistoryScanLimit == 0 {
		cfg.HistoryScanLimit = defaults.HistoryScanLimit
	}
	if cfg.NotifyBuffer == 0 {
		cfg.NotifyBuffer = defaults.NotifyBuffer
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.SeedCatalog {
		yamlConfig.SeedCatalog = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.DefaultBalance == "" && programmaticConfig.DefaultBalance != "" {
		yamlConfig.DefaultBalance = programmaticConfig.DefaultBalance
	}

	// Int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.HistoryScanLimit == 0 && programmaticConfig.HistoryScanLimit != 0 {
		yamlConfig.HistoryScanLimit = programmaticConfig.HistoryScanLimit
	}
	if yamlConfig.NotifyBuffer == 0 && programmaticConfig.NotifyBuffer != 0 {
		yamlConfig.NotifyBuffer = programmaticConfig.NotifyBuffer
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
