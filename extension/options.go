package extension

import (
	"github.com/xraph/funds"
	"github.com/xraph/funds/notification"
	"github.com/xraph/funds/plugin"
	"github.com/xraph/funds/store"
)

// Option configures the Funds Forge extension.
type Option func(*Extension)

// WithStore sets the store for the funds engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a funds.Option through to the underlying engine.
func WithEngineOption(opt funds.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, funds.WithPlugin(p))
	}
}

// WithNotifier sets the notification delivery backend.
func WithNotifier(n notification.Notifier) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, funds.WithNotifier(n))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for funds routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithDefaultBalance sets the opening balance as a decimal string.
func WithDefaultBalance(amount string) Option {
	return func(e *Extension) { e.config.DefaultBalance = amount }
}

// WithHistoryScanLimit sets the cancellation history scan depth.
func WithHistoryScanLimit(limit int) Option {
	return func(e *Extension) { e.config.HistoryScanLimit = limit }
}

// WithNotifyBuffer sets the notification queue capacity.
func WithNotifyBuffer(size int) Option {
	return func(e *Extension) { e.config.NotifyBuffer = size }
}

// WithSeedCatalog seeds the default fund catalog on start.
func WithSeedCatalog() Option {
	return func(e *Extension) { e.config.SeedCatalog = true }
}
