package extension

// Config holds the Funds extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.funds" or "funds" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for funds routes (default: "/funds").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// DefaultBalance is the opening amount credited to a balance on
	// first access, as a decimal string (default: "500000.00").
	DefaultBalance string `json:"default_balance" mapstructure:"default_balance" yaml:"default_balance"`

	// HistoryScanLimit is how many recent ledger records a cancellation
	// scans when looking for an open position (default: 50).
	HistoryScanLimit int `json:"history_scan_limit" mapstructure:"history_scan_limit" yaml:"history_scan_limit"`

	// NotifyBuffer is the notification queue capacity (default: 1000).
	NotifyBuffer int `json:"notify_buffer" mapstructure:"notify_buffer" yaml:"notify_buffer"`

	// SeedCatalog seeds the default fund catalog on start.
	SeedCatalog bool `json:"seed_catalog" mapstructure:"seed_catalog" yaml:"seed_catalog"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath:         "/funds",
		DefaultBalance:   "500000.00",
		HistoryScanLimit: 50,
		NotifyBuffer:     1000,
	}
}
