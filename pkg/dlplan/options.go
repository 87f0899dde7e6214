package dlplan

import "log/slog"

// ClientOptions configures an embedded planner.
type ClientOptions struct {
	Verbose bool
	// Logger receives planning diagnostics. Nil uses slog.Default.
	Logger *slog.Logger
	// ConfPath names a key=value conf file layered over the defaults.
	ConfPath string
	// Options are applied last, after validation.
	Options map[string]string
	// Strict makes Plan fail on the first locator it cannot plan.
	Strict bool
	// Journal records every returned job when set.
	Journal   bool
	StatePath string
	LogsDir   string
}
