package fitness

import "fmt"

// ConfigError reports an invalid model or sampler configuration. It is
// always returned before any sampling starts, so a run either fails at
// construction time or runs with a fully validated setup.
type ConfigError struct {
	// Field names the offending option or data column.
	Field string
	// Reason describes the constraint that was violated.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
