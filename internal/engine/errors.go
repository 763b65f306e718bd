package engine

import "fmt"

// ConfigurationError reports a collaborator that was not wired at startup.
// The affected capability keeps running as a no-op.
type ConfigurationError struct {
	Component string
	Missing   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s is not configured", e.Component, e.Missing)
}
