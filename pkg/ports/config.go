package ports

import "github.com/aretw0/aicode/pkg/domain"

// ConfigSource supplies the backend configuration. It is consulted once per
// exchange so that reconfiguration applies without a restart.
type ConfigSource interface {
	Backend() domain.BackendConfig
}

// StaticConfig is a ConfigSource that never changes.
type StaticConfig domain.BackendConfig

func (s StaticConfig) Backend() domain.BackendConfig { return domain.BackendConfig(s) }
