package port

import "network_resolver/internal/infrastructure/configloader"

// ConfigProvider exposes the currently loaded configuration.
type ConfigProvider interface {
	GetConfig() *configloader.Config
}
