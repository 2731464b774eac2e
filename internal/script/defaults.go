package script

import "embed"

//go:embed handlers/*.js
var defaultHandlers embed.FS

// LoadDefaults registers the built-in sandbox handlers that emulate the
// Cleeng catalogue, customer and associate calls
func (m *Manager) LoadDefaults() error {
	return m.LoadFS(defaultHandlers, "handlers")
}
