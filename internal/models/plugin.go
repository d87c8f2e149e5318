package models

// PluginUpdate represents a plugin that was published with a new version
type PluginUpdate struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
