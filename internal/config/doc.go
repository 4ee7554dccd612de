// Package config provides configuration management for worldkeeper.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default path layout relative to a server root
//
// Every other package receives resolved paths from a Settings value
// rather than reading global constants, so tests can point the whole
// tool at temporary directories.
//
// # Default Settings
//
// Use DefaultSettings(root) to get the standard dedicated-server layout:
//
//	settings := config.DefaultSettings("/srv/minecraft")
//	// Active world at /srv/minecraft/mcpe/worlds/Bedrock level
//	// Mods in /srv/minecraft/mods
//	// Backups in /srv/minecraft/backups
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.WorldName = "Creative Flat"
//	err := settings.Save("/path/to/config.json")
package config
