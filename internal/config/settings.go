package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds the resolved filesystem layout the tool operates on.
type Settings struct {
	// Server layout
	ServerRoot string `json:"server_root"`
	WorldName  string `json:"world_name"`

	// Directories, absolute or relative to the working directory.
	WorldsPath        string `json:"worlds_path"`
	ModsPath          string `json:"mods_path"`
	BackupsPath       string `json:"backups_path"`
	BehaviorPacksPath string `json:"behavior_packs_path"`
	ResourcePacksPath string `json:"resource_packs_path"`

	// StagingPath is where a new world tree is unpacked before the swap.
	// Recreated fresh each run; leftovers from an interrupted run are
	// simply overwritten.
	StagingPath string `json:"staging_path"`

	// DockerContainer names the server container mentioned in the
	// post-setup instructions. Empty suppresses those instructions.
	DockerContainer string `json:"docker_container"`
}

// DefaultSettings returns the standard itzg-style dedicated server
// layout under the given root.
func DefaultSettings(root string) *Settings {
	mcpe := filepath.Join(root, "mcpe")
	return &Settings{
		ServerRoot:        root,
		WorldName:         "Bedrock level",
		WorldsPath:        filepath.Join(mcpe, "worlds"),
		ModsPath:          filepath.Join(root, "mods"),
		BackupsPath:       filepath.Join(root, "backups"),
		BehaviorPacksPath: filepath.Join(mcpe, "behavior_packs"),
		ResourcePacksPath: filepath.Join(mcpe, "resource_packs"),
		StagingPath:       filepath.Join(os.TempDir(), "worldkeeper-staging"),
		DockerContainer:   "mcpe",
	}
}

// ActiveWorldDir returns the well-known active world location.
func (s *Settings) ActiveWorldDir() string {
	return filepath.Join(s.WorldsPath, s.WorldName)
}

// Load reads settings from a JSON file. A missing file yields defaults
// rooted at the current directory.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings("."), nil
		}
		return nil, err
	}

	settings := DefaultSettings(".")
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
