package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"worldkeeper/internal/model"
)

// FileName is the manifest file name searched for inside pack and world
// archives.
const FileName = "manifest.json"

// Header is the identity section of a pack manifest.
type Header struct {
	// Name is the display name of the pack. Optional.
	Name string `json:"name"`

	// UUID is the pack id. A manifest without a uuid is not a pack
	// manifest and is skipped by callers.
	UUID string `json:"uuid"`

	// Version is the declared pack version. Defaults to 0.0.1 when the
	// field is absent, matching what the engine assumes.
	Version model.Version `json:"version"`
}

// Module is one entry of a manifest's modules array. Only the type is
// relevant for classification.
type Module struct {
	Type string `json:"type"`
}

// Manifest is the subset of a pack manifest.json this tool reads.
type Manifest struct {
	Header  Header   `json:"header"`
	Modules []Module `json:"modules"`
}

// ModuleTypes returns the declared module type strings in order.
func (m *Manifest) ModuleTypes() []string {
	types := make([]string, 0, len(m.Modules))
	for _, mod := range m.Modules {
		types = append(types, mod.Type)
	}
	return types
}

// Identity returns the pack identity from the header.
func (m *Manifest) Identity() model.PackIdentity {
	return model.PackIdentity{ID: m.Header.UUID, Version: m.Header.Version}
}

// Parse decodes a manifest document. Comments and trailing commas are
// tolerated. A malformed document yields a zero Manifest and an error the
// caller should treat as "skip this manifest"; a well-formed document
// without a header uuid yields an empty UUID and no error. Parse never
// fails the caller's control flow beyond that.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	m.Header.Version = model.Version{0, 0, 1}

	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return Manifest{}, fmt.Errorf("malformed manifest: %w", err)
	}
	return m, nil
}
