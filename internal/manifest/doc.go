// Package manifest parses Bedrock pack manifest.json documents and
// classifies packs by their declared modules.
//
// Pack manifests are JSON, but real-world ones routinely carry comments
// and trailing commas, so parsing goes through a JSONC translation step
// before decoding.
//
// # Parsing
//
//	m, err := manifest.Parse(data)
//	if err != nil {
//	    // malformed document: log and skip, never fatal
//	}
//	if m.Header.UUID == "" {
//	    // not a pack manifest: skip silently
//	}
//
// # Classification
//
//	role := manifest.Classify(m.ModuleTypes())
//	// model.RoleBehavior if any module is code-bearing,
//	// model.RoleResource otherwise
package manifest
