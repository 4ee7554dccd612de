package manifest

import "worldkeeper/internal/model"

// Module types that mark a pack as code-bearing. "javascript" is the
// legacy spelling of "script" still found in older packs.
var behaviorTypes = map[string]bool{
	"data":       true,
	"script":     true,
	"javascript": true,
}

// Classify maps a manifest's module types to a pack role. Behavior
// indicators outrank resource indicators: a pack declaring both code and
// assets must be installed as a behavior pack or the engine will not load
// its code. Everything else, including an empty or unrecognized module
// list, is filed as resource — the safe place for anything without code.
func Classify(moduleTypes []string) model.Role {
	for _, t := range moduleTypes {
		if behaviorTypes[t] {
			return model.RoleBehavior
		}
	}
	return model.RoleResource
}
