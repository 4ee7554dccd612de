// Package world reads and mutates the on-disk world directory: the pack
// requirement lists a world declares, the safe swap of the active world
// with a staged one, and the installation of packs into the server's
// role directories.
//
// # Pack requirement lists
//
// A world declares its required packs in world_behavior_packs.json and
// world_resource_packs.json at its root, each a JSON array of
// {"pack_id", "version"} objects. ReadRequirements loads both lists;
// WritePackLists regenerates them from a pack inventory.
//
// # Replacing the active world
//
// Replacer is a small state machine (Idle → Staged → Committed) that
// guarantees the active location and the backup slot are never both
// absent, no matter where an interrupted run stopped:
//
//	r := world.NewReplacer(activeDir, stagingDir)
//	if err := r.Stage(ctx, "backup.mcworld"); err != nil { ... }
//	if err := r.Commit(ctx); err != nil { ... }
//
// Only one backup generation is kept. The previous backup is discarded
// the moment a new commit starts.
package world
