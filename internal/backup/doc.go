// Package backup produces and manages .mcworld archives of the active
// world directory.
//
// Backup names are derived from the world's level name and the current
// date, with a collision-avoidance ladder: "World_Jan01_2024.mcworld",
// then "World_Jan01_2024a.mcworld" through "...z", then a full timestamp
// fallback. One server rarely needs more than a couple of backups a day;
// the ladder just keeps repeated runs from clobbering each other.
//
//	info, err := backup.Create(ctx, worldDir, backupsDir, func(p archive.FileProgress) {
//	    fmt.Printf("\r  Compressing... %d files", p.Files)
//	})
package backup
