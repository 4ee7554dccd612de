// Package archive reads and writes the zip-based container formats used
// by Bedrock content: .mcworld world archives and .mcaddon/.mcpack pack
// archives.
//
// # Unpacking
//
//	if err := archive.Unpack(ctx, "pack.mcaddon", scratchDir); err != nil {
//	    var archErr *archive.Error
//	    if errors.As(err, &archErr) {
//	        // corrupt or unreadable archive: skip during scanning,
//	        // abort during mandatory world extraction
//	    }
//	}
//
// # Manifest discovery
//
// FindManifests walks an extraction root recursively and returns every
// manifest.json at any depth, since packs may nest a directory level
// before the manifest or be flat.
//
// # Creating archives
//
// Create zips a directory tree into an archive with deflate compression.
// A partially written archive is deleted on failure so no corrupt
// artifact is left behind.
package archive
