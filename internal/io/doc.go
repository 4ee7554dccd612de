// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - File copying
//   - Recursive directory-tree copying
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//
// # File Operations
//
//	// Copy a file
//	err := ioutils.CopyFile(ctx, "/src/level.dat", "/dst/level.dat")
//
//	// Copy a directory tree
//	err := ioutils.CopyTree(ctx, "/worlds/current", "/worlds/current.backup")
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("World: Part 1/2") // Returns "World_ Part 1_2"
package ioutils
