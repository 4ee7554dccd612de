// Package inventory scans a mods directory of pack archives and builds
// the id→pack mapping used for requirement validation and installation.
//
// A scan unpacks every recognized archive into a private scratch
// directory, reads each manifest found beneath it, and records one pack
// per distinct id (first archive in filename order wins). Archives that
// fail to unpack and manifests that fail to parse are collected as
// Skipped entries; they never abort the scan.
//
// The returned Result owns the scratch directory, because installed
// packs are copied out of it after the world swap. Callers must Close
// the Result on every path to release the scratch space:
//
//	result, err := inventory.Scan(ctx, modsDir)
//	if err != nil {
//	    return err
//	}
//	defer result.Close()
package inventory
