// Package model defines the core data structures used throughout
// worldkeeper.
//
// # PackRecord
//
// PackRecord describes one content pack discovered in the mods directory:
//
//	rec := model.PackRecord{
//	    Identity: model.PackIdentity{ID: "3b2c...", Version: model.Version{1, 0, 0}},
//	    Role:     model.RoleBehavior,
//	    Archive:  "cool-addon.mcaddon",
//	}
//
// # Inventory
//
// Inventory maps pack ids to records. Insertion follows a strict
// first-seen-wins policy: once an id is present, later records for the
// same id are rejected. Scan order therefore decides precedence when two
// archives declare the same id.
//
// # WorldRequirement
//
// WorldRequirement is one entry of a world's declared behavior or resource
// pack list. Requirements are matched against an Inventory by id alone;
// versions are carried for display, never compared.
package model
