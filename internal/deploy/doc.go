// Package deploy provides the orchestration logic for importing a world
// and deploying its content packs.
//
// # Manager
//
// The Manager coordinates the entire setup process:
//
//  1. Scan the mods directory into a pack inventory
//  2. List available .mcworld backups
//  3. Validate a selected world's pack requirements
//  4. Stage and commit the world swap (single-generation backup kept)
//  5. Write the world's pack requirement lists
//  6. Install packs into the server's behavior/resource directories
//
// # Basic Usage
//
//	manager := deploy.NewManager(settings, func(event deploy.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	defer manager.Close()
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := manager.Validate(ctx, worldArchive)
//	...
//	err = manager.Deploy(ctx, worldArchive, false)
//
// # Operator decisions
//
// The Manager performs no console I/O. Run drives the full flow through
// a Prompter, the external collaborator that answers "which world?" and
// "continue despite missing packs?". Cancellation at either question
// returns ErrCancelled.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives
// ProgressEvent values with a severity Level (Info, Verbose, Warning,
// Error, Success).
package deploy
