package deploy

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled is returned by Run when the operator backs out, either
// at world selection with nothing to fall back to, or at the
// missing-packs question. Cancellation is a decision, not a failure;
// callers translate it to a nonzero exit without an error dump.
var ErrCancelled = errors.New("setup cancelled")

// Prompter answers the operator decisions the setup flow needs. The
// core never touches the console itself; CLI and TUI front ends supply
// their own implementations.
type Prompter interface {
	// Choose presents options and returns the selected index, or -1 for
	// "skip / keep the current world".
	Choose(title string, options []string) (int, error)

	// Confirm asks a yes/no question. def is the answer for empty
	// input.
	Confirm(prompt string, def bool) (bool, error)
}

// Run drives the full setup flow: select a world (or skip), validate
// its pack requirements, ask before continuing with missing packs
// (default: cancel), then deploy. The Manager must not have been
// initialized yet.
func Run(ctx context.Context, m *Manager, p Prompter) error {
	if err := m.Initialize(ctx); err != nil {
		return err
	}

	choice, err := p.Choose("Available world backups", m.WorldOptions())
	if err != nil {
		return err
	}

	if choice < 0 {
		m.progress(ProgressEvent{Message: "Skipping world import", Level: LevelInfo})
		if !m.HasActiveWorld() {
			m.progress(ProgressEvent{
				Message: "No world selected and no existing world found",
				Level:   LevelError,
			})
			return ErrCancelled
		}
		return m.Deploy(ctx, "", true)
	}

	worlds := m.Worlds()
	if choice >= len(worlds) {
		return fmt.Errorf("invalid world selection %d", choice)
	}
	selected := worlds[choice]
	m.progress(ProgressEvent{Message: "Selected: " + selected.Name, Level: LevelInfo})

	result, err := m.Validate(ctx, selected.Path)
	if err != nil {
		return err
	}
	if !result.FullyMatched() {
		cont, err := p.Confirm(
			fmt.Sprintf("Missing %d required pack(s). Continue setup anyway?", len(result.Missing)),
			false,
		)
		if err != nil {
			return err
		}
		if !cont {
			return ErrCancelled
		}
		m.progress(ProgressEvent{Message: "Proceeding with missing packs", Level: LevelWarning})
	}

	return m.Deploy(ctx, selected.Path, false)
}
