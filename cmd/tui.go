package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive gallery editor.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	ws, err := r.open(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ws.adapter, ui.Options{
		ArmDelay: r.config.UI.ArmDelay(),
		Notices:  ws.notices,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := ws.adapter.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush replication: %w", err)
	}
	return nil
}
