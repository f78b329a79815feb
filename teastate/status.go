package teastate

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/statekit/request"
)

var (
	colorMuted   lipgloss.Color = "#a6adc8"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
)

// StatusStyles holds one style per request phase outcome.
type StatusStyles struct {
	Idle    lipgloss.Style
	Pending lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func DefaultStatusStyles() StatusStyles {
	return StatusStyles{
		Idle:    lipgloss.NewStyle().Foreground(colorMuted),
		Pending: lipgloss.NewStyle().Foreground(colorAccent),
		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Error:   lipgloss.NewStyle().Foreground(colorError),
	}
}

// RenderStatus renders a one-line view of a request snapshot.
func RenderStatus[V any](styles StatusStyles, snap request.Snapshot[V]) string {
	switch snap.Phase {
	case request.PhasePending:
		return styles.Pending.Render("working…")
	case request.PhaseDone:
		if snap.Err != nil {
			return styles.Error.Render(snap.Err.Error())
		}
		return styles.Success.Render(fmt.Sprintf("%v", snap.Value))
	default:
		return styles.Idle.Render("idle")
	}
}
