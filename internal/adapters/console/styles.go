package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

// styles renders headings and status words for one output stream. Colors are
// dropped automatically when the stream is not a terminal.
type styles struct {
	header  lipgloss.Style
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style

	urgencyHigh     lipgloss.Style
	urgencyModerate lipgloss.Style
	urgencyLow      lipgloss.Style

	statusDone    lipgloss.Style
	statusPending lipgloss.Style
	statusOverdue lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		success: r.NewStyle().Foreground(lipgloss.Color("82")),
		warning: r.NewStyle().Foreground(lipgloss.Color("226")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),

		urgencyHigh:     r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
		urgencyModerate: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true), // Yellow
		urgencyLow:      r.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),  // Green

		statusDone:    r.NewStyle().Foreground(lipgloss.Color("82")),
		statusPending: r.NewStyle().Foreground(lipgloss.Color("226")),
		statusOverdue: r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (st styles) urgency(u entities.Urgency) string {
	switch u {
	case entities.UrgencyHigh:
		return st.urgencyHigh.Render(u.String())
	case entities.UrgencyModerate:
		return st.urgencyModerate.Render(u.String())
	default:
		return st.urgencyLow.Render(u.String())
	}
}

// status labels a task relative to today
func (st styles) status(t entities.Task, today string) string {
	switch {
	case t.Completed:
		return st.statusDone.Render("Completed")
	case t.Deadline < today:
		return st.statusOverdue.Render("Overdue")
	default:
		return st.statusPending.Render("Pending")
	}
}
