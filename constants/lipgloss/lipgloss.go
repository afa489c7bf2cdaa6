package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true)
	Info   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FAFFF")).
			Padding(0, 1)
)
