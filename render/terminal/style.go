package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// Prompt colors: blue for input, red for results, mirroring the
	// notebook front end.
	colorIn  = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	colorOut = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}

	// UI colors.
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorError  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#fca5a5"}
	colorStderr = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fcd34d"}
	colorRich   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"} // purple
)

var (
	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta  = lipgloss.NewStyle().Foreground(colorDim)

	stylePromptIn  = lipgloss.NewStyle().Foreground(colorIn).Bold(true)
	stylePromptOut = lipgloss.NewStyle().Foreground(colorOut).Bold(true)

	styleSource   = lipgloss.NewStyle().Foreground(colorBright)
	styleMarkdown = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	styleStderr   = lipgloss.NewStyle().Foreground(colorStderr)
	styleError    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleRich     = lipgloss.NewStyle().Foreground(colorRich)

	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)
