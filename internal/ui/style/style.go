// Package style provides shared styling primitives, colors and icons,
// used by the log handler and the report renderers.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
