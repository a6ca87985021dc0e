package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"
)

// Styles holds the lipgloss styles for text output.
type Styles struct {
	Heading   lipgloss.Style
	LineNum   lipgloss.Style
	Separator lipgloss.Style
	Context   lipgloss.Style
	Notice    lipgloss.Style
}

// NewStyles creates the default color styles.
func NewStyles() Styles {
	return Styles{
		Heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true), // bold magenta
		LineNum:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),            // green
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),            // cyan
		Context:   lipgloss.NewStyle().Faint(true),
		Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // yellow
	}
}

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}

// ForceColor makes lipgloss emit ANSI colors even when stdout is not a
// terminal (--color=always piped into a pager).
func ForceColor() {
	lipgloss.SetColorProfile(termenv.ANSI)
}
