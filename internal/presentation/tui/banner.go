package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the triprules banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _        _                  _           ", "#34d399"},
		{"| |_ _ __(_)_ __   _ __ _  _| |___ ___   ", "#2dd4bf"},
		{"|  _| '__| | '_ \\ | '__| || | / -_|_-<   ", "#22d3ee"},
		{" \\__|_|  |_| .__/ |_|   \\_,_|_\\___/__/   ", "#38bdf8"},
		{"           |_|                           ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Warn colors a message for attention (field errors, failed exports).
func Warn(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String(msg).Foreground(p.Color("#f59e0b")).String()
}
