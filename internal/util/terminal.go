package util

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether fd is attached to a terminal, used by the
// indexer to decide whether to render a progress bar for a library walk.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// GetTerminalWidth returns the width of stdout's terminal, or 80 if it
// can't be determined, used to size the indexer's progress bar.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}
