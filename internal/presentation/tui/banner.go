package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the coloured startup banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Cold to hot, like the plate.
	lines := []termenv.Style{
		termenv.String(" _                 _               ").Foreground(p.Color("#60a5fa")),
		termenv.String("| | __ _ _ __  | | __ _  ___ ___ ").Foreground(p.Color("#818cf8")),
		termenv.String("| |/ _` | '_ \\ | |/ _` |/ __/ _ \\").Foreground(p.Color("#c084fc")),
		termenv.String("| | (_| | |_) || | (_| | (_|  __/").Foreground(p.Color("#f472b6")),
		termenv.String("|_|\\__,_| .__/ |_|\\__,_|\\___\\___|").Foreground(p.Color("#fb7185")),
		termenv.String("        |_|                  " + version).Foreground(p.Color("#f97316")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
}
