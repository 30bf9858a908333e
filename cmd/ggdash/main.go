package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gambleguard/cmd/ggdash/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:7878", "Agent dashboard API address")
	interval := flag.Duration("interval", 10*time.Second, "Poll interval")
	flag.Parse()

	m := ui.NewRootModel(ui.NewClient(*addr), *interval)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "ggdash:", err)
		os.Exit(1)
	}
}
