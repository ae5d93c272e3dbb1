package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	bf "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes and the piece catalog",
	Long: `Shows the registered game modes and the piece templates of the
active configuration (the standard seven unless --config defines custom ones).`,
	Run: runList,
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// newTable returns a table in the CLI's style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No game modes available.")
		return
	}

	modes := newTable("ID", "Title")
	for _, g := range games {
		modes.Row(g.ID, g.Title)
	}
	fmt.Println(titleStyle.Render("Game modes"))
	fmt.Println(modes)

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	catalog, err := blockfall.BuildCatalog(cfg.Pieces.Templates)
	if err != nil {
		fail("%v", err)
	}

	pieces := newTable("Name", "Cells", "Color", "Shape")
	for _, t := range catalog.Templates() {
		pieces.Row(t.Name(), fmt.Sprint(t.Size()), t.Color().String(), swatch(t))
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Pieces (draw policy: %s)", cfg.Pieces.Policy)))
	fmt.Println(pieces)

	fmt.Println(helpStyle.Render("Run 'blockfall sim <id>' to simulate a mode."))
}

// swatch draws a template at spawn orientation in its color.
func swatch(t *bf.Template) string {
	lo, hi := t.Bounds(0)
	block := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color().ANSI())).Render("██")

	filled := make(map[bf.Coord]bool, t.Size())
	for _, c := range t.Offsets(0) {
		filled[c] = true
	}

	lines := make([]string, 0, hi.Row-lo.Row+1)
	for row := hi.Row; row >= lo.Row; row-- {
		var sb strings.Builder
		for col := lo.Col; col <= hi.Col; col++ {
			if filled[bf.C(col, row)] {
				sb.WriteString(block)
			} else {
				sb.WriteString("  ")
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
