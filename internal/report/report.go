// Package report renders best scores and passages as plain-text tables.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/passage"
)

const (
	terminalWidthBackup = 100
	minPassageWidth     = 20
)

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// RenderBest prints the best WPM per tier.
func RenderBest(w io.Writer, best model.BestResults) error {
	if err := writeTitle(w, "Best Results"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(model.Tiers()))
	for _, tier := range model.Tiers() {
		rows = append(rows, []string{tier.Label(), strconv.Itoa(best.WPM(tier))})
	}
	return writeLines(w, formatTable([]string{"Tier", "WPM"}, rows, map[int]bool{1: true}))
}

// RenderPassages prints every passage of the library, one per row. Long
// passages are truncated to the terminal width.
func RenderPassages(w io.Writer, lib *passage.Library) error {
	return RenderPassagesWithWidth(w, lib, outputWidth(w))
}

// RenderPassagesWithWidth prints passages truncated to totalWidth columns.
func RenderPassagesWithWidth(w io.Writer, lib *passage.Library, totalWidth int) error {
	if err := writeTitle(w, "Passages"); err != nil {
		return err
	}
	headers := []string{"Tier", "#", "Words", "Passage"}
	var rows [][]string
	for _, tier := range model.Tiers() {
		for i, p := range lib.Passages(tier) {
			rows = append(rows, []string{tier.Label(), strconv.Itoa(i + 1), strconv.Itoa(wordCount(p.Text)), p.Text})
		}
	}
	// Tier, index and word count columns are narrow; give the rest to the text.
	textWidth := totalWidth - runewidth.StringWidth("Medium") - 2 - runewidth.StringWidth("Words") - 3
	if textWidth < minPassageWidth {
		textWidth = minPassageWidth
	}
	for _, row := range rows {
		row[3] = runewidth.Truncate(row[3], textWidth, "…")
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true}))
}

// wordCount splits like scoring does so the column matches what WPM counts.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

func writeTitle(w io.Writer, title string) error {
	if shouldUseColor(w) {
		title = titleStyle.Render(title)
	}
	_, err := fmt.Fprintln(w, title)
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func outputWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
