package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/npuzzle/pkg/puzzle"
)

// stdout receives all user-facing output. Tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleTile = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleHome = lipgloss.NewStyle().Foreground(colorGreen)
	styleGrid = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconBlank   = "·"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Puzzle Output
// =============================================================================

// renderBoard draws b as a bordered grid. Tiles already in their goal
// position are highlighted.
func renderBoard(b puzzle.Board) string {
	n := b.Size()
	width := len(strconv.Itoa(b.Len() - 1))
	goal := puzzle.Goal(n)

	rows := make([]string, n)
	for r := range n {
		cells := make([]string, n)
		for c := range n {
			t := b.At(r, c)
			var cell string
			switch {
			case t == 0:
				cell = StyleDim.Render(fmt.Sprintf("%*s", width, iconBlank))
			case t == goal.At(r, c):
				cell = styleHome.Render(fmt.Sprintf("%*d", width, t))
			default:
				cell = styleTile.Render(fmt.Sprintf("%*d", width, t))
			}
			cells[c] = cell
		}
		rows[r] = strings.Join(cells, " ")
	}
	return styleGrid.Render(strings.Join(rows, "\n"))
}

// printBoard prints a rendered board.
func printBoard(b puzzle.Board) {
	fmt.Fprintln(stdout, renderBoard(b))
}

// printBoardsSideBySide prints boards in rows of up to perRow grids.
func printBoardsSideBySide(boards []puzzle.Board, perRow int) {
	for start := 0; start < len(boards); start += perRow {
		end := min(start+perRow, len(boards))
		grids := make([]string, 0, end-start)
		for _, b := range boards[start:end] {
			grids = append(grids, renderBoard(b))
		}
		fmt.Fprintln(stdout, lipgloss.JoinHorizontal(lipgloss.Top, grids...))
	}
}

// printSearchStats prints search statistics on a single line.
func printSearchStats(strategy, heuristic string, expanded int, ms float64, cached bool) {
	parts := []string{strategy}
	if heuristic != "" {
		parts = append(parts, heuristic)
	}
	parts = append(parts,
		fmt.Sprintf("%d expanded", expanded),
		fmt.Sprintf("%.2f ms", ms))

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(stdout, line)
}

// =============================================================================
// Tables
// =============================================================================

// printTable prints left-aligned columns sized to their widest cell.
func printTable(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	pad := func(cells []string, style lipgloss.Style) string {
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.Join(out, "  ")
	}

	fmt.Fprintln(stdout, pad(header, styleHeader))
	for _, row := range rows {
		fmt.Fprintln(stdout, pad(row, lipgloss.NewStyle()))
	}
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(stdout)
}
