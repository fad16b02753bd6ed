package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chainring/pkg/chain"
	"github.com/matzehuels/chainring/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - variable link
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, distinguished link
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
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

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for the error readout.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	// Link type colours follow the ring drawing: variable green, distinguished red.
	styleLinkStandard      = lipgloss.NewStyle().Foreground(colorGray)
	styleLinkVariable      = lipgloss.NewStyle().Foreground(colorGreen)
	styleLinkDistinguished = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(22)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Readouts
// =============================================================================

// mm formats a length in millimetres.
func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64) + " mm"
}

// readouts returns the labeled values shown for a resolved ring, in order.
func readouts(r *pipeline.Result) [][2]string {
	rows := [][2]string{
		{"Links", strconv.Itoa(r.Links)},
		{"Drive", r.Drive},
		{"Radius", mm(r.Radius)},
		{"Inner diameter", mm(r.InnerDiameter)},
		{"Variable link", mm(r.VariableLength)},
		{"Distinguished link", mm(r.DistinguishedLength)},
		{"Circumference", mm(r.Circumference)},
		{"Inner circumference", mm(r.InnerCircumference)},
	}
	if r.Stats.Iterations > 0 {
		rows = append(rows, [2]string{"Iterations", strconv.Itoa(r.Stats.Iterations)})
	}
	return rows
}

// printReadouts prints the readouts of a resolved ring.
func printReadouts(w io.Writer, r *pipeline.Result) {
	for _, kv := range readouts(r) {
		printKeyValue(w, kv[0], kv[1])
	}
}

// linkStyle returns the colour of a link type.
func linkStyle(t chain.LinkType) lipgloss.Style {
	switch t {
	case chain.LinkVariable:
		return styleLinkVariable
	case chain.LinkDistinguished:
		return styleLinkDistinguished
	default:
		return styleLinkStandard
	}
}

// placementTable renders up to limit placements (all when limit <= 0).
func placementTable(l chain.Layout, limit int) string {
	n := len(l.Placements)
	if limit > 0 && limit < n {
		n = limit
	}
	types := make([]chain.LinkType, n)
	rows := make([][]string, n)
	for i, p := range l.Placements[:n] {
		types[i] = p.Type
		rows[i] = []string{
			strconv.Itoa(p.Index),
			p.Type.String(),
			strconv.FormatFloat(p.Length, 'f', 3, 64),
			strconv.FormatFloat(degrees(p.StartAngle), 'f', 2, 64),
			strconv.FormatFloat(degrees(p.Span()), 'f', 2, 64),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Type", "Length mm", "Start °", "Span °").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(types) {
				return lipgloss.NewStyle()
			}
			if col == 1 {
				return linkStyle(types[row])
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
