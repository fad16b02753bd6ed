package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/chainring/pkg/errors"
	"github.com/matzehuels/chainring/pkg/pipeline"
	"github.com/matzehuels/chainring/pkg/snapshot"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Command
// =============================================================================

// exploreCommand creates the explore command that runs the interactive TUI.
func (c *CLI) exploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Edit ring parameters interactively",
		Long: `Edit ring parameters interactively.

Every change recomputes the ring. Editing a length makes it the driving
parameter; an impossible ring shows Error and no placements until the
parameters are fixed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd)
		},
	}
	paramFlags(cmd.Flags())
	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command) error {
	opts, err := c.loadOptions(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store := snapshot.NewStore(c.newRunner(), opts)

	p := tea.NewProgram(NewExploreModel(ctx, store), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	w := c.out(cmd)
	if snap := store.Current(); snap.OK() {
		printReadouts(w, snap.Result)
	} else {
		printError(w, "Error: %s", snap.Error)
	}
	return nil
}

// =============================================================================
// ExploreModel - Interactive parameter editor
// =============================================================================

// exploreField is one editable row.
type exploreField struct {
	label string
	field string
	step  float64
	drive string // drive this field selects, empty if none
}

var exploreFields = []exploreField{
	{label: "Links", field: pipeline.FieldLinks, step: 1},
	{label: "Radius", field: pipeline.FieldRadius, step: 0.5, drive: pipeline.DriveRadius},
	{label: "Inner diameter", field: pipeline.FieldInnerDiameter, step: 1, drive: pipeline.DriveDiameter},
	{label: "Variable link", field: pipeline.FieldVariable, step: 0.05, drive: pipeline.DriveVariable},
	{label: "Distinguished link", field: pipeline.FieldDistinguished, step: 0.05},
}

// defaultTableRows is the placement table height before the first resize.
const defaultTableRows = 10

// ExploreModel is the bubbletea model for the explore command. It renders
// only from the store's current snapshot.
type ExploreModel struct {
	ctx     context.Context
	store   *snapshot.Store
	Cursor  int
	Editing bool
	Input   string
	Notice  string
	rows    int
}

// NewExploreModel creates an explore model over store.
func NewExploreModel(ctx context.Context, store *snapshot.Store) ExploreModel {
	return ExploreModel{ctx: ctx, store: store, rows: defaultTableRows}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(exploreFields)-1 {
				m.Cursor++
			}
		case "left", "h", "-":
			m.nudge(-1)
		case "right", "l", "+":
			m.nudge(1)
		case "enter", "e":
			m.Editing = true
			m.Input = m.value(exploreFields[m.Cursor])
		case "tab":
			m.cycleDrive()
		}
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-22, 3)
	}
	return m, nil
}

func (m ExploreModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.Editing = false
		m.Input = ""
	case tea.KeyEnter:
		m.Editing = false
		m.apply(exploreFields[m.Cursor].field, m.Input)
		m.Input = ""
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.Input += string(msg.Runes)
	}
	return m, nil
}

// apply publishes one edit. Input errors become a notice and leave the
// snapshot alone; geometry errors are part of the snapshot.
func (m *ExploreModel) apply(field, text string) {
	_, err := m.store.Apply(m.ctx, field, text)
	if err != nil && apperrors.IsBoundary(err) {
		m.Notice = apperrors.UserMessage(err) + " (kept last value)"
		return
	}
	m.Notice = ""
}

// nudge steps the selected field by one increment in direction dir.
func (m *ExploreModel) nudge(dir float64) {
	f := exploreFields[m.Cursor]
	v, err := strconv.ParseFloat(m.value(f), 64)
	if err != nil {
		return
	}
	v = math.Round((v+dir*f.step)*1e6) / 1e6
	if v <= 0 {
		return
	}
	m.apply(f.field, strconv.FormatFloat(v, 'f', -1, 64))
}

// cycleDrive switches to the next driving parameter.
func (m *ExploreModel) cycleDrive() {
	order := []string{pipeline.DriveRadius, pipeline.DriveDiameter, pipeline.DriveVariable}
	cur := m.store.Current().Options.Drive
	next := order[0]
	for i, d := range order {
		if d == cur {
			next = order[(i+1)%len(order)]
		}
	}
	m.apply(pipeline.FieldDrive, next)
}

// value returns the current text of a field.
func (m ExploreModel) value(f exploreField) string {
	o := m.store.Current().Options
	var v float64
	switch f.field {
	case pipeline.FieldLinks:
		return strconv.Itoa(o.Links)
	case pipeline.FieldRadius:
		v = o.Radius
	case pipeline.FieldInnerDiameter:
		v = o.InnerDiameter
	case pipeline.FieldVariable:
		v = o.VariableLength
	case pipeline.FieldDistinguished:
		v = o.DistinguishedLength
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (m ExploreModel) View() string {
	var b strings.Builder
	snap := m.store.Current()

	b.WriteString(StyleTitle.Render("Chainring"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ step  ⏎ edit  tab drive  q quit"))
	b.WriteString("\n\n")

	for i, f := range exploreFields {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := " "
		if f.drive != "" && f.drive == snap.Options.Drive {
			marker = "●"
		}
		value := m.value(f)
		if m.Editing && i == m.Cursor {
			value = m.Input + "_"
		}
		line := fmt.Sprintf("%s%s %-20s %s", cursor, marker, f.label, value)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if !snap.OK() {
		b.WriteString(StyleError.Render("Error"))
		b.WriteString(" ")
		b.WriteString(StyleDim.Render(snap.Error))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("no placements"))
		b.WriteString("\n")
	} else {
		printReadouts(&b, snap.Result)
		b.WriteString("\n")
		b.WriteString(placementTable(snap.Result.Layout, m.rows))
		b.WriteString("\n")
		if more := len(snap.Result.Layout.Placements) - m.rows; more > 0 {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", more)))
			b.WriteString("\n")
		}
	}

	if m.Notice != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.Notice))
		b.WriteString("\n")
	}
	return b.String()
}
