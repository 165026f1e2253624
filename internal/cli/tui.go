package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
	"github.com/matzehuels/pedigree/pkg/session"
)

var (
	browseHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorGreen)
	browseErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// flagKeys maps a key to the status flag it toggles.
var flagKeys = map[string]pedigree.Flag{
	"a": pedigree.FlagAffected,
	"c": pedigree.FlagCarrier,
	"d": pedigree.FlagDeceased,
	"p": pedigree.FlagProband,
}

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse a chart and toggle status flags interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Notices are shown in the status line, not printed over the UI.
			s, err := c.openFile(ctx, args[0], sessionOpts{noCache: true, notifier: edit.Discard})
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(newBrowseModel(ctx, s), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(browseModel); ok && m.sess.Dirty() {
				printWarning("Quit without saving %s", args[0])
			}
			return nil
		},
	}
}

// =============================================================================
// browseModel - Interactive individual list
// =============================================================================

// browseModel is the bubbletea model for the browse command.
type browseModel struct {
	ctx    context.Context
	sess   *session.Session
	cursor int
	offset int
	height int
	status string
	err    error
}

func newBrowseModel(ctx context.Context, s *session.Session) browseModel {
	return browseModel{ctx: ctx, sess: s, height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		nodes := m.sess.Snapshot().Nodes
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "s":
			m.status, m.err = "", m.sess.SaveFile(m.ctx, "")
			if m.err == nil {
				m.status = "Saved " + m.sess.Path()
			}
		default:
			f, ok := flagKeys[key]
			if !ok || m.cursor >= len(nodes) {
				break
			}
			n := nodes[m.cursor]
			value := !n.Status.Get(f)
			_, m.err = m.sess.Dispatch(edit.Intent{Op: edit.OpFlag, ID: n.ID, Flag: f.String(), Value: value})
			m.status = ""
			if m.err == nil {
				m.status = fmt.Sprintf("%s %s = %v", n.ID, flagWord(f), value)
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	title := m.sess.Path()
	if m.sess.Dirty() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render("↑/↓ navigate  a affected  c carrier  d deceased  p proband  s save  q quit"))
	b.WriteString("\n\n")

	nodes := m.sess.Snapshot().Nodes
	if len(nodes) == 0 {
		b.WriteString(StyleDim.Render("  The chart is empty"))
		b.WriteString("\n")
		return b.String()
	}
	end := min(m.offset+m.height, len(nodes))
	b.WriteString(individualsTable(nodes[m.offset:end], m.cursor-m.offset))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(nodes))))

	switch {
	case m.err != nil:
		b.WriteString("  " + browseErrorStyle.Render(perrors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString("  " + browseStatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}
