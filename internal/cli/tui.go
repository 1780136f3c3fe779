package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/manifest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newTUICmd creates the tui command, the interactive manifest browser.
func newTUICmd(manifestFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and toggle packages interactively",
		Long: `The TUI shows every package in the manifest with its status and
classification. Toggle packages with space, filter with /, and save
with s. Saving takes a backup first and prunes legacy entries when
enabled in config. External manifest edits are detected and flagged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := newAppEnv(ctx, *manifestFlag)
			if err != nil {
				return err
			}

			col, err := env.repo().Load(ctx)
			if err != nil {
				return err
			}
			env.rememberManifest(ctx)

			m := newPackageListModel(env.repo(), col, env.cfg.CleanLegacyFS20)
			if w, err := manifest.WatchFile(env.manifest); err == nil {
				m.watcher = w
				defer w.Close()
			} else {
				loggerFromContext(ctx).Debugf("Manifest watching unavailable: %v", err)
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// PackageListModel - Interactive package browsing and toggling
// =============================================================================

type staleMsg struct{}

type saveDoneMsg struct {
	pruned int
	err    error
}

type reloadDoneMsg struct {
	col *manifest.Collection
	err error
}

// PackageListModel is the bubbletea model for the manifest browser.
type PackageListModel struct {
	repo    *manifest.Repository
	col     *manifest.Collection
	watcher *manifest.Watcher
	prune   bool

	indices []int // filtered view, manifest order
	cursor  int
	offset  int
	height  int

	searching bool
	search    string

	saving    bool
	skipEvent bool // next watcher event is our own save
	stale     bool
	notice    string
}

// newPackageListModel creates the browser model over a loaded collection.
func newPackageListModel(repo *manifest.Repository, col *manifest.Collection, prune bool) PackageListModel {
	m := PackageListModel{
		repo:   repo,
		col:    col,
		prune:  prune,
		height: 15,
	}
	m.refilter()
	return m
}

// refilter recomputes the visible indices from the search text and clamps
// the cursor.
func (m *PackageListModel) refilter() {
	m.indices = manifest.Query{Search: m.search}.Filter(m.col)
	if m.cursor >= len(m.indices) {
		m.cursor = len(m.indices) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// watchCmd waits for the next external manifest change.
func (m PackageListModel) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return staleMsg{}
	}
}

// saveCmd writes the collection back to disk off the update loop.
func (m PackageListModel) saveCmd() tea.Cmd {
	repo, col, prune := m.repo, m.col, m.prune
	return func() tea.Msg {
		pruned, err := repo.Save(context.Background(), col, prune)
		return saveDoneMsg{pruned: pruned, err: err}
	}
}

// reloadCmd re-reads the manifest, discarding in-memory changes.
func (m PackageListModel) reloadCmd() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		col, err := repo.Load(context.Background())
		return reloadDoneMsg{col: col, err: err}
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return m.watchCmd()
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)

	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}

	case staleMsg:
		// Our own saves also trip the watcher, possibly after saveDoneMsg
		// already arrived; only external edits while idle count as stale.
		if m.saving || m.skipEvent {
			m.skipEvent = false
		} else {
			m.stale = true
		}
		return m, m.watchCmd()

	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			m.notice = StyleWarning.Render("save failed: " + msg.err.Error())
			return m, nil
		}
		m.skipEvent = true
		m.col.ClearDirty()
		m.stale = false
		if msg.pruned > 0 {
			m.notice = StyleSuccess.Render(fmt.Sprintf("saved, pruned %d legacy entries", msg.pruned))
		} else {
			m.notice = StyleSuccess.Render("saved")
		}
		m.refilter()
		return m, nil

	case reloadDoneMsg:
		if msg.err != nil {
			m.notice = StyleWarning.Render("reload failed: " + msg.err.Error())
			return m, nil
		}
		m.col = msg.col
		m.stale = false
		m.notice = "reloaded from disk"
		m.refilter()
		return m, nil
	}
	return m, nil
}

// updateBrowse handles keys in normal browsing mode.
func (m PackageListModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
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
		if m.cursor < len(m.indices)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}

	case " ":
		if m.saving || len(m.indices) == 0 {
			return m, nil
		}
		i := m.indices[m.cursor]
		rec := m.col.Get(i)
		switch {
		case rec.ReadOnly():
			m.notice = listDimStyle.Render(rec.Name + " is managed by the simulator")
		case rec.Status == manifest.Activated:
			m.col.SetStatus(i, manifest.UserDisabled)
		default:
			m.col.SetStatus(i, manifest.Activated)
		}

	case "/":
		m.searching = true

	case "s":
		if m.saving {
			return m, nil
		}
		if len(m.col.DirtyChanges()) == 0 && !m.prune {
			m.notice = listDimStyle.Render("nothing to save")
			return m, nil
		}
		m.saving = true
		m.notice = "saving…"
		return m, m.saveCmd()

	case "r":
		return m, m.reloadCmd()
	}
	return m, nil
}

// updateSearch handles keys while the filter input is focused.
func (m PackageListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.search = ""
		m.refilter()
	case "backspace":
		if m.search != "" {
			_, size := utf8.DecodeLastRuneInString(m.search)
			m.search = m.search[:len(m.search)-size]
			m.refilter()
		}
	case "ctrl+c":
		return m, tea.Quit
	default:
		if msg.Type == tea.KeyRunes {
			m.search += string(msg.Runes)
			m.refilter()
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Content Manifest"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  / filter  s save  r reload  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.indices) {
		end = len(m.indices)
	}

	rows := [][]string{}
	for vi := m.offset; vi < end; vi++ {
		rec := m.col.Get(m.indices[vi])

		cursor := "  "
		if vi == m.cursor {
			cursor = "▸ "
		}

		dirty := " "
		if rec.Dirty() {
			dirty = "*"
		}

		rows = append(rows, []string{
			cursor,
			rec.Name,
			statusLabel(rec.Status),
			dirty,
			rec.Category,
			rec.Vendor,
			string(rec.Sim),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Status", "", "Category", "Vendor", "Sim").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			vi := m.offset + row
			if vi >= len(m.indices) {
				return lipgloss.NewStyle()
			}
			rec := m.col.Get(m.indices[vi])

			base := lipgloss.NewStyle()
			if col == 2 {
				base = statusStyle(rec.Status)
			}
			if vi == m.cursor {
				return base.Bold(true)
			}
			if rec.ReadOnly() {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	b.WriteString(m.footer())
	return b.String()
}

// footer renders the filter line, counts, and warnings.
func (m PackageListModel) footer() string {
	var b strings.Builder

	if m.searching || m.search != "" {
		prompt := "/" + m.search
		if m.searching {
			prompt += "█"
		}
		b.WriteString(listSelectedStyle.Render(prompt))
		b.WriteString("\n")
	}

	dirty := len(m.col.DirtyChanges())
	line := fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.indices))
	if m.search != "" {
		line += fmt.Sprintf("  %d of %d match", len(m.indices), m.col.Len())
	}
	if dirty > 0 {
		line += "  " + StyleWarning.Render(fmt.Sprintf("%d unsaved", dirty))
	}
	b.WriteString(listDimStyle.Render(line))

	if m.stale {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("  manifest changed on disk — press r to reload"))
	}
	if m.notice != "" {
		b.WriteString("\n  ")
		b.WriteString(m.notice)
	}
	return b.String()
}
