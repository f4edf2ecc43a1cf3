// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/output"
)

type (
	// BrowseOptions wires the browse model to the rest of the program.
	BrowseOptions struct {
		// Title is shown above the list.
		Title string
		// Load returns the packs to show. It is called on start, on the
		// rescan key and whenever Changes fires.
		Load func(ctx context.Context) ([]*catalog.Entry, error)
		// Deploy extracts a pack and returns a one-line summary.
		Deploy func(ctx context.Context, e *catalog.Entry) (string, error)
		// Describe renders the detail view of a pack. nil uses a plain listing.
		Describe func(e *catalog.Entry) string
		// Changes signals that the packs on disk changed. May be nil.
		Changes <-chan struct{}
	}

	// KeyMap defines the key bindings of the browse view.
	KeyMap struct {
		Open   key.Binding
		Back   key.Binding
		Deploy key.Binding
		Rescan key.Binding
		Quit   key.Binding
	}

	// BrowseModel is the bubbletea model of the browse command.
	BrowseModel struct {
		ctx    context.Context
		opts   BrowseOptions
		keys   KeyMap
		list   list.Model
		detail *catalog.Entry
		status string
		failed bool
		width  int
		height int
	}

	packItem struct {
		entry *catalog.Entry
	}

	entriesMsg struct {
		entries []*catalog.Entry
		err     error
	}

	deployedMsg struct {
		entry   *catalog.Entry
		summary string
		err     error
	}

	changedMsg struct{}
)

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Deploy: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "deploy"),
	),
	Rescan: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rescan"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (i packItem) Title() string { return i.entry.DisplayName() }

func (i packItem) Description() string {
	mods := "mods"
	if len(i.entry.Mods) == 1 {
		mods = "mod"
	}
	return fmt.Sprintf("%s %s, %s", output.Count(len(i.entry.Mods)), mods, output.Size(i.entry.PayloadSize))
}

func (i packItem) FilterValue() string { return i.entry.DisplayName() }

// NewBrowseModel returns a browse model with an empty list. The packs are
// loaded by Init.
func NewBrowseModel(ctx context.Context, opts BrowseOptions) *BrowseModel {
	keys := DefaultKeyMap

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = opts.Title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Open, keys.Deploy, keys.Rescan, keys.Quit}
	}

	return &BrowseModel{ctx: ctx, opts: opts, keys: keys, list: l}
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.listen())
}

// Update implements tea.Model.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case entriesMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("scan failed: %v", msg.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%d packs", len(msg.entries)), false)
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = packItem{entry: e}
		}
		m.detail = nil
		return m, m.list.SetItems(items)

	case deployedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("deploy %s failed: %v", msg.entry.DisplayName(), msg.err), true)
		} else {
			m.setStatus(msg.summary, false)
		}
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.load(), m.listen())

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.detail != nil {
			switch {
			case key.Matches(msg, m.keys.Back):
				m.detail = nil
			case key.Matches(msg, m.keys.Deploy):
				return m, m.deploy(m.detail)
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Open):
			m.detail = m.Selected()
			return m, nil
		case key.Matches(msg, m.keys.Deploy):
			return m, m.deploy(m.Selected())
		case key.Matches(msg, m.keys.Rescan):
			m.setStatus("rescanning...", false)
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *BrowseModel) View() string {
	var b strings.Builder
	if m.detail != nil {
		b.WriteString(detailStyle.Render(m.describe(m.detail)))
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	if m.failed {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}

// Selected returns the highlighted pack, or nil for an empty list.
func (m *BrowseModel) Selected() *catalog.Entry {
	if item, ok := m.list.SelectedItem().(packItem); ok {
		return item.entry
	}
	return nil
}

// Detail returns the pack shown in the detail view, or nil.
func (m *BrowseModel) Detail() *catalog.Entry { return m.detail }

// Status returns the status line and whether it reports a failure.
func (m *BrowseModel) Status() (string, bool) { return m.status, m.failed }

func (m *BrowseModel) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

func (m *BrowseModel) load() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.opts.Load(m.ctx)
		return entriesMsg{entries: entries, err: err}
	}
}

func (m *BrowseModel) listen() tea.Cmd {
	if m.opts.Changes == nil {
		return nil
	}
	ch := m.opts.Changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m *BrowseModel) deploy(e *catalog.Entry) tea.Cmd {
	if e == nil || m.opts.Deploy == nil {
		return nil
	}
	m.setStatus("deploying "+e.DisplayName()+"...", false)
	return func() tea.Msg {
		summary, err := m.opts.Deploy(m.ctx, e)
		return deployedMsg{entry: e, summary: summary, err: err}
	}
}

func (m *BrowseModel) describe(e *catalog.Entry) string {
	if m.opts.Describe != nil {
		return m.opts.Describe(e)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", titleStyle.Render(e.DisplayName()), e.Meta.Description)
	for _, mod := range e.Mods {
		fmt.Fprintf(&b, "  %s  %s\n", mod.Name, output.Size(mod.Size))
	}
	fmt.Fprintf(&b, "\n%s", e.Path)
	return b.String()
}

// Browse runs the browse view until the user quits or ctx is done.
func Browse(ctx context.Context, opts BrowseOptions) error {
	p := tea.NewProgram(NewBrowseModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
