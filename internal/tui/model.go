package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/jotlist/internal/app"
	"github.com/idilsaglam/jotlist/internal/listview"
)

// rowItem adapts a listview.Row to bubbles/list.Item
type rowItem struct{ listview.Row }

func (r rowItem) FilterValue() string { return r.Text }

// Custom delegate: one line per row, delete mark on item rows
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(rowItem)
	if !ok {
		return
	}
	if r.IsPlaceholder() {
		fmt.Fprint(w, "  "+mutedStyle.Render(r.Text))
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s  %s", prefix, r.Text, deleteStyle.Render(deleteMark))
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Model is the interactive screen: a one-field form above the item list.
// It stays Unready, ignoring submissions and deletes, until the store opens.
type Model struct {
	ctx     context.Context
	session *app.Session
	log     *zap.SugaredLogger

	ready bool
	rows  []listview.Row // nil until the first successful listing

	input textinput.Model
	list  list.Model
	help  help.Model
	keys  keyMap
	focus focusArea
	width int
}

// New builds the screen over session. The session is opened by Init.
func New(ctx context.Context, session *app.Session, log *zap.SugaredLogger) Model {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item..."
	ti.CharLimit = 500
	ti.Focus()

	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = helpStyle

	return Model{
		ctx:     ctx,
		session: session,
		log:     log,
		input:   ti,
		list:    l,
		help:    help.New(),
		keys:    defaultKeys(),
		focus:   focusInput,
		width:   80,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, session *app.Session, log *zap.SugaredLogger) error {
	p := tea.NewProgram(New(ctx, session, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Update and View implement Bubble Tea's Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, openCmd(m.ctx, m.session))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(max(msg.Width-4, 10), max(msg.Height-9, 3))
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case openedMsg:
		m.ready = true
		if msg.err != nil {
			m.log.Errorw("Initial listing failed", "error", msg.err)
			return m, nil
		}
		m.log.Debugw("All items displayed", "count", len(msg.snap.Items))
		return m, m.setRows(listview.Render(msg.snap.Items))

	case openFailedMsg:
		// stays Unready; nothing is retried
		m.log.Errorw("Store unavailable", "error", msg.err)
		return m, nil

	case addedMsg:
		m.input.SetValue("")
		return m, m.setRows(listview.Render(msg.snap.Items))

	case addFailedMsg:
		m.log.Warnw("Add not applied", "error", msg.err)
		return m, nil

	case deletedMsg:
		if m.rows == nil {
			return m, nil
		}
		return m, m.setRows(listview.Remove(m.rows, msg.id))

	case deleteFailedMsg:
		m.log.Warnw("Delete not applied", "id", msg.id, "error", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == focusInput {
			m.focus = focusList
			m.input.Blur()
			return m, nil
		}
		m.focus = focusInput
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		if key.Matches(msg, m.keys.Submit) {
			return m, m.submit()
		}
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected()
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// submit sends the current input to the store. No validation: an empty
// field stores an empty item.
func (m Model) submit() tea.Cmd {
	if !m.ready {
		return nil
	}
	return addCmd(m.ctx, m.session, m.input.Value())
}

func (m Model) deleteSelected() tea.Cmd {
	if !m.ready {
		return nil
	}
	r, ok := m.list.SelectedItem().(rowItem)
	if !ok || !r.Deletable {
		return nil
	}
	return deleteCmd(m.ctx, m.session, r.ID)
}

func (m *Model) setRows(rows []listview.Row) tea.Cmd {
	m.rows = rows
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowItem{r})
	}
	cmd := m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("Items")
	if m.rows != nil {
		header += "  " + accentStyle.Render(fmt.Sprintf("%d", listview.Count(m.rows)))
	}
	b.WriteString(header + "\n")

	box := inputBoxStyle
	if m.focus == focusInput {
		box = inputBoxFocusedStyle
	}
	b.WriteString(box.Width(max(m.width-6, 20)).Render(m.input.View()) + "\n")

	// no list at all until the store has been read
	if m.ready && m.rows != nil {
		b.WriteString(m.list.View() + "\n")
	}

	bindings := m.keys.inputHelp()
	if m.focus == focusList {
		bindings = m.keys.listHelp()
	}
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(bindings)))
	return panelStyle.Render(b.String())
}
