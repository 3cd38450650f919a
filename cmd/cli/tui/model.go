package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bucketlib/bucketlib-go/internal/types"
	"github.com/bucketlib/bucketlib-go/internal/weightstore"
)

var cmdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff66ff"))

type Model struct {
	selector  types.ItemSelector
	store     *weightstore.Store // nil when weights are in-memory only
	viewport  viewport.Model
	textInput textinput.Model
	history   []string
	ready     bool
}

func NewModel(selector types.ItemSelector, store *weightstore.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command... (/state, /draw, /set <item> <weight>)"
	ti.Focus()
	ti.Width = 80

	return Model{
		selector:  selector,
		store:     store,
		textInput: ti,
		history:   []string{},
	}
}

func (m Model) Init() bubbletea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	var (
		cmd  bubbletea.Cmd
		cmds []bubbletea.Cmd
	)

	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case bubbletea.KeyMsg:
		switch msg.Type {
		case bubbletea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()

			parts := strings.Fields(input)
			if len(parts) == 0 {
				return m, nil
			}

			command := parts[0]
			args := parts[1:]

			switch command {
			case "/state":
				m.pushCommand("/state")
				m.push(fmt.Sprintf("TotalWeight: %d", m.selector.TotalWeight()))
				m.push(prettyCatalog(m.selector.Catalog()))
			case "/draw":
				item, err := m.selector.Select()
				m.pushCommand("/draw")
				if err != nil {
					m.push(fmt.Sprintf("Draw failed: %v", err))
				} else {
					m.push(fmt.Sprintf("You drew: %s", item))
				}
			case "/set":
				m.pushCommand(input)
				if len(args) != 2 {
					m.push("Usage: /set <item> <weight>")
					break
				}
				want, err := strconv.ParseInt(args[1], 10, 64)
				if err != nil {
					m.push(fmt.Sprintf("Bad weight %q: %v", args[1], err))
					break
				}
				current := m.selector.ItemWeight(args[0])
				if current < 0 {
					m.push(fmt.Sprintf("Unknown item %q", args[0]))
					break
				}
				m.selector.Update(args[0], want-current)
				if m.store != nil {
					if err := m.store.Flush(); err != nil {
						m.push(fmt.Sprintf("Flush failed: %v", err))
						break
					}
				}
				m.push(fmt.Sprintf("%s: %d -> %d", args[0], current, want))
			}
			m.refreshViewport()
		case bubbletea.KeyCtrlC, bubbletea.KeyEsc:
			return m, bubbletea.Quit
		}
	case bubbletea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		viewportHeight := 10

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
		}
		m.textInput.Width = msg.Width - 4
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, bubbletea.Batch(cmds...)
}

func (m *Model) pushCommand(s string) {
	m.history = append(m.history, cmdStyle.Render(s))
}

func (m *Model) push(s string) {
	m.history = append(m.history, s)
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	var style = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	return style.Render("Weighted Sampler TUI")
}

func (m Model) footerView() string {
	return m.textInput.View()
}

func prettyCatalog(catalog []types.WeightedItem) string {
	var builder strings.Builder
	for _, item := range catalog {
		builder.WriteString(fmt.Sprintf("ItemID: %-10s Weight: %d\n", item.ItemID, item.Weight))
	}
	return builder.String()
}
