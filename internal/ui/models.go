package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yanNotDev/search-past-papers/internal/paper"
)

const (
	listMaxHeight  = 12
	searchMaxShown = 10
)

// optionItem adapts a paper.Option to the list component.
type optionItem paper.Option

func (o optionItem) FilterValue() string { return o.Name }

// optionDelegate draws one option per line with a cursor on the selected one.
type optionDelegate struct{}

func (optionDelegate) Height() int                             { return 1 }
func (optionDelegate) Spacing() int                            { return 0 }
func (optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	o, ok := item.(optionItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("❯ "+o.Name))
		return
	}
	fmt.Fprint(w, itemStyle.Render(o.Name))
}

// selectModel picks one option from a fixed list.
type selectModel struct {
	title     string
	list      list.Model
	choice    paper.Option
	done      bool
	cancelled bool
}

func newSelectModel(title string, options []paper.Option) selectModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = optionItem(o)
	}
	height := len(options) + 2
	if height > listMaxHeight {
		height = listMaxHeight
	}
	l := list.New(items, optionDelegate{}, 60, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return selectModel{title: title, list: l}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if o, ok := m.list.SelectedItem().(optionItem); ok {
				m.choice = paper.Option(o)
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done {
		return answered(m.title, m.choice.Name)
	}
	if m.cancelled {
		return ""
	}
	return markStyle.Render("?") + " " + promptStyle.Render(m.title) + "\n" + m.list.View() + "\n"
}

// searchModel narrows a long list as the user types.
type searchModel struct {
	title     string
	input     textinput.Model
	all       []string
	matches   []string
	cursor    int
	choice    string
	done      bool
	cancelled bool
}

func newSearchModel(title string, items []string) searchModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = ""
	ti.Focus()
	return searchModel{title: title, input: ti, all: items, matches: items}
}

func (m searchModel) Init() tea.Cmd { return textinput.Blink }

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if len(m.matches) == 0 {
				return m, nil
			}
			m.choice = m.matches[m.cursor]
			m.done = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.matches = Filter(m.all, m.input.Value())
		m.cursor = 0
	}
	return m, cmd
}

func (m searchModel) View() string {
	if m.done {
		return answered(m.title, m.choice)
	}
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(markStyle.Render("?") + " " + promptStyle.Render(m.title) + " " + m.input.View() + "\n")
	if len(m.matches) == 0 {
		b.WriteString(invalidStyle.Render("  no matching subject") + "\n")
		return b.String()
	}

	// keep the cursor inside the visible window
	start := 0
	if m.cursor >= searchMaxShown {
		start = m.cursor - searchMaxShown + 1
	}
	end := min(start+searchMaxShown, len(m.matches))
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("  ❯ "+m.matches[i]) + "\n")
		} else {
			b.WriteString(itemStyle.Render(m.matches[i]) + "\n")
		}
	}
	if rest := len(m.matches) - end; rest > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("    … %d more", rest)) + "\n")
	}
	return b.String()
}

// inputModel reads one line and re-asks until validate accepts it.
type inputModel struct {
	title     string
	input     textinput.Model
	validate  func(string) error
	err       error
	value     string
	done      bool
	cancelled bool
}

func newInputModel(title string, validate func(string) error) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 32
	ti.Focus()
	return inputModel{title: title, input: ti, validate: validate}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			v := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(v); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.value = v
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return answered(m.title, m.value)
	}
	if m.cancelled {
		return ""
	}
	s := markStyle.Render("?") + " " + promptStyle.Render(m.title) + " " + m.input.View() + "\n"
	if m.err != nil {
		s += invalidStyle.Render("> "+m.err.Error()) + "\n"
	}
	return s
}
