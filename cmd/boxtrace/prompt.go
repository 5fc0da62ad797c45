package main

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// errPromptAborted is returned when the user leaves the prompt without submitting.
var errPromptAborted = errors.New("prompt aborted")

// promptModel asks for a single line of text.
type promptModel struct {
	input     textinput.Model
	submitted bool
	aborted   bool
}

func newPromptModel() promptModel {
	input := textinput.New()
	input.Placeholder = "Get tracking info for HMM booking ID SINI25432400"
	input.Prompt = "› "
	input.PromptStyle = promptStyle
	input.CharLimit = 0 // no limit
	input.Width = 72
	input.Focus()
	return promptModel{input: input}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.submitted || m.aborted {
		return ""
	}
	return titleStyle.Render("Enter your tracking query") + "\n" +
		m.input.View() + "\n" +
		hintStyle.Render("enter to search • esc to quit") + "\n"
}

// value returns the submitted query exactly as typed. Surrounding whitespace
// is kept since the query is also the cache key.
func (m promptModel) value() (string, error) {
	if !m.submitted {
		return "", errPromptAborted
	}
	return m.input.Value(), nil
}

// promptQuery runs the prompt until the user submits or aborts.
func promptQuery() (string, error) {
	final, err := tea.NewProgram(newPromptModel()).Run()
	if err != nil {
		return "", err
	}
	return final.(promptModel).value()
}
