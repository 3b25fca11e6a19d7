package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const maxQueryLength = 256

// SearchInput is the single-line text box for place queries.
type SearchInput struct {
	model textinput.Model
}

func NewSearchInput(placeholder string) *SearchInput {
	ti := textinput.New()
	ti.Prompt = "search: "
	ti.Placeholder = placeholder
	ti.PlaceholderStyle = placeholderStyle
	ti.CharLimit = maxQueryLength
	return &SearchInput{model: ti}
}

// Focus gives the box keyboard focus and returns the cursor blink command.
func (in *SearchInput) Focus() tea.Cmd { return in.model.Focus() }

func (in *SearchInput) Blur() { in.model.Blur() }

func (in *SearchInput) Focused() bool { return in.model.Focused() }

func (in *SearchInput) Value() string { return in.model.Value() }

// Reset clears the text.
func (in *SearchInput) Reset() { in.model.Reset() }

// Update feeds editing keys and cursor blinks to the box.
func (in *SearchInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	in.model, cmd = in.model.Update(msg)
	return cmd
}

func (in *SearchInput) View() string { return in.model.View() }
