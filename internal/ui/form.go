package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical stack of labelled fields. The first len(inputs) fields are text inputs; any further fields
// are rendered by the owning view.
type form struct {
	labels []string
	inputs []textinput.Model
	fields int
	focus  int
}

func newForm(labels, placeholders []string, extra int) form {
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.Prompt = ""
		in.CharLimit = 200
		in.Cursor.SetMode(cursor.CursorStatic)
		inputs[i] = in
	}
	return form{labels: labels, inputs: inputs, fields: len(inputs) + extra}
}

// reset fills the inputs with values and focuses the first field.
func (f *form) reset(values ...string) tea.Cmd {
	for i := range f.inputs {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		f.inputs[i].SetValue(v)
		f.inputs[i].CursorEnd()
	}
	return f.setFocus(0)
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) setFocus(i int) tea.Cmd {
	f.focus = (i + f.fields) % f.fields
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// update forwards msg to the focused text input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// row renders one labelled line, highlighting the label of the focused field.
func (f *form) row(i int, content string) string {
	label := styles.label.Render(f.labels[i])
	if i == f.focus {
		label = styles.focused.Render("› " + f.labels[i])
	}
	return label + content
}

func (f *form) view(extra ...string) string {
	var b strings.Builder
	for i := range f.inputs {
		b.WriteString(f.row(i, f.inputs[i].View()))
		b.WriteString("\n")
	}
	for i, e := range extra {
		b.WriteString(f.row(len(f.inputs)+i, e))
		b.WriteString("\n")
	}
	return b.String()
}
