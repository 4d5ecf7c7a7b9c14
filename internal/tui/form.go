package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// createForm collects a new project's name and tags.
type createForm struct {
	inputs     []textinput.Model
	focus      int
	err        string
	submitting bool
}

const (
	fieldName = iota
	fieldDescription
	fieldTags
)

func newCreateForm() *createForm {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 120
	name.Prompt = labelStyle.Render("Name: ")

	desc := textinput.New()
	desc.Placeholder = "optional"
	desc.CharLimit = 500
	desc.Prompt = labelStyle.Render("Description: ")

	tags := textinput.New()
	tags.Placeholder = "comma,separated"
	tags.CharLimit = 200
	tags.Prompt = labelStyle.Render("Tags: ")

	f := &createForm{inputs: []textinput.Model{name, desc, tags}}
	f.inputs[fieldName].Focus()
	return f
}

func (f *createForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *createForm) switchFocus() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *createForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *createForm) params() projectapi.CreateParams {
	var tags []string
	for _, t := range strings.Split(f.inputs[fieldTags].Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return projectapi.CreateParams{
		Name:        strings.TrimSpace(f.inputs[fieldName].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Tags:        tags,
	}
}

func (f *createForm) view() string {
	var b strings.Builder
	b.WriteString(valueStyle.Render("New project"))
	b.WriteString("\n\n")
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.submitting {
		b.WriteString("\n" + dimStyle.Render("Creating..."))
	}
	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render("⚠ "+f.err))
	}
	b.WriteString("\n" + dimStyle.Render("[enter] create  [tab] next field  [esc] cancel"))
	return formStyle.Render(b.String())
}
