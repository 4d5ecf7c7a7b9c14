// Package tui is the interactive project dashboard.
//
// Network calls run inside tea.Cmd functions and come back as messages;
// Update is the only place the project list controller is mutated.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/projectboard/internal/authapi"
	"github.com/fyrsmithlabs/projectboard/internal/dashboardapi"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
	"github.com/fyrsmithlabs/projectboard/internal/projectlist"
	"github.com/fyrsmithlabs/projectboard/internal/services"
)

const defaultTimeout = 10 * time.Second

// Model is the Bubble Tea dashboard model.
type Model struct {
	ctrl    *projectlist.Controller
	reg     services.Registry
	timeout time.Duration

	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	paginator paginator.Model

	tagCursor int
	row       int
	form      *createForm

	user    *authapi.User
	summary *dashboardapi.Summary

	quitting bool
}

// Message types
type tagsMsg projectapi.TagsResult

type projectsMsg struct {
	req projectlist.Request
	res projectapi.ListResult
}

type createdMsg projectapi.CreateResult

type headerMsg struct {
	user    *authapi.User
	summary *dashboardapi.Summary
}

// NewModel creates a dashboard model. timeout bounds each network call;
// 0 uses a default.
func NewModel(ctrl *projectlist.Controller, reg services.Registry, timeout time.Duration) Model {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = labelStyle

	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = projectapi.PageSize
	p.ActiveDot = valueStyle.Render("•")
	p.InactiveDot = dimStyle.Render("•")

	return Model{
		ctrl:      ctrl,
		reg:       reg,
		timeout:   timeout,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		paginator: p,
	}
}

// Init fetches tags, the first page and the header info.
func (m Model) Init() tea.Cmd {
	m, fetch := m.fetchProjects(false)
	return tea.Batch(
		m.spinner.Tick,
		m.fetchTags(),
		fetch,
		m.fetchHeader(),
	)
}

func (m Model) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m Model) fetchTags() tea.Cmd {
	svc := m.reg.Projects()
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		return tagsMsg(svc.GetTagsSafe(ctx))
	}
}

// fetchProjects starts a fetch of the current page. A cache hit is applied
// immediately and returns no command.
func (m Model) fetchProjects(force bool) (Model, tea.Cmd) {
	req, ok := m.ctrl.BeginFetch(m.ctrl.Page(), force)
	if !ok {
		return m, nil
	}
	svc := m.reg.Projects()
	return m, func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		return projectsMsg{req: req, res: svc.GetMyProjectsSafe(ctx, req.Params)}
	}
}

// fetchHeader loads the user and summary. Failures leave them empty.
func (m Model) fetchHeader() tea.Cmd {
	auth, dash := m.reg.Auth(), m.reg.Dashboard()
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		var msg headerMsg
		if auth != nil {
			msg.user, _ = auth.Me(ctx)
		}
		if dash != nil {
			msg.summary, _ = dash.Summary(ctx)
		}
		return msg
	}
}

func (m Model) createProject(params projectapi.CreateParams) tea.Cmd {
	svc := m.reg.Projects()
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		return createdMsg(svc.CreateProjectSafe(ctx, params))
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateList(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tagsMsg:
		m.ctrl.ApplyTags(context.Background(), projectapi.TagsResult(msg))
		if n := len(m.ctrl.State().Tags); m.tagCursor >= n {
			m.tagCursor = 0
		}
		return m, nil

	case projectsMsg:
		m.ctrl.ApplyResult(context.Background(), msg.req, msg.res)
		m.syncPaginator()
		return m, nil

	case headerMsg:
		if msg.user != nil {
			m.user = msg.user
		}
		if msg.summary != nil {
			m.summary = msg.summary
		}
		return m, nil

	case createdMsg:
		if m.form == nil {
			return m, nil
		}
		m.form.submitting = false
		if !msg.Success || msg.Project == nil {
			m.form.err = msg.Error
			if m.form.err == "" {
				m.form.err = "Failed to create project"
			}
			return m, nil
		}
		m.form = nil
		m.ctrl.ProjectCreated(*msg.Project)
		m.row = 0
		m.syncPaginator()
		return m, tea.Batch(m.fetchTags(), m.fetchHeader())
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prev):
		if m.ctrl.Page() > 1 {
			return m.pageChanged(m.ctrl.SetPage(m.ctrl.Page() - 1))
		}

	case key.Matches(msg, m.keys.Next):
		if m.ctrl.Page() < m.ctrl.TotalPages() {
			return m.pageChanged(m.ctrl.SetPage(m.ctrl.Page() + 1))
		}

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.ctrl.State().Projects)-1 {
			m.row++
		}

	case key.Matches(msg, m.keys.Tab):
		if n := len(m.ctrl.State().Tags); n > 0 {
			m.tagCursor = (m.tagCursor + 1) % n
		}

	case key.Matches(msg, m.keys.Toggle):
		tags := m.ctrl.State().Tags
		if m.tagCursor < len(tags) {
			return m.pageChanged(m.ctrl.ToggleTag(tags[m.tagCursor]))
		}

	case key.Matches(msg, m.keys.Clear):
		return m.pageChanged(m.ctrl.ClearFilters())

	case key.Matches(msg, m.keys.Retry):
		m.row = 0
		return m.fetchProjects(true)

	case key.Matches(msg, m.keys.New):
		m.form = newCreateForm()
		return m, m.form.focusCmd()
	}

	return m, nil
}

// pageChanged refetches after a page or filter change and scrolls the
// list back to the top.
func (m Model) pageChanged(changed bool) (tea.Model, tea.Cmd) {
	if !changed {
		return m, nil
	}
	m.row = 0
	m.syncPaginator()
	return m.fetchProjects(false)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := defaultFormKeyMap()
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Cancel):
		m.form = nil
		return m, nil

	case key.Matches(msg, keys.Switch):
		return m, m.form.switchFocus()

	case key.Matches(msg, keys.Submit):
		if m.form.submitting {
			return m, nil
		}
		params := m.form.params()
		if params.Name == "" {
			m.form.err = projectapi.ErrEmptyName.Error()
			return m, nil
		}
		m.form.submitting = true
		m.form.err = ""
		return m, m.createProject(params)
	}

	return m, m.form.update(msg)
}

func (m *Model) syncPaginator() {
	m.paginator.TotalPages = m.ctrl.TotalPages()
	m.paginator.Page = m.ctrl.Page() - 1
	if m.paginator.Page < 0 {
		m.paginator.Page = 0
	}
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTags())
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.form.view())
		return containerStyle.Render(b.String())
	}

	b.WriteString(m.renderBody())
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return containerStyle.Render(b.String())
}

func (m Model) renderHeader() string {
	line := headerStyle.Render(" Projects ")
	if m.user != nil {
		line += "  " + dimStyle.Render("signed in as ") + valueStyle.Render(m.user.Name)
	}
	if m.summary != nil {
		line += "  " + labelStyle.Render("projects: ") + valueStyle.Render(fmt.Sprint(m.summary.ProjectCount)) +
			"  " + labelStyle.Render("tags: ") + valueStyle.Render(fmt.Sprint(m.summary.TagCount))
	}
	return line
}

func (m Model) renderTags() string {
	state := m.ctrl.State()
	if len(state.Tags) == 0 {
		return dimStyle.Render("no tags")
	}

	selected := make(map[string]bool, len(state.SelectedTags))
	for _, t := range state.SelectedTags {
		selected[t] = true
	}

	parts := make([]string, 0, len(state.Tags))
	for i, t := range state.Tags {
		style := tagStyle
		switch {
		case selected[t]:
			style = selectedTagStyle
		case i == m.tagCursor:
			style = cursorTagStyle
		}
		label := t
		if i == m.tagCursor {
			label = "›" + t
		}
		parts = append(parts, style.Render(label))
	}
	return labelStyle.Render("Tags: ") + strings.Join(parts, " ")
}

func (m Model) renderBody() string {
	state := m.ctrl.State()
	switch {
	case state.Loading:
		return m.spinner.View() + " " + dimStyle.Render("Loading projects...")
	case state.Error != "":
		return errorBoxStyle.Render(errorStyle.Render("⚠ "+state.Error) + "\n" + dimStyle.Render("[r] retry"))
	case len(state.Projects) == 0:
		if len(state.SelectedTags) > 0 {
			return dimStyle.Render("No projects match the selected tags. [x] clear filters")
		}
		return dimStyle.Render("No projects yet. [n] create one")
	}

	var b strings.Builder
	for i, p := range state.Projects {
		cursor := "  "
		if i == m.row {
			cursor = rowCursorStyle.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(valueStyle.Render(p.Name))
		if len(p.Tags) > 0 {
			b.WriteString("  " + labelStyle.Render(strings.Join(p.Tags, ", ")))
		}
		if !p.CreatedAt.IsZero() {
			b.WriteString("  " + dimStyle.Render(p.CreatedAt.Format("2006-01-02")))
		}
		if i < len(state.Projects)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderFooter() string {
	state := m.ctrl.State()
	status := dimStyle.Render(fmt.Sprintf("page %d of %d · %d projects", state.Page, m.ctrl.TotalPages(), state.Total))
	return m.paginator.View() + "  " + status + "\n" + m.help.View(m.keys)
}
