package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
)

type Tab int

const (
	TabOverview Tab = iota
	TabCode
	TabInstructions
)

var tabNames = []string{"Overview", "Code", "Instructions"}

func (t Tab) String() string {
	return tabNames[t]
}

const copiedResetDelay = 2 * time.Second

var errDownloadFailed = errors.New("an error occurred during download, please try again")

// Actions are the side effects the result view can trigger. A nil action
// is reported as unavailable.
type Actions struct {
	Download func(ctx context.Context, a *models.PluginArtifact) *packager.Result
	Copy     func(a *models.PluginArtifact) error
	Save     func(ctx context.Context, a *models.PluginArtifact) (models.SavedPlugin, error)
}

type downloadDoneMsg struct{ result *packager.Result }

type saveDoneMsg struct {
	saved models.SavedPlugin
	err   error
}

type copyDoneMsg struct{ err error }

type clearCopiedMsg struct{}

// ResultModel shows a generated plugin in three tabs and runs the
// download, copy and save actions as commands.
type ResultModel struct {
	ctx       context.Context
	presenter *presenter.Presenter
	actions   Actions

	width  int
	height int

	tab      Tab
	viewport viewport.Model
	spinner  spinner.Model

	showLog  bool
	log      []string
	status   string
	quitting bool
}

// NewResultModel creates the view for p
func NewResultModel(ctx context.Context, p *presenter.Presenter, actions Actions) *ResultModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorActive))

	m := &ResultModel{
		ctx:       ctx,
		presenter: p,
		actions:   actions,
		width:     100,
		height:    30,
		viewport:  viewport.New(96, 20),
		spinner:   s,
	}
	m.updateViewportSizes()
	m.refreshContent()
	return m
}

func (m *ResultModel) Init() tea.Cmd {
	return nil
}

func (m *ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSizes()
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case downloadDoneMsg:
		m.log = msg.result.Log
		var err error
		if msg.result.Status != packager.StatusSuccess {
			err = errDownloadFailed
			if text := msg.result.Message(); text != "" {
				err = errors.New(text)
			}
		}
		m.presenter.FinishDownload(err)
		if err == nil {
			m.status = "Downloaded " + strings.Join(nonEmpty(msg.result.TextFile, msg.result.ArchiveFile), " and ")
		} else {
			m.status = ""
		}
		return m, nil

	case saveDoneMsg:
		m.presenter.FinishSave(msg.err)
		if msg.err == nil {
			m.status = fmt.Sprintf("Saved to projects as %s", msg.saved.ID)
		} else {
			m.status = ""
		}
		return m, nil

	case copyDoneMsg:
		if m.presenter.MarkCopied(msg.err) {
			m.status = "Copied to clipboard"
			return m, tea.Tick(copiedResetDelay, func(time.Time) tea.Msg { return clearCopiedMsg{} })
		}
		m.status = "Copy failed: " + msg.err.Error()
		return m, nil

	case clearCopiedMsg:
		m.presenter.ClearCopied()
		if m.status == "Copied to clipboard" {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ResultModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "right":
		m.switchTab(1)
		return m, nil

	case "shift+tab", "left":
		m.switchTab(-1)
		return m, nil

	case "l":
		m.showLog = !m.showLog
		m.updateViewportSizes()
		return m, nil

	case "d":
		return m, m.startDownload()

	case "c":
		return m, m.startCopy()

	case "s":
		return m, m.startSave()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ResultModel) switchTab(delta int) {
	if !m.presenter.Valid() {
		return
	}
	n := len(tabNames)
	m.tab = Tab((int(m.tab) + delta + n) % n)
	m.refreshContent()
	m.viewport.GotoTop()
}

func (m *ResultModel) startDownload() tea.Cmd {
	if m.actions.Download == nil {
		m.status = "Download is not available"
		return nil
	}
	if !m.presenter.BeginDownload() {
		return nil
	}
	m.status = ""
	artifact, ctx, download := m.presenter.Artifact(), m.ctx, m.actions.Download
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return downloadDoneMsg{result: download(ctx, artifact)}
	})
}

func (m *ResultModel) startSave() tea.Cmd {
	if m.actions.Save == nil {
		m.status = "Saving is not available"
		return nil
	}
	if !m.presenter.BeginSave() {
		return nil
	}
	m.status = ""
	artifact, ctx, save := m.presenter.Artifact(), m.ctx, m.actions.Save
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		saved, err := save(ctx, artifact)
		return saveDoneMsg{saved: saved, err: err}
	})
}

func (m *ResultModel) startCopy() tea.Cmd {
	if m.actions.Copy == nil {
		m.status = "Clipboard is not available"
		return nil
	}
	if !m.presenter.Valid() {
		return nil
	}
	artifact, copyText := m.presenter.Artifact(), m.actions.Copy
	return func() tea.Msg {
		return copyDoneMsg{err: copyText(artifact)}
	}
}

func (m *ResultModel) busy() bool {
	state := m.presenter.State()
	return state.Downloading || state.Saving
}

func (m *ResultModel) updateViewportSizes() {
	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	reserved := 9 // title, tabs, borders, status and help lines
	if m.showLog {
		reserved += m.logHeight() + 2
	}
	contentHeight := m.height - reserved
	if contentHeight < 5 {
		contentHeight = 5
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
}

func (m *ResultModel) logHeight() int {
	if len(m.log) == 0 {
		return 1
	}
	if len(m.log) > 8 {
		return 8
	}
	return len(m.log)
}

func (m *ResultModel) refreshContent() {
	if !m.presenter.Valid() {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.tabContent(m.tab))
}

func (m *ResultModel) tabContent(t Tab) string {
	a := m.presenter.Artifact()
	switch t {
	case TabCode:
		return renderCode(a)
	case TabInstructions:
		return InstructionsText(a.Instructions, m.viewport.Width)
	default:
		return renderOverview(a, m.viewport.Width)
	}
}

// ActiveTab returns the selected tab
func (m *ResultModel) ActiveTab() Tab {
	return m.tab
}

// Status returns the one line status message
func (m *ResultModel) Status() string {
	return m.status
}

// Quitting reports whether the model asked the program to exit
func (m *ResultModel) Quitting() bool {
	return m.quitting
}

func (m *ResultModel) View() string {
	if m.quitting {
		return ""
	}

	if !m.presenter.Valid() {
		body := HeadingStyle.Render("Invalid plugin data") + "\n\n" +
			"The plugin data is incomplete or invalid. Please try generating the plugin again.\n\n" +
			DescriptionStyle.Render(m.presenter.Err().Error())
		return ErrorPanelStyle.Width(m.width-4).Render(body) + "\n" + HelpStyle.Render("q quit")
	}

	a := m.presenter.Artifact()
	var b strings.Builder

	title := TitleStyle.Render(a.Name) + " " + BadgeStyle.Render(a.Category.Label())
	b.WriteString(ContentPaddingStyle.Render(title))
	b.WriteString("\n")

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = ActiveTabStyle.Render(name)
		} else {
			tabs[i] = InactiveTabStyle.Render(name)
		}
	}
	b.WriteString(ContentPaddingStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...)))
	b.WriteString("\n")

	b.WriteString(ActiveBorderStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")

	b.WriteString(ContentPaddingStyle.Render(m.statusLine()))
	b.WriteString("\n")

	if m.showLog {
		b.WriteString(InactiveBorderStyle.Width(m.width - 2).Render(m.renderLog()))
		b.WriteString("\n")
	}

	b.WriteString(ContentPaddingStyle.Render(HelpStyle.Render(
		"d download • c copy • s save • l debug log • tab/←/→ switch tabs • ↑/↓ scroll • q quit")))

	return b.String()
}

func (m *ResultModel) statusLine() string {
	state := m.presenter.State()
	var parts []string

	switch {
	case state.Downloading:
		parts = append(parts, m.spinner.View()+" Downloading...")
	case state.Download == presenter.OutcomeSuccess:
		parts = append(parts, SuccessStyle.Render("✓ Download complete"))
	case state.Download == presenter.OutcomeError:
		parts = append(parts, ErrorStyle.Render("✗ Download failed: "+state.DownloadMessage))
	}

	switch {
	case state.Saving:
		parts = append(parts, m.spinner.View()+" Saving...")
	case state.Save == presenter.OutcomeSuccess:
		parts = append(parts, SuccessStyle.Render("✓ Saved to projects"))
	case state.Save == presenter.OutcomeError:
		parts = append(parts, ErrorStyle.Render("✗ Save failed: "+state.SaveMessage))
	}

	if state.Copied {
		parts = append(parts, SuccessStyle.Render("✓ Copied"))
	}
	if m.status != "" {
		parts = append(parts, DescriptionStyle.Render(m.status))
	}

	return strings.Join(parts, "  ")
}

func (m *ResultModel) renderLog() string {
	heading := HeadingStyle.Render("DEBUG LOG")
	if len(m.log) == 0 {
		return heading + "\n" + DescriptionStyle.Render("No download has run yet")
	}
	lines := m.log
	if len(lines) > m.logHeight() {
		lines = lines[len(lines)-m.logHeight():]
	}
	return heading + "\n" + DescriptionStyle.Render(strings.Join(lines, "\n"))
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Run shows the result view until the user quits or ctx is cancelled
func Run(ctx context.Context, p *presenter.Presenter, actions Actions) error {
	program := tea.NewProgram(NewResultModel(ctx, p, actions), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run result view: %w", err)
	}
	return nil
}
