package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PendingView
	ConfirmView
	SyncView
	ResultView
)

// maxListed caps the songs listed on the confirm and result views.
const maxListed = 10

// Engine is the subset of [tasks.Engine] the TUI drives.
type Engine interface {
	Plan(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.PlanResult, error)
	Write(ctx context.Context, progress chan<- tasks.ProgressUpdate, tracks []models.Track) (*tasks.RunResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       Engine
	width        int
	height       int
	pendingList  list.Model
	plan         *tasks.PlanResult
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine Engine) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:     ctx,
		view:    LoadingView,
		engine:  engine,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts computing the plan.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchPlan())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.plan != nil {
			m.pendingList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == PendingView && m.pendingList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.pendingList, cmd = m.pendingList.Update(msg)
			return m, cmd
		}

		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}

		switch m.view {
		case PendingView:
			return m.handlePendingKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView && m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlanFetched:
		data := msg.data.(planFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ResultView
			return m, nil
		}
		m.plan = data.plan
		m.err = nil
		m.pendingList = newTrackList(data.plan.Pending, max(m.width-4, 0), max(m.height-8, 0))
		m.view = PendingView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.doneChan)

	case MsgSyncComplete:
		data := msg.data.(syncComplete)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case PendingView:
		return m.renderPending()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePendingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if len(m.plan.Pending) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.restart):
		return m, m.reload()
	}

	var cmd tea.Cmd
	m.pendingList, cmd = m.pendingList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = PendingView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.restart) {
		return m, m.reload()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PendingView {
		return m, nil
	}
	var cmd tea.Cmd
	m.pendingList, cmd = m.pendingList.Update(msg)
	return m, cmd
}

func (m *Model) reload() tea.Cmd {
	m.view = LoadingView
	m.plan = nil
	m.result = nil
	m.err = nil
	m.progress = tasks.ProgressUpdate{}
	return tea.Batch(m.spinner.Tick, m.fetchPlan())
}

func (m *Model) fetchPlan() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		plan, err := engine.Plan(ctx, nil)
		return planFetchedMsg(plan, err)
	}
}

// startSync writes the pending tracks in the background and streams progress back as messages.
func (m *Model) startSync() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	engine, ctx, pending := m.engine, m.ctx, m.plan.Pending
	go func() {
		result, err := engine.Write(ctx, progress, pending)
		close(progress)
		done <- syncCompleteMsg(result, err)
	}()

	return tea.Batch(m.spinner.Tick, waitForProgress(progress, done))
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("Liked Songs → Notion")
	status := fmt.Sprintf("%s Fetching liked songs and existing rows...", m.spinner.View())
	return fmt.Sprintf("%s\n%s\n\n%s", title, status, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
}

func (m *Model) renderPending() string {
	summary := styles.help.Render(fmt.Sprintf("%d liked songs • %d existing rows • run %s",
		len(m.plan.Tracks), len(m.plan.Rows), m.plan.RunID))

	if len(m.plan.Pending) == 0 {
		title := styles.ok.Render("✓ Everything is already synced")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\n%s", title, summary, helpView)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", m.pendingList.View(), summary, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Add %d songs to Notion?", len(m.plan.Pending)))

	var b strings.Builder
	for i, tr := range m.plan.Pending {
		if i == maxListed {
			b.WriteString(fmt.Sprintf("  … and %d more\n", len(m.plan.Pending)-i))
			break
		}
		b.WriteString(fmt.Sprintf("  • %s - %s\n", tr.ArtistNames(), tr.Title))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, styles.box.Render(strings.TrimRight(b.String(), "\n")), helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Liked Songs")

	var phase string
	switch m.progress.Phase {
	case tasks.WriteRows:
		phase = fmt.Sprintf("Creating rows (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Done:
		phase = "Finishing..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n%s %s\n%s", title, m.spinner.View(), phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.result == nil {
		msg := "No result available"
		if m.err != nil {
			msg = fmt.Sprintf("Sync failed: %v", m.err)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	var title string
	if m.err != nil {
		title = styles.err.Render(fmt.Sprintf("✗ Sync stopped: %v", m.err))
	} else {
		title = styles.ok.Render("✓ Sync Complete!")
	}

	info := fmt.Sprintf("\nCreated: %d\nRejected: %d\nSubmitted: %d of %d",
		m.result.Created, m.result.Failed, len(m.result.Results), len(m.result.Plan.Pending))

	var failed string
	if failures := m.result.Failures(); len(failures) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to add %d songs:", len(failures))))
		for i, wr := range failures {
			if i == maxListed {
				failed += fmt.Sprintf("\n  … and %d more (see log)", len(failures)-i)
				break
			}
			failed += fmt.Sprintf("\n  • %s - %s: %v", wr.Track.ArtistNames(), wr.Track.Title, wr.Err)
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
