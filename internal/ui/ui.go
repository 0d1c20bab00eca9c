package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"mylar2kapowarr/internal/matcher"
	"mylar2kapowarr/internal/models"
	"mylar2kapowarr/internal/services"
	"mylar2kapowarr/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EntryListView ViewState = iota
	ConfirmView
	MigrateView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       services.SourceGateway
	engine       tasks.Engine
	opts         tasks.RunOpts
	width        int
	height       int
	entryList    list.Model
	entries      []models.SourceEntry
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source services.SourceGateway, engine tasks.Engine, opts tasks.RunOpts) *Model {
	return &Model{
		ctx:    ctx,
		view:   EntryListView,
		source: source,
		engine: engine,
		opts:   opts,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching the series list from Mylar.
func (m *Model) Init() tea.Cmd {
	return m.fetchEntries()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.entryList.Width() == 0 {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EntryListView:
			return m.handleEntryListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgEntriesFetched:
		payload := msg.data.(entriesPayload)
		if payload.err != nil {
			m.err = payload.err
			return m, tea.Quit
		}
		m.entries = payload.entries
		items := make([]list.Item, len(payload.entries))
		for i, entry := range payload.entries {
			items[i] = entryItem{entry: entry}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = "Mylar Series"
		m.entryList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgMigrationComplete:
		payload := msg.data.(runPayload)
		m.result = payload.result
		m.err = payload.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case EntryListView:
		return m.renderEntryList()
	case ConfirmView:
		return m.renderConfirm()
	case MigrateView:
		return m.renderMigrate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEntryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = EntryListView
		return m, nil
	case "y":
		m.view = MigrateView
		return m, m.startMigration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = EntryListView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == EntryListView {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchEntries() tea.Cmd {
	return func() tea.Msg {
		raw, err := m.source.ListEntries(m.ctx, m.opts.ListCmd)
		if err != nil {
			return entriesFetchedMsg(nil, err)
		}
		entries := make([]models.SourceEntry, len(raw))
		for i, item := range raw {
			entries[i] = matcher.Normalize(item)
		}
		return entriesFetchedMsg(entries, nil)
	}
}

func (m *Model) startMigration() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func(progress chan tasks.ProgressUpdate) {
		result, err := m.engine.Run(m.ctx, progress, m.opts)
		m.result = result
		m.err = err
		close(progress)
	}(m.progressChan)

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return migrationCompleteMsg(m.result, m.err)
		}

		update, ok := <-m.progressChan
		if !ok {
			return migrationCompleteMsg(m.result, m.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderEntryList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.entryList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Migrate %d series to Kapowarr?", len(m.entries)))

	mode := "catalog only"
	switch {
	case m.opts.CopyFiles && m.opts.UseImport:
		mode = "copy files via library import"
	case m.opts.CopyFiles:
		mode = "copy files directly"
	}
	info := fmt.Sprintf("\nSeries: %d\nFiles: %s\nRoot folder: %d\n", len(m.entries), mode, m.opts.RootFolderID)
	if m.opts.DryRun {
		info += styles.warn.Render("Dry run: no files will be written") + "\n"
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderMigrate() string {
	title := styles.title.Render("Migrating Library")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchEntries:
		phase = "Fetching series list from Mylar..."
	case tasks.FetchWanted:
		phase = "Fetching wanted issues..."
	case tasks.ProcessEntry:
		phase = fmt.Sprintf("Processing series (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreateVolume:
		phase = "Adding volume to Kapowarr..."
	case tasks.TransferFiles:
		phase = "Transferring issue files..."
	case tasks.PostProcess:
		phase = "Queueing refresh and rename tasks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Migration failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Migration Complete!")
	info := fmt.Sprintf(
		"\nSeries: %d\nCreated: %d\nAlready present: %d\nSkipped: %d\nFiles copied: %d",
		m.result.EntriesTotal,
		m.result.Created,
		m.result.AlreadyPresent,
		m.result.Skipped,
		m.result.FilesCopied,
	)
	if m.result.DryRun {
		info += "\n" + styles.warn.Render("Dry run: no files were written")
	}

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to migrate %d series:", m.result.Failed)))
		for _, entry := range m.result.Entries {
			if entry.Err != nil {
				failed += fmt.Sprintf("\n  • %s: %v", entry.Entry.Title, entry.Err)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
