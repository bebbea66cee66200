package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/pulse/internal/core/config"
	corekv "github.com/colonyops/pulse/internal/core/kv"
	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/internal/core/styles"
	"github.com/colonyops/pulse/pkg/timex"
)

// viewState tracks which overlay, if any, is on top of the browser.
type viewState int

const (
	stateNormal viewState = iota
	stateHelp
	stateHistory
)

const keyCtrlC = "ctrl+c"

// historyLoadedMsg carries persisted notification history for the
// history overlay.
type historyLoadedMsg struct {
	items []notify.Notification
	err   error
}

// Options configures the TUI host.
type Options struct {
	Config  *config.Config
	Center  *notify.Center
	KVStore corekv.KV // persistent store behind the browser (optional)
	Logger  zerolog.Logger
}

// Model is the main Bubble Tea model for the pulse host.
type Model struct {
	cfg      *config.Config
	center   *notify.Center
	kvStore  corekv.KV
	log      zerolog.Logger
	events   *EventBuffer
	toasts   *ToastView
	store    *StoreView
	resolver *KeybindingResolver

	state     viewState
	history   []notify.Notification
	helpCache string
	filterSeq int // bumps on every filter keystroke

	spinner spinner.Model
	loaded  bool // first key list has arrived

	width    int
	height   int
	quitting bool
}

// NewModel wires the host model to the notification center and the
// persistent store.
func NewModel(opts Options) Model {
	events := NewEventBuffer()
	opts.Center.Subscribe(events.Push)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	return Model{
		spinner:  s,
		cfg:      opts.Config,
		center:   opts.Center,
		kvStore:  opts.KVStore,
		log:      opts.Logger,
		events:   events,
		toasts:   NewToastView(opts.Center, opts.Config.Notifications.MaxToasts),
		store:    NewStoreView(),
		resolver: NewKeybindingResolver(opts.Config.Keybindings, opts.Logger),
	}
}

// Init starts the event pump and the store poll loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.events.WaitForSignal()}
	if m.kvStore != nil {
		cmds = append(cmds, m.loadStoreKeys(), scheduleStorePoll(), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles messages. A panic in any branch is downgraded to an
// error toast so one bad message cannot take down the host.
func (m Model) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("update loop panicked")
			m.center.Errorf("internal error, see log for details")
			model, cmd = m, nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.store.SetSize(msg.Width, max(msg.Height-1, 1))
		m.helpCache = ""
		return m, nil

	case notifyEventsMsg:
		for _, ev := range m.events.Drain() {
			m.log.Debug().
				Str("id", ev.Notification.ID).
				Int("transition", int(ev.Transition)).
				Msg("notification event")
		}
		// Draining re-renders; re-arm the pump for the next burst.
		return m, m.events.WaitForSignal()

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case storeKeysLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.center.Errorf("list keys: %s", msg.err)
			return m, nil
		}
		m.store.SetKeys(msg.keys)
		return m, m.loadStoreEntry(m.store.SelectedKey())

	case storeEntryLoadedMsg:
		if msg.err != nil {
			// The entry can expire between listing and fetch.
			m.store.SetPreview(nil)
			return m, nil
		}
		entry := msg.entry
		m.store.SetPreview(&entry)
		return m, nil

	case storePollTickMsg:
		return m, tea.Batch(m.loadStoreKeys(), scheduleStorePoll())

	case filterSettledMsg:
		// A later keystroke obsoletes this tick.
		if msg.seq != m.filterSeq {
			return m, nil
		}
		return m, m.loadStoreEntry(m.store.SelectedKey())

	case historyLoadedMsg:
		if msg.err != nil {
			m.center.Errorf("load history: %s", msg.err)
			return m, nil
		}
		m.history = msg.items
		m.state = stateHistory
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Overlays swallow input until closed.
	if m.state != stateNormal {
		switch key {
		case "esc", "q", "enter":
			m.state = stateNormal
		}
		return m, nil
	}

	if m.store.IsFiltering() {
		return m.handleFilterKey(key)
	}

	if command, ok := m.resolver.Resolve(key); ok {
		return m.runCommand(command)
	}

	return m.handleBrowseKey(key)
}

func (m Model) handleFilterKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		m.store.ConfirmFilter()
	case "esc":
		m.store.CancelFilter()
	case "backspace":
		m.store.BackspaceFilter()
	case "space":
		m.store.AppendFilter(" ")
	default:
		if len([]rune(key)) == 1 {
			m.store.AppendFilter(key)
		}
	}

	if !m.store.IsFiltering() {
		return m, m.loadStoreEntry(m.store.SelectedKey())
	}

	// Defer the preview fetch until typing pauses.
	m.filterSeq++
	return m, scheduleFilterSettle(m.cfg.UI.DebounceDelay.Std(), m.filterSeq)
}

func (m Model) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.store.MoveUp()
		return m, m.loadStoreEntry(m.store.SelectedKey())
	case "down", "j":
		m.store.MoveDown()
		return m, m.loadStoreEntry(m.store.SelectedKey())
	case "shift+up":
		m.store.ScrollPreviewUp()
	case "shift+down":
		m.store.ScrollPreviewDown()
	case "enter":
		return m, m.loadStoreEntry(m.store.SelectedKey())
	}
	return m, nil
}

func (m Model) runCommand(command string) (tea.Model, tea.Cmd) {
	switch command {
	case config.CommandQuit:
		m.quitting = true
		return m, tea.Quit

	case config.CommandHelp:
		if m.helpCache == "" {
			m.helpCache = renderHelp(m.resolver.Shortcuts(), m.width)
		}
		m.state = stateHelp
		return m, nil

	case config.CommandRefresh:
		return m, m.loadStoreKeys()

	case config.CommandFilter:
		m.store.StartFilter()
		return m, nil

	case config.CommandDismissToast:
		if id := m.toasts.NewestID(); id != "" {
			m.center.Remove(id)
		}
		return m, nil

	case config.CommandClearToasts:
		m.center.Clear()
		return m, nil

	case config.CommandNotifications:
		return m, m.loadHistory()
	}

	m.log.Warn().Str("command", command).Msg("unhandled command")
	return m, nil
}

func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		items, err := m.center.History()
		return historyLoadedMsg{items: items, err: err}
	}
}

// View renders the browser, then composites any overlay and the toast
// stack on top.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	main := m.renderHeader(w) + "\n" + m.renderContent()

	switch m.state {
	case stateHelp:
		main = overlayCenter(main, m.helpCache, w, h)
	case stateHistory:
		main = overlayCenter(main, m.renderHistory(), w, h)
	}

	return tea.NewView(m.toasts.Overlay(main, w, h))
}

func (m Model) renderHeader(width int) string {
	title := styles.CommandHeaderStyle.Render(styles.IconPulse + " pulse")
	hint := styles.TextMutedStyle.Render("? for help")
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(hint)-1, 1)
	return title + strings.Repeat(" ", gap) + hint
}

func (m Model) renderContent() string {
	if m.kvStore == nil {
		return styles.TextMutedStyle.Render("  no store configured")
	}
	if !m.loaded {
		return "  " + m.spinner.View() + " loading store"
	}
	return m.store.View()
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styles.OverlayTitleStyle.Render("Notifications"))
	b.WriteByte('\n')

	if len(m.history) == 0 {
		b.WriteString(styles.TextMutedStyle.Render("nothing yet"))
	}

	limit := min(len(m.history), 15)
	for _, n := range m.history[:limit] {
		icon := styles.TextMutedStyle.Render(styles.IconNotifyInfo)
		switch n.Kind {
		case notify.KindSuccess:
			icon = styles.TextSuccessStyle.Render(styles.IconNotifySuccess)
		case notify.KindWarning:
			icon = styles.TextWarningStyle.Render(styles.IconNotifyWarning)
		case notify.KindError:
			icon = styles.TextErrorStyle.Render(styles.IconNotifyError)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			icon,
			n.Message,
			styles.TextMutedStyle.Render(timex.RelTime(n.CreatedAt)),
		)
	}

	return styles.OverlayStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// overlayCenter composites overlay centered over background.
func overlayCenter(background, overlay string, width, height int) string {
	if overlay == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	ovLayer := lipgloss.NewLayer(overlay)

	x := max((width-lipgloss.Width(overlay))/2, 0)
	y := max((height-lipgloss.Height(overlay))/2, 0)
	ovLayer.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bgLayer, ovLayer).Render()
}
