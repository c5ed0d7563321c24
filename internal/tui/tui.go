// Package tui is the terminal front end. It renders engine snapshots and
// turns key presses into store operations; it holds no game rules itself.
package tui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/achievements"
	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/engine"
	"github.com/tatianab/student-sim/internal/legacy"
	"github.com/tatianab/student-sim/internal/models"
)

type screen int

const (
	screenName screen = iota
	screenDegree
	screenMajor
	screenBackground
	screenBuffs
	screenDashboard
	screenEvent
	screenGameOver
)

type panel int

const (
	panelActions panel = iota
	panelPeople
	panelShop
	panelGifts
	panelWeekend
	panelHousing
	panelRegion
	panelAssets
	numPanels
)

var panelNames = [numPanels]string{"Actions", "People", "Shop", "Gifts", "Weekend", "Housing", "Region", "Assets"}

func (p panel) String() string {
	return panelNames[p]
}

// Narrator adds optional prose. A nil Narrator disables it.
type Narrator interface {
	Flavor(ctx context.Context, snap *models.Snapshot, ev *models.GameEvent) (string, error)
	Epilogue(ctx context.Context, snap *models.Snapshot) (string, error)
}

// Deps are the services the UI drives. Only Store is required.
type Deps struct {
	Store        *engine.Store
	Legacy       *legacy.Keeper
	Achievements *achievements.Tracker
	Narrator     Narrator
	Log          logrus.FieldLogger
}

// inbox collects notices raised by subscribers between renders.
type inbox struct {
	mu   sync.Mutex
	msgs []string
}

func (b *inbox) push(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
}

func (b *inbox) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.msgs
	b.msgs = nil
	return out
}

type entry struct {
	id       string
	label    string
	detail   string
	disabled bool
}

type model struct {
	deps   Deps
	tables *content.Tables
	snap   *models.Snapshot

	screen screen
	panel  panel
	cursor int
	// npc is the person gifts go to, set by the people panel.
	npc int

	profile   models.Profile
	nameInput textinput.Model
	viewport  viewport.Model
	help      help.Model
	keys      keyMap
	notices   *inbox

	flash         string
	flavor        string
	flavorFor     string
	epilogue      string
	epilogueAsked bool
	width         int
	height        int
}

type flavorMsg struct {
	eventID string
	text    string
}

type epilogueMsg struct {
	text string
	err  error
}

// NewModel builds the UI. A store holding a live or finished run resumes
// it; otherwise the profile screens come first.
func NewModel(deps Deps) model {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 32

	notices := &inbox{}
	if deps.Achievements != nil {
		deps.Achievements.OnUnlock(func(a achievements.Achievement) {
			notices.push("Achievement unlocked: " + a.Title)
		})
	}

	m := model{
		deps:      deps,
		tables:    deps.Store.Tables(),
		nameInput: ti,
		viewport:  viewport.New(80, 8),
		help:      help.New(),
		keys:      defaultKeys(),
		notices:   notices,
	}

	m.snap = deps.Store.Snapshot()
	if m.snap.Phase.Active() || m.snap.GameOver {
		m.route()
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.screen == screenName {
		return textinput.Blink
	}
	return m.followUp()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height/4, 4)
		m.help.Width = msg.Width
		return m, nil

	case flavorMsg:
		if msg.text != "" && m.snap.CurrentEvent != nil && m.snap.CurrentEvent.ID == msg.eventID {
			m.flavor = msg.text
		}
		return m, nil

	case epilogueMsg:
		if msg.err != nil {
			m.deps.Log.WithError(msg.err).Warn("Failed to narrate epilogue")
			return m, nil
		}
		m.epilogue = msg.text
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if m.screen == screenName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenName:
		switch {
		case key.Matches(msg, m.keys.Select):
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				name = "Alex"
			}
			m.profile.Name = name
			m.goTo(screenDegree)
			return m, nil
		case key.Matches(msg, m.keys.Back):
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case screenDegree, screenMajor, screenBackground, screenBuffs:
		return m.handleSetup(msg)

	case screenDashboard:
		return m.handleDashboard(msg)

	case screenEvent:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.Select):
			ok := m.deps.Store.ResolveOptionIndex(m.cursor)
			cmd := m.afterAction(ok, "You can't take that option right now.")
			return m, cmd
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil

	case screenGameOver:
		switch {
		case key.Matches(msg, m.keys.Restart):
			m.deps.Store.ResetGame()
			m.save()
			m.snap = m.deps.Store.Snapshot()
			m.profile = models.Profile{}
			m.nameInput.Reset()
			m.epilogue, m.epilogueAsked, m.flash = "", false, ""
			m.goTo(screenName)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.entries()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Back):
		if m.screen == screenDegree {
			m.goTo(screenName)
		} else {
			m.goTo(m.screen - 1)
		}
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case m.screen == screenBuffs && key.Matches(msg, m.keys.Start):
		cmd := m.start()
		return m, cmd

	case key.Matches(msg, m.keys.Select):
		if len(entries) == 0 {
			return m, nil
		}
		id := entries[m.cursor].id
		switch m.screen {
		case screenDegree:
			m.profile.Degree = models.Degree(id)
			m.goTo(screenMajor)
		case screenMajor:
			m.profile.Major = models.Major(id)
			m.goTo(screenBackground)
		case screenBackground:
			m.profile.Background = models.Background(id)
			if m.deps.Legacy == nil {
				cmd := m.start()
				return m, cmd
			}
			m.goTo(screenBuffs)
		case screenBuffs:
			ok, err := m.deps.Legacy.ToggleBuff(id)
			if err != nil {
				m.deps.Log.WithError(err).Error("Failed to save legacy")
			}
			if !ok {
				m.flash = "Not enough legacy points."
			} else {
				m.flash = ""
			}
		}
	}
	return m, nil
}

func (m *model) start() tea.Cmd {
	var buffs []string
	if m.deps.Legacy != nil {
		buffs = m.deps.Legacy.ActiveBuffs()
	}
	ok := m.deps.Store.StartGame(m.profile, buffs...)
	return m.afterAction(ok, "Could not start with that profile.")
}

func (m model) handleDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.deps.Store
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.NextPanel):
		m.panel = (m.panel + 1) % numPanels
		m.cursor = 0
	case key.Matches(msg, m.keys.PrevPanel):
		m.panel = (m.panel + numPanels - 1) % numPanels
		m.cursor = 0
	case key.Matches(msg, m.keys.Advance):
		m.flavor = ""
		cmd := m.afterAction(store.AdvanceQuarter(), "Deal with the current event first.")
		return m, cmd

	case m.panel == panelPeople && key.Matches(msg, m.keys.Gift):
		cmd := m.interact(engine.InteractGift)
		return m, cmd
	case m.panel == panelPeople && key.Matches(msg, m.keys.Date):
		cmd := m.interact(engine.InteractDate)
		return m, cmd

	case key.Matches(msg, m.keys.Select):
		entries := m.entries()
		if len(entries) == 0 {
			return m, nil
		}
		e := entries[m.cursor]
		if e.disabled {
			m.flash = "Not available right now."
			return m, nil
		}
		switch m.panel {
		case panelActions:
			cmd := m.afterAction(store.Perform(e.id), "Not enough action points or money.")
			return m, cmd
		case panelPeople:
			cmd := m.interact(engine.InteractChat)
			return m, cmd
		case panelShop:
			cmd := m.afterAction(store.BuyItem(e.id), "You can't buy that right now.")
			return m, cmd
		case panelGifts:
			npcs := m.tables.NPCs()
			cmd := m.afterAction(store.GiveGift(npcs[m.npc].ID, e.id), "That gift can't be given.")
			return m, cmd
		case panelWeekend:
			cmd := m.afterAction(store.WeekendActivity(e.id), "Your weekend is already spoken for.")
			return m, cmd
		case panelHousing:
			cmd := m.afterAction(store.SetHousing(e.id), "You can't move there right now.")
			return m, cmd
		case panelRegion:
			cmd := m.afterAction(store.MoveRegion(e.id), "You can't afford the move.")
			return m, cmd
		case panelAssets:
			cmd := m.afterAction(store.BuyAsset(e.id), "You can't buy that.")
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) interact(kind engine.Interaction) tea.Cmd {
	npcs := m.tables.NPCs()
	if m.cursor >= len(npcs) {
		return nil
	}
	m.npc = m.cursor
	return m.afterAction(m.deps.Store.InteractWithNPC(npcs[m.cursor].ID, kind), "Not enough time or money for that.")
}

// afterAction saves, refreshes the snapshot and picks the next screen.
func (m *model) afterAction(ok bool, failure string) tea.Cmd {
	m.flash = ""
	if !ok {
		m.flash = failure
	}
	m.save()
	m.snap = m.deps.Store.Snapshot()
	if notes := m.notices.drain(); len(notes) > 0 {
		m.flash = strings.TrimSpace(m.flash + " " + strings.Join(notes, " "))
	}
	m.route()
	return m.followUp()
}

func (m *model) save() {
	err := m.deps.Store.Save(context.Background())
	if err != nil && !errors.Is(err, engine.ErrNoStorage) {
		m.deps.Log.WithError(err).Error("Failed to save run")
		m.flash = "Saving failed, see the log."
	}
}

// route moves to the screen that matches the snapshot.
func (m *model) route() {
	m.viewport.SetContent(strings.Join(m.snap.EventsLog, "\n"))
	m.viewport.GotoTop()

	next := screenDashboard
	switch {
	case m.snap.GameOver:
		next = screenGameOver
	case m.snap.CurrentEvent != nil:
		next = screenEvent
	case !m.snap.Phase.Active():
		next = screenName
	}
	if next != m.screen {
		m.goTo(next)
	}
	if n := len(m.entries()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// followUp returns the narrator call the current screen wants, if any.
func (m *model) followUp() tea.Cmd {
	n := m.deps.Narrator
	if n == nil {
		return nil
	}
	snap := m.snap
	switch m.screen {
	case screenEvent:
		ev := snap.CurrentEvent
		if m.flavorFor == ev.ID {
			return nil
		}
		m.flavorFor, m.flavor = ev.ID, ""
		log := m.deps.Log
		return func() tea.Msg {
			text, err := n.Flavor(context.Background(), snap, ev)
			if err != nil {
				log.WithError(err).WithField("event", ev.ID).Warn("Failed to narrate event")
			}
			return flavorMsg{eventID: ev.ID, text: text}
		}
	case screenGameOver:
		if m.epilogueAsked {
			return nil
		}
		m.epilogueAsked = true
		return func() tea.Msg {
			text, err := n.Epilogue(context.Background(), snap)
			return epilogueMsg{text: text, err: err}
		}
	}
	return nil
}

func (m *model) goTo(s screen) {
	m.screen = s
	m.cursor = 0
	if s == screenName {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
}

func (m *model) move(delta int) {
	n := len(m.entries())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

// Run starts the program and blocks until the player quits.
func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
