package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/student-sim/internal/achievements"
	"github.com/tatianab/student-sim/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
	flashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#888888"))
	activeTab     = tabStyle.Foreground(lipgloss.Color("#FFA500")).Bold(true)
)

var backgrounds = []entry{
	{id: string(models.BackgroundWealthy), label: "Wealthy", detail: "Family money behind you."},
	{id: string(models.BackgroundMiddle), label: "Middle class", detail: "Enough to get started."},
	{id: string(models.BackgroundWorking), label: "Working class", detail: "You arrive with a loan to pay off."},
}

// entries lists what the cursor moves over on the current screen.
func (m *model) entries() []entry {
	t := m.tables
	s := m.snap
	var out []entry

	switch m.screen {
	case screenDegree:
		for _, d := range t.Degrees() {
			out = append(out, entry{id: string(d.ID), label: d.Label, detail: fmt.Sprintf("%d years, $%d a year. %s", d.DurationYears, d.CostPerYear, d.Description)})
		}
	case screenMajor:
		for _, mj := range t.Majors() {
			out = append(out, entry{id: string(mj.ID), label: mj.Label, detail: mj.Modifiers.String()})
		}
	case screenBackground:
		out = backgrounds
	case screenBuffs:
		ledger := m.deps.Legacy.Ledger()
		for _, b := range t.Buffs() {
			label := b.Name
			if ledger.Active(b.ID) {
				label = "[x] " + label
			} else {
				label = "[ ] " + label
			}
			out = append(out, entry{id: b.ID, label: label, detail: fmt.Sprintf("%d points. %s", b.Cost, b.Description)})
		}
	case screenEvent:
		if s.CurrentEvent == nil {
			return nil
		}
		for i, o := range s.CurrentEvent.Options {
			detail := o.Description
			if !o.Cost.IsZero() {
				detail = strings.TrimSpace(costLabel(o.Cost) + ". " + detail)
			}
			if len(o.Requires) > 0 {
				detail += " Requires " + o.Requires.String() + "."
			}
			out = append(out, entry{id: fmt.Sprint(i), label: o.Label, detail: detail})
		}
	case screenDashboard:
		out = m.panelEntries()
	}
	return out
}

func (m *model) panelEntries() []entry {
	t := m.tables
	s := m.snap
	var out []entry

	switch m.panel {
	case panelActions:
		for _, a := range t.Actions() {
			if len(a.Phases) > 0 && !slices.Contains(a.Phases, s.Phase) {
				continue
			}
			e := entry{id: a.ID, label: a.Label, detail: costLabel(a.Cost)}
			if a.RequiresAsset != "" && !s.HasAsset(a.RequiresAsset) {
				e.disabled = true
				e.detail += " (needs " + a.RequiresAsset + ")"
			}
			out = append(out, e)
		}
	case panelPeople:
		for _, n := range t.NPCs() {
			out = append(out, entry{id: n.ID, label: fmt.Sprintf("%s, %s", n.Name, n.Title), detail: fmt.Sprintf("relationship %d", s.NPCRelations[n.ID])})
		}
	case panelShop:
		for _, it := range t.Items() {
			e := entry{id: it.ID, label: fmt.Sprintf("%s $%d", it.Name, it.Price), detail: it.Description}
			if it.Category == models.ItemConsumable && s.CoffeeConsumed >= t.Balance.CoffeeLimit {
				e.disabled = true
			}
			out = append(out, e)
		}
	case panelGifts:
		npcs := t.NPCs()
		to := ""
		if m.npc < len(npcs) {
			to = npcs[m.npc].Name
		}
		for _, id := range s.Inventory {
			it, _ := t.Item(id)
			out = append(out, entry{id: id, label: it.Name, detail: "give to " + to})
		}
	case panelWeekend:
		for _, w := range t.WeekendActivities() {
			out = append(out, entry{id: w.ID, label: w.Title, detail: fmt.Sprintf("$%d. %s", w.Money, w.Description), disabled: s.WeekendTaken})
		}
	case panelHousing:
		for _, h := range t.HousingList() {
			label := h.Label
			if h.ID == s.Housing {
				label += " (current)"
			}
			out = append(out, entry{id: h.ID, label: label, detail: fmt.Sprintf("$%d a quarter here. %s", t.Rent(h.ID, s.Region), h.Description), disabled: h.ID == s.Housing})
		}
	case panelRegion:
		for _, r := range t.Regions() {
			label := r.Label
			if r.ID == s.Region {
				label += " (current)"
			}
			out = append(out, entry{id: r.ID, label: label, detail: r.Description, disabled: r.ID == s.Region})
		}
	case panelAssets:
		for _, a := range t.Assets() {
			owned := s.HasAsset(a.ID)
			label := fmt.Sprintf("%s $%d", a.Label, a.Price)
			if owned {
				label = a.Label + " (owned)"
			}
			out = append(out, entry{id: a.ID, label: label, detail: a.Effects.String(), disabled: owned})
		}
	}
	return out
}

func costLabel(c models.Cost) string {
	var parts []string
	if c.AP != 0 {
		parts = append(parts, fmt.Sprintf("%d AP", c.AP))
	}
	if c.Money != 0 {
		parts = append(parts, fmt.Sprintf("$%d", c.Money))
	}
	if c.Sanity != 0 {
		parts = append(parts, fmt.Sprintf("%d sanity", c.Sanity))
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, ", ")
}

func (m model) View() string {
	var body string
	var keys bindings

	switch m.screen {
	case screenName:
		body = fmt.Sprintf("%s\n\n%s\n\n%s",
			titleStyle.Render("Welcome to Australia"),
			"Four years, one visa and a lot of rent. What's your name?",
			m.nameInput.View())
		keys = bindings{m.keys.Select, m.keys.Back}

	case screenDegree, screenMajor, screenBackground, screenBuffs:
		titles := map[screen]string{
			screenDegree:     "Choose your degree",
			screenMajor:      "Choose your major",
			screenBackground: "Where do you come from?",
			screenBuffs:      "Legacy buffs",
		}
		body = titleStyle.Render(titles[m.screen]) + "\n\n"
		if m.screen == screenBuffs {
			body += fmt.Sprintf("Legacy points: %d\n\n", m.deps.Legacy.Ledger().Points)
		}
		body += m.renderList(m.entries())
		keys = bindings{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Back}
		if m.screen == screenBuffs {
			keys = append(keys, m.keys.Start)
		}

	case screenDashboard:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			m.renderTabs(),
			lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(m.renderList(m.entries())), m.renderStats()),
			titleStyle.Render("LOG"),
			m.viewport.View(),
		)
		keys = bindings{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.NextPanel, m.keys.Advance, m.keys.Quit}
		if m.panel == panelPeople {
			keys = append(keys, m.keys.Gift, m.keys.Date)
		}

	case screenEvent:
		ev := m.snap.CurrentEvent
		text := ev.Description
		if m.flavor != "" {
			text += "\n\n" + detailStyle.Render(m.flavor)
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			panelStyle.Render(titleStyle.Render(ev.Title)+"\n\n"+text+"\n\n"+m.renderList(m.entries())),
			m.renderStats(),
		)
		keys = bindings{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Quit}

	case screenGameOver:
		body = m.renderGameOver()
		keys = bindings{m.keys.Restart, m.keys.Quit}
	}

	if m.flash != "" {
		body += "\n" + flashStyle.Render(m.flash)
	}
	return "\n" + body + "\n\n" + m.help.View(keys) + "\n"
}

func (m model) renderList(entries []entry) string {
	if len(entries) == 0 {
		return detailStyle.Render("(nothing here)")
	}
	var b strings.Builder
	for i, e := range entries {
		line := "  " + e.label
		switch {
		case i == m.cursor:
			line = selectedStyle.Render("> " + e.label)
		case e.disabled:
			line = disabledStyle.Render(line)
		}
		b.WriteString(line + "\n")
		if i == m.cursor && e.detail != "" {
			b.WriteString("    " + detailStyle.Render(e.detail) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderHeader() string {
	s := m.snap
	return headerStyle.Render(fmt.Sprintf("%s | Year %d, Q%d | %s | Visa %s, %d days",
		s.Profile.Name, s.Clock.Year, s.Clock.Quarter, s.Phase, s.Visa.Subclass, s.Visa.ExpiryDays))
}

func (m model) renderTabs() string {
	tabs := make([]string, 0, numPanels)
	for p := range numPanels {
		if p == m.panel {
			tabs = append(tabs, activeTab.Render(p.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(p.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) renderStats() string {
	s := m.snap
	st := s.Stats
	housing, region := s.Housing, s.Region
	if h, ok := m.tables.Housing(s.Housing); ok {
		housing = h.Label
	}
	if r, ok := m.tables.Region(s.Region); ok {
		region = r.Label
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("STATS") + "\n")
	fmt.Fprintf(&b, "Money: $%d\nSanity: %d\nWAM: %d\nAP: %d/%d\n", st.Money, st.Sanity, st.WAM, s.Clock.ActionPoints, s.Clock.MaxActionPoints)
	fmt.Fprintf(&b, "PR points: %d\nEnglish: %d\nNetwork: %d\nExperience: %d\n", st.PRScore, st.English, st.Network, st.Experience)
	fmt.Fprintf(&b, "Coding: %d\nHealth: %d\nIntelligence: %d\nAge: %d\n\n", st.Coding, st.Health, st.Intelligence, st.Age)
	b.WriteString(titleStyle.Render("HOME") + "\n")
	fmt.Fprintf(&b, "%s in %s\nRent $%d a quarter\n", housing, region, m.tables.Rent(s.Housing, s.Region))
	return statsStyle.Render(b.String())
}

func (m model) renderGameOver() string {
	s := m.snap
	title, desc := string(s.Ending), ""
	if e, ok := m.tables.Ending(s.Ending); ok {
		title, desc = e.Title, e.Description
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME OVER: "+title) + "\n\n")
	b.WriteString(desc + "\n")
	if s.GameOverReason != "" && s.GameOverReason != desc {
		b.WriteString(s.GameOverReason + "\n")
	}
	fmt.Fprintf(&b, "\n%s lasted %d quarters and left with $%d, WAM %d and %d PR points.\n",
		s.Profile.Name, s.Clock.TotalQuarters, s.Stats.Money, s.Stats.WAM, s.Stats.PRScore)

	if m.epilogue != "" {
		b.WriteString("\n" + detailStyle.Render(m.epilogue) + "\n")
	}
	if m.deps.Legacy != nil {
		fmt.Fprintf(&b, "\nLegacy points: %d\n", m.deps.Legacy.Ledger().Points)
	}
	if m.deps.Achievements != nil {
		var got []string
		for _, id := range m.deps.Achievements.Unlocked() {
			if a, ok := achievements.Lookup(id); ok {
				got = append(got, a.Title)
			}
		}
		if len(got) > 0 {
			b.WriteString("Achievements: " + strings.Join(got, ", ") + "\n")
		}
	}
	return panelStyle.Render(b.String())
}
