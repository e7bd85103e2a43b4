// Package boardui provides the Bubble Tea leaderboard and achievements viewer.
package boardui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/stats"
)

const (
	tabOverview = iota
	tabAllTime
	tabWeekly
	tabAchievements
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#58CC02"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source supplies the community snapshot.
type Source interface {
	Data() model.CommunityData
}

// Model implements the Bubble Tea board UI.
type Model struct {
	src    Source
	report stats.Report
	data   model.CommunityData

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int
}

// NewModel constructs a board UI over src. report feeds the overview tab.
func NewModel(src Source, report stats.Report) *Model {
	m := &Model{
		src:      src,
		report:   report,
		tabs:     []string{"Overview", "All-time", "Weekly", "Achievements"},
		overview: viewport.New(0, 0),
		tables:   map[int]*table.Model{},
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.reload()
			return m, nil
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			if t, ok := m.tables[m.activeTab]; ok {
				next, cmd := t.Update(msg)
				*t = next
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) reload() {
	m.data = m.src.Data()
	m.tables[tabAllTime] = newTable(leaderboardData(m.data.Leaderboard, false))
	m.tables[tabWeekly] = newTable(leaderboardData(m.data.WeeklyRankings, true))
	m.tables[tabAchievements] = newTable(achievementData(m.data.Achievements))
	selectLearner(m.tables[tabAllTime], m.data.Leaderboard)
	selectLearner(m.tables[tabWeekly], m.data.WeeklyRankings)
	m.updateLayout()
	m.moveTab(0)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = width
	m.overview.Height = bodyHeight
	m.overview.SetContent(renderOverview(m.report, m.data, width))
	for _, t := range m.tables {
		t.SetWidth(width)
		t.SetHeight(maxInt(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	updated := "never"
	if !m.data.LastUpdated.IsZero() {
		updated = m.data.LastUpdated.Local().Format("2006-01-02 15:04")
	}
	summary := fmt.Sprintf("Rank #%d  Weekly #%d  Updated %s", m.report.Rank, m.report.WeeklyRank, updated)
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
}

func (m *Model) renderBody() string {
	t, ok := m.tables[m.activeTab]
	if !ok {
		return m.overview.View()
	}
	if len(t.Rows()) == 0 {
		return "No rankings yet. Complete a lesson first."
	}
	return tableMutedStyle.Render(t.View())
}

func renderOverview(r stats.Report, data model.CommunityData, width int) string {
	p := r.Progress
	cards := []string{
		metricCard("XP", strconv.Itoa(p.XP)),
		metricCard("Streak", strconv.Itoa(p.Streak)),
		metricCard("Hearts", stats.Hearts(p.Hearts, r.MaxHearts)),
		metricCard("Lessons", fmt.Sprintf("%d/%d", r.Completed, r.TotalLessons)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", r.Accuracy)),
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, cards...)}

	var buf bytes.Buffer
	if err := stats.RenderUnitChart(&buf, r.Units, stats.ChartOptions{Width: width, ForceColor: true}); err != nil {
		lines = append(lines, fmt.Sprintf("Failed to render units: %v", err))
	} else if buf.Len() > 0 {
		lines = append(lines, "", strings.TrimRight(buf.String(), "\n"))
	}

	var recent []string
	for _, a := range data.Achievements {
		if a.Unlocked() {
			recent = append(recent, a.Icon+" "+a.Title)
		}
	}
	if len(recent) > 0 {
		lines = append(lines, "", "Unlocked: "+strings.Join(recent, ", "))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func leaderboardData(entries []model.LeaderboardEntry, weekly bool) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Learner", Width: 18},
		{Title: "XP", Width: 6},
		{Title: "Weekly", Width: 7},
		{Title: "Streak", Width: 7},
		{Title: "Lessons", Width: 8},
	}
	if weekly {
		columns[2], columns[3] = columns[3], columns[2]
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Avatar + " " + e.Name)
		if e.IsCurrentUser {
			name += " (you)"
		}
		xp, weeklyXP := strconv.Itoa(e.XP), strconv.Itoa(e.WeeklyXP)
		if weekly {
			xp, weeklyXP = weeklyXP, xp
		}
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(e.Rank),
			name,
			xp,
			weeklyXP,
			strconv.Itoa(e.Streak),
			strconv.Itoa(e.TotalLessons),
		})
	}
	return columns, rows
}

func achievementData(achs []model.Achievement) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Achievement", Width: 16},
		{Title: "Description", Width: 30},
		{Title: "Progress", Width: 9},
		{Title: "", Width: 10},
		{Title: "Unlocked", Width: 10},
	}
	rows := make([]table.Row, 0, len(achs))
	for _, a := range achs {
		unlocked := "-"
		if a.Unlocked() {
			unlocked = a.UnlockedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			a.Icon,
			a.Title,
			a.Description,
			fmt.Sprintf("%d/%d", a.Progress, a.Target),
			stats.Bar(a.Progress, a.Target, 10),
			unlocked,
		})
	}
	return columns, rows
}

func newTable(columns []table.Column, rows []table.Row) *table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return &t
}

func selectLearner(t *table.Model, entries []model.LeaderboardEntry) {
	for i, e := range entries {
		if e.IsCurrentUser {
			t.SetCursor(i)
			return
		}
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#58CC02")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width > len(runes) {
		width = len(runes)
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
