// Package tui provides the Bubble Tea lesson runner.
package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/M94KO/MrEdesPlayground/internal/exercise"
	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// Tracker is the progress surface the runner drives.
type Tracker interface {
	Progress() model.UserProgress
	MaxHearts() int
	LoseHeart() int
	RecordAnswer(correct bool, wordIDs ...string)
	CompleteLesson(lessonID string, xpReward int) bool
	CompletePracticeSession()
}

type phase int

const (
	phaseIntro phase = iota
	phaseQuestion
	phaseFeedback
	phaseDone
	phaseFailed
)

// Result summarises a finished run.
type Result struct {
	Completed       bool
	Failed          bool
	Quit            bool
	FirstCompletion bool
	Answered        int
	Correct         int
	XPReward        int
}

// Options configures a run.
type Options struct {
	// Practice runs the lesson without completing it and counts a practice session.
	Practice bool
	Logger   *zap.Logger
}

// Model implements the Bubble Tea lesson UI.
type Model struct {
	lesson   model.Lesson
	tracker  Tracker
	practice bool
	log      *zap.Logger

	steps []step
	index int
	phase phase

	input     []rune
	lastOK    bool
	lastGiven string
	filled    []string
	filledOK  []bool
	hearts    int
	failed    bool
	result    Result

	bar    progress.Model
	width  int
	height int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Copy().Underline(true)
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#58CC02")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B9D")).Bold(true)
	heartStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a lesson runner. Matching columns are shuffled with gen.
func NewModel(lesson model.Lesson, tracker Tracker, gen *exercise.Generator, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		lesson:   lesson,
		tracker:  tracker,
		practice: opts.Practice,
		log:      log,
		steps:    buildSteps(lesson.Exercises, gen),
		hearts:   tracker.Progress().Hearts,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.result.XPReward = lesson.XPReward
	switch {
	case m.hearts <= 0:
		m.phase = phaseFailed
		m.failed = true
		m.result.Failed = true
	case lesson.Introduction != nil:
		m.phase = phaseIntro
	default:
		m.phase = phaseQuestion
	}
	return m
}

// Result reports how the run ended.
func (m *Model) Result() Result {
	return m.result
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
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.quit()
		case tea.KeyEnter:
			return m, m.handleEnter()
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
			return m, nil
		case tea.KeySpace:
			return m, m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			return m, m.handleRunes(msg.Runes)
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) quit() tea.Cmd {
	if m.phase != phaseDone && m.phase != phaseFailed {
		m.result.Quit = true
	}
	return tea.Quit
}

func (m *Model) current() *step {
	if m.index < 0 || m.index >= len(m.steps) {
		return nil
	}
	return &m.steps[m.index]
}

func (m *Model) typing() bool {
	s := m.current()
	return m.phase == phaseQuestion && s != nil && len(s.options) == 0
}

func (m *Model) handleEnter() tea.Cmd {
	switch m.phase {
	case phaseIntro:
		m.phase = phaseQuestion
	case phaseQuestion:
		if m.typing() && strings.TrimSpace(string(m.input)) != "" {
			m.answer(string(m.input))
		}
	case phaseFeedback:
		m.advance()
	case phaseDone, phaseFailed:
		return tea.Quit
	}
	return nil
}

func (m *Model) handleBackspace() {
	if !m.typing() || len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	if m.typing() {
		m.input = append(m.input, runes...)
		return nil
	}
	if len(runes) != 1 {
		return nil
	}
	r := runes[0]
	if r == 'q' {
		return m.quit()
	}
	switch m.phase {
	case phaseQuestion:
		if !unicode.IsDigit(r) {
			return nil
		}
		choice := int(r - '1')
		if s := m.current(); s != nil && choice >= 0 && choice < len(s.options) {
			m.answer(s.options[choice])
		}
	case phaseFeedback, phaseIntro:
		if r == ' ' {
			return m.handleEnter()
		}
	}
	return nil
}

func (m *Model) answer(given string) {
	s := m.current()
	if s == nil {
		return
	}
	ok := s.check(given)
	m.lastOK = ok
	m.lastGiven = given
	m.result.Answered++
	if ok {
		m.result.Correct++
	}
	if s.wordID != "" {
		m.tracker.RecordAnswer(ok, s.wordID)
	} else {
		m.tracker.RecordAnswer(ok)
	}
	if s.story != nil && s.blank < len(s.story.Blanks) {
		m.filled = append(m.filled, given)
		m.filledOK = append(m.filledOK, ok)
	}
	if !ok && s.costHeart {
		m.hearts = m.tracker.LoseHeart()
		if m.hearts == 0 {
			m.failed = true
		}
	}
	m.input = nil
	m.phase = phaseFeedback
}

func (m *Model) advance() {
	if m.failed {
		m.phase = phaseFailed
		m.result.Failed = true
		m.log.Info("lesson failed", zap.String("lesson", m.lesson.ID), zap.Int("answered", m.result.Answered))
		return
	}
	prev := m.current()
	m.index++
	if next := m.current(); next == nil || prev == nil || next.exercise != prev.exercise {
		m.filled = nil
		m.filledOK = nil
	}
	if m.index >= len(m.steps) {
		m.finish()
		return
	}
	m.phase = phaseQuestion
}

func (m *Model) finish() {
	m.phase = phaseDone
	m.result.Completed = true
	if m.practice {
		m.tracker.CompletePracticeSession()
		return
	}
	m.result.FirstCompletion = m.tracker.CompleteLesson(m.lesson.ID, m.lesson.XPReward)
}

func (m *Model) percent() float64 {
	if len(m.steps) == 0 {
		return 0
	}
	done := m.index
	if m.phase == phaseFeedback {
		done++
	}
	if done > len(m.steps) {
		done = len(m.steps)
	}
	return float64(done) / float64(len(m.steps))
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := 60
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
	}
	if contentWidth < 1 {
		contentWidth = 1
	}
	m.bar.Width = contentWidth

	var body string
	switch m.phase {
	case phaseIntro:
		body = m.renderIntro(contentWidth)
	case phaseQuestion, phaseFeedback:
		body = m.renderStep(contentWidth)
	case phaseDone:
		body = m.renderDone()
	case phaseFailed:
		body = m.renderFailed()
	}
	header := titleStyle.Render(m.lesson.Title) + "\n" + m.bar.ViewAs(m.percent())
	content := lipgloss.NewStyle().Width(contentWidth).Render(header + "\n\n" + body)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderIntro(width int) string {
	intro := m.lesson.Introduction
	lines := []string{currentWordStyle.Render(intro.Title), "", wrapText(intro.Content, correctStyle, width)}
	if len(intro.Examples) > 0 {
		lines = append(lines, "")
	}
	for _, ex := range intro.Examples {
		line := fmt.Sprintf("%s  %s", ex.Target, ex.English)
		if ex.Pronunciation != "" {
			line += fmt.Sprintf(" (%s)", ex.Pronunciation)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", footerStyle.Render("enter: start lesson"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderStep(width int) string {
	s := m.current()
	if s == nil {
		return ""
	}
	var lines []string
	if s.story != nil {
		runes := buildStoryRunes(s.story.Text, m.filled, m.filledOK, s.blank)
		lines = append(lines, wrapStyledRunes(runes, width), "")
	}
	lines = append(lines, wrapText(s.prompt, correctStyle, width))
	if s.hint != "" {
		lines = append(lines, pendingStyle.Render("("+s.hint+")"))
	}
	lines = append(lines, "")
	for i, opt := range s.options {
		style := correctStyle
		if m.phase == phaseFeedback {
			switch {
			case opt == s.want:
				style = successStyle
			case opt == m.lastGiven:
				style = incorrectStyle
			default:
				style = pendingStyle
			}
		}
		lines = append(lines, style.Render(fmt.Sprintf("%d. %s", i+1, opt)))
	}
	if len(s.options) == 0 {
		lines = append(lines, "> "+string(m.input)+cursorStyle.Render(" "))
	}
	if m.phase == phaseFeedback {
		lines = append(lines, "", m.renderFeedback(s))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFeedback(s *step) string {
	if m.lastOK {
		return successStyle.Render("Correct!") + footerStyle.Render("  enter: continue")
	}
	msg := incorrectStyle.Render("Not quite. Answer: " + s.want)
	if ex := m.lesson.Exercises[s.exercise]; ex.Explanation != "" {
		msg += "\n" + pendingStyle.Render(ex.Explanation)
	}
	return msg + footerStyle.Render("  enter: continue")
}

func (m *Model) renderDone() string {
	lines := []string{successStyle.Render("Lesson complete!")}
	lines = append(lines, fmt.Sprintf("%d/%d correct", m.result.Correct, m.result.Answered))
	switch {
	case m.practice:
		lines = append(lines, "Practice session recorded.")
	case m.result.FirstCompletion:
		lines = append(lines, fmt.Sprintf("+%d XP", m.lesson.XPReward))
	default:
		lines = append(lines, "Lesson already completed. No extra XP.")
	}
	lines = append(lines, "", footerStyle.Render("enter: exit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFailed() string {
	lines := []string{
		incorrectStyle.Render("Out of hearts!"),
		"Refill your hearts and try again.",
		"",
		footerStyle.Render("enter: exit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	maxHearts := m.tracker.MaxHearts()
	hearts := m.hearts
	if hearts < 0 {
		hearts = 0
	}
	if hearts > maxHearts {
		hearts = maxHearts
	}
	segments := []string{
		heartStyle.Render(strings.Repeat("♥", hearts)) + footerStyle.Render(strings.Repeat("♡", maxHearts-hearts)),
		footerStyle.Render(fmt.Sprintf("Progress %d%%", int(m.percent()*100))),
		footerStyle.Render(fmt.Sprintf("+%d XP", m.lesson.XPReward)),
	}
	if m.practice {
		segments = append(segments, footerStyle.Render("practice"))
	}
	return strings.Join(segments, "  ")
}
