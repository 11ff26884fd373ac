// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/escalopa/quran-hifz/internal/application"
	"github.com/escalopa/quran-hifz/internal/domain"
	"github.com/escalopa/quran-hifz/internal/scoring"
	"github.com/escalopa/quran-hifz/internal/session"
	"github.com/escalopa/quran-hifz/internal/tokenizer"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	wordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	currentStyle = wordStyle.Underline(true)
	markStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	forgotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tajwidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5A623"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB3D5"))
)

const helpLine = "←/space next · → back · f forgot · t tajwid · u undo · e end · q quit"

type exportedMsg struct {
	files Exported
	err   error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	sess   *session.Session
	opts   application.SummaryOptions
	outDir string
	export func(dir string, snap *domain.SessionSnapshot, opts application.SummaryOptions) (Exported, error)
	width  int
	height int
	status string
	result *scoring.Result
	files  *Exported
}

// NewModel starts sess and wraps it for display. Finished sessions are
// exported to outDir.
func NewModel(sess *session.Session, opts application.SummaryOptions, outDir string) *Model {
	m := &Model{
		sess:   sess,
		opts:   opts,
		outDir: outDir,
		export: Export,
	}
	sess.Subscribe(m.onChange)
	sess.Start()
	return m
}

func (m *Model) onChange(c session.Change) {
	if c.VerseChanged && c.State == domain.SessionActive {
		if verse, ok := m.sess.CurrentVerse(); ok {
			m.status = fmt.Sprintf("%s %d:%d", verse.Chapter.EnglishName, verse.Chapter.Number, verse.LocalNumber)
		}
	}
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
	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
			return m, nil
		}
		m.files = &msg.files
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	}
	if m.sess.State() != domain.SessionActive {
		return m, nil
	}

	m.status = ""
	switch msg.String() {
	case "left", " ", "down", "enter":
		m.sess.AdvanceWord()
	case "right", "up", "backspace":
		m.sess.RetreatWord()
	case "f":
		m.mark(domain.MistakeForgot)
	case "t":
		m.mark(domain.MistakeTajwid)
	case "u":
		if !m.sess.UnmarkMistake() {
			m.status = "no mark on this word"
		}
	case "e":
		if _, ok := m.sess.End(); !ok {
			m.status = "reveal at least one word first"
		}
	}

	if m.sess.State() == domain.SessionEnded {
		return m, m.finish()
	}
	return m, nil
}

func (m *Model) mark(kind domain.MistakeKind) {
	if !m.sess.MarkMistake(kind) {
		m.status = "word already marked"
	}
}

func (m *Model) finish() tea.Cmd {
	stats, ok := m.sess.Stats()
	if !ok {
		return nil
	}
	result := scoring.Score(stats.TotalWords, stats.ForgotCount, stats.TajwidCount)
	m.result = &result

	snap := m.sess.Snapshot()
	return func() tea.Msg {
		files, err := m.export(m.outDir, snap, m.opts)
		return exportedMsg{files: files, err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.sess.State() {
	case domain.SessionEnded:
		body = m.renderSummary()
	case domain.SessionActive:
		body = m.renderVerse()
	default:
		body = "nothing to practice"
	}

	footer := footerStyle.Render(helpLine)
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	if m.width == 0 || m.height < 4 {
		return body + "\n\n" + footer
	}

	footerHeight := lipgloss.Height(footer)
	content := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, body)
	return content + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(int(float64(m.width)*0.7), 1)
}

func (m *Model) renderVerse() string {
	verse, ok := m.sess.CurrentVerse()
	if !ok {
		return ""
	}
	p := m.sess.Progress()

	var b strings.Builder
	header := fmt.Sprintf("%s %d:%d", verse.Chapter.EnglishName, verse.Chapter.Number, verse.LocalNumber)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	width := m.contentWidth()
	segs := buildSegments(m.sess.Revealed(), func(item tokenizer.DisplayItem) string {
		return m.styleItem(p.CurrentVerseIndex, p.CurrentWordIndex, item)
	})
	lines := wrapSegments(segs, width)
	block := lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(strings.Join(lines, "\n"))
	b.WriteString(block)

	if p.CurrentWordIndex == m.sess.WordCount(p.CurrentVerseIndex)-1 && verse.Translation != "" {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Width(width).Render(verse.Translation))
	}

	forgot, tajwid := session.CountKinds(m.sess.Mistakes())
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("words %d · forgot %d · tajwid %d", p.TotalWordsCounted, forgot, tajwid)))
	return b.String()
}

func (m *Model) styleItem(verseIndex, current int, item tokenizer.DisplayItem) string {
	if !item.IsWord() {
		return markStyle.Render(item.Raw)
	}
	if mistake, ok := m.sess.Mistake(verseIndex, item.LogicIndex); ok {
		if mistake.Kind == domain.MistakeTajwid {
			return tajwidStyle.Render(item.Raw)
		}
		return forgotStyle.Render(item.Raw)
	}
	if item.LogicIndex == current {
		return currentStyle.Render(item.Raw)
	}
	return wordStyle.Render(item.Raw)
}

func (m *Model) renderSummary() string {
	stats, ok := m.sess.Stats()
	if !ok || m.result == nil {
		return "session ended"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Session complete"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "score    %d\n", m.result.Score)
	fmt.Fprintf(&b, "accuracy %.2f%%\n", stats.Accuracy)
	fmt.Fprintf(&b, "rank     %s\n", m.result.Rank)
	fmt.Fprintf(&b, "words    %d\n", stats.TotalWords)
	fmt.Fprintf(&b, "forgot   %s\n", forgotStyle.Render(fmt.Sprint(stats.ForgotCount)))
	fmt.Fprintf(&b, "tajwid   %s\n", tajwidStyle.Render(fmt.Sprint(stats.TajwidCount)))

	if m.files != nil {
		b.WriteString("\n")
		if m.files.ImagePath != "" {
			b.WriteString(mutedStyle.Render("image " + m.files.ImagePath))
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render("stats " + m.files.StatsPath))
	}
	return b.String()
}

// Session returns the wrapped session
func (m *Model) Session() *session.Session {
	return m.sess
}
