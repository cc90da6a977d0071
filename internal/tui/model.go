// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/hackblitz/internal/clearance"
	"github.com/verte-zerg/hackblitz/internal/game"
	"github.com/verte-zerg/hackblitz/internal/generator"
	"github.com/verte-zerg/hackblitz/internal/model"
	statsPkg "github.com/verte-zerg/hackblitz/internal/stats"
	"github.com/verte-zerg/hackblitz/internal/store"
)

const (
	defaultFPS    = 60
	defaultWidth  = 80
	defaultHeight = 24
	// Rows used by everything except the playfield.
	chromeRows = 7
)

// frameMsg is one display refresh for the session generation that requested it.
type frameMsg struct {
	gen uint64
	at  time.Time
}

// deferredMsg delivers a delayed engine action.
type deferredMsg struct {
	action game.Deferred
}

// Model implements the Bubble Tea game UI.
type Model struct {
	config model.Config
	store  *store.Store
	gen    *generator.Generator
	engine *game.Engine
	input  textinput.Model
	logger *zap.Logger
	now    func() time.Time

	weakNoticeLogged bool

	width  int
	height int

	startedAt time.Time

	lastScore int
	hasLast   bool
	bestScore int
	allXP     int
	runs      int

	// rank is lifetime clearance, including XP from scans, vaults and check-ins.
	rank     clearance.Level
	rankedUp bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	lockedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA3FF"))
	hitStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	projectileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA3FF")).Bold(true)
	breachLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C1F20"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	intelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Italic(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a game TUI model. The store may be nil, in which case runs are not recorded.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, vocab []game.Term, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type a threat word"
	input.CharLimit = 64
	input.Focus()

	m := &Model{
		config: cfg,
		store:  st,
		gen:    gen,
		input:  input,
		logger: logger,
		now:    time.Now,
		rank:   clearance.ForXP(0),
	}
	m.engine = game.NewEngine(game.DefaultRules(), vocab, gen, m.recordRun)
	m.loadFooterStats()
	if cfg.FocusWeak {
		m.refreshWeakSet()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)
		return m, nil
	case frameMsg:
		return m, m.handleFrame(msg)
	case deferredMsg:
		return m, m.schedule(m.engine.Resolve(msg.action))
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.handleEnter()
		}
		if m.engine.Phase() != game.PhasePlaying {
			return m, nil
		}
		return m, m.handleTyping(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.size()
	var content string
	switch m.engine.Phase() {
	case game.PhaseStart:
		content = m.renderStart(width)
	case game.PhaseLevelUp:
		content = m.renderLevelUp(width)
	case game.PhaseEnd:
		content = m.renderEnd(width)
	default:
		return m.renderPlaying(width, height)
	}
	footer := m.renderFooter()
	if height < 3 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) handleEnter() tea.Cmd {
	now := m.now()
	var err error
	switch m.engine.Phase() {
	case game.PhaseStart:
		if err = m.engine.Begin(now); err == nil {
			m.startedAt = now
		}
	case game.PhaseLevelUp:
		err = m.engine.Advance(now)
	case game.PhaseEnd:
		if err = m.engine.Restart(); err == nil {
			m.rankedUp = false
		}
	default:
		return nil
	}
	if err != nil {
		m.logger.Warn("transition rejected", zap.Error(err))
		return nil
	}
	m.input.Reset()
	if m.engine.Phase() != game.PhasePlaying {
		return nil
	}
	m.logger.Debug("session playing",
		zap.Int("level", m.engine.Session().Level),
		zap.Uint64("generation", m.engine.Generation()))
	return m.frameCmd()
}

func (m *Model) handleTyping(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if upper := game.Normalize(m.input.Value()); upper != m.input.Value() {
		m.input.SetValue(upper)
	}
	action, ok := m.engine.Input(m.input.Value())
	if !ok {
		return cmd
	}
	m.input.Reset()
	return tea.Batch(cmd, m.schedule([]game.Deferred{action}))
}

// handleFrame runs one engine tick. Frames from an older generation or outside play are
// dropped, which cancels the loop once the session leaves the playing phase.
func (m *Model) handleFrame(msg frameMsg) tea.Cmd {
	if msg.gen != m.engine.Generation() || m.engine.Phase() != game.PhasePlaying {
		return nil
	}
	report := m.engine.Tick(msg.at)
	if len(report.Breached) > 0 {
		m.logger.Debug("firewall breached", zap.Int("threats", len(report.Breached)), zap.Int("shield", m.engine.Session().Shield))
	}
	if m.engine.Phase() != game.PhasePlaying {
		return nil
	}
	return m.frameCmd()
}

func (m *Model) frameCmd() tea.Cmd {
	gen := m.engine.Generation()
	return tea.Tick(frameInterval(m.config.FPS), func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

func (m *Model) schedule(actions []game.Deferred) tea.Cmd {
	if len(actions) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(actions))
	for _, a := range actions {
		action := a
		cmds = append(cmds, tea.Tick(action.Delay, func(time.Time) tea.Msg {
			return deferredMsg{action: action}
		}))
	}
	return tea.Batch(cmds...)
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

func (m *Model) size() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func (m *Model) renderStart(width int) string {
	lines := []string{
		titleStyle.Render("HACKBLITZ"),
		"",
		"Threat words fall toward the firewall.",
		"Type a word exactly to fire a decryption packet at it.",
		"Every breach costs shield. Clear the sector objective to advance.",
		"",
		footerStyle.Render("Enter to deploy · Esc to quit"),
	}
	return lipgloss.NewStyle().Width(min(width, 72)).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderLevelUp(width int) string {
	s := m.engine.Session()
	rules := m.engine.Rules()
	lines := []string{
		titleStyle.Render(fmt.Sprintf("SECTOR %d SECURED", s.Level)),
		"",
		fmt.Sprintf("XP %d · Shield %d", s.Score, s.Shield),
	}
	if s.HasIntel {
		lines = append(lines, "", m.renderIntel(s.Intel, min(width, 72)))
	}
	lines = append(lines, "", footerStyle.Render(fmt.Sprintf("Enter to advance to sector %d (shield +%d)", s.Level+1, rules.ShieldRepair)))
	return lipgloss.NewStyle().Width(min(width, 72)).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderEnd(width int) string {
	s := m.engine.Session()
	lines := []string{
		incorrectStyle.Bold(true).Render("FIREWALL BREACHED"),
		"",
		fmt.Sprintf("Final XP %d", s.Score),
		fmt.Sprintf("Reached sector %d", s.Level),
		fmt.Sprintf("Decrypted %d · Breached %d", s.Decrypted, s.Breached),
		"",
	}
	if m.rankedUp {
		lines = append(lines, hitStyle.Render(fmt.Sprintf("RANK UP // CLEARANCE %d", m.rank.Rank)), "")
	}
	lines = append(lines, footerStyle.Render("Enter to return · Esc to quit"))
	return lipgloss.NewStyle().Width(min(width, 72)).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaying(width, height int) string {
	s := m.engine.Session()
	rules := m.engine.Rules()
	fieldRows := max(3, height-chromeRows)

	var b strings.Builder
	b.WriteString(renderHUD(s, rules, width))
	b.WriteString("\n")
	b.WriteString(renderField(s, rules, width, fieldRows))
	b.WriteString("\n")
	if s.HasIntel {
		b.WriteString(m.renderIntel(s.Intel, width))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter()))
	return b.String()
}

func (m *Model) renderIntel(intel game.Intel, width int) string {
	text := intel.Word + ": " + intel.Definition
	return wrapStyledRunes(plainRunes(text, intelStyle), width)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.engine != nil && m.engine.Phase() == game.PhasePlaying {
		s := m.engine.Session()
		segments = append(segments, fmt.Sprintf("Sector %d", s.Level))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d XP", m.lastScore))
	}
	segments = append(segments, fmt.Sprintf("Best %d XP", m.bestScore))
	segments = append(segments, fmt.Sprintf("All-time %d XP · %d runs", m.allXP, m.runs))
	segments = append(segments, m.rank.String())
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	total, err := m.store.TotalXP(context.Background())
	if err != nil {
		m.logger.Error("failed to load clearance", zap.Error(err))
	} else {
		m.rank = clearance.ForXP(total)
	}
	runs, err := m.store.ListRuns(context.Background(), model.StatsConfig{})
	if err != nil {
		m.logger.Error("failed to load run stats", zap.Error(err))
		return
	}
	if len(runs) == 0 {
		return
	}
	m.lastScore = runs[len(runs)-1].Score
	m.hasLast = true
	totals := statsPkg.Summarize(runs)
	m.bestScore = totals.BestScore
	m.allXP = totals.TotalXP
	m.runs = totals.Runs
}

// recordRun is the session-end callback.
func (m *Model) recordRun(score int) {
	s := m.engine.Session()
	endedAt := m.now()
	m.lastScore = score
	m.hasLast = true
	m.allXP += score
	m.runs++
	if score > m.bestScore {
		m.bestScore = score
	}
	before := m.rank
	m.rank = clearance.ForXP(before.Total + score)
	m.rankedUp = clearance.RankedUp(before, m.rank)
	if m.rankedUp {
		m.logger.Info("clearance raised", zap.Int("rank", m.rank.Rank))
	}
	m.logger.Info("session ended",
		zap.Int("score", score),
		zap.Int("level", s.Level),
		zap.Int("decrypted", s.Decrypted),
		zap.Int("breached", s.Breached))
	if m.store == nil {
		return
	}

	run := model.RunStats{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Score:      score,
		Level:      s.Level,
		Decrypted:  s.Decrypted,
		Breached:   s.Breached,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	words := make([]model.WordStats, 0, len(s.Tally))
	for word, tally := range s.Tally {
		words = append(words, model.WordStats{Word: word, Decrypted: tally.Decrypted, Breached: tally.Breached})
	}
	if _, err := m.store.InsertRun(context.Background(), run, words); err != nil {
		m.logger.Error("failed to save run", zap.Error(err))
	}
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil || m.gen == nil {
		return
	}
	aggs, err := m.store.GetWeakWords(context.Background(), m.config.WeakWindow)
	if err != nil {
		m.logger.Error("failed to load weak words", zap.Error(err))
		return
	}
	weak := statsPkg.SelectWeakWords(aggs, m.config.WeakTop)
	if len(weak) == 0 && !m.weakNoticeLogged {
		m.logger.Info("no breach history for weak-word focus yet; using uniform spawns")
		m.weakNoticeLogged = true
	}
	m.gen.SetWeak(weak, m.config.WeakFactor)
}
