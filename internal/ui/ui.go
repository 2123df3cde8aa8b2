// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-parallax/internal/logging"
	"github.com/litescript/ls-parallax/internal/render"
	"github.com/litescript/ls-parallax/internal/starfield"
	"github.com/litescript/ls-parallax/internal/state"
	"github.com/litescript/ls-parallax/internal/version"
)

// Lines used by the header and footer around the sky canvas.
const chromeLines = 4

// Msg types for Bubble Tea
type (
	// AnimTickMsg advances star lifecycles and redraws the sky.
	AnimTickMsg time.Time

	// snapshotSavedMsg reports the result of a PNG snapshot.
	snapshotSavedMsg struct {
		path string
		err  error
	}
)

// Options configures the terminal surface.
type Options struct {
	// FrameRate is the animation tick interval.
	FrameRate time.Duration
	// SnapshotPath is where the s key writes a PNG.
	SnapshotPath string
	// ScrollLines is how many canvas rows one scroll step moves.
	ScrollLines int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		FrameRate:    80 * time.Millisecond,
		SnapshotPath: "ls-parallax.png",
		ScrollLines:  3,
	}
}

// Model is the root Bubble Tea model. It is the starfield's rendering
// surface in the terminal: every field callback runs inside Update.
type Model struct {
	// Dependencies
	field  *starfield.Field
	clock  *LoopClock
	logger *logging.Logger
	opts   Options

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	sky      SkyViewModel
	snapshot state.Snapshot
}

// New creates the root UI model. The field must have been created with
// clock so its throttled recomputes are delivered through Update.
func New(field *starfield.Field, clock *LoopClock, opts Options, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultOptions().FrameRate
	}
	if opts.ScrollLines <= 0 {
		opts.ScrollLines = DefaultOptions().ScrollLines
	}
	return Model{
		field:  field,
		clock:  clock,
		logger: logger,
		opts:   opts,
		sky:    NewSkyViewModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		animTickCmd(m.opts.FrameRate),
		m.clock.Wait(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		_, cellHeight := m.cellSize()
		line := float64(m.opts.ScrollLines) * cellHeight
		page := m.field.Metrics().ViewportHeight

		switch msg.String() {
		case "q", "ctrl+c":
			m.field.Stop()
			return m, tea.Quit
		case "down", "j":
			m.field.ScrollBy(0, line)
		case "up", "k":
			m.field.ScrollBy(0, -line)
		case "pgdown", " ":
			m.field.ScrollBy(0, page)
		case "pgup":
			m.field.ScrollBy(0, -page)
		case "home", "g":
			m.field.ScrollTo(0, 0)
		case "end", "G":
			fm := m.field.Metrics()
			m.field.ScrollTo(0, fm.ContainerHeight)
		case "s":
			m.statusMsg = "Saving snapshot..."
			cmds = append(cmds, m.saveSnapshot())
		}
		m = m.refresh(m.clock.Now())

	case tea.MouseMsg:
		_, cellHeight := m.cellSize()
		line := float64(m.opts.ScrollLines) * cellHeight
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.field.ScrollBy(0, line)
		case tea.MouseButtonWheelUp:
			m.field.ScrollBy(0, -line)
		}
		m = m.refresh(m.clock.Now())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		canvasHeight := msg.Height - chromeLines
		if canvasHeight < 0 {
			canvasHeight = 0
		}
		m.sky = m.sky.SetSize(msg.Width, canvasHeight)
		w, h := m.sky.PixelSize()
		m.field.Resize(w, h)
		if !m.field.Started() {
			m.field.Start()
		}
		m = m.refresh(m.clock.Now())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd(m.opts.FrameRate))
		m.animTick++
		now := time.Time(msg)
		if m.field.Started() {
			m.field.Advance(now)
		}
		m = m.refresh(now)

	case timerFiredMsg:
		m.clock.Deliver(msg)
		cmds = append(cmds, m.clock.Wait())
		m = m.refresh(m.clock.Now())

	case snapshotSavedMsg:
		if msg.err != nil {
			m.logger.Error("snapshot failed: %v", msg.err)
			m.statusMsg = fmt.Sprintf("Snapshot failed: %v", msg.err)
		} else {
			m.logger.Info("snapshot written to %s", msg.path)
			m.statusMsg = "Snapshot saved to " + msg.path
		}
	}

	return m, tea.Batch(cmds...)
}

// refresh pulls the field's stars and counters into the view.
func (m Model) refresh(now time.Time) Model {
	m.sky = m.sky.UpdateData(m.field, now)
	m.snapshot = m.field.Snapshot()
	return m
}

func (m Model) cellSize() (w, h float64) {
	return m.sky.cellWidth, m.sky.cellHeight
}

// saveSnapshot captures the current frame and writes it off the loop.
func (m Model) saveSnapshot() tea.Cmd {
	frame := render.FrameOf(m.field)
	opts := render.DefaultOptions(m.field.Config().ScreenHeight)
	path := m.opts.SnapshotPath
	return func() tea.Msg {
		return snapshotSavedMsg{path: path, err: render.SavePNG(path, frame, opts)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.sky.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderTitle() + "\n" + m.renderStatusLine()
}

func (m Model) renderTitle() string {
	title := "✶ ls-parallax"
	runes := []rune(title)

	var b strings.Builder
	b.WriteString(" ")
	for col, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(col, len(runes))))
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s · parallax starfield", version.Version)))
	return b.String()
}

// Gradient stops: blue -> purple -> magenta -> pink
var gradientStops = []string{"#3B82F6", "#8B5CF6", "#D946EF", "#EC4899"}

// gradientColor returns a hex color for a column of a gradient text of the
// given width.
func gradientColor(col, width int) string {
	if width <= 1 {
		return gradientStops[0]
	}
	pos := float64(col) / float64(width-1) * float64(len(gradientStops)-1)
	i := int(pos)
	if i >= len(gradientStops)-1 {
		return gradientStops[len(gradientStops)-1]
	}
	a, _ := colorful.Hex(gradientStops[i])
	b, _ := colorful.Hex(gradientStops[i+1])
	return a.BlendLab(b, pos-float64(i)).Clamped().Hex()
}

func (m Model) renderStatusLine() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	snap := m.snapshot
	parts := []string{
		accentStyle.Render(fmt.Sprintf("%d stars", snap.Count)),
		dimStyle.Render(fmt.Sprintf("band %d..%d", snap.MinBand, snap.MaxBand)),
		dimStyle.Render(fmt.Sprintf("passes %d", snap.Passes)),
		dimStyle.Render(fmt.Sprintf("expired %d", snap.Expired)),
		dimStyle.Render("scroll " + scrollLabel(m.field.Metrics())),
	}

	line := " " + strings.Join(parts, dimStyle.Render(" | "))
	if events := formatEvents(tail(snap.Events, 3)); events != "" {
		line += dimStyle.Render(" | ") + dimStyle.Render(events)
	}
	return line
}

func tail(events []state.Event, n int) []state.Event {
	if len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}

// formatEvents renders events oldest first.
func formatEvents(events []state.Event) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		switch e.Type {
		case state.EventFill:
			parts = append(parts, fmt.Sprintf("+%d", e.Created))
		case state.EventSkipped:
			parts = append(parts, "skip")
		case state.EventRegion:
			parts = append(parts, "region")
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	help := dimStyle.Render("j/k: scroll | pgup/pgdn: page | g/G: top/bottom | s: snapshot | q: quit")
	footer := " " + accentStyle.Render(spinner) + "  " + help
	if m.statusMsg != "" {
		footer += "\n " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

func animTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
