package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/core"
	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/input"
	"github.com/wippyai/wasm96/video"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// Terminals report presses only, so a pressed key counts as held for a
// few frames.
const holdFrames = 8

type keyMap struct {
	Up, Down, Left, Right key.Binding
	A, B, X, Y            key.Binding
	Start, Select         key.Binding
	L1, R1                key.Binding
	Reset, ContextReset   key.Binding
	Quit                  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.A, k.B, k.Start, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.A, k.B, k.X, k.Y},
		{k.Start, k.Select, k.L1, k.R1},
		{k.Reset, k.ContextReset, k.Quit},
	}
}

var keys = keyMap{
	Up:           key.NewBinding(key.WithKeys("up"), key.WithHelp("←↑→↓", "d-pad")),
	Down:         key.NewBinding(key.WithKeys("down")),
	Left:         key.NewBinding(key.WithKeys("left")),
	Right:        key.NewBinding(key.WithKeys("right")),
	A:            key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "A")),
	B:            key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "B")),
	X:            key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "X")),
	Y:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Y")),
	Start:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
	Select:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
	L1:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "L1")),
	R1:           key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "R1")),
	Reset:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	ContextReset: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "lose 3D context")),
	Quit:         key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

var buttonKeys = []struct {
	binding key.Binding
	button  abi.Button
}{
	{keys.Up, abi.ButtonUp},
	{keys.Down, abi.ButtonDown},
	{keys.Left, abi.ButtonLeft},
	{keys.Right, abi.ButtonRight},
	{keys.A, abi.ButtonA},
	{keys.B, abi.ButtonB},
	{keys.X, abi.ButtonX},
	{keys.Y, abi.ButtonY},
	{keys.Start, abi.ButtonStart},
	{keys.Select, abi.ButtonSelect},
	{keys.L1, abi.ButtonL1},
	{keys.R1, abi.ButtonR1},
}

// terminal is the Frontend of an interactive session
type terminal struct {
	buttons map[abi.Button]int // frames left held
	keys    map[uint32]int
	mouseX  int32
	mouseY  int32
	mouse   uint32
	last    video.Frame
	samples int
	frames  int
}

func newTerminal() *terminal {
	return &terminal{buttons: make(map[abi.Button]int), keys: make(map[uint32]int)}
}

func (t *terminal) PollInput() input.Snapshot {
	var s input.Snapshot
	for b, n := range t.buttons {
		if n > 0 {
			s.Press(0, b)
		}
	}
	for code, n := range t.keys {
		if n > 0 {
			s.SetKey(code, true)
		}
	}
	s.MouseX, s.MouseY, s.MouseButtons = t.mouseX, t.mouseY, t.mouse
	return s
}

func (t *terminal) Present(f video.Frame) {
	t.last = f
	t.frames++
}

func (t *terminal) PlayAudio(samples []int16, _ uint32) {
	t.samples += len(samples)
}

// decay ages held keys by one frame
func (t *terminal) decay() {
	for b, n := range t.buttons {
		if n <= 1 {
			delete(t.buttons, b)
			continue
		}
		t.buttons[b] = n - 1
	}
	for c, n := range t.keys {
		if n <= 1 {
			delete(t.keys, c)
			continue
		}
		t.keys[c] = n - 1
	}
}

// press records a key message as joypad and keyboard input
func (t *terminal) press(msg tea.KeyMsg) {
	for _, bk := range buttonKeys {
		if key.Matches(msg, bk.binding) {
			t.buttons[bk.button] = holdFrames
		}
	}
	if code, ok := keyCode(msg); ok {
		t.keys[code] = holdFrames
	}
}

// keyCode maps a key message to the code seen by is_key_down: the
// Unicode code point for printable keys, ASCII control codes otherwise.
func keyCode(msg tea.KeyMsg) (uint32, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return uint32(msg.Runes[0]), true
		}
	case tea.KeySpace:
		return ' ', true
	case tea.KeyEnter:
		return '\r', true
	case tea.KeyTab:
		return '\t', true
	case tea.KeyBackspace:
		return 0x08, true
	}
	return 0, false
}

type frameMsg struct{}

type model struct {
	rt       *core.Runtime
	term     *terminal
	limiter  *rate.Limiter
	help     help.Model
	name     string
	err      error
	width    int
	height   int
	scale    float64
	quitting bool
}

func newModel(rt *core.Runtime, name string, fps int) *model {
	m := &model{
		rt:      rt,
		term:    newTerminal(),
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1),
		help:    help.New(),
		name:    name,
		width:   80,
		height:  24,
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return m.tick()
}

// tick waits for the next frame slot
func (m *model) tick() tea.Cmd {
	return func() tea.Msg {
		_ = m.limiter.Wait(context.Background())
		return frameMsg{}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Reset):
			m.rt.Reset()
		case key.Matches(msg, keys.ContextReset):
			m.rt.ContextDestroy()
			if err := m.rt.ContextReset(); err != nil {
				m.err = err
			}
		default:
			m.term.press(msg)
		}

	case tea.MouseMsg:
		m.mouse(msg)

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		if err := m.rt.RunFrame(context.Background(), m.term); err != nil {
			m.err = err
		}
		m.term.decay()
		return m, m.tick()
	}
	return m, nil
}

func (m *model) mouse(msg tea.MouseMsg) {
	if m.scale <= 0 {
		return
	}
	m.term.mouseX = int32(float64(msg.X) / m.scale)
	m.term.mouseY = int32(float64(msg.Y*2) / m.scale)
	var bit uint32
	switch msg.Button {
	case tea.MouseButtonLeft:
		bit = 1 << 0
	case tea.MouseButtonRight:
		bit = 1 << 1
	case tea.MouseButtonMiddle:
		bit = 1 << 2
	default:
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.term.mouse |= bit
	case tea.MouseActionRelease:
		m.term.mouse &^= bit
	}
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("wasm96"))
	b.WriteString(" ")
	b.WriteString(m.name)
	b.WriteString("\n")

	f := m.term.last
	if f.Width == 0 {
		b.WriteString("starting...\n")
		return b.String()
	}
	rows := max(m.height-3, 1)
	var picture string
	picture, m.scale = halfBlocks(f, m.width, rows)
	b.WriteString(picture)

	status := fmt.Sprintf("frame %d  %dx%d  audio %d samples", m.term.frames, f.Width, f.Height, m.term.samples)
	b.WriteString(statusStyle.Render(status))
	if m.err != nil {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

// halfBlocks renders the frame into at most cols×rows cells, two pixels
// per cell stacked vertically. It returns the text and the pixel scale.
func halfBlocks(f video.Frame, cols, rows int) (string, float64) {
	scale := min(float64(cols)/float64(f.Width), float64(rows*2)/float64(f.Height))
	gw := max(int(float64(f.Width)*scale), 1)
	gh := max(int(float64(f.Height)*scale), 2)
	sample := func(gx, gy int) uint32 {
		return f.At(gx*f.Width/gw, gy*f.Height/gh)
	}

	var b strings.Builder
	for cy := 0; cy < gh/2; cy++ {
		run := 0
		var fg, bg uint32
		flush := func() {
			if run == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(fg))).
				Background(lipgloss.Color(hexColor(bg)))
			b.WriteString(style.Render(strings.Repeat("▀", run)))
			run = 0
		}
		for gx := 0; gx < gw; gx++ {
			top, bottom := sample(gx, cy*2), sample(gx, cy*2+1)
			if run > 0 && (top != fg || bottom != bg) {
				flush()
			}
			fg, bg = top, bottom
			run++
		}
		flush()
		b.WriteString("\n")
	}
	return b.String(), scale
}

func hexColor(p uint32) string {
	return fmt.Sprintf("#%06X", p&0xFFFFFF)
}

func runInteractive(rt *core.Runtime, name string, fps int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.Unsupported(errors.PhaseConfig, "interactive mode without a terminal")
	}
	p := tea.NewProgram(newModel(rt, name, fps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
